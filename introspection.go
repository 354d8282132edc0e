package dbusarg

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danderson/dbusarg/wire"
)

// A Param is a method parameter as described by a DBus peer: a name,
// a type signature and a direction ("in", "out", or empty for "in").
type Param struct {
	Name      string `toml:"name"`
	Type      string `toml:"type"`
	Direction string `toml:"direction"`
}

// InterfaceDescription describes a DBus interface.
//
// Interface descriptions are provided by the DBus peer offering the
// interface, and may not accurately reflect the actual exposed API.
type InterfaceDescription struct {
	Name    string
	Methods []*MethodDescription
}

func (d InterfaceDescription) String() string {
	var ret strings.Builder
	fmt.Fprintf(&ret, "interface %s {\n", d.Name)

	methods := slices.SortedFunc(slices.Values(d.Methods), func(a, b *MethodDescription) int {
		return cmp.Compare(a.Name, b.Name)
	})
	for _, m := range methods {
		fmt.Fprintf(&ret, "  %s\n", m)
	}
	ret.WriteString("}")
	return ret.String()
}

// Method returns the method with the given name, or nil if d has no
// such method.
func (d *InterfaceDescription) Method(name string) *MethodDescription {
	for _, m := range d.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// MethodDescription describes a DBus method.
//
// Method descriptions are provided by the DBus peer offering the
// method, and may not accurately reflect the actual exposed API.
type MethodDescription struct {
	Name string
	In   []ArgumentDescription
	Out  []ArgumentDescription
	// Deprecated, if true, indicates that the method should be
	// avoided in new code.
	Deprecated bool
	// If true, NoReply indicates that the caller should not wait
	// for a reply.
	NoReply bool
}

// NewMethod returns the description of a method with the given
// parameters, in declaration order.
func NewMethod(name string, params []Param) (*MethodDescription, error) {
	if name == "" {
		return nil, descErr("method", "missing method name")
	}
	ret := &MethodDescription{Name: name}
	for i, p := range params {
		sig, err := ParseSignature(p.Type)
		if err != nil {
			return nil, &DescriptionError{name, fmt.Errorf("arg %d (%s): %w", i, p.Name, err)}
		}
		if sig.IsZero() {
			return nil, descErr(name, "arg %d (%s) has an empty type", i, p.Name)
		}
		if sig.String() != p.Type {
			return nil, descErr(name, "arg %d (%s) type %q is more than one complete type", i, p.Name, p.Type)
		}
		ad := ArgumentDescription{
			Name: p.Name,
			Type: sig,
		}
		switch p.Direction {
		case "", "in":
			ret.In = append(ret.In, ad)
		case "out":
			ret.Out = append(ret.Out, ad)
		default:
			return nil, descErr(name, "arg %d (%s) has unknown direction %q", i, p.Name, p.Direction)
		}
	}
	return ret, nil
}

func (m MethodDescription) String() string {
	var ret strings.Builder
	ret.WriteString("func ")
	ret.WriteString(m.Name)
	ret.WriteByte('(')
	writeArgs(&ret, m.In)
	ret.WriteByte(')')

	if len(m.Out) > 0 {
		ret.WriteString(" (")
		writeArgs(&ret, m.Out)
		ret.WriteByte(')')
	}
	switch {
	case m.Deprecated && m.NoReply:
		ret.WriteString(" [deprecated,noreply]")
	case m.Deprecated:
		ret.WriteString(" [deprecated]")
	case m.NoReply:
		ret.WriteString(" [noreply]")
	}
	return ret.String()
}

func writeArgs(w *strings.Builder, args []ArgumentDescription) {
	for i, arg := range args {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(arg.String())
	}
}

// InSignature returns the signature of the method's input arguments
// taken together: the zero Signature if there are none, the
// argument's own signature if there is one, or a struct of all of
// them otherwise.
func (m *MethodDescription) InSignature() (Signature, error) {
	var sig strings.Builder
	for _, a := range m.In {
		sig.WriteString(a.Type.String())
	}
	ret, err := ParseSignature(sig.String())
	if err != nil {
		return Signature{}, &DescriptionError{m.Name, err}
	}
	return ret, nil
}

// EncodeArgs validates v against the method's input arguments and
// returns the encoded message body, one wire.Arg per input argument.
//
// A method with several input arguments takes a struct literal with
// one field per argument. A method with no input arguments takes the
// nil Value.
func (m *MethodDescription) EncodeArgs(v Value) ([]wire.Arg, error) {
	sig, err := m.InSignature()
	if err != nil {
		return nil, err
	}
	arg, err := Encode(sig, v)
	if err != nil {
		return nil, fmt.Errorf("arguments of %s: %w", m.Name, err)
	}
	switch len(m.In) {
	case 0:
		return nil, nil
	case 1:
		return []wire.Arg{arg}, nil
	}
	body, ok := arg.(wire.Struct)
	if !ok {
		return nil, descErr(m.Name, "encoded arguments have signature %q, want a struct", arg.Signature())
	}
	return body, nil
}

// ArgumentDescription describes a DBus method's input or output.
type ArgumentDescription struct {
	Name string // optional
	Type Signature
}

func (a ArgumentDescription) String() string {
	if a.Name != "" {
		// Older interfaces use arg-name style naming. Show the more
		// common arg_name style instead, names are not
		// load-bearing.
		n := strings.ReplaceAll(a.Name, "-", "_")
		return fmt.Sprintf("%s %s", n, a.Type)
	}
	return a.Type.String()
}

// ReadInterfaces reads interface descriptions in TOML format from r.
//
// The expected layout is:
//
//	[[interface]]
//	name = "org.gnome.Shell.Extensions"
//
//	[[interface.method]]
//	name = "EnableExtension"
//	args = [
//	  { name = "uuid", type = "s", direction = "in" },
//	  { name = "success", type = "b", direction = "out" },
//	]
//
// Methods also accept optional "deprecated" and "noreply" booleans.
// Unknown keys are an error.
func ReadInterfaces(r io.Reader) ([]*InterfaceDescription, error) {
	var raw struct {
		Interfaces []struct {
			Name    string `toml:"name"`
			Methods []struct {
				Name       string  `toml:"name"`
				Args       []Param `toml:"args"`
				Deprecated bool    `toml:"deprecated"`
				NoReply    bool    `toml:"noreply"`
			} `toml:"method"`
		} `toml:"interface"`
	}
	md, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("decoding interface descriptions: %w", err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, fmt.Errorf("decoding interface descriptions: unknown key %q", keys[0].String())
	}

	var ret []*InterfaceDescription
	for i, rawIface := range raw.Interfaces {
		if rawIface.Name == "" {
			return nil, descErr(fmt.Sprintf("interface %d", i), "missing interface name")
		}
		iface := &InterfaceDescription{Name: rawIface.Name}
		for _, rawMethod := range rawIface.Methods {
			m, err := NewMethod(rawMethod.Name, rawMethod.Args)
			if err != nil {
				return nil, fmt.Errorf("interface %s: %w", iface.Name, err)
			}
			if iface.Method(m.Name) != nil {
				return nil, descErr(iface.Name, "duplicate method %s", m.Name)
			}
			m.Deprecated = rawMethod.Deprecated
			m.NoReply = rawMethod.NoReply
			iface.Methods = append(iface.Methods, m)
		}
		ret = append(ret, iface)
	}
	return ret, nil
}
