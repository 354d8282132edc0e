// Package dbusgen generates Go type declarations for the arguments of
// described DBus methods.
package dbusgen

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"go/format"
	"reflect"
	"slices"
	"strings"
	"unicode"

	"github.com/danderson/dbusarg"
	"github.com/danderson/dbusarg/wire"
)

type generator struct {
	out   bytes.Buffer
	iface *dbusarg.InterfaceDescription
}

// Interfaces returns the source of a Go file in package pkg,
// declaring request and response struct types for every method of
// ifaces.
//
// Field types are those produced by [wire.Native] for the argument
// signatures.
func Interfaces(pkg string, ifaces []*dbusarg.InterfaceDescription) (string, error) {
	if len(ifaces) == 0 {
		return "", errors.New("no interface provided")
	}
	var body bytes.Buffer
	for _, iface := range ifaces {
		g := generator{iface: iface}
		if err := g.Interface(); err != nil {
			return "", fmt.Errorf("interface %s: %w", iface.Name, err)
		}
		body.Write(g.out.Bytes())
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "// Code generated by dbusarg gen. DO NOT EDIT.\n\npackage %s\n\n", pkg)
	if bytes.Contains(body.Bytes(), []byte("wire.")) {
		out.WriteString("import \"github.com/danderson/dbusarg/wire\"\n\n")
	}
	out.Write(body.Bytes())

	ret, err := format.Source(out.Bytes())
	if err != nil {
		return out.String(), err
	}
	return string(ret), nil
}

func (g *generator) f(msg string, args ...any) {
	fmt.Fprintf(&g.out, msg, args...)
}

func (g *generator) Interface() error {
	methods := slices.SortedFunc(slices.Values(g.iface.Methods), func(a, b *dbusarg.MethodDescription) int {
		return cmp.Compare(a.Name, b.Name)
	})
	for _, m := range methods {
		if err := g.Method(m); err != nil {
			return fmt.Errorf("method %s: %w", m.Name, err)
		}
	}
	return nil
}

func (g *generator) Method(m *dbusarg.MethodDescription) error {
	mname := publicIdentifier(m.Name)
	if len(m.In) > 0 {
		st, err := asStruct(m.In)
		if err != nil {
			return err
		}
		g.f("\n// %sRequest holds the input arguments of %s.%s.\n", mname, g.iface.Name, m.Name)
		g.deprecation(m)
		g.f("type %sRequest %s\n", mname, st)
	}
	if len(m.Out) > 0 && !m.NoReply {
		st, err := asStruct(m.Out)
		if err != nil {
			return err
		}
		g.f("\n// %sResponse holds the output arguments of %s.%s.\n", mname, g.iface.Name, m.Name)
		g.deprecation(m)
		g.f("type %sResponse %s\n", mname, st)
	}
	return nil
}

func (g *generator) deprecation(m *dbusarg.MethodDescription) {
	if m.Deprecated {
		g.f("//\n// Deprecated: %s.%s is deprecated.\n", g.iface.Name, m.Name)
	}
}

func argName(n int, arg dbusarg.ArgumentDescription) string {
	name := arg.Name
	if name == "" {
		name = fmt.Sprintf("arg%d", n)
	}
	return identifier(strings.ReplaceAll(name, "-", "_"))
}

func identifier(s string) string {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	fs := strings.Split(s, "_")
	for i := range fs {
		if i == 0 {
			fst := true
			fs[i] = strings.Map(func(r rune) rune {
				if fst {
					fst = false
					return unicode.ToLower(r)
				}
				return r
			}, fs[i])
		} else {
			switch fs[i] {
			case "id":
				fs[i] = "ID"
			case "fd":
				fs[i] = "FD"
			default:
				fs[i] = strings.Title(fs[i])
			}
		}
	}
	return strings.Join(fs, "")
}

func publicIdentifier(s string) string {
	return strings.Title(identifier(s))
}

// asStruct returns the Go source of a struct type with one field per
// argument.
func asStruct(args []dbusarg.ArgumentDescription) (string, error) {
	var ret strings.Builder
	ret.WriteString("struct {\n")
	seen := map[string]bool{}
	for i, a := range args {
		t, err := wire.TypeOf(a.Type.String())
		if err != nil {
			return "", fmt.Errorf("arg %d: %w", i, err)
		}
		name := publicIdentifier(argName(i, a))
		if seen[name] {
			name = fmt.Sprintf("%s%d", name, i)
		}
		seen[name] = true
		fmt.Fprintf(&ret, "%s %s // %s\n", name, goType(t), a.Type)
	}
	ret.WriteString("}")
	return ret.String(), nil
}

// goType returns the Go source form of t.
func goType(t reflect.Type) string {
	if t.Kind() == reflect.Interface && t.NumMethod() == 0 {
		return "any"
	}
	switch t.Kind() {
	case reflect.Slice:
		return "[]" + goType(t.Elem())
	case reflect.Map:
		return fmt.Sprintf("map[%s]%s", goType(t.Key()), goType(t.Elem()))
	case reflect.Struct:
		var ret strings.Builder
		ret.WriteString("struct {")
		for i := range t.NumField() {
			if i > 0 {
				ret.WriteByte(';')
			}
			f := t.Field(i)
			fmt.Fprintf(&ret, " %s %s", f.Name, goType(f.Type))
		}
		ret.WriteString(" }")
		return ret.String()
	}
	return t.String()
}
