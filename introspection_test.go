package dbusarg

import (
	"errors"
	"strings"
	"testing"

	"github.com/danderson/dbusarg/wire"
	"github.com/google/go-cmp/cmp"
)

const shellExtensions = `
[[interface]]
name = "org.gnome.Shell.Extensions"

[[interface.method]]
name = "ListExtensions"
args = [
  { name = "extensions", type = "a{sa{sv}}", direction = "out" },
]

[[interface.method]]
name = "EnableExtension"
args = [
  { name = "uuid", type = "s", direction = "in" },
  { name = "success", type = "b", direction = "out" },
]

[[interface.method]]
name = "LaunchExtensionPrefs"
deprecated = true
noreply = true
args = [
  { name = "uuid", type = "s" },
  { name = "page-name", type = "s" },
  { name = "options", type = "a{sv}" },
]
`

func TestReadInterfaces(t *testing.T) {
	got, err := ReadInterfaces(strings.NewReader(shellExtensions))
	if err != nil {
		t.Fatalf("ReadInterfaces got err: %v", err)
	}
	want := []*InterfaceDescription{
		{
			Name: "org.gnome.Shell.Extensions",
			Methods: []*MethodDescription{
				{
					Name: "ListExtensions",
					Out:  []ArgumentDescription{{"extensions", MustParseSignature("a{sa{sv}}")}},
				},
				{
					Name: "EnableExtension",
					In:   []ArgumentDescription{{"uuid", MustParseSignature("s")}},
					Out:  []ArgumentDescription{{"success", MustParseSignature("b")}},
				},
				{
					Name: "LaunchExtensionPrefs",
					In: []ArgumentDescription{
						{"uuid", MustParseSignature("s")},
						{"page-name", MustParseSignature("s")},
						{"options", MustParseSignature("a{sv}")},
					},
					Deprecated: true,
					NoReply:    true,
				},
			},
		},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("ReadInterfaces diff (-got+want):\n%s", diff)
	}

	wantStr := `interface org.gnome.Shell.Extensions {
  func EnableExtension(uuid s) (success b)
  func LaunchExtensionPrefs(uuid s, page_name s, options a{sv}) [deprecated,noreply]
  func ListExtensions() (extensions a{sa{sv}})
}`
	if diff := cmp.Diff(got[0].String(), wantStr); diff != "" {
		t.Errorf("String() diff (-got+want):\n%s", diff)
	}

	if m := got[0].Method("EnableExtension"); m == nil || m.Name != "EnableExtension" {
		t.Errorf("Method(EnableExtension) = %v, want EnableExtension", m)
	}
	if m := got[0].Method("Missing"); m != nil {
		t.Errorf("Method(Missing) = %v, want nil", m)
	}
}

func TestReadInterfacesErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not toml", `[[interface`},
		{"unknown key", `
[[interface]]
name = "a.b"
color = "blue"
`},
		{"unknown method key", `
[[interface]]
name = "a.b"
[[interface.method]]
name = "M"
returns = "s"
`},
		{"missing interface name", `
[[interface]]
[[interface.method]]
name = "M"
`},
		{"missing method name", `
[[interface]]
name = "a.b"
[[interface.method]]
args = [{ type = "s" }]
`},
		{"bad direction", `
[[interface]]
name = "a.b"
[[interface.method]]
name = "M"
args = [{ type = "s", direction = "sideways" }]
`},
		{"bad type", `
[[interface]]
name = "a.b"
[[interface.method]]
name = "M"
args = [{ type = "a{vs}" }]
`},
		{"empty type", `
[[interface]]
name = "a.b"
[[interface.method]]
name = "M"
args = [{ name = "x" }]
`},
		{"several types", `
[[interface]]
name = "a.b"
[[interface.method]]
name = "M"
args = [{ type = "si" }]
`},
		{"duplicate method", `
[[interface]]
name = "a.b"
[[interface.method]]
name = "M"
[[interface.method]]
name = "M"
`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadInterfaces(strings.NewReader(tc.in))
			if err == nil {
				t.Fatalf("ReadInterfaces succeeded with %v, want error", got)
			}
		})
	}
}

func TestNewMethodErrors(t *testing.T) {
	_, err := NewMethod("M", []Param{{Name: "x", Type: "a{(i)s}"}})
	var derr *DescriptionError
	if !errors.As(err, &derr) {
		t.Fatalf("NewMethod got err %v, want *DescriptionError", err)
	}
	if derr.Name != "M" {
		t.Errorf("DescriptionError.Name = %q, want %q", derr.Name, "M")
	}
	var serr *SignatureError
	if !errors.As(err, &serr) {
		t.Errorf("NewMethod error %v does not wrap a *SignatureError", err)
	}
}

func TestInSignature(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"s"}, "s"},
		{[]string{"(si)"}, "(si)"},
		{[]string{"s", "a{sv}"}, "(sa{sv})"},
	}
	for _, tc := range tests {
		var params []Param
		for _, typ := range tc.in {
			params = append(params, Param{Type: typ})
		}
		params = append(params, Param{Name: "ignored", Type: "x", Direction: "out"})
		m, err := NewMethod("M", params)
		if err != nil {
			t.Fatalf("NewMethod(%v) got err: %v", tc.in, err)
		}
		got, err := m.InSignature()
		if err != nil {
			t.Fatalf("InSignature(%v) got err: %v", tc.in, err)
		}
		if got.String() != tc.want {
			t.Errorf("InSignature(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEncodeArgs(t *testing.T) {
	ifaces, err := ReadInterfaces(strings.NewReader(shellExtensions))
	if err != nil {
		t.Fatalf("ReadInterfaces got err: %v", err)
	}
	iface := ifaces[0]

	tests := []struct {
		method, val string
		want        []wire.Arg
	}{
		{"ListExtensions", "", nil},
		{"EnableExtension", `"dash-to-dock@micxgx.gmail.com"`, []wire.Arg{
			wire.String("dash-to-dock@micxgx.gmail.com"),
		}},
		{"LaunchExtensionPrefs", `(foo@bar, "", {"x": 1})`, []wire.Arg{
			wire.String("foo@bar"),
			wire.String(""),
			wire.Dict{
				Key:     "s",
				Value:   "v",
				Entries: []wire.Entry{{Key: wire.String("x"), Value: wire.Variant{Value: wire.Int32(1)}}},
			},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.method, func(t *testing.T) {
			m := iface.Method(tc.method)
			got, err := m.EncodeArgs(MustParseValue(tc.val))
			if err != nil {
				t.Fatalf("EncodeArgs(%s) got err: %v", tc.val, err)
			}
			if diff := cmp.Diff(got, tc.want); diff != "" {
				t.Errorf("EncodeArgs(%s) diff (-got+want):\n%s", tc.val, diff)
			}
		})
	}

	bad := []struct {
		method, val string
	}{
		{"ListExtensions", "1"},
		{"EnableExtension", ""},
		{"EnableExtension", "1"},
		{"LaunchExtensionPrefs", `("a", "b")`},
		{"LaunchExtensionPrefs", `"a"`},
	}
	for _, tc := range bad {
		m := iface.Method(tc.method)
		got, err := m.EncodeArgs(MustParseValue(tc.val))
		if err == nil {
			t.Errorf("%s.EncodeArgs(%s) = %v, want error", tc.method, tc.val, got)
			continue
		}
		var verr *ValueError
		if !errors.As(err, &verr) {
			t.Errorf("%s.EncodeArgs(%s) got err %v, want a *ValueError", tc.method, tc.val, err)
		}
	}
}
