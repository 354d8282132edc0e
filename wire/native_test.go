package wire_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/danderson/dbusarg/wire"
	"github.com/google/go-cmp/cmp"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		in   string
		want reflect.Type
	}{
		{"y", reflect.TypeFor[byte]()},
		{"b", reflect.TypeFor[bool]()},
		{"n", reflect.TypeFor[int16]()},
		{"q", reflect.TypeFor[uint16]()},
		{"i", reflect.TypeFor[int32]()},
		{"u", reflect.TypeFor[uint32]()},
		{"x", reflect.TypeFor[int64]()},
		{"t", reflect.TypeFor[uint64]()},
		{"d", reflect.TypeFor[float64]()},
		{"s", reflect.TypeFor[string]()},
		{"g", reflect.TypeFor[wire.Signature]()},
		{"o", reflect.TypeFor[wire.ObjectPath]()},
		{"h", reflect.TypeFor[wire.FD]()},
		{"v", reflect.TypeFor[any]()},
		{"as", reflect.TypeFor[[]string]()},
		{"ay", reflect.TypeFor[[]byte]()},
		{"aas", reflect.TypeFor[[][]string]()},
		{"a{sx}", reflect.TypeFor[map[string]int64]()},
		{"a{sv}", reflect.TypeFor[map[string]any]()},
		{"(nb)", reflect.TypeFor[struct {
			Field0 int16
			Field1 bool
		}]()},
		{"a(y(nb))", reflect.TypeFor[[]struct {
			Field0 uint8
			Field1 struct {
				Field0 int16
				Field1 bool
			}
		}]()},
		{strings.Repeat("a", 32) + "i", reflect.TypeFor[[][][][][][][][][][][][][][][][][][][][][][][][][][][][][][][][][]int32]()},
		{"a{o(sv)}", reflect.TypeFor[map[wire.ObjectPath]struct {
			Field0 string
			Field1 any
		}]()},
	}

	for _, tc := range tests {
		got, err := wire.TypeOf(tc.in)
		if err != nil {
			t.Errorf("TypeOf(%q) got err: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("TypeOf(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	bad := []string{
		"", "z", "(i", "a", "a{si", "a{asi}", "ii",
		"()",
		"a{(i)i}",
		"a{vi}",
		"a{}",
		strings.Repeat("a", 33) + "i",
		strings.Repeat("(", 33) + "i" + strings.Repeat(")", 33),
		"(" + strings.Repeat("i", 254) + ")",
	}
	for _, in := range bad {
		if got, err := wire.TypeOf(in); err == nil {
			t.Errorf("TypeOf(%q) = %v, want error", in, got)
		}
	}
}

func TestNative(t *testing.T) {
	tests := []struct {
		name string
		in   wire.Arg
		want any
	}{
		{"bool", wire.Bool(true), true},
		{"byte", wire.Byte(7), uint8(7)},
		{"int16", wire.Int16(-1), int16(-1)},
		{"uint64", wire.Uint64(1), uint64(1)},
		{"double", wire.Double(0.5), float64(0.5)},
		{"string", wire.String("x"), "x"},
		{"object path", wire.ObjectPath("/a"), wire.ObjectPath("/a")},
		{"signature", wire.Signature("as"), wire.Signature("as")},
		{"fd", wire.FD(3), wire.FD(3)},
		{"struct", wire.Struct{wire.Int32(8), wire.String("some@string")}, struct {
			Field0 int32
			Field1 string
		}{8, "some@string"}},
		{"array", wire.Array{Elem: "y", Elems: []wire.Arg{wire.Byte(1), wire.Byte(2)}}, []byte{1, 2}},
		{"empty array", wire.Array{Elem: "s"}, []string{}},
		{"array of arrays", wire.Array{
			Elem:  "ai",
			Elems: []wire.Arg{wire.Array{Elem: "i", Elems: []wire.Arg{wire.Int32(1)}}},
		}, [][]int32{{1}}},
		{"dict", wire.Dict{
			Key:   "s",
			Value: "v",
			Entries: []wire.Entry{
				{Key: wire.String("a"), Value: wire.Variant{Value: wire.Int32(1)}},
				{Key: wire.String("b"), Value: wire.Variant{Value: wire.Array{Elem: "s"}}},
			},
		}, map[string]any{"a": int32(1), "b": []string{}}},
		{"variant", wire.Variant{Value: wire.String("x")}, "x"},
		{"struct with variant", wire.Struct{wire.Variant{Value: wire.Uint32(1)}}, struct{ Field0 any }{uint32(1)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := wire.Native(tc.in)
			if err != nil {
				t.Fatalf("Native(%#v) got err: %v", tc.in, err)
			}
			if diff := cmp.Diff(got, tc.want); diff != "" {
				t.Errorf("Native(%#v) diff (-got+want):\n%s", tc.in, diff)
			}

			// Native values have the type TypeOf predicts.
			if _, isVariant := tc.in.(wire.Variant); isVariant {
				return
			}
			wantType, err := wire.TypeOf(tc.in.Signature())
			if err != nil {
				t.Fatalf("TypeOf(%q) got err: %v", tc.in.Signature(), err)
			}
			if gotType := reflect.TypeOf(got); gotType != wantType {
				t.Errorf("Native(%#v) has type %v, want %v", tc.in, gotType, wantType)
			}
		})
	}
}

func TestNativeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   wire.Arg
	}{
		{"nil", nil},
		{"array element mismatch", wire.Array{Elem: "s", Elems: []wire.Arg{wire.Int32(1)}}},
		{"array nil element", wire.Array{Elem: "s", Elems: []wire.Arg{nil}}},
		{"dict key mismatch", wire.Dict{
			Key:     "s",
			Value:   "i",
			Entries: []wire.Entry{{Key: wire.Int32(1), Value: wire.Int32(1)}},
		}},
		{"dict value mismatch", wire.Dict{
			Key:     "s",
			Value:   "i",
			Entries: []wire.Entry{{Key: wire.String("a"), Value: wire.String("b")}},
		}},
		{"bad array signature", wire.Array{Elem: "z"}},
		{"duplicate dict key", wire.Dict{
			Key:   "s",
			Value: "i",
			Entries: []wire.Entry{
				{Key: wire.String("a"), Value: wire.Int32(1)},
				{Key: wire.String("a"), Value: wire.Int32(2)},
			},
		}},
		{"empty variant", wire.Variant{}},
		{"struct nil field", wire.Struct{wire.Int32(1), nil}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got, err := wire.Native(tc.in); err == nil {
				t.Errorf("Native(%#v) = %v, want error", tc.in, got)
			}
		})
	}
}

func TestSignatures(t *testing.T) {
	tests := []struct {
		in   wire.Arg
		want string
	}{
		{wire.Struct{wire.String("a"), wire.Array{Elem: "v"}}, "(sav)"},
		{wire.Dict{Key: "s", Value: "a{sv}"}, "a{sa{sv}}"},
		{wire.Variant{Value: wire.Int64(1)}, "v"},
		{wire.FD(1), "h"},
	}
	for _, tc := range tests {
		if got := tc.in.Signature(); got != tc.want {
			t.Errorf("%#v.Signature() = %q, want %q", tc.in, got, tc.want)
		}
	}
}
