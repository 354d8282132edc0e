package dbusarg

import (
	"errors"
	"testing"

	"github.com/danderson/dbusarg/wire"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		sig, val string
		want     wire.Arg
	}{
		{"", "", nil},
		{"b", "true", wire.Bool(true)},
		{"y", "ffy", wire.Byte(255)},
		{"n", "-16n", wire.Int16(-16)},
		{"i", "42", wire.Int32(42)},
		{"x", "3x", wire.Int64(3)},
		{"q", "16q", wire.Uint16(16)},
		{"u", "7u", wire.Uint32(7)},
		{"t", "3t", wire.Uint64(3)},
		{"d", "-1.9d", wire.Double(-1.9)},
		{"s", "hello", wire.String("hello")},
		{"o", "/org/freedesktop/DBus", wire.ObjectPath("/org/freedesktop/DBus")},
		{"g", `"a{sv}"`, wire.Signature("a{sv}")},
		{"h", "3u", wire.FD(3)},
		{"(is)", `(8i, "some@string")`, wire.Struct{wire.Int32(8), wire.String("some@string")}},
		{"(si)", `("some@string", 8i)`, wire.Struct{wire.String("some@string"), wire.Int32(8)}},
		{"si", `(x, 8)`, wire.Struct{wire.String("x"), wire.Int32(8)}},
		{"as", "[]", wire.Array{Elem: "s"}},
		{"ay", "[ffy, 0y]", wire.Array{Elem: "y", Elems: []wire.Arg{wire.Byte(255), wire.Byte(0)}}},
		{"a(si)", "[(a, 1)]", wire.Array{
			Elem:  "(si)",
			Elems: []wire.Arg{wire.Struct{wire.String("a"), wire.Int32(1)}},
		}},
		{"a{si}", `{"key": 4}`, wire.Dict{
			Key:     "s",
			Value:   "i",
			Entries: []wire.Entry{{Key: wire.String("key"), Value: wire.Int32(4)}},
		}},
		{"a{si}", `["a", 1, "b", 2]`, wire.Dict{
			Key:   "s",
			Value: "i",
			Entries: []wire.Entry{
				{Key: wire.String("a"), Value: wire.Int32(1)},
				{Key: wire.String("b"), Value: wire.Int32(2)},
			},
		}},
		{"a{sv}", `{"volume": <d: 0.5d>, "n": 3}`, wire.Dict{
			Key:   "s",
			Value: "v",
			Entries: []wire.Entry{
				{Key: wire.String("volume"), Value: wire.Variant{Value: wire.Double(0.5)}},
				{Key: wire.String("n"), Value: wire.Variant{Value: wire.Int32(3)}},
			},
		}},
		{"v", "[1, 2]", wire.Variant{Value: wire.Array{Elem: "i", Elems: []wire.Arg{wire.Int32(1), wire.Int32(2)}}}},
		{"v", "<as: []>", wire.Variant{Value: wire.Array{Elem: "s"}}},
		{"v", "<v: <o: /a>>", wire.Variant{Value: wire.Variant{Value: wire.ObjectPath("/a")}}},
	}

	for _, tc := range tests {
		t.Run(tc.sig+" "+tc.val, func(t *testing.T) {
			got, err := Marshal(tc.sig, tc.val)
			if err != nil {
				t.Fatalf("Marshal(%q, %s) got err: %v", tc.sig, tc.val, err)
			}
			if diff := cmp.Diff(got, tc.want, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("Marshal(%q, %s) diff (-got+want):\n%s", tc.sig, tc.val, diff)
			}
			if got == nil {
				return
			}

			wantSig := MustParseSignature(tc.sig).String()
			if gotSig := got.Signature(); gotSig != wantSig {
				t.Errorf("Marshal(%q, %s).Signature() = %q, want %q", tc.sig, tc.val, gotSig, wantSig)
			}
		})
	}
}

func TestEncodeIdempotent(t *testing.T) {
	sig := MustParseSignature("a{sv}")
	val := MustParseValue(`{"a": [1, 2], "b": <(si): (x, 1)>}`)
	valid, err := NewArgument(sig, val).Validate()
	if err != nil {
		t.Fatalf("Validate got err: %v", err)
	}
	first, err := valid.Encode()
	if err != nil {
		t.Fatalf("first Encode got err: %v", err)
	}
	second, err := valid.Encode()
	if err != nil {
		t.Fatalf("second Encode got err: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Encode is not idempotent (-first+second):\n%s", diff)
	}
}

func TestMarshalErrors(t *testing.T) {
	_, err := Marshal("a{vs}", "{}")
	var serr *SignatureError
	if !errors.As(err, &serr) {
		t.Errorf("Marshal with invalid signature got err %v, want *SignatureError", err)
	}

	_, err = Marshal("i", "[1")
	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		t.Errorf("Marshal with invalid literal got err %v, want *SyntaxError", err)
	}
	if errors.As(err, &serr) {
		t.Errorf("Marshal with invalid literal got a *SignatureError: %v", err)
	}

	_, err = Marshal("ai", `[1, "x"]`)
	var verr *ValueError
	if !errors.As(err, &verr) {
		t.Fatalf("Marshal with mismatched value got err %v, want *ValueError", err)
	}
	if diff := cmp.Diff(verr.Path, []string{"element 1"}); diff != "" {
		t.Errorf("wrong error path (-got+want):\n%s", diff)
	}
}

func TestEncodeMismatch(t *testing.T) {
	// encode reports mismatches even if called without validation.
	tests := []struct {
		t Type
		v Value
	}{
		{TypeInt32, StringLit("x")},
		{StructType{[]Type{TypeString}}, ArrayLit{}},
		{ArrayType{TypeString}, ArrayLit{Int32Lit(1)}},
		{DictType{TypeString, TypeInt32}, ArrayLit{StringLit("a")}},
		{VariantType{}, nil},
		{UnitType{}, Int32Lit(1)},
	}
	for _, tc := range tests {
		if got, err := encode(tc.t, tc.v); err == nil {
			t.Errorf("encode(%q, %s) = %v, want error", tc.t, literalString(tc.v), got)
		}
	}
}
