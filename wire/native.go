package wire

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// strToType maps the DBus type signature identifier of a basic type
// or variant to the Go type Native uses for it.
var strToType = map[byte]reflect.Type{
	'b': reflect.TypeFor[bool](),
	'y': reflect.TypeFor[uint8](),
	'n': reflect.TypeFor[int16](),
	'q': reflect.TypeFor[uint16](),
	'i': reflect.TypeFor[int32](),
	'u': reflect.TypeFor[uint32](),
	'x': reflect.TypeFor[int64](),
	't': reflect.TypeFor[uint64](),
	'd': reflect.TypeFor[float64](),
	's': reflect.TypeFor[string](),
	'v': reflect.TypeFor[any](),
	'g': reflect.TypeFor[Signature](),
	'o': reflect.TypeFor[ObjectPath](),
	'h': reflect.TypeFor[FD](),
}

// Limits on signatures, as set by DBus.
const (
	maxSignatureLen = 255
	maxNesting      = 32
)

// TypeOf returns the Go type that [Native] produces for arguments
// with the given signature.
//
// Basic types map to the corresponding Go types, except that object
// paths, signatures and file descriptors keep their [ObjectPath],
// [Signature] and [FD] types. Arrays map to slices, dictionaries to
// maps, variants to any, and structs to anonymous structs with
// fields named Field0, Field1, ..., FieldN in wire order.
//
// sig must be a single complete type that DBus accepts: no empty
// structs, only basic dict keys, and within the DBus limits on
// length and nesting.
func TypeOf(sig string) (reflect.Type, error) {
	if len(sig) > maxSignatureLen {
		return nil, fmt.Errorf("invalid signature %q: longer than %d bytes", sig, maxSignatureLen)
	}
	t, rest, err := typeOne(sig, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("invalid signature %q: %w", sig, err)
	}
	if rest != "" {
		return nil, fmt.Errorf("invalid signature %q: trailing %q after complete type", sig, rest)
	}
	return t, nil
}

// typeOne consumes the first complete type from the front of sig,
// and returns the corresponding reflect.Type as well as the
// remainder of the type string. arrays and structs are the nesting
// depths of the enclosing containers.
func typeOne(sig string, arrays, structs int) (t reflect.Type, rest string, err error) {
	if sig == "" {
		return nil, "", errors.New("missing type")
	}
	if ret, ok := strToType[sig[0]]; ok {
		return ret, sig[1:], nil
	}

	switch sig[0] {
	case 'a':
		if arrays++; arrays > maxNesting {
			return nil, "", fmt.Errorf("arrays nested deeper than %d", maxNesting)
		}
		if !strings.HasPrefix(sig, "a{") {
			elem, rest, err := typeOne(sig[1:], arrays, structs)
			if err != nil {
				return nil, "", err
			}
			return reflect.SliceOf(elem), rest, nil
		}
		if len(sig) < 3 || !isBasic(sig[2]) {
			return nil, "", errors.New("dict key must be a basic type")
		}
		key, rest, err := typeOne(sig[2:], arrays, structs)
		if err != nil {
			return nil, "", err
		}
		val, rest, err := typeOne(rest, arrays, structs)
		if err != nil {
			return nil, "", err
		}
		if !strings.HasPrefix(rest, "}") {
			return nil, "", errors.New("missing closing } in dict entry definition")
		}
		return reflect.MapOf(key, val), rest[1:], nil
	case '(':
		if structs++; structs > maxNesting {
			return nil, "", fmt.Errorf("structs nested deeper than %d", maxNesting)
		}
		var fs []reflect.StructField
		rest := sig[1:]
		for !strings.HasPrefix(rest, ")") {
			if rest == "" {
				return nil, "", errors.New("missing closing ) in struct definition")
			}
			var field reflect.Type
			field, rest, err = typeOne(rest, arrays, structs)
			if err != nil {
				return nil, "", err
			}
			fs = append(fs, reflect.StructField{
				Name: fmt.Sprintf("Field%d", len(fs)),
				Type: field,
			})
		}
		if len(fs) == 0 {
			return nil, "", errors.New("empty struct")
		}
		return reflect.StructOf(fs), rest[1:], nil
	default:
		return nil, "", fmt.Errorf("unknown type specifier %q", sig[0])
	}
}

// isBasic reports whether c is the code of a basic type, which can
// be a dict key.
func isBasic(c byte) bool {
	_, ok := strToType[c]
	return ok && c != 'v'
}

// Native returns a as a plain Go value, with the types described by
// [TypeOf]. It is meant for transports that marshal Go values by
// reflection.
func Native(a Arg) (any, error) {
	v, err := native(a)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func native(a Arg) (reflect.Value, error) {
	switch v := a.(type) {
	case nil:
		return reflect.Value{}, errors.New("nil argument")
	case Bool:
		return reflect.ValueOf(bool(v)), nil
	case Byte:
		return reflect.ValueOf(uint8(v)), nil
	case Int16:
		return reflect.ValueOf(int16(v)), nil
	case Int32:
		return reflect.ValueOf(int32(v)), nil
	case Int64:
		return reflect.ValueOf(int64(v)), nil
	case Uint16:
		return reflect.ValueOf(uint16(v)), nil
	case Uint32:
		return reflect.ValueOf(uint32(v)), nil
	case Uint64:
		return reflect.ValueOf(uint64(v)), nil
	case Double:
		return reflect.ValueOf(float64(v)), nil
	case String:
		return reflect.ValueOf(string(v)), nil
	case ObjectPath, Signature, FD:
		return reflect.ValueOf(v), nil
	case Struct:
		for i, f := range v {
			if f == nil {
				return reflect.Value{}, fmt.Errorf("struct field %d: nil argument", i)
			}
		}
		t, err := TypeOf(v.Signature())
		if err != nil {
			return reflect.Value{}, err
		}
		ret := reflect.New(t).Elem()
		for i, f := range v {
			fv, err := native(f)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("struct field %d: %w", i, err)
			}
			ret.Field(i).Set(fv)
		}
		return ret, nil
	case Array:
		et, err := TypeOf(v.Elem)
		if err != nil {
			return reflect.Value{}, err
		}
		ret := reflect.MakeSlice(reflect.SliceOf(et), 0, len(v.Elems))
		for i, e := range v.Elems {
			if err := checkSig(e, v.Elem); err != nil {
				return reflect.Value{}, fmt.Errorf("array element %d: %w", i, err)
			}
			ev, err := native(e)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("array element %d: %w", i, err)
			}
			ret = reflect.Append(ret, ev)
		}
		return ret, nil
	case Dict:
		t, err := TypeOf(v.Signature())
		if err != nil {
			return reflect.Value{}, err
		}
		ret := reflect.MakeMapWithSize(t, len(v.Entries))
		for i, e := range v.Entries {
			if err := checkSig(e.Key, v.Key); err != nil {
				return reflect.Value{}, fmt.Errorf("dict key %d: %w", i, err)
			}
			if err := checkSig(e.Value, v.Value); err != nil {
				return reflect.Value{}, fmt.Errorf("dict value %d: %w", i, err)
			}
			kv, err := native(e.Key)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("dict key %d: %w", i, err)
			}
			vv, err := native(e.Value)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("dict value %d: %w", i, err)
			}
			if ret.MapIndex(kv).IsValid() {
				return reflect.Value{}, fmt.Errorf("dict key %d: duplicate key %v", i, kv)
			}
			ret.SetMapIndex(kv, vv)
		}
		return ret, nil
	case Variant:
		inner, err := native(v.Value)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("variant: %w", err)
		}
		ret := reflect.New(strToType['v']).Elem()
		ret.Set(inner)
		return ret, nil
	default:
		return reflect.Value{}, fmt.Errorf("unknown argument type %T", a)
	}
}

func checkSig(a Arg, want string) error {
	if a == nil {
		return errors.New("nil argument")
	}
	if got := a.Signature(); got != want {
		return fmt.Errorf("signature %q does not match container signature %q", got, want)
	}
	return nil
}
