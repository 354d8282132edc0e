package dbusarg

import (
	"errors"
	"fmt"
)

// SignatureOf returns the signature implied by the literal syntax of
// v.
//
// Scalars have the type of their literal form, with strings being
// DBus strings. Struct literals are structs of their fields' types,
// and variant literals are variants. Array and dictionary literals
// must be non-empty and homogeneous: every element (every key, every
// value) must have the same inferred signature. The nil Value has the
// zero Signature.
//
// The inferred signature must stay within the DBus limits on
// signature length and nesting depth.
func SignatureOf(v Value) (Signature, error) {
	t, err := typeOf(v)
	if err != nil {
		return Signature{}, err
	}
	ret := NewSignature(t)
	if _, err := ParseSignature(ret.String()); err != nil {
		return Signature{}, fmt.Errorf("inferred type is not a valid signature: %w", err)
	}
	return ret, nil
}

func typeOf(v Value) (Type, error) {
	switch vv := v.(type) {
	case nil:
		return UnitType{}, nil
	case BoolLit:
		return TypeBool, nil
	case ByteLit:
		return TypeByte, nil
	case Int16Lit:
		return TypeInt16, nil
	case Int32Lit:
		return TypeInt32, nil
	case Int64Lit:
		return TypeInt64, nil
	case Uint16Lit:
		return TypeUint16, nil
	case Uint32Lit:
		return TypeUint32, nil
	case Uint64Lit:
		return TypeUint64, nil
	case DoubleLit:
		return TypeDouble, nil
	case StringLit:
		return TypeString, nil
	case VariantLit:
		return VariantType{}, nil
	case StructLit:
		if len(vv) == 0 {
			return nil, errors.New("cannot infer the type of an empty struct")
		}
		fields := make([]Type, 0, len(vv))
		for i, f := range vv {
			ft, err := typeOf(f)
			if err != nil {
				return nil, fmt.Errorf("struct field %d: %w", i, err)
			}
			if _, ok := ft.(UnitType); ok {
				return nil, fmt.Errorf("struct field %d has no value", i)
			}
			fields = append(fields, ft)
		}
		return StructType{fields}, nil
	case ArrayLit:
		if len(vv) == 0 {
			return nil, errors.New("cannot infer the element type of an empty array")
		}
		elem, err := commonType(vv, "array element")
		if err != nil {
			return nil, err
		}
		return ArrayType{elem}, nil
	case DictLit:
		if len(vv) == 0 {
			return nil, errors.New("cannot infer the key and value types of an empty dict")
		}
		keys := make([]Value, 0, len(vv))
		vals := make([]Value, 0, len(vv))
		for _, e := range vv {
			keys = append(keys, e.Key)
			vals = append(vals, e.Value)
		}
		kt, err := commonType(keys, "dict key")
		if err != nil {
			return nil, err
		}
		k, ok := kt.(Basic)
		if !ok {
			return nil, fmt.Errorf("dict key type %s is not a dbus basic type", kt)
		}
		vt, err := commonType(vals, "dict value")
		if err != nil {
			return nil, err
		}
		return DictType{k, vt}, nil
	default:
		return nil, fmt.Errorf("unknown value %T", v)
	}
}

// commonType returns the inferred type shared by all of vs.
func commonType(vs []Value, what string) (Type, error) {
	var ret Type
	for i, v := range vs {
		t, err := typeOf(v)
		if err != nil {
			return nil, fmt.Errorf("%s %d: %w", what, i, err)
		}
		if _, ok := t.(UnitType); ok {
			return nil, fmt.Errorf("%s %d has no value", what, i)
		}
		if ret == nil {
			ret = t
		} else if !Equal(ret, t) {
			return nil, fmt.Errorf("%s %d has type %s, but %s 0 has type %s", what, i, t, what, ret)
		}
	}
	return ret, nil
}
