package dbusarg

import (
	"fmt"

	"github.com/danderson/dbusarg/wire"
)

// Encode returns the wire representation of the validated argument.
//
// Arrays and dictionaries are tagged with the signatures of their
// elements, and variants hold the encoding of their inner value. The
// unit type encodes to a nil wire.Arg.
func (v Validated) Encode() (wire.Arg, error) {
	ret, err := encode(v.arg.Sig.Type(), v.arg.Value)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Encode validates v against sig, and returns its wire
// representation.
func Encode(sig Signature, v Value) (wire.Arg, error) {
	valid, err := NewArgument(sig, v).Validate()
	if err != nil {
		return nil, err
	}
	return valid.Encode()
}

// Marshal parses a signature and a value literal, and returns the
// wire representation of the value.
func Marshal(sig, literal string) (wire.Arg, error) {
	s, err := ParseSignature(sig)
	if err != nil {
		return nil, err
	}
	v, err := ParseValue(literal)
	if err != nil {
		return nil, fmt.Errorf("parsing value: %w", err)
	}
	return Encode(s, v)
}

// encode follows the same rules as validate. A mismatch between t
// and v is reported as an error, never a panic, even though callers
// only encode validated values.
func encode(t Type, v Value) (wire.Arg, *ValueError) {
	switch tt := t.(type) {
	case nil, UnitType:
		if v != nil {
			return nil, valueErr(t, v, "")
		}
		return nil, nil
	case Basic:
		return encodeBasic(tt, v)
	case StructType:
		vs, ok := elements(v)
		if !ok || len(vs) != len(tt.Fields) {
			return nil, valueErr(t, v, "")
		}
		ret := make(wire.Struct, 0, len(vs))
		for i, f := range tt.Fields {
			a, err := encode(f, vs[i])
			if err != nil {
				return nil, err.at("field %d", i)
			}
			ret = append(ret, a)
		}
		return ret, nil
	case ArrayType:
		vs, ok := elements(v)
		if !ok {
			return nil, valueErr(t, v, "")
		}
		ret := wire.Array{
			Elem:  tt.Elem.String(),
			Elems: make([]wire.Arg, 0, len(vs)),
		}
		for i, e := range vs {
			a, err := encode(tt.Elem, e)
			if err != nil {
				return nil, err.at("element %d", i)
			}
			ret.Elems = append(ret.Elems, a)
		}
		return ret, nil
	case DictType:
		entries, err := dictEntries(tt, v)
		if err != nil {
			return nil, err
		}
		ret := wire.Dict{
			Key:     tt.Key.String(),
			Value:   tt.Value.String(),
			Entries: make([]wire.Entry, 0, len(entries)),
		}
		for i, e := range entries {
			k, err := encode(tt.Key, e.Key)
			if err != nil {
				return nil, err.at("key of entry %d", i)
			}
			val, err := encode(tt.Value, e.Value)
			if err != nil {
				return nil, err.at("value of entry %d", i)
			}
			ret.Entries = append(ret.Entries, wire.Entry{Key: k, Value: val})
		}
		return ret, nil
	case VariantType:
		sig, inner, err := variantContents(v)
		if err != nil {
			return nil, err
		}
		a, err := encode(sig.Type(), inner)
		if err != nil {
			return nil, err.at("variant %s", sig)
		}
		return wire.Variant{Value: a}, nil
	default:
		return nil, valueErr(t, v, "unsupported type %T", t)
	}
}

func encodeBasic(b Basic, v Value) (wire.Arg, *ValueError) {
	var ret wire.Arg
	switch vv := v.(type) {
	case BoolLit:
		if b == TypeBool {
			ret = wire.Bool(vv)
		}
	case ByteLit:
		if b == TypeByte {
			ret = wire.Byte(vv)
		}
	case Int16Lit:
		if b == TypeInt16 {
			ret = wire.Int16(vv)
		}
	case Int32Lit:
		if b == TypeInt32 {
			ret = wire.Int32(vv)
		}
	case Int64Lit:
		if b == TypeInt64 {
			ret = wire.Int64(vv)
		}
	case Uint16Lit:
		if b == TypeUint16 {
			ret = wire.Uint16(vv)
		}
	case Uint32Lit:
		switch b {
		case TypeUint32:
			ret = wire.Uint32(vv)
		case TypeFD:
			ret = wire.FD(vv)
		}
	case Uint64Lit:
		if b == TypeUint64 {
			ret = wire.Uint64(vv)
		}
	case DoubleLit:
		if b == TypeDouble {
			ret = wire.Double(vv)
		}
	case StringLit:
		switch b {
		case TypeString:
			ret = wire.String(vv)
		case TypeObjectPath:
			ret = wire.ObjectPath(vv)
		case TypeSignature:
			ret = wire.Signature(vv)
		}
	}
	if ret == nil {
		return nil, valueErr(b, v, "")
	}
	return ret, nil
}
