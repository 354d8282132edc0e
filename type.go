package dbusarg

import (
	"fmt"
	"strings"
)

// A Type is a node in a DBus type tree.
//
// The concrete implementations are [Basic], [StructType],
// [ArrayType], [DictType], [VariantType] and [UnitType]. Types are
// compared by shape: two Types are equal if their String methods
// return the same signature, see [Equal].
type Type interface {
	// String returns the DBus signature of the type.
	String() string

	isType()
}

// Basic is a DBus basic type, identified by its single character
// signature code.
type Basic byte

// The DBus basic types.
const (
	TypeBool       Basic = 'b'
	TypeByte       Basic = 'y'
	TypeInt16      Basic = 'n'
	TypeInt32      Basic = 'i'
	TypeInt64      Basic = 'x'
	TypeUint16     Basic = 'q'
	TypeUint32     Basic = 'u'
	TypeUint64     Basic = 't'
	TypeDouble     Basic = 'd'
	TypeString     Basic = 's'
	TypeObjectPath Basic = 'o'
	TypeSignature  Basic = 'g'
	TypeFD         Basic = 'h'
)

func (b Basic) String() string { return string(b) }

// Name returns a human readable name for b, such as "int32".
func (b Basic) Name() string {
	if n, ok := codeToName[b]; ok {
		return n
	}
	return fmt.Sprintf("unknown type %q", byte(b))
}

func (Basic) isType() {}

// StructType is a DBus struct: an ordered sequence of fields.
type StructType struct {
	Fields []Type
}

func (s StructType) String() string {
	var ret strings.Builder
	ret.WriteByte('(')
	for _, f := range s.Fields {
		ret.WriteString(f.String())
	}
	ret.WriteByte(')')
	return ret.String()
}

func (StructType) isType() {}

// ArrayType is a DBus array of Elem values.
type ArrayType struct {
	Elem Type
}

func (a ArrayType) String() string { return "a" + a.Elem.String() }

func (ArrayType) isType() {}

// DictType is a DBus dictionary, an array of key/value pairs.
//
// DBus restricts dictionary keys to basic types, which is why Key is
// a [Basic] and not an arbitrary [Type].
type DictType struct {
	Key   Basic
	Value Type
}

func (d DictType) String() string {
	return "a{" + d.Key.String() + d.Value.String() + "}"
}

func (DictType) isType() {}

// VariantType is the DBus variant type, a value that carries its own
// type signature.
type VariantType struct{}

func (VariantType) String() string { return "v" }

func (VariantType) isType() {}

// UnitType is the empty type. It describes the absence of a value,
// for example the arguments of a method that takes none.
type UnitType struct{}

func (UnitType) String() string { return "" }

func (UnitType) isType() {}

// Equal reports whether a and b describe the same DBus type.
func Equal(a, b Type) bool {
	return typeString(a) == typeString(b)
}

// typeString is Type.String, except that a nil Type renders as the
// unit type.
func typeString(t Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

// kindName returns a short description of t for error messages.
func kindName(t Type) string {
	switch v := t.(type) {
	case nil, UnitType:
		return "no value"
	case Basic:
		return v.Name()
	case StructType:
		return "struct " + v.String()
	case ArrayType:
		return "array " + v.String()
	case DictType:
		return "dict " + v.String()
	case VariantType:
		return "variant"
	}
	return t.String()
}
