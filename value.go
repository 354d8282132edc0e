package dbusarg

import (
	"strconv"
	"strings"
)

// A Value is a node in an untyped value tree, usually produced by
// [ParseValue].
//
// Values carry no DBus type of their own, beyond what is implied by
// their literal syntax: integers have a width and signedness, and
// composites are sequences or dictionaries. [Validate] checks a
// Value against a [Type].
//
// The absence of a value, which matches [UnitType], is the nil Value.
type Value interface {
	// String returns the value in the literal syntax accepted by
	// ParseValue.
	String() string

	isValue()
}

// Scalar values.
type (
	BoolLit   bool
	ByteLit   uint8
	Int16Lit  int16
	Int32Lit  int32
	Int64Lit  int64
	Uint16Lit uint16
	Uint32Lit uint32
	Uint64Lit uint64
	DoubleLit float64
	// StringLit is a quoted or bare string. It also provides the
	// value of object paths and signatures.
	StringLit string
)

func (v BoolLit) String() string   { return strconv.FormatBool(bool(v)) }
func (v ByteLit) String() string   { return strconv.FormatUint(uint64(v), 16) + "y" }
func (v Int16Lit) String() string  { return strconv.FormatInt(int64(v), 10) + "n" }
func (v Int32Lit) String() string  { return strconv.FormatInt(int64(v), 10) }
func (v Int64Lit) String() string  { return strconv.FormatInt(int64(v), 10) + "x" }
func (v Uint16Lit) String() string { return strconv.FormatUint(uint64(v), 10) + "q" }
func (v Uint32Lit) String() string { return strconv.FormatUint(uint64(v), 10) + "u" }
func (v Uint64Lit) String() string { return strconv.FormatUint(uint64(v), 10) + "t" }
func (v DoubleLit) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) + "d" }
func (v StringLit) String() string { return strconv.Quote(string(v)) }

func (BoolLit) isValue()   {}
func (ByteLit) isValue()   {}
func (Int16Lit) isValue()  {}
func (Int32Lit) isValue()  {}
func (Int64Lit) isValue()  {}
func (Uint16Lit) isValue() {}
func (Uint32Lit) isValue() {}
func (Uint64Lit) isValue() {}
func (DoubleLit) isValue() {}
func (StringLit) isValue() {}

// StructLit is a parenthesized sequence of values, "(a, b)".
type StructLit []Value

func (v StructLit) String() string { return "(" + joinValues(v) + ")" }

func (StructLit) isValue() {}

// ArrayLit is a bracketed sequence of values, "[a, b]".
type ArrayLit []Value

func (v ArrayLit) String() string { return "[" + joinValues(v) + "]" }

func (ArrayLit) isValue() {}

// An Entry is a key/value pair of a [DictLit].
type Entry struct {
	Key   Value
	Value Value
}

// DictLit is a sequence of key/value pairs, "{k: v, k2: v2}".
type DictLit []Entry

func (v DictLit) String() string {
	var ret strings.Builder
	ret.WriteByte('{')
	for i, e := range v {
		if i > 0 {
			ret.WriteString(", ")
		}
		ret.WriteString(literalString(e.Key))
		ret.WriteString(": ")
		ret.WriteString(literalString(e.Value))
	}
	ret.WriteByte('}')
	return ret.String()
}

func (DictLit) isValue() {}

// VariantLit is a value that carries its own type signature,
// "<sig: value>".
type VariantLit struct {
	Sig   Signature
	Value Value
}

func (v VariantLit) String() string {
	return "<" + v.Sig.String() + ": " + literalString(v.Value) + ">"
}

func (VariantLit) isValue() {}

// elements returns the elements of v if it is a sequence.
func elements(v Value) ([]Value, bool) {
	switch s := v.(type) {
	case StructLit:
		return s, true
	case ArrayLit:
		return s, true
	}
	return nil, false
}

// literalString is Value.String, except that a nil Value renders as
// "nothing".
func literalString(v Value) string {
	if v == nil {
		return "nothing"
	}
	return v.String()
}

func joinValues(vs []Value) string {
	var ret strings.Builder
	for i, v := range vs {
		if i > 0 {
			ret.WriteString(", ")
		}
		ret.WriteString(literalString(v))
	}
	return ret.String()
}
