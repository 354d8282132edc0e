package dbusarg

import (
	"fmt"
)

// A Signature is a parsed DBus type signature.
//
// The zero Signature describes the unit type, i.e. the absence of a
// value.
type Signature struct {
	typ Type
	str string
}

// NewSignature returns the Signature of t.
func NewSignature(t Type) Signature {
	if _, ok := t.(UnitType); ok || t == nil {
		return Signature{}
	}
	return Signature{t, t.String()}
}

// String returns the string encoding of the Signature, as described
// in the DBus specification.
func (s Signature) String() string {
	return s.str
}

// IsZero reports whether the signature is the zero value. A zero
// Signature describes a void value.
func (s Signature) IsZero() bool {
	return s.typ == nil
}

// Type returns the type tree the Signature represents.
//
// If [Signature.IsZero] is true, Type returns [UnitType].
func (s Signature) Type() Type {
	if s.typ == nil {
		return UnitType{}
	}
	return s.typ
}

// Equal reports whether s and o describe the same type.
func (s Signature) Equal(o Signature) bool {
	return s.str == o.str
}

// Fields returns the types of the values in a message body with
// signature s: the fields of a struct, nothing for the unit type, or
// s's own type otherwise.
func (s Signature) Fields() []Type {
	switch t := s.typ.(type) {
	case nil:
		return nil
	case StructType:
		return t.Fields
	default:
		return []Type{t}
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.str), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Signature) UnmarshalText(bs []byte) error {
	sig, err := ParseSignature(string(bs))
	if err != nil {
		return err
	}
	*s = sig
	return nil
}

// ParseSignature parses a DBus type signature string.
//
// If sig contains more than one complete type, the result is a
// struct of those types. This is the signature of a method whose
// arguments have the individual types, e.g. "si" parses to the
// Signature "(si)".
func ParseSignature(sig string) (Signature, error) {
	if len(sig) > maxSignatureLen {
		return Signature{}, &SignatureError{sig, tooLong(sig, maxSignatureLen)}
	}

	var (
		p     = sigParser{sig}
		rest  = sig
		parts []Type
		part  Type
		err   *SyntaxError
	)
	for rest != "" {
		part, rest, err = p.parseOne(rest, nesting{})
		if err != nil {
			return Signature{}, &SignatureError{sig, err}
		}
		parts = append(parts, part)
	}

	if len(parts) > 1 {
		// The wrapping struct counts towards the limits: it adds two
		// bytes and one level of struct nesting.
		if len(sig)+2 > maxSignatureLen {
			return Signature{}, &SignatureError{sig, tooLong(sig, maxSignatureLen-2).within("in struct of %d complete types", len(parts))}
		}
		for rest := sig; rest != ""; {
			if _, rest, err = p.parseOne(rest, nesting{structs: 1}); err != nil {
				return Signature{}, &SignatureError{sig, err.within("in struct of %d complete types", len(parts))}
			}
		}
	}

	switch len(parts) {
	case 0:
		return Signature{}, nil
	case 1:
		return Signature{parts[0], sig}, nil
	default:
		return NewSignature(StructType{parts}), nil
	}
}

// MustParseSignature is like [ParseSignature], but panics if sig is
// invalid. It is intended for signatures that are constants.
func MustParseSignature(sig string) Signature {
	ret, err := ParseSignature(sig)
	if err != nil {
		panic(err)
	}
	return ret
}

// tooLong returns a SyntaxError for a signature that exceeds the
// length limit at byte offset off.
func tooLong(sig string, off int) *SyntaxError {
	return &SyntaxError{
		Input: sig,
		Pos:   Pos{off, 1, off + 1},
		Msgs:  []string{fmt.Sprintf("signature longer than %d bytes", maxSignatureLen)},
	}
}

type sigParser struct {
	sig string
}

// nesting tracks container depth during parsing.
type nesting struct {
	arrays, structs int
}

// errAt returns a SyntaxError positioned at the start of rest, which
// must be a suffix of the signature being parsed.
func (p sigParser) errAt(rest string, msg string, args ...any) *SyntaxError {
	off := len(p.sig) - len(rest)
	return &SyntaxError{
		Input: p.sig,
		Pos:   Pos{off, 1, off + 1},
		Msgs:  []string{fmt.Sprintf(msg, args...)},
	}
}

// parseOne consumes the first complete type from the front of sig,
// and returns the corresponding Type as well as the remainder of the
// type string.
func (p sigParser) parseOne(sig string, n nesting) (t Type, rest string, err *SyntaxError) {
	if sig == "" {
		return nil, "", p.errAt(sig, "missing type")
	}
	if b := Basic(sig[0]); basicCodes.Has(b) {
		return b, sig[1:], nil
	}

	switch sig[0] {
	case 'v':
		return VariantType{}, sig[1:], nil
	case 'a':
		if n.arrays++; n.arrays > maxNesting {
			return nil, "", p.errAt(sig, "arrays nested deeper than %d", maxNesting)
		}
		if len(sig) == 1 {
			return nil, "", p.errAt(sig, "missing array element type")
		}
		if sig[1] == '{' {
			return p.parseDict(sig, n)
		}
		elem, rest, err := p.parseOne(sig[1:], n)
		if err != nil {
			return nil, "", err.within("in array element type")
		}
		return ArrayType{elem}, rest, nil
	case '(':
		if n.structs++; n.structs > maxNesting {
			return nil, "", p.errAt(sig, "structs nested deeper than %d", maxNesting)
		}
		var (
			fields []Type
			field  Type
			rest   = sig[1:]
			err    *SyntaxError
		)
		for rest != "" && rest[0] != ')' {
			field, rest, err = p.parseOne(rest, n)
			if err != nil {
				return nil, "", err.within("in field %d of struct", len(fields))
			}
			fields = append(fields, field)
		}
		if rest == "" {
			return nil, "", p.errAt(sig, "missing closing ) in struct definition")
		}
		if len(fields) == 0 {
			return nil, "", p.errAt(sig, "empty struct")
		}
		return StructType{fields}, rest[1:], nil
	case '{':
		return nil, "", p.errAt(sig, "dict entry type found outside array")
	case ')', '}':
		return nil, "", p.errAt(sig, "unexpected %q", sig[0])
	default:
		return nil, "", p.errAt(sig, "unknown type specifier %q", sig[0])
	}
}

// parseDict parses a dictionary type at the front of sig, which must
// start with "a{".
func (p sigParser) parseDict(sig string, n nesting) (t Type, rest string, err *SyntaxError) {
	entry := sig[1:]
	key, rest, err := p.parseOne(entry[1:], n)
	if err != nil {
		return nil, "", err.within("in dict key type")
	}
	k, ok := key.(Basic)
	if !ok {
		return nil, "", p.errAt(entry[1:], "invalid dict entry key type %s, must be a dbus basic type", key)
	}
	if rest == "" {
		return nil, "", p.errAt(entry, "missing closing } in dict entry definition")
	}
	if rest[0] == '}' {
		return nil, "", p.errAt(rest, "missing dict entry value type")
	}
	val, rest, err := p.parseOne(rest, n)
	if err != nil {
		return nil, "", err.within("in dict value type")
	}
	if rest == "" {
		return nil, "", p.errAt(entry, "missing closing } in dict entry definition")
	}
	if rest[0] != '}' {
		return nil, "", p.errAt(rest, "dict entry must contain exactly two types")
	}
	return DictType{k, val}, rest[1:], nil
}
