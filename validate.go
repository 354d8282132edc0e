package dbusarg

// An Argument pairs a value with the DBus type it is meant to have.
type Argument struct {
	Sig   Signature
	Value Value
}

// NewArgument returns an Argument with the given signature and value.
func NewArgument(sig Signature, v Value) Argument {
	return Argument{sig, v}
}

// Validate checks that a.Value has the shape described by a.Sig.
//
// On success, it returns a Validated argument that can be encoded. On
// failure the error is a *[ValueError] locating the first mismatch.
func (a Argument) Validate() (Validated, error) {
	if err := validate(a.Sig.Type(), a.Value); err != nil {
		return Validated{}, err
	}
	return Validated{a}, nil
}

// A Validated is an [Argument] whose value is known to match its
// type. It can only be obtained from [Argument.Validate].
type Validated struct {
	arg Argument
}

// Signature returns the signature of the validated argument.
func (v Validated) Signature() Signature { return v.arg.Sig }

// Value returns the value of the validated argument.
func (v Validated) Value() Value { return v.arg.Value }

// Validate checks that v has the shape described by t.
//
// Basic types only accept the literal of their exact kind, with the
// exception that object paths and signatures accept strings, and file
// descriptors accept uint32 values. The lexical form of object paths
// and signature values is not checked.
//
// Structs accept a sequence with one value per field, and arrays a
// sequence of values that all match the element type. Dictionaries
// accept a [DictLit], or a sequence of alternating keys and values.
//
// A variant accepts a [VariantLit] whose value matches the variant's
// own signature, or any value whose signature can be inferred by
// [SignatureOf].
//
// The unit type only accepts the nil Value.
//
// Errors are reported as a *[ValueError].
func Validate(t Type, v Value) error {
	if err := validate(t, v); err != nil {
		return err
	}
	return nil
}

func validate(t Type, v Value) *ValueError {
	switch tt := t.(type) {
	case nil, UnitType:
		if v != nil {
			return valueErr(t, v, "")
		}
		return nil
	case Basic:
		if !basicMatches(tt, v) {
			return valueErr(t, v, "")
		}
		return nil
	case StructType:
		vs, ok := elements(v)
		if !ok {
			return valueErr(t, v, "")
		}
		if len(vs) != len(tt.Fields) {
			return valueErr(t, v, "struct has %d fields, value has %d", len(tt.Fields), len(vs))
		}
		for i, f := range tt.Fields {
			if err := validate(f, vs[i]); err != nil {
				return err.at("field %d", i)
			}
		}
		return nil
	case ArrayType:
		vs, ok := elements(v)
		if !ok {
			return valueErr(t, v, "")
		}
		for i, e := range vs {
			if err := validate(tt.Elem, e); err != nil {
				return err.at("element %d", i)
			}
		}
		return nil
	case DictType:
		entries, err := dictEntries(tt, v)
		if err != nil {
			return err
		}
		for i, e := range entries {
			if err := validate(tt.Key, e.Key); err != nil {
				return err.at("key of entry %d", i)
			}
			if err := validate(tt.Value, e.Value); err != nil {
				return err.at("value of entry %d", i)
			}
		}
		return nil
	case VariantType:
		sig, inner, err := variantContents(v)
		if err != nil {
			return err
		}
		if err := validate(sig.Type(), inner); err != nil {
			return err.at("variant %s", sig)
		}
		return nil
	default:
		return valueErr(t, v, "unsupported type %T", t)
	}
}

// basicMatches reports whether v is a literal of basic type b.
func basicMatches(b Basic, v Value) bool {
	var ok bool
	switch b {
	case TypeBool:
		_, ok = v.(BoolLit)
	case TypeByte:
		_, ok = v.(ByteLit)
	case TypeInt16:
		_, ok = v.(Int16Lit)
	case TypeInt32:
		_, ok = v.(Int32Lit)
	case TypeInt64:
		_, ok = v.(Int64Lit)
	case TypeUint16:
		_, ok = v.(Uint16Lit)
	case TypeUint32, TypeFD:
		_, ok = v.(Uint32Lit)
	case TypeUint64:
		_, ok = v.(Uint64Lit)
	case TypeDouble:
		_, ok = v.(DoubleLit)
	case TypeString, TypeObjectPath, TypeSignature:
		_, ok = v.(StringLit)
	}
	return ok
}

// dictEntries returns the key/value pairs of v, which must be a
// DictLit or a sequence of alternating keys and values.
func dictEntries(t DictType, v Value) ([]Entry, *ValueError) {
	if d, ok := v.(DictLit); ok {
		return d, nil
	}
	vs, ok := elements(v)
	if !ok {
		return nil, valueErr(t, v, "")
	}
	if len(vs)%2 != 0 {
		return nil, valueErr(t, v, "unpaired entry: %d keys and values", len(vs)).at("entry %d", len(vs)/2)
	}
	ret := make([]Entry, 0, len(vs)/2)
	for i := 0; i < len(vs); i += 2 {
		ret = append(ret, Entry{vs[i], vs[i+1]})
	}
	return ret, nil
}

// variantContents returns the signature and inner value that v
// provides to a variant.
//
// A VariantLit provides its own signature. Other values provide their
// inferred signature, if it exists.
func variantContents(v Value) (Signature, Value, *ValueError) {
	switch vv := v.(type) {
	case nil:
		return Signature{}, nil, valueErr(VariantType{}, v, "")
	case VariantLit:
		if vv.Sig.IsZero() {
			return Signature{}, nil, valueErr(VariantType{}, v, "variant has no signature")
		}
		return vv.Sig, vv.Value, nil
	default:
		sig, err := SignatureOf(v)
		if err != nil {
			return Signature{}, nil, valueErr(VariantType{}, v, "%s; write <SIG: value> to give the type explicitly", err)
		}
		return sig, v, nil
	}
}
