// Package wire defines the neutral representation of encoded DBus
// arguments.
//
// A wire tree is what a transport places on the bus: every node
// knows its own DBus type signature, and containers carry the
// signatures of their elements so that empty arrays and dictionaries
// are still fully typed. The package does not produce bytes; that is
// the transport's job.
package wire

import "strings"

// An Arg is an encoded DBus argument.
type Arg interface {
	// Signature returns the DBus type signature of the argument.
	Signature() string

	isArg()
}

// Basic arguments.
type (
	Bool   bool
	Byte   uint8
	Int16  int16
	Int32  int32
	Int64  int64
	Uint16 uint16
	Uint32 uint32
	Uint64 uint64
	Double float64
	String string
	// ObjectPath is a DBus object path.
	ObjectPath string
	// Signature is a DBus type signature, as a value.
	Signature string
	// FD is a file descriptor, as an index into the out-of-band file
	// descriptors of a message.
	FD uint32
)

func (Bool) Signature() string       { return "b" }
func (Byte) Signature() string       { return "y" }
func (Int16) Signature() string      { return "n" }
func (Int32) Signature() string      { return "i" }
func (Int64) Signature() string      { return "x" }
func (Uint16) Signature() string     { return "q" }
func (Uint32) Signature() string     { return "u" }
func (Uint64) Signature() string     { return "t" }
func (Double) Signature() string     { return "d" }
func (String) Signature() string     { return "s" }
func (ObjectPath) Signature() string { return "o" }
func (Signature) Signature() string  { return "g" }
func (FD) Signature() string         { return "h" }

func (Bool) isArg()       {}
func (Byte) isArg()       {}
func (Int16) isArg()      {}
func (Int32) isArg()      {}
func (Int64) isArg()      {}
func (Uint16) isArg()     {}
func (Uint32) isArg()     {}
func (Uint64) isArg()     {}
func (Double) isArg()     {}
func (String) isArg()     {}
func (ObjectPath) isArg() {}
func (Signature) isArg()  {}
func (FD) isArg()         {}

// Struct is a DBus struct. Fields are in wire order.
type Struct []Arg

func (s Struct) Signature() string {
	var ret strings.Builder
	ret.WriteByte('(')
	for _, f := range s {
		ret.WriteString(f.Signature())
	}
	ret.WriteByte(')')
	return ret.String()
}

func (Struct) isArg() {}

// Array is a DBus array. All Elems have the signature Elem.
type Array struct {
	Elem  string
	Elems []Arg
}

func (a Array) Signature() string { return "a" + a.Elem }

func (Array) isArg() {}

// Dict is a DBus dictionary. All entry keys have the signature Key,
// and all entry values the signature Value.
type Dict struct {
	Key     string
	Value   string
	Entries []Entry
}

// Entry is a key/value pair of a [Dict].
type Entry struct {
	Key   Arg
	Value Arg
}

func (d Dict) Signature() string { return "a{" + d.Key + d.Value + "}" }

func (Dict) isArg() {}

// Variant is a DBus variant. On the wire, it is written as the
// signature of Value followed by Value itself.
type Variant struct {
	Value Arg
}

func (Variant) Signature() string { return "v" }

func (Variant) isArg() {}
