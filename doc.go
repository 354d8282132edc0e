// Package dbusarg turns human-written DBus arguments into typed,
// validated wire trees.
//
// An argument is given as two strings: a DBus type signature such as
// "a{sv}", and a value literal such as {"volume": <d: 0.5d>}.
// [ParseSignature] and [ParseValue] turn them into a [Signature] and a
// [Value], [Argument.Validate] checks that the value has the shape the
// signature describes, and [Validated.Encode] produces a [wire.Arg]
// tree ready to be handed to a transport. [Marshal] does all of this
// in one call.
//
// # Value literals
//
// Integers default to int32. Other integer types are selected with a
// one letter suffix matching their type code:
//
//	-8       int32
//	16n      int16
//	16q      uint16
//	7u       uint32
//	-3x      int64
//	3t       uint64
//
// Bytes are written in hexadecimal with a y suffix (ffy is 255), and
// doubles with a d suffix (-1.9d). Strings are double quoted with Go
// escapes plus \/ for a slash, or written bare when they only
// contain letters, digits and the characters _-.@/+. The words true
// and false are booleans.
//
// Containers are written as follows:
//
//	(1, "two", 3.0d)        struct
//	[1, 2, 3]               array
//	{"a": 1, "b": 2}        dictionary
//	<a{sv}: {"x": <i: 1>}>  variant with an explicit signature
//
// A variant position also accepts a plain value, whose signature is
// inferred with [SignatureOf].
//
// # Errors
//
// Malformed input is reported as a *[SyntaxError] carrying the line
// and column of the problem, wrapped in a *[SignatureError] for
// signatures. Values that do not match their signature are reported
// as a *[ValueError] naming the path to the mismatch.
package dbusarg
