package dbusarg

import (
	"fmt"
	"strings"
)

// Pos is a position in parser input.
type Pos struct {
	Offset int // byte offset, starting at 0
	Line   int // line number, starting at 1
	Column int // column number in bytes, starting at 1
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SyntaxError is the error returned when a signature or value
// literal does not conform to its grammar.
type SyntaxError struct {
	// Input is the text that failed to parse.
	Input string
	// Pos is the location of the error in Input.
	Pos Pos
	// Msgs describes the error, innermost first. Later messages
	// give the surrounding context, e.g. "in array element 2".
	Msgs []string
	// Err is the underlying error, if any. For example, numeric
	// literals that are out of range wrap the strconv error.
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, strings.Join(e.Msgs, ", "))
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// within adds context to e, for enclosing grammar rules.
func (e *SyntaxError) within(format string, args ...any) *SyntaxError {
	e.Msgs = append(e.Msgs, fmt.Sprintf(format, args...))
	return e
}

// SignatureError is the error returned when a string is not a valid
// DBus type signature.
type SignatureError struct {
	// Sig is the invalid signature.
	Sig string
	// Reason is an explanation of why Sig is invalid, usually a
	// *SyntaxError.
	Reason error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("invalid type signature %q: %s", e.Sig, e.Reason)
}

func (e *SignatureError) Unwrap() error {
	return e.Reason
}

// ValueError is the error returned when a value does not match the
// type it is validated against.
type ValueError struct {
	// Path locates the offending value within the validated value,
	// outermost first. It is empty if the top-level value is at
	// fault.
	Path []string
	// Expected describes the type that was expected.
	Expected string
	// Actual is the literal form of the offending value.
	Actual string
	// Reason is an optional additional explanation.
	Reason string
}

func (e *ValueError) Error() string {
	var ret strings.Builder
	ret.WriteString("invalid value")
	if len(e.Path) > 0 {
		ret.WriteString(" at ")
		ret.WriteString(strings.Join(e.Path, " > "))
	}
	fmt.Fprintf(&ret, ": expected %s, got %s", e.Expected, e.Actual)
	if e.Reason != "" {
		ret.WriteString(" (")
		ret.WriteString(e.Reason)
		ret.WriteByte(')')
	}
	return ret.String()
}

// at prepends a path element to e's path, as the error unwinds out
// of nested values.
func (e *ValueError) at(format string, args ...any) *ValueError {
	e.Path = append([]string{fmt.Sprintf(format, args...)}, e.Path...)
	return e
}

func valueErr(t Type, v Value, reason string, args ...any) *ValueError {
	return &ValueError{
		Expected: kindName(t),
		Actual:   literalString(v),
		Reason:   fmt.Sprintf(reason, args...),
	}
}

// DescriptionError is the error returned when a method or interface
// description is malformed.
type DescriptionError struct {
	// Name is the name of the malformed method or interface.
	Name string
	// Reason is an explanation of what is wrong.
	Reason error
}

func (e *DescriptionError) Error() string {
	return fmt.Sprintf("invalid description of %s: %s", e.Name, e.Reason)
}

func (e *DescriptionError) Unwrap() error {
	return e.Reason
}

func descErr(name string, reason string, args ...any) error {
	return &DescriptionError{name, fmt.Errorf(reason, args...)}
}
