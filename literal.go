package dbusarg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Numeric literal forms. A word that starts like a number but
// matches none of these is a syntax error.
var (
	hexByteLiteral = regexp.MustCompile(`^([0-9a-fA-F]+)y$`)
	intLiteral     = regexp.MustCompile(`^(-?[0-9]+)([nixqut]?)$`)
	doubleLiteral  = regexp.MustCompile(`^(-?[0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?)d$`)
	numericStart   = regexp.MustCompile(`^-?[0-9]`)
)

// maxValueDepth is the deepest nesting of composite literals that
// ParseValue accepts.
const maxValueDepth = 2 * maxNesting

// ParseValue parses a value literal.
//
// The literal syntax is:
//
//   - true and false are booleans.
//   - Integers are decimal, with an optional trailing tag giving their
//     type: n (int16), i (int32), x (int64), q (uint16), u (uint32)
//     or t (uint64). Untagged integers are int32.
//   - Bytes are hexadecimal with a trailing y: ffy is 255.
//   - Doubles have a trailing d: -1.9d, 2d, 1e-3d.
//   - Strings are double-quoted, with Go escape sequences, or bare
//     words made of letters, digits and _-.@/+ such as
//     /org/freedesktop/DBus. Words that look like one of the above
//     forms are not strings; quote them to force a string.
//   - [a, b] is an array, (a, b) is a struct, and {k: v, k2: v2} is a
//     dictionary.
//   - <sig: v> is a variant holding v with the type signature sig.
//
// Whitespace between tokens is insignificant. An empty literal
// parses to the nil Value, which stands for the absence of a value.
//
// Errors are reported as a *[SyntaxError].
func ParseValue(s string) (Value, error) {
	p := valueParser{lex: lexer{src: s, line: 1, col: 1}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind == tokEOF {
		return nil, nil
	}
	v, err := p.value(0)
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.lex.errAt(p.tok.pos, "unexpected %s after value", p.tok)
	}
	return v, nil
}

// MustParseValue is like [ParseValue], but panics if s is invalid.
func MustParseValue(s string) Value {
	ret, err := ParseValue(s)
	if err != nil {
		panic(err)
	}
	return ret
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokLAngle
	tokRAngle
	tokComma
	tokColon
	tokString
	tokWord
)

var punctuation = map[byte]tokenKind{
	'(': tokLParen,
	')': tokRParen,
	'[': tokLBracket,
	']': tokRBracket,
	'{': tokLBrace,
	'}': tokRBrace,
	'<': tokLAngle,
	'>': tokRAngle,
	',': tokComma,
	':': tokColon,
}

type token struct {
	kind tokenKind
	text string // raw source text
	str  string // decoded string, for tokString
	pos  Pos
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return strconv.Quote(t.text)
}

// lexer splits a value literal into tokens, tracking line and column
// numbers for error reporting.
type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func (l *lexer) pos() Pos { return Pos{l.off, l.line, l.col} }

func (l *lexer) atEnd() bool { return l.off >= len(l.src) }

func (l *lexer) advance() {
	if l.src[l.off] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.off++
}

func (l *lexer) skipSpace() {
	for !l.atEnd() {
		switch l.src[l.off] {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func (l *lexer) errAt(pos Pos, msg string, args ...any) *SyntaxError {
	return &SyntaxError{
		Input: l.src,
		Pos:   pos,
		Msgs:  []string{fmt.Sprintf(msg, args...)},
	}
}

func (l *lexer) next() (token, *SyntaxError) {
	l.skipSpace()
	start := l.pos()
	if l.atEnd() {
		return token{kind: tokEOF, pos: start}, nil
	}
	c := l.src[l.off]
	if k, ok := punctuation[c]; ok {
		l.advance()
		return token{kind: k, text: string(c), pos: start}, nil
	}
	switch {
	case c == '"':
		return l.scanString()
	case isWordByte(c):
		for !l.atEnd() && isWordByte(l.src[l.off]) {
			l.advance()
		}
		return token{kind: tokWord, text: l.src[start.Offset:l.off], pos: start}, nil
	default:
		return token{}, l.errAt(start, "unexpected character %q", c)
	}
}

// scanString scans a double-quoted string, decoding Go escape
// sequences and the JSON-style \/ escape.
func (l *lexer) scanString() (token, *SyntaxError) {
	start := l.pos()
	l.advance()

	var out strings.Builder
	for {
		if l.atEnd() {
			return token{}, l.errAt(start, "unterminated string")
		}
		if l.src[l.off] == '"' {
			l.advance()
			return token{
				kind: tokString,
				text: l.src[start.Offset:l.off],
				str:  out.String(),
				pos:  start,
			}, nil
		}
		at := l.pos()
		if strings.HasPrefix(l.src[l.off:], `\/`) {
			l.advance()
			l.advance()
			out.WriteByte('/')
			continue
		}
		r, multibyte, tail, err := strconv.UnquoteChar(l.src[l.off:], '"')
		if err != nil {
			e := l.errAt(at, "invalid escape sequence in string")
			e.Err = err
			return token{}, e
		}
		for n := len(l.src) - l.off - len(tail); n > 0; n-- {
			l.advance()
		}
		if r < utf8.RuneSelf || !multibyte {
			out.WriteByte(byte(r))
		} else {
			out.WriteRune(r)
		}
	}
}

// scanSignature scans the type signature of a variant literal, which
// directly follows the opening <.
func (l *lexer) scanSignature() (string, Pos) {
	l.skipSpace()
	start := l.pos()
	for !l.atEnd() && isSigByte(l.src[l.off]) {
		l.advance()
	}
	return l.src[start.Offset:l.off], start
}

func isWordByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b >= utf8.RuneSelf:
		return true
	}
	return strings.IndexByte("_-.@/+", b) >= 0
}

func isSigByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || strings.IndexByte("(){}", b) >= 0
}

type valueParser struct {
	lex lexer
	tok token // current token
}

func (p *valueParser) advance() *SyntaxError {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// expect consumes the current token if it is of kind k.
func (p *valueParser) expect(k tokenKind, what string) *SyntaxError {
	if p.tok.kind != k {
		return p.lex.errAt(p.tok.pos, "expected %s, got %s", what, p.tok)
	}
	return p.advance()
}

func (p *valueParser) value(depth int) (Value, *SyntaxError) {
	if depth > maxValueDepth {
		return nil, p.lex.errAt(p.tok.pos, "value nested deeper than %d", maxValueDepth)
	}
	switch p.tok.kind {
	case tokLParen:
		vs, err := p.sequence(depth, tokRParen, "struct")
		if err != nil {
			return nil, err
		}
		return StructLit(vs), nil
	case tokLBracket:
		vs, err := p.sequence(depth, tokRBracket, "array")
		if err != nil {
			return nil, err
		}
		return ArrayLit(vs), nil
	case tokLBrace:
		return p.dict(depth)
	case tokLAngle:
		return p.variant(depth)
	case tokString:
		ret := StringLit(p.tok.str)
		return ret, p.advance()
	case tokWord:
		ret, err := p.word(p.tok)
		if err != nil {
			return nil, err
		}
		return ret, p.advance()
	default:
		return nil, p.lex.errAt(p.tok.pos, "expected a value, got %s", p.tok)
	}
}

// sequence parses a comma-separated list of values, starting at the
// opening delimiter and ending after the closing delimiter.
func (p *valueParser) sequence(depth int, closer tokenKind, what string) ([]Value, *SyntaxError) {
	open := p.tok
	if err := p.advance(); err != nil {
		return nil, err
	}
	ret := []Value{}
	if p.tok.kind == closer {
		return ret, p.advance()
	}
	for {
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err.within("in %s element %d", what, len(ret))
		}
		ret = append(ret, v)
		switch p.tok.kind {
		case tokComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case closer:
			return ret, p.advance()
		case tokEOF:
			return nil, p.lex.errAt(open.pos, "unterminated %s", what)
		default:
			return nil, p.lex.errAt(p.tok.pos, "expected , or end of %s, got %s", what, p.tok)
		}
	}
}

func (p *valueParser) dict(depth int) (Value, *SyntaxError) {
	open := p.tok
	if err := p.advance(); err != nil {
		return nil, err
	}
	ret := DictLit{}
	if p.tok.kind == tokRBrace {
		return ret, p.advance()
	}
	for {
		k, err := p.value(depth + 1)
		if err != nil {
			return nil, err.within("in key of dict entry %d", len(ret))
		}
		if err := p.expect(tokColon, ": after dict key"); err != nil {
			return nil, err.within("in dict entry %d", len(ret))
		}
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err.within("in value of dict entry %d", len(ret))
		}
		ret = append(ret, Entry{k, v})
		switch p.tok.kind {
		case tokComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokRBrace:
			return ret, p.advance()
		case tokEOF:
			return nil, p.lex.errAt(open.pos, "unterminated dict")
		default:
			return nil, p.lex.errAt(p.tok.pos, "expected , or end of dict, got %s", p.tok)
		}
	}
}

// variant parses "<sig: value>". The current token is the opening <,
// and the lexer is positioned right after it.
func (p *valueParser) variant(depth int) (Value, *SyntaxError) {
	open := p.tok
	str, at := p.lex.scanSignature()
	sig, err := ParseSignature(str)
	if err != nil {
		e := p.lex.errAt(at, "invalid variant signature %q", str)
		e.Err = err
		return nil, e
	}
	if sig.IsZero() || sig.String() != str {
		return nil, p.lex.errAt(at, "variant signature %q must be a single complete type", str)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(tokColon, ": after variant signature"); err != nil {
		return nil, err
	}
	v, serr := p.value(depth + 1)
	if serr != nil {
		return nil, serr.within("in variant at %s", open.pos)
	}
	if err := p.expect(tokRAngle, "> at end of variant"); err != nil {
		return nil, err
	}
	return VariantLit{sig, v}, nil
}

// word converts a bare word into a boolean, number or string.
func (p *valueParser) word(tok token) (Value, *SyntaxError) {
	text := tok.text
	switch text {
	case "true":
		return BoolLit(true), nil
	case "false":
		return BoolLit(false), nil
	}

	var (
		ret  Value
		err  error
		code Basic
	)
	if m := hexByteLiteral.FindStringSubmatch(text); m != nil {
		code = TypeByte
		var n uint64
		n, err = strconv.ParseUint(m[1], 16, 8)
		ret = ByteLit(n)
	} else if m := intLiteral.FindStringSubmatch(text); m != nil {
		code = TypeInt32
		if m[2] != "" {
			code = literalTagToCode[m[2][0]]
		}
		ret, err = parseInteger(m[1], code)
	} else if m := doubleLiteral.FindStringSubmatch(text); m != nil {
		code = TypeDouble
		var f float64
		f, err = strconv.ParseFloat(m[1], 64)
		ret = DoubleLit(f)
	} else if numericStart.MatchString(text) {
		return nil, p.lex.errAt(tok.pos, "malformed numeric literal %q", text)
	} else {
		return StringLit(text), nil
	}

	if err != nil {
		e := p.lex.errAt(tok.pos, "invalid %s literal %q", code.Name(), text)
		e.Err = err
		return nil, e
	}
	return ret, nil
}

func parseInteger(digits string, code Basic) (Value, error) {
	switch code {
	case TypeInt16:
		n, err := strconv.ParseInt(digits, 10, 16)
		return Int16Lit(n), err
	case TypeInt32:
		n, err := strconv.ParseInt(digits, 10, 32)
		return Int32Lit(n), err
	case TypeInt64:
		n, err := strconv.ParseInt(digits, 10, 64)
		return Int64Lit(n), err
	case TypeUint16:
		n, err := strconv.ParseUint(digits, 10, 16)
		return Uint16Lit(n), err
	case TypeUint32:
		n, err := strconv.ParseUint(digits, 10, 32)
		return Uint32Lit(n), err
	case TypeUint64:
		n, err := strconv.ParseUint(digits, 10, 64)
		return Uint64Lit(n), err
	}
	return nil, fmt.Errorf("no integer literal of type %s", code.Name())
}
