// Package lexer implements the lexical scanner for LLHD assembly.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/simonsan/llhd/pkg/token"
)

// Lexer is a lexical scanner for LLHD assembly source text.
//
// Newlines are significant in the grammar (every instruction and header
// is line-terminated), so the lexer emits NEWLINE tokens rather than
// swallowing line breaks the way it swallows horizontal whitespace.
// Comments run from ';' to the end of the line and are skipped unless
// comment preservation is enabled.
//
// Column positions are reported as rune counts from the start of the
// line; Offset is the byte offset into the input.
type Lexer struct {
	input            string
	errors           []Error
	position         int
	readPosition     int
	line             int
	column           int
	ch               rune
	preserveComments bool
}

// Error is a lexical error with its source position.
type Error struct {
	Message string
	Pos     token.Position
}

// Option configures a Lexer during creation via New().
type Option func(*Lexer)

// WithPreserveComments makes the lexer emit COMMENT tokens instead of
// skipping comments. Useful for token-stream debugging tools.
func WithPreserveComments(preserve bool) Option {
	return func(l *Lexer) {
		l.preserveComments = preserve
	}
}

// New creates a new Lexer for the given input string.
// A UTF-8 BOM (0xEF 0xBB 0xBF) at the start of the input is stripped.
func New(input string, opts ...Option) *Lexer {
	if len(input) >= 3 &&
		input[0] == 0xEF &&
		input[1] == 0xBB &&
		input[2] == 0xBF {
		input = input[3:]
	}

	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}

	for _, opt := range opts {
		opt(l)
	}

	l.readChar()
	return l
}

// readChar advances the lexer to the next character in the input.
// Handles UTF-8 multi-byte sequences and detects invalid encoding.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.column++
	} else {
		r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += size
		l.column++
		if r == utf8.RuneError && size == 1 {
			l.addError("invalid UTF-8 encoding", l.currentPos())
		}
	}
}

// peekChar returns the next character without advancing the position.
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// currentPos returns the current Position for token creation.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.column,
		Offset: l.position,
	}
}

// Errors returns all accumulated lexer errors.
func (l *Lexer) Errors() []Error {
	return l.errors
}

func (l *Lexer) addError(msg string, pos token.Position) {
	l.errors = append(l.errors, Error{Message: msg, Pos: pos})
}

// NextToken scans and returns the next token in the input.
func (l *Lexer) NextToken() token.Token {
	l.skipHorizontalWhitespace()

	if l.ch == ';' {
		pos := l.currentPos()
		comment := l.readLineComment()
		if l.preserveComments {
			return token.NewToken(token.COMMENT, comment, pos)
		}
	}

	pos := l.currentPos()

	switch {
	case l.ch == 0:
		return token.NewToken(token.EOF, "", pos)

	case l.ch == '\n':
		tok := token.NewToken(token.NEWLINE, "\n", pos)
		l.line++
		l.column = 0
		l.readChar()
		return tok

	case l.ch == '@' || l.ch == '%':
		return l.readName(pos)

	case isDigit(l.ch):
		return l.readNumber(pos)

	case isLetter(l.ch):
		literal := l.readInnerName()
		return token.NewToken(token.LookupIdent(literal), literal, pos)
	}

	var t token.TokenType
	switch l.ch {
	case '(':
		t = token.LPAREN
	case ')':
		t = token.RPAREN
	case '[':
		t = token.LBRACK
	case ']':
		t = token.RBRACK
	case '{':
		t = token.LBRACE
	case '}':
		t = token.RBRACE
	case ',':
		t = token.COMMA
	case ':':
		t = token.COLON
	case '=':
		t = token.EQ
	case '-':
		t = token.MINUS
	case '*':
		t = token.STAR
	case '$':
		t = token.DOLLAR
	default:
		literal := string(l.ch)
		l.addError("unexpected character '"+literal+"'", pos)
		l.readChar()
		return token.NewToken(token.ILLEGAL, literal, pos)
	}
	literal := string(l.ch)
	l.readChar()
	return token.NewToken(t, literal, pos)
}

// skipHorizontalWhitespace consumes whitespace except newlines.
func (l *Lexer) skipHorizontalWhitespace() {
	for l.ch != '\n' && l.ch != 0 && unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// readLineComment consumes a ';' comment up to, but not including, the
// terminating newline. Returns the comment text including the ';'.
func (l *Lexer) readLineComment() string {
	startPos := l.position
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	return l.input[startPos:l.position]
}

// readName scans a '@' or '%' name. The sigil is consumed and the
// returned token's literal holds only the inner name.
func (l *Lexer) readName(pos token.Position) token.Token {
	sigil := l.ch
	l.readChar()

	if !isInnerNameChar(l.ch) {
		l.addError("expected name after '"+string(sigil)+"'", pos)
		return token.NewToken(token.ILLEGAL, string(sigil), pos)
	}

	literal := l.readInnerName()
	if sigil == '@' {
		return token.NewToken(token.GLOBAL, literal, pos)
	}
	return token.NewToken(token.LOCAL, literal, pos)
}

// readInnerName scans a run of name characters [A-Za-z0-9_.].
func (l *Lexer) readInnerName() string {
	startPos := l.position
	for isInnerNameChar(l.ch) {
		l.readChar()
	}
	return l.input[startPos:l.position]
}

// siPrefixes is the set of SI scale letters permitted before the 's'
// of a time literal.
const siPrefixes = "afpnumkMGTPE"

// readNumber scans a token starting with a decimal digit and classifies
// it as an integer, time, delta-step or epsilon-step literal:
//
//	42        INT
//	1ns 3.45s TIME    (digits, optional fraction, optional SI prefix, 's')
//	42d       DELTA
//	9001e     EPSILON
//
// Maximal munch keeps the unit glued to its digits, so `1 ns` is not a
// time literal.
func (l *Lexer) readNumber(pos token.Position) token.Token {
	startPos := l.position

	for isDigit(l.ch) {
		l.readChar()
	}

	hasFraction := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		hasFraction = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	suffixStart := l.position
	for isLetter(l.ch) {
		l.readChar()
	}
	suffix := l.input[suffixStart:l.position]
	literal := l.input[startPos:l.position]

	switch {
	case suffix == "" && !hasFraction:
		return token.NewToken(token.INT, literal, pos)
	case suffix == "d" && !hasFraction:
		return token.NewToken(token.DELTA, literal, pos)
	case suffix == "e" && !hasFraction:
		return token.NewToken(token.EPSILON, literal, pos)
	case suffix == "s":
		return token.NewToken(token.TIME, literal, pos)
	case len(suffix) == 2 && strings.IndexByte(siPrefixes, suffix[0]) >= 0 && suffix[1] == 's':
		return token.NewToken(token.TIME, literal, pos)
	}

	l.addError("malformed numeric literal '"+literal+"'", pos)
	return token.NewToken(token.ILLEGAL, literal, pos)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isLetter(ch rune) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isInnerNameChar(ch rune) bool {
	return isDigit(ch) || isLetter(ch) || ch == '_' || ch == '.'
}
