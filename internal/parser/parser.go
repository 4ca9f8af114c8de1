// Package parser implements the recursive-descent reader for LLHD
// assembly.
//
// Key patterns:
//   - Immutable TokenCursor with Mark/ResetTo for backtracking between
//     instruction and inline-value alternatives that share prefixes
//   - Types flow inward: each opcode's type annotation is handed to the
//     operand parsers as inference context
//   - Scoped symbol tables with placeholder-and-adopt forward block
//     references
//   - The first error aborts parsing; no partial module is returned
package parser

import (
	"fmt"

	"github.com/simonsan/llhd/internal/lexer"
	"github.com/simonsan/llhd/pkg/ir"
	"github.com/simonsan/llhd/pkg/token"
)

// Parser represents the LLHD assembly parser.
type Parser struct {
	l      *lexer.Lexer
	cursor *TokenCursor
}

// New creates a new Parser reading tokens from the given lexer.
func New(l *lexer.Lexer) *Parser {
	return &Parser{
		l:      l,
		cursor: NewTokenCursor(l),
	}
}

// advance moves the cursor to the next token.
func (p *Parser) advance() {
	p.cursor = p.cursor.Advance()
}

// errorf builds a positional parse error.
func (p *Parser) errorf(pos token.Position, code, format string, args ...any) error {
	return NewError(pos, fmt.Sprintf(format, args...), code)
}

// unexpected builds an error describing what was expected at the
// current token.
func (p *Parser) unexpected(what string) error {
	tok := p.cursor.Current()
	found := tok.Type.String()
	switch tok.Type {
	case token.ILLEGAL:
		if errs := p.l.Errors(); len(errs) > 0 {
			last := errs[len(errs)-1]
			return NewError(last.Pos, last.Message, ErrUnexpectedToken)
		}
		found = fmt.Sprintf("'%s'", tok.Literal)
	case token.IDENT, token.INT, token.TIME, token.DELTA, token.EPSILON:
		found = fmt.Sprintf("'%s'", tok.Literal)
	case token.GLOBAL:
		found = "'@" + tok.Literal + "'"
	case token.LOCAL:
		found = "'%" + tok.Literal + "'"
	case token.NEWLINE:
		found = "end of line"
	case token.EOF:
		found = "end of input"
	default:
		found = fmt.Sprintf("'%s'", tok.Literal)
	}
	return p.errorf(tok.Pos, ErrUnexpectedToken, "expected %s, found %s", what, found)
}

// expect consumes a token of the given type or fails with an
// "expected ..." diagnostic.
func (p *Parser) expect(t token.TokenType, what string) (token.Token, error) {
	tok := p.cursor.Current()
	if tok.Type != t {
		return tok, p.unexpected(what)
	}
	p.advance()
	return tok, nil
}

// atEOL reports whether the current token terminates a line.
func (p *Parser) atEOL() bool {
	return p.cursor.Is(token.NEWLINE) || p.cursor.IsEOF()
}

// expectEOL consumes the end of the current line and any following
// blank lines. Comments never reach the parser; the lexer folds them
// into the surrounding whitespace.
func (p *Parser) expectEOL() error {
	if !p.atEOL() {
		return p.unexpected("end of line")
	}
	p.skipNewlines()
	return nil
}

// skipNewlines consumes any run of line breaks.
func (p *Parser) skipNewlines() {
	for p.cursor.Is(token.NEWLINE) {
		p.advance()
	}
}

// ParseModule parses a complete module: leading whitespace, a sequence
// of top-level units, and end of input.
func (p *Parser) ParseModule() (*ir.Module, error) {
	module := ir.NewModule()
	root := newScope(nil)

	p.skipNewlines()
	for !p.cursor.IsEOF() {
		var (
			unit ir.Unit
			err  error
		)
		switch p.cursor.Current().Type {
		case token.FUNC:
			unit, err = p.parseFunction(root)
		case token.PROC:
			unit, err = p.parseProcess(root)
		case token.ENTITY:
			unit, err = p.parseEntity(root)
		default:
			return nil, p.unexpected("'func', 'proc' or 'entity'")
		}
		if err != nil {
			return nil, err
		}
		module.Add(unit)
	}

	return module, nil
}
