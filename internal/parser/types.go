package parser

import (
	"strconv"
	"strings"

	"github.com/simonsan/llhd/pkg/token"
	"github.com/simonsan/llhd/pkg/types"
)

// parseType parses a type expression:
//
//	void | time | i<N> | n<N> | {T1, ..., Tn} | [N x T]
//
// optionally followed by a single '*' (pointer) or '$' (signal)
// suffix. Suffixes do not stack.
func (p *Parser) parseType() (types.Type, error) {
	base, err := p.parseBaseType()
	if err != nil {
		return nil, err
	}

	switch p.cursor.Current().Type {
	case token.STAR:
		p.advance()
		return types.Pointer(base), nil
	case token.DOLLAR:
		p.advance()
		return types.Signal(base), nil
	}
	return base, nil
}

func (p *Parser) parseBaseType() (types.Type, error) {
	tok := p.cursor.Current()
	switch tok.Type {
	case token.VOID:
		p.advance()
		return types.Void, nil

	case token.TIMETY:
		p.advance()
		return types.Time, nil

	case token.IDENT:
		return p.parseScalarType(tok)

	case token.LBRACE:
		return p.parseStructType()

	case token.LBRACK:
		return p.parseArrayType()
	}
	return nil, p.unexpected("type")
}

// parseScalarType decodes an i<N> or n<N> identifier.
func (p *Parser) parseScalarType(tok token.Token) (types.Type, error) {
	lit := tok.Literal
	if len(lit) < 2 || (lit[0] != 'i' && lit[0] != 'n') || !allDigits(lit[1:]) {
		return nil, p.unexpected("type")
	}
	n, err := strconv.Atoi(lit[1:])
	if err != nil {
		return nil, p.errorf(tok.Pos, ErrExpectedType, "invalid type '%s'", lit)
	}
	if lit[0] == 'i' {
		if n < 1 {
			return nil, p.errorf(tok.Pos, ErrExpectedType, "integer type must have a width of at least 1")
		}
		p.advance()
		return types.Int(n), nil
	}
	p.advance()
	return types.Enum(n), nil
}

// parseStructType parses {T1, ..., Tn}; the empty struct {} is allowed.
func (p *Parser) parseStructType() (types.Type, error) {
	if _, err := p.expect(token.LBRACE, "'{'"); err != nil {
		return nil, err
	}

	var fields []types.Type
	if !p.cursor.Is(token.RBRACE) {
		for {
			field, err := p.parseType()
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
			if !p.cursor.Is(token.COMMA) {
				break
			}
			p.advance()
		}
	}

	if _, err := p.expect(token.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	return types.Struct(fields), nil
}

// parseArrayType parses [N x T].
func (p *Parser) parseArrayType() (types.Type, error) {
	if _, err := p.expect(token.LBRACK, "'['"); err != nil {
		return nil, err
	}
	lenTok, err := p.expect(token.INT, "array length")
	if err != nil {
		return nil, err
	}
	length, err := strconv.Atoi(lenTok.Literal)
	if err != nil {
		return nil, p.errorf(lenTok.Pos, ErrInvalidLiteral, "invalid array length '%s'", lenTok.Literal)
	}
	if _, err := p.expect(token.X, "'x'"); err != nil {
		return nil, err
	}
	element, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACK, "']'"); err != nil {
		return nil, err
	}
	return types.Array(length, element), nil
}

// atTypeStart reports whether the current token can begin a type
// expression. Used by the inline-value grammar to decide whether a
// speculative type prefix is worth attempting.
func (p *Parser) atTypeStart() bool {
	switch p.cursor.Current().Type {
	case token.VOID, token.TIMETY, token.LBRACE, token.LBRACK:
		return true
	case token.IDENT:
		lit := p.cursor.Current().Literal
		return len(lit) >= 2 && (lit[0] == 'i' || lit[0] == 'n') && allDigits(lit[1:])
	}
	return false
}

func allDigits(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) < 0 && s != ""
}
