package parser

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/simonsan/llhd/pkg/ir"
	"github.com/simonsan/llhd/pkg/token"
	"github.com/simonsan/llhd/pkg/types"
)

// The inline-value grammar comes in three contextual forms, all backed
// by parseValue:
//
//   - inferred: an expected type is passed in, so integer literals need
//     no annotation
//   - standalone: no expected type; the value must describe itself
//   - explicit: a leading type annotation applies to the value
//
// parseValue tries its alternatives with backtracking: an optional
// type prefix followed by a name, an array aggregate, a struct
// aggregate, a time constant, and finally an optional type prefix
// followed by an integer constant. The leading '{' of a struct type
// prefix and of a struct aggregate (and likewise '[') only resolve
// after the speculative type parse succeeds or fails.

// parseValueInfer parses an inline value whose type may be inferred
// from the enclosing instruction.
func (p *Parser) parseValueInfer(sc *scope, expected types.Type) (ir.Value, error) {
	v, _, err := p.parseValue(sc, expected)
	return v, err
}

// parseValueStandalone parses an inline value that must have a
// self-determined type.
func (p *Parser) parseValueStandalone(sc *scope) (ir.Value, types.Type, error) {
	return p.parseValue(sc, nil)
}

// parseValueExplicit parses a type annotation followed by an inline
// value of that type.
func (p *Parser) parseValueExplicit(sc *scope) (ir.Value, types.Type, error) {
	ty, err := p.parseType()
	if err != nil {
		return nil, nil, err
	}
	v, err := p.parseValueInfer(sc, ty)
	if err != nil {
		return nil, nil, err
	}
	return v, ty, nil
}

// parseValue parses an inline value with optional type context.
func (p *Parser) parseValue(sc *scope, expected types.Type) (ir.Value, types.Type, error) {
	pos := p.cursor.Position()

	// An optional explicit type prefix followed by a name. The prefix
	// is parsed speculatively: `{i32, i64} %x` commits, `{i32 42}`
	// rewinds into the struct-aggregate alternative.
	mark := p.cursor.Mark()
	if p.atTypeStart() {
		if _, err := p.parseType(); err == nil && p.atName() {
			return p.parseNamedRef(sc)
		}
		p.cursor = p.cursor.ResetTo(mark)
	}
	if p.atName() {
		return p.parseNamedRef(sc)
	}

	switch {
	case p.cursor.Is(token.LBRACK):
		return p.parseArrayAggregate(sc)
	case p.cursor.Is(token.LBRACE):
		return p.parseStructAggregate(sc)
	case p.cursor.Is(token.TIME),
		p.cursor.Is(token.MINUS) && p.cursor.PeekIs(1, token.TIME):
		return p.parseTimeConst()
	}

	// An optional explicit type prefix followed by an integer constant.
	var explicit types.Type
	if p.atTypeStart() {
		ty, err := p.parseType()
		if err != nil {
			return nil, nil, err
		}
		explicit = ty
	}
	if p.cursor.Is(token.INT) || (p.cursor.Is(token.MINUS) && p.cursor.PeekIs(1, token.INT)) {
		return p.parseIntConst(pos, explicit, expected)
	}

	return nil, nil, p.unexpected("value")
}

// atName reports whether the current token is a '@' or '%' name.
func (p *Parser) atName() bool {
	return p.cursor.Is(token.GLOBAL) || p.cursor.Is(token.LOCAL)
}

// parseNamedRef consumes a name and resolves it through the scoped
// symbol table.
func (p *Parser) parseNamedRef(sc *scope) (ir.Value, types.Type, error) {
	tok := p.cursor.Current()
	p.advance()
	b, err := sc.lookup(nameKey{global: tok.Type == token.GLOBAL, text: tok.Literal}, tok.Pos)
	if err != nil {
		return nil, nil, err
	}
	return b.value, b.typ, nil
}

// parseNamedValue parses an operand that must be a name, without any
// type inference.
func (p *Parser) parseNamedValue(sc *scope) (ir.Value, types.Type, error) {
	if !p.atName() {
		return nil, nil, p.unexpected("name")
	}
	return p.parseNamedRef(sc)
}

// parseLabel parses a block reference, creating a placeholder block if
// the label has not been declared yet.
func (p *Parser) parseLabel(sc *scope) (*ir.Block, error) {
	tok, err := p.expect(token.LOCAL, "block label")
	if err != nil {
		return nil, err
	}
	return sc.useBlock(tok.Literal, tok.Pos)
}

// parseIntConst parses an optionally signed decimal integer constant.
// Its width comes from the explicit annotation, or failing that from
// the context type.
func (p *Parser) parseIntConst(pos token.Position, explicit, expected types.Type) (ir.Value, types.Type, error) {
	neg := false
	if p.cursor.Is(token.MINUS) {
		neg = true
		p.advance()
	}
	tok, err := p.expect(token.INT, "integer")
	if err != nil {
		return nil, nil, err
	}

	value, ok := new(big.Int).SetString(tok.Literal, 10)
	if !ok {
		return nil, nil, p.errorf(tok.Pos, ErrInvalidLiteral, "invalid integer literal '%s'", tok.Literal)
	}
	if neg {
		value.Neg(value)
	}

	ty := explicit
	if ty == nil {
		ty = expected
	}
	if ty == nil {
		return nil, nil, p.errorf(pos, ErrCannotInferType, "cannot infer type of integer")
	}
	intTy, ok := ty.(*types.IntType)
	if !ok {
		return nil, nil, p.errorf(pos, ErrCannotInferType,
			"integer constant requires an integer type, have '%s'", ty)
	}

	k := ir.NewConstInt(intTy.Width, value)
	return k, intTy, nil
}

// siScales maps SI prefix letters to their decimal exponents.
var siScales = map[byte]int{
	'a': -18,
	'f': -15,
	'p': -12,
	'n': -9,
	'u': -6,
	'm': -3,
	'k': 3,
	'M': 6,
	'G': 9,
	'T': 12,
	'P': 15,
	'E': 18,
}

// parseTimeConst parses a time constant with optional delta and
// epsilon steps, e.g. `3.45ns` or `0s 42d 9001e`. The rational value
// is built from the literal's digits so that no rounding occurs.
func (p *Parser) parseTimeConst() (ir.Value, types.Type, error) {
	neg := false
	if p.cursor.Is(token.MINUS) {
		neg = true
		p.advance()
	}
	tok, err := p.expect(token.TIME, "time constant")
	if err != nil {
		return nil, nil, err
	}

	body := strings.TrimSuffix(tok.Literal, "s")
	scale := 0
	if len(body) > 0 {
		if s, ok := siScales[body[len(body)-1]]; ok {
			scale = s
			body = body[:len(body)-1]
		}
	}
	intPart, frac, _ := strings.Cut(body, ".")

	// Concatenate the integer and fraction digits into the numerator
	// and move the decimal point via the denominator, so 3.45ns becomes
	// 345 / 100000000000 exactly.
	numer := intPart + frac
	denom := "1"
	zeros := scale - len(frac)
	if zeros < 0 {
		denom += strings.Repeat("0", -zeros)
	} else if zeros > 0 {
		numer += strings.Repeat("0", zeros)
	}

	n, okN := new(big.Int).SetString(numer, 10)
	d, okD := new(big.Int).SetString(denom, 10)
	if !okN || !okD {
		return nil, nil, p.errorf(tok.Pos, ErrInvalidLiteral, "invalid time literal '%s'", tok.Literal)
	}
	value := new(big.Rat).SetFrac(n, d)
	if neg {
		value.Neg(value)
	}

	var delta, epsilon uint64
	if p.cursor.Is(token.DELTA) {
		dTok := p.cursor.Current()
		delta, err = strconv.ParseUint(strings.TrimSuffix(dTok.Literal, "d"), 10, 64)
		if err != nil {
			return nil, nil, p.errorf(dTok.Pos, ErrInvalidLiteral, "invalid delta value '%s'", dTok.Literal)
		}
		p.advance()
	}
	if p.cursor.Is(token.EPSILON) {
		eTok := p.cursor.Current()
		epsilon, err = strconv.ParseUint(strings.TrimSuffix(eTok.Literal, "e"), 10, 64)
		if err != nil {
			return nil, nil, p.errorf(eTok.Pos, ErrInvalidLiteral, "invalid epsilon value '%s'", eTok.Literal)
		}
		p.advance()
	}

	return ir.NewConstTime(value, delta, epsilon), types.Time, nil
}

// parseArrayAggregate parses `[` [N x] T v, ... `]`. The length prefix
// is optional and, when present, is not required to match the element
// count; short literals are legal at the IR level.
func (p *Parser) parseArrayAggregate(sc *scope) (ir.Value, types.Type, error) {
	if _, err := p.expect(token.LBRACK, "'['"); err != nil {
		return nil, nil, err
	}

	length := -1
	if p.cursor.Is(token.INT) && p.cursor.PeekIs(1, token.X) {
		lenTok := p.cursor.Current()
		n, err := strconv.Atoi(lenTok.Literal)
		if err != nil {
			return nil, nil, p.errorf(lenTok.Pos, ErrInvalidLiteral, "invalid array length '%s'", lenTok.Literal)
		}
		length = n
		p.advance()
		p.advance()
	}

	elemTy, err := p.parseType()
	if err != nil {
		return nil, nil, err
	}

	var values []ir.Value
	if !p.cursor.Is(token.RBRACK) {
		for {
			v, err := p.parseValueInfer(sc, elemTy)
			if err != nil {
				return nil, nil, err
			}
			values = append(values, v)
			if !p.cursor.Is(token.COMMA) {
				break
			}
			p.advance()
		}
	}

	if _, err := p.expect(token.RBRACK, "']'"); err != nil {
		return nil, nil, err
	}

	if length < 0 {
		length = len(values)
	}
	ty := types.Array(length, elemTy)
	return ir.NewArrayAggregate(ty, values), ty, nil
}

// parseStructAggregate parses `{` v, ... `}` where each field value is
// self-describing; the struct type is the tuple of the field types.
func (p *Parser) parseStructAggregate(sc *scope) (ir.Value, types.Type, error) {
	if _, err := p.expect(token.LBRACE, "'{'"); err != nil {
		return nil, nil, err
	}

	var (
		values   []ir.Value
		fieldTys []types.Type
	)
	if !p.cursor.Is(token.RBRACE) {
		for {
			v, ty, err := p.parseValueStandalone(sc)
			if err != nil {
				return nil, nil, err
			}
			values = append(values, v)
			fieldTys = append(fieldTys, ty)
			if !p.cursor.Is(token.COMMA) {
				break
			}
			p.advance()
		}
	}

	if _, err := p.expect(token.RBRACE, "'}'"); err != nil {
		return nil, nil, err
	}

	ty := types.Struct(fieldTys)
	return ir.NewStructAggregate(ty, values), ty, nil
}
