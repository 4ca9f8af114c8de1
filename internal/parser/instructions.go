package parser

import (
	"strconv"

	"github.com/simonsan/llhd/pkg/ir"
	"github.com/simonsan/llhd/pkg/token"
	"github.com/simonsan/llhd/pkg/types"
)

// binaryOps maps opcode keywords to binary operators.
var binaryOps = map[token.TokenType]ir.BinaryOp{
	token.ADD: ir.BinaryAdd,
	token.SUB: ir.BinarySub,
	token.MUL: ir.BinaryMul,
	token.DIV: ir.BinaryDiv,
	token.MOD: ir.BinaryMod,
	token.REM: ir.BinaryRem,
	token.AND: ir.BinaryAnd,
	token.OR:  ir.BinaryOr,
	token.XOR: ir.BinaryXor,
}

// compareOps maps `cmp` sub-operator spellings to compare operators.
var compareOps = map[string]ir.CompareOp{
	"eq":  ir.CompareEq,
	"neq": ir.CompareNeq,
	"slt": ir.CompareSlt,
	"sgt": ir.CompareSgt,
	"sle": ir.CompareSle,
	"sge": ir.CompareSge,
	"ult": ir.CompareUlt,
	"ugt": ir.CompareUgt,
	"ule": ir.CompareUle,
	"uge": ir.CompareUge,
}

// parseNamedInst parses one instruction line:
//
//	[%name =] <opcode> <operands...> EOL
//
// A named result is bound in the current scope under its source name;
// purely numeric names stay resolvable but are stripped from the
// stored instruction.
func (p *Parser) parseNamedInst(sc *scope) (*ir.Inst, error) {
	var nameTok token.Token
	hasName := false
	if p.cursor.Is(token.LOCAL) && p.cursor.PeekIs(1, token.EQ) {
		nameTok = p.cursor.Current()
		hasName = true
		p.advance()
		p.advance()
	}

	kind, err := p.parseInstKind(sc)
	if err != nil {
		return nil, err
	}
	if err := p.expectEOL(); err != nil {
		return nil, err
	}

	name := ""
	if hasName {
		name = nameTok.Literal
	}
	inst := ir.NewInst(name, kind)
	if hasName {
		key := nameKey{global: false, text: nameTok.Literal}
		if err := sc.insert(key, inst, kind.ResultType(), nameTok.Pos); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// parseInstKind dispatches on the opcode keyword.
func (p *Parser) parseInstKind(sc *scope) (ir.InstKind, error) {
	tok := p.cursor.Current()
	switch tok.Type {
	case token.NOT:
		return p.parseUnaryInst(sc)
	case token.ADD, token.SUB, token.MUL, token.DIV, token.MOD,
		token.REM, token.AND, token.OR, token.XOR:
		return p.parseBinaryInst(sc)
	case token.CMP:
		return p.parseCompareInst(sc)
	case token.CALL:
		return p.parseCallInst(sc)
	case token.INST:
		return p.parseInstanceInst(sc)
	case token.WAIT:
		return p.parseWaitInst(sc)
	case token.RET:
		return p.parseReturnInst(sc)
	case token.BR:
		return p.parseBranchInst(sc)
	case token.SIG:
		return p.parseSignalInst(sc)
	case token.PRB:
		return p.parseProbeInst(sc)
	case token.DRV:
		return p.parseDriveInst(sc)
	case token.VAR:
		return p.parseVariableInst()
	case token.LOAD:
		return p.parseLoadInst(sc)
	case token.STORE:
		return p.parseStoreInst(sc)
	case token.INSERT:
		return p.parseInsertInst(sc)
	case token.EXTRACT:
		return p.parseExtractInst(sc)
	case token.SHL, token.SHR:
		return p.parseShiftInst(sc)
	case token.HALT:
		p.advance()
		return &ir.Halt{}, nil
	}
	return nil, p.unexpected("instruction")
}

// parseUnaryInst parses `not T v`.
func (p *Parser) parseUnaryInst(sc *scope) (ir.InstKind, error) {
	p.advance()
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	arg, err := p.parseValueInfer(sc, ty)
	if err != nil {
		return nil, err
	}
	return &ir.Unary{Op: ir.UnaryNot, Type: ty, Arg: arg}, nil
}

// parseBinaryInst parses `<op> T v v`, the type constraining both
// operands.
func (p *Parser) parseBinaryInst(sc *scope) (ir.InstKind, error) {
	op := binaryOps[p.cursor.Current().Type]
	p.advance()
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	lhs, err := p.parseValueInfer(sc, ty)
	if err != nil {
		return nil, err
	}
	rhs, err := p.parseValueInfer(sc, ty)
	if err != nil {
		return nil, err
	}
	return &ir.Binary{Op: op, Type: ty, LHS: lhs, RHS: rhs}, nil
}

// parseCompareInst parses `cmp <op> T v v`.
func (p *Parser) parseCompareInst(sc *scope) (ir.InstKind, error) {
	p.advance()
	opTok, err := p.expect(token.IDENT, "compare operator")
	if err != nil {
		return nil, err
	}
	op, ok := compareOps[opTok.Literal]
	if !ok {
		return nil, p.errorf(opTok.Pos, ErrUnexpectedToken, "unknown compare operator '%s'", opTok.Literal)
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	lhs, err := p.parseValueInfer(sc, ty)
	if err != nil {
		return nil, err
	}
	rhs, err := p.parseValueInfer(sc, ty)
	if err != nil {
		return nil, err
	}
	return &ir.Compare{Op: op, Type: ty, LHS: lhs, RHS: rhs}, nil
}

// parseCallTarget resolves the callee name of a call or instance.
func (p *Parser) parseCallTarget(sc *scope) (token.Token, ir.Value, types.Type, error) {
	tok := p.cursor.Current()
	if !p.atName() {
		return tok, nil, nil, p.unexpected("name")
	}
	target, ty, err := p.parseNamedRef(sc)
	return tok, target, ty, err
}

// parseArgValues parses a parenthesized argument list, giving each
// operand its positional formal type. The empty list `()` is handled
// before any formal type is consulted, so callees without parameters
// never query the iterator.
func (p *Parser) parseArgValues(sc *scope, formals []types.Type, target token.Token) ([]ir.Value, error) {
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	var args []ir.Value
	if !p.cursor.Is(token.RPAREN) {
		for {
			if len(args) >= len(formals) {
				return nil, p.errorf(p.cursor.Position(), ErrMissingArgument,
					"no formal argument for operand %d of %s", len(args)+1, sigilled(target))
			}
			v, err := p.parseValueInfer(sc, formals[len(args)])
			if err != nil {
				return nil, err
			}
			args = append(args, v)
			if !p.cursor.Is(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}

// sigilled renders a name token with its sigil for diagnostics.
func sigilled(tok token.Token) string {
	if tok.Type == token.GLOBAL {
		return "@" + tok.Literal
	}
	return "%" + tok.Literal
}

// parseCallInst parses `call @name (v, ...)`.
func (p *Parser) parseCallInst(sc *scope) (ir.InstKind, error) {
	p.advance()
	tok, target, ty, err := p.parseCallTarget(sc)
	if err != nil {
		return nil, err
	}
	fnTy, ok := ty.(*types.FuncType)
	if !ok {
		return nil, p.errorf(tok.Pos, ErrWrongValueKind, "call target %s is not a function", sigilled(tok))
	}
	args, err := p.parseArgValues(sc, fnTy.Args, tok)
	if err != nil {
		return nil, err
	}
	return &ir.Call{Type: fnTy, Target: target, Args: args}, nil
}

// parseInstanceInst parses `inst @name (v, ...) (v, ...)`.
func (p *Parser) parseInstanceInst(sc *scope) (ir.InstKind, error) {
	p.advance()
	tok, target, ty, err := p.parseCallTarget(sc)
	if err != nil {
		return nil, err
	}
	entTy, ok := ty.(*types.EntityType)
	if !ok {
		return nil, p.errorf(tok.Pos, ErrWrongValueKind,
			"instance target %s is not a process or entity", sigilled(tok))
	}
	ins, err := p.parseArgValues(sc, entTy.Ins, tok)
	if err != nil {
		return nil, err
	}
	outs, err := p.parseArgValues(sc, entTy.Outs, tok)
	if err != nil {
		return nil, err
	}
	return &ir.Instance{Type: entTy, Target: target, Ins: ins, Outs: outs}, nil
}

// parseWaitInst parses `wait L [for time-v] [, S]*`.
func (p *Parser) parseWaitInst(sc *scope) (ir.InstKind, error) {
	p.advance()
	target, err := p.parseLabel(sc)
	if err != nil {
		return nil, err
	}

	var timeValue ir.Value
	if p.cursor.Is(token.FOR) {
		p.advance()
		timeValue, err = p.parseValueInfer(sc, types.Time)
		if err != nil {
			return nil, err
		}
	}

	var signals []ir.Value
	for p.cursor.Is(token.COMMA) {
		p.advance()
		sig, _, err := p.parseNamedValue(sc)
		if err != nil {
			return nil, err
		}
		signals = append(signals, sig)
	}

	return &ir.Wait{Target: target, Time: timeValue, Signals: signals}, nil
}

// parseReturnInst parses `ret` or `ret T v`.
func (p *Parser) parseReturnInst(sc *scope) (ir.InstKind, error) {
	p.advance()
	if p.atEOL() {
		return &ir.Return{}, nil
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	v, err := p.parseValueInfer(sc, ty)
	if err != nil {
		return nil, err
	}
	return &ir.Return{Type: ty, Value: v}, nil
}

// parseBranchInst parses `br label L` or `br i1-v label L L`,
// deciding between the forms by lookahead on the `label` keyword.
func (p *Parser) parseBranchInst(sc *scope) (ir.InstKind, error) {
	p.advance()

	if p.cursor.Is(token.LABEL) {
		p.advance()
		target, err := p.parseLabel(sc)
		if err != nil {
			return nil, err
		}
		return &ir.Branch{IfTrue: target}, nil
	}

	cond, err := p.parseValueInfer(sc, types.Int(1))
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LABEL, "'label'"); err != nil {
		return nil, err
	}
	ifTrue, err := p.parseLabel(sc)
	if err != nil {
		return nil, err
	}
	ifFalse, err := p.parseLabel(sc)
	if err != nil {
		return nil, err
	}
	return &ir.Branch{Cond: cond, IfTrue: ifTrue, IfFalse: ifFalse}, nil
}

// parseSignalInst parses `sig T [v]`.
func (p *Parser) parseSignalInst(sc *scope) (ir.InstKind, error) {
	p.advance()
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	var init ir.Value
	if !p.atEOL() {
		init, err = p.parseValueInfer(sc, ty)
		if err != nil {
			return nil, err
		}
	}
	return &ir.Signal{Type: ty, Init: init}, nil
}

// parseProbeInst parses `prb S`.
func (p *Parser) parseProbeInst(sc *scope) (ir.InstKind, error) {
	p.advance()
	tok := p.cursor.Current()
	sig, ty, err := p.parseNamedValue(sc)
	if err != nil {
		return nil, err
	}
	sigTy, ok := ty.(*types.SignalType)
	if !ok {
		return nil, p.errorf(tok.Pos, ErrWrongValueKind, "%s is not a signal", sigilled(tok))
	}
	return &ir.Probe{Signal: sig, Type: sigTy.To}, nil
}

// parseDriveInst parses `drv S v [time-v]`.
func (p *Parser) parseDriveInst(sc *scope) (ir.InstKind, error) {
	p.advance()
	tok := p.cursor.Current()
	sig, ty, err := p.parseNamedValue(sc)
	if err != nil {
		return nil, err
	}
	sigTy, ok := ty.(*types.SignalType)
	if !ok {
		return nil, p.errorf(tok.Pos, ErrWrongValueKind, "%s is not a signal", sigilled(tok))
	}
	value, err := p.parseValueInfer(sc, sigTy.To)
	if err != nil {
		return nil, err
	}
	var delay ir.Value
	if !p.atEOL() {
		delay, err = p.parseValueInfer(sc, types.Time)
		if err != nil {
			return nil, err
		}
	}
	return &ir.Drive{Signal: sig, Value: value, Delay: delay}, nil
}

// parseVariableInst parses `var T`.
func (p *Parser) parseVariableInst() (ir.InstKind, error) {
	p.advance()
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &ir.Variable{Type: ty}, nil
}

// parseLoadInst parses `load T P`.
func (p *Parser) parseLoadInst(sc *scope) (ir.InstKind, error) {
	p.advance()
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	ptr, err := p.parseValueInfer(sc, ty)
	if err != nil {
		return nil, err
	}
	return &ir.Load{Type: ty, Pointer: ptr}, nil
}

// parseStoreInst parses `store T v P`: the stored value first, then
// the pointer.
func (p *Parser) parseStoreInst(sc *scope) (ir.InstKind, error) {
	p.advance()
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	value, err := p.parseValueInfer(sc, ty)
	if err != nil {
		return nil, err
	}
	ptr, err := p.parseValueInfer(sc, ty)
	if err != nil {
		return nil, err
	}
	return &ir.Store{Type: ty, Value: value, Pointer: ptr}, nil
}

// parseAccess parses the shared part of insert and extract:
//
//	element T v , <N>
//	slice T v , <N> , <N>
func (p *Parser) parseAccess(sc *scope) (types.Type, ir.Value, ir.AccessMode, error) {
	switch p.cursor.Current().Type {
	case token.ELEMENT:
		p.advance()
		ty, err := p.parseType()
		if err != nil {
			return nil, nil, nil, err
		}
		target, err := p.parseValueInfer(sc, ty)
		if err != nil {
			return nil, nil, nil, err
		}
		if _, err := p.expect(token.COMMA, "','"); err != nil {
			return nil, nil, nil, err
		}
		index, err := p.parseIndex()
		if err != nil {
			return nil, nil, nil, err
		}
		return ty, target, &ir.ElementMode{Index: index}, nil

	case token.SLICE:
		p.advance()
		ty, err := p.parseType()
		if err != nil {
			return nil, nil, nil, err
		}
		target, err := p.parseValueInfer(sc, ty)
		if err != nil {
			return nil, nil, nil, err
		}
		if _, err := p.expect(token.COMMA, "','"); err != nil {
			return nil, nil, nil, err
		}
		base, err := p.parseIndex()
		if err != nil {
			return nil, nil, nil, err
		}
		if _, err := p.expect(token.COMMA, "','"); err != nil {
			return nil, nil, nil, err
		}
		length, err := p.parseIndex()
		if err != nil {
			return nil, nil, nil, err
		}
		return ty, target, &ir.SliceAccess{Base: base, Length: length}, nil
	}
	return nil, nil, nil, p.unexpected("'element' or 'slice'")
}

// parseIndex parses a small unsigned decimal index.
func (p *Parser) parseIndex() (int, error) {
	tok, err := p.expect(token.INT, "index")
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(tok.Literal)
	if convErr != nil {
		return 0, p.errorf(tok.Pos, ErrInvalidLiteral, "invalid index '%s'", tok.Literal)
	}
	return n, nil
}

// parseInsertInst parses `insert element T v , <N> , v2` or
// `insert slice T v , <N> , <N> , v2`.
func (p *Parser) parseInsertInst(sc *scope) (ir.InstKind, error) {
	p.advance()
	ty, target, mode, err := p.parseAccess(sc)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COMMA, "','"); err != nil {
		return nil, err
	}
	value, _, err := p.parseValueStandalone(sc)
	if err != nil {
		return nil, err
	}
	return &ir.Insert{Type: ty, Target: target, Mode: mode, Value: value}, nil
}

// parseExtractInst parses `extract element T v , <N>` or
// `extract slice T v , <N> , <N>`.
func (p *Parser) parseExtractInst(sc *scope) (ir.InstKind, error) {
	p.advance()
	ty, target, mode, err := p.parseAccess(sc)
	if err != nil {
		return nil, err
	}
	return &ir.Extract{Type: ty, Target: target, Mode: mode}, nil
}

// parseShiftInst parses `shl/shr <T v> , v , v`: an explicitly typed
// target, then self-describing insert and amount operands.
func (p *Parser) parseShiftInst(sc *scope) (ir.InstKind, error) {
	dir := ir.ShiftLeft
	if p.cursor.Is(token.SHR) {
		dir = ir.ShiftRight
	}
	p.advance()

	target, ty, err := p.parseValueExplicit(sc)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COMMA, "','"); err != nil {
		return nil, err
	}
	insert, _, err := p.parseValueStandalone(sc)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COMMA, "','"); err != nil {
		return nil, err
	}
	amount, _, err := p.parseValueStandalone(sc)
	if err != nil {
		return nil, err
	}
	return &ir.Shift{Dir: dir, Type: ty, Target: target, Insert: insert, Amount: amount}, nil
}
