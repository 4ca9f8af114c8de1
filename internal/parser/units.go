package parser

import (
	"github.com/simonsan/llhd/pkg/ir"
	"github.com/simonsan/llhd/pkg/token"
	"github.com/simonsan/llhd/pkg/types"
)

// argDecl is one entry of a parenthesized argument list: a type and an
// optional local name.
type argDecl struct {
	ty    types.Type
	name  string
	named bool
	pos   token.Position
}

// parseArguments parses `( T [%name] , ... )`; the list may be empty.
func (p *Parser) parseArguments() ([]argDecl, error) {
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}

	var args []argDecl
	if !p.cursor.Is(token.RPAREN) {
		for {
			ty, err := p.parseType()
			if err != nil {
				return nil, err
			}
			decl := argDecl{ty: ty}
			if p.cursor.Is(token.LOCAL) {
				tok := p.cursor.Current()
				decl.name = tok.Literal
				decl.named = true
				decl.pos = tok.Pos
				p.advance()
			}
			args = append(args, decl)
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

// parseUnitName consumes a unit's '@' or '%' name.
func (p *Parser) parseUnitName() (token.Token, error) {
	tok := p.cursor.Current()
	if !p.atName() {
		return tok, p.unexpected("name")
	}
	p.advance()
	return tok, nil
}

// bindArguments binds named arguments in the unit's scope and assigns
// their display names, stripping temporaries.
func (p *Parser) bindArguments(sc *scope, decls []argDecl, args []*ir.Argument) error {
	for i, decl := range decls {
		if !decl.named {
			continue
		}
		key := nameKey{global: false, text: decl.name}
		if err := sc.insert(key, args[i], decl.ty, decl.pos); err != nil {
			return err
		}
		args[i].Name = ir.StripTempName(decl.name)
	}
	return nil
}

// checkResolved fails if the scope still holds a forward-declared
// block placeholder that was never adopted by a declaration.
func (p *Parser) checkResolved(sc *scope) error {
	if name, pos, ok := sc.unresolvedBlock(); ok {
		return p.errorf(pos, ErrUnresolvedBlock, "unresolved forward reference to block %%%s", name)
	}
	return nil
}

// parseFunction parses `func @name (args) ret-ty { blocks }`.
func (p *Parser) parseFunction(parent *scope) (ir.Unit, error) {
	p.advance()
	nameTok, err := p.parseUnitName()
	if err != nil {
		return nil, err
	}
	decls, err := p.parseArguments()
	if err != nil {
		return nil, err
	}
	retTy, err := p.parseType()
	if err != nil {
		return nil, err
	}

	argTys := make([]types.Type, len(decls))
	for i, d := range decls {
		argTys[i] = d.ty
	}
	fnTy := types.Func(argTys, retTy)

	fn := ir.NewFunction(nameTok.Literal, fnTy)
	key := nameKey{global: nameTok.Type == token.GLOBAL, text: nameTok.Literal}
	if err := parent.insert(key, fn, fnTy, nameTok.Pos); err != nil {
		return nil, err
	}

	sc := newScope(parent)
	if err := p.bindArguments(sc, decls, fn.Args); err != nil {
		return nil, err
	}

	fn.Blocks, err = p.parseBlocksBody(sc)
	if err != nil {
		return nil, err
	}
	if err := p.checkResolved(sc); err != nil {
		return nil, err
	}
	return fn, nil
}

// parseUnitHeader parses the shared header of a process or entity:
// the name and two parenthesized argument lists.
func (p *Parser) parseUnitHeader() (token.Token, *types.EntityType, []argDecl, []argDecl, error) {
	p.advance()
	nameTok, err := p.parseUnitName()
	if err != nil {
		return nameTok, nil, nil, nil, err
	}
	ins, err := p.parseArguments()
	if err != nil {
		return nameTok, nil, nil, nil, err
	}
	outs, err := p.parseArguments()
	if err != nil {
		return nameTok, nil, nil, nil, err
	}

	inTys := make([]types.Type, len(ins))
	for i, d := range ins {
		inTys[i] = d.ty
	}
	outTys := make([]types.Type, len(outs))
	for i, d := range outs {
		outTys[i] = d.ty
	}
	return nameTok, types.Entity(inTys, outTys), ins, outs, nil
}

// parseProcess parses `proc @name (ins) (outs) { blocks }`.
func (p *Parser) parseProcess(parent *scope) (ir.Unit, error) {
	nameTok, unitTy, ins, outs, err := p.parseUnitHeader()
	if err != nil {
		return nil, err
	}

	proc := ir.NewProcess(nameTok.Literal, unitTy)
	key := nameKey{global: nameTok.Type == token.GLOBAL, text: nameTok.Literal}
	if err := parent.insert(key, proc, unitTy, nameTok.Pos); err != nil {
		return nil, err
	}

	sc := newScope(parent)
	if err := p.bindArguments(sc, ins, proc.Inputs); err != nil {
		return nil, err
	}
	if err := p.bindArguments(sc, outs, proc.Outputs); err != nil {
		return nil, err
	}

	proc.Blocks, err = p.parseBlocksBody(sc)
	if err != nil {
		return nil, err
	}
	if err := p.checkResolved(sc); err != nil {
		return nil, err
	}
	return proc, nil
}

// parseEntity parses `entity @name (ins) (outs) { insts }`. Entity
// bodies are flat instruction lists without blocks.
func (p *Parser) parseEntity(parent *scope) (ir.Unit, error) {
	nameTok, unitTy, ins, outs, err := p.parseUnitHeader()
	if err != nil {
		return nil, err
	}

	ent := ir.NewEntity(nameTok.Literal, unitTy)
	key := nameKey{global: nameTok.Type == token.GLOBAL, text: nameTok.Literal}
	if err := parent.insert(key, ent, unitTy, nameTok.Pos); err != nil {
		return nil, err
	}

	sc := newScope(parent)
	if err := p.bindArguments(sc, ins, ent.Inputs); err != nil {
		return nil, err
	}
	if err := p.bindArguments(sc, outs, ent.Outputs); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.LBRACE, "'{'"); err != nil {
		return nil, err
	}
	if err := p.expectEOL(); err != nil {
		return nil, err
	}
	ent.Insts, err = p.parseInsts(sc)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	if err := p.expectEOL(); err != nil {
		return nil, err
	}
	if err := p.checkResolved(sc); err != nil {
		return nil, err
	}
	return ent, nil
}

// parseBlocksBody parses `{ EOL (block)+ }` for functions and
// processes. Each block is `%name :` EOL followed by its instruction
// list; a block declaration adopts any placeholder created by earlier
// forward references.
func (p *Parser) parseBlocksBody(sc *scope) ([]*ir.Block, error) {
	if _, err := p.expect(token.LBRACE, "'{'"); err != nil {
		return nil, err
	}
	if err := p.expectEOL(); err != nil {
		return nil, err
	}

	var blocks []*ir.Block
	for !p.cursor.Is(token.RBRACE) && !p.cursor.IsEOF() {
		if !p.cursor.Is(token.LOCAL) || !p.cursor.PeekIs(1, token.COLON) {
			return nil, p.unexpected("basic block")
		}
		nameTok := p.cursor.Current()
		p.advance()
		p.advance()
		if err := p.expectEOL(); err != nil {
			return nil, err
		}

		blk, err := sc.declareBlock(nameTok.Literal, nameTok.Pos)
		if err != nil {
			return nil, err
		}
		blk.Insts, err = p.parseInsts(sc)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, blk)
	}

	if len(blocks) == 0 {
		return nil, p.unexpected("basic block")
	}
	if _, err := p.expect(token.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	if err := p.expectEOL(); err != nil {
		return nil, err
	}
	return blocks, nil
}

// parseInsts parses instructions until the body closes or the next
// block label starts.
func (p *Parser) parseInsts(sc *scope) ([]*ir.Inst, error) {
	var insts []*ir.Inst
	for {
		if p.cursor.Is(token.RBRACE) || p.cursor.IsEOF() {
			return insts, nil
		}
		if p.cursor.Is(token.LOCAL) && p.cursor.PeekIs(1, token.COLON) {
			return insts, nil
		}
		inst, err := p.parseNamedInst(sc)
		if err != nil {
			return nil, err
		}
		insts = append(insts, inst)
	}
}
