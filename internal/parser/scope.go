package parser

import (
	"fmt"

	"github.com/simonsan/llhd/pkg/ir"
	"github.com/simonsan/llhd/pkg/token"
	"github.com/simonsan/llhd/pkg/types"
)

// nameKey identifies a binding: '@' names are global, '%' names local.
type nameKey struct {
	global bool
	text   string
}

// String renders the key with its sigil for diagnostics.
func (k nameKey) String() string {
	if k.global {
		return "@" + k.text
	}
	return "%" + k.text
}

// binding pairs a value reference with its type.
type binding struct {
	value ir.Value
	typ   types.Type
}

// scope is one link of the scoped symbol table. The root scope is
// module-wide and holds all globals; each unit opens a child scope
// that is discarded after the unit is parsed.
//
// The blocks map holds only forward-declared placeholder blocks that
// are awaiting adoption by their declaration. A placeholder left in
// the map when the unit closes is an unresolved forward reference.
type scope struct {
	parent    *scope
	values    map[nameKey]binding
	blocks    map[string]*ir.Block
	blockUses map[string]token.Position
}

// newScope creates a scope with an optional parent.
func newScope(parent *scope) *scope {
	return &scope{
		parent:    parent,
		values:    make(map[nameKey]binding),
		blocks:    make(map[string]*ir.Block),
		blockUses: make(map[string]token.Position),
	}
}

// insert binds a name in the current scope. Duplicate names are fatal.
func (s *scope) insert(key nameKey, value ir.Value, typ types.Type, pos token.Position) error {
	if _, exists := s.values[key]; exists {
		return NewError(pos, fmt.Sprintf("name %s redefined", key), ErrRedefinedName)
	}
	s.values[key] = binding{value: value, typ: typ}
	return nil
}

// lookup resolves a name by walking from the current scope to the root.
func (s *scope) lookup(key nameKey, pos token.Position) (binding, error) {
	for sc := s; sc != nil; sc = sc.parent {
		if b, ok := sc.values[key]; ok {
			return b, nil
		}
	}
	return binding{}, NewError(pos, fmt.Sprintf("name %s has not been declared", key), ErrUndeclaredName)
}

// useBlock produces a block reference by name. If the name is already
// bound to a block in the current scope, that block is returned. If it
// is bound to anything else, that is fatal. Otherwise a placeholder
// block is allocated so that blocks can be referenced before they are
// declared.
func (s *scope) useBlock(name string, pos token.Position) (*ir.Block, error) {
	key := nameKey{global: false, text: name}
	if b, ok := s.values[key]; ok {
		if blk, ok := b.value.(*ir.Block); ok {
			return blk, nil
		}
		return nil, NewError(pos, fmt.Sprintf("%%%s does not refer to a block", name), ErrNotABlock)
	}

	blk := ir.NewBlock(name)
	s.blocks[name] = blk
	s.blockUses[name] = pos
	s.values[key] = binding{value: blk, typ: types.Void}
	return blk, nil
}

// declareBlock creates a block with the given name, or adopts the
// placeholder previously allocated by useBlock. Declaring the same
// block twice is fatal.
func (s *scope) declareBlock(name string, pos token.Position) (*ir.Block, error) {
	if blk, ok := s.blocks[name]; ok {
		delete(s.blocks, name)
		delete(s.blockUses, name)
		return blk, nil
	}

	key := nameKey{global: false, text: name}
	if _, exists := s.values[key]; exists {
		return nil, NewError(pos, fmt.Sprintf("block %%%s redefined", name), ErrRedefinedName)
	}
	blk := ir.NewBlock(name)
	s.values[key] = binding{value: blk, typ: types.Void}
	return blk, nil
}

// unresolvedBlock returns the name and first-use position of one
// placeholder block that was never declared, if any remain.
func (s *scope) unresolvedBlock() (string, token.Position, bool) {
	for name, pos := range s.blockUses {
		return name, pos, true
	}
	return "", token.Position{}, false
}
