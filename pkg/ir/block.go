package ir

import "github.com/simonsan/llhd/pkg/types"

// Argument is a named parameter of a function, process or entity.
// Name is empty when the source name was absent or a temporary.
type Argument struct {
	Name string
	Type types.Type
}

// NewArgument creates an argument, stripping temporary names.
func NewArgument(name string, ty types.Type) *Argument {
	return &Argument{Name: StripTempName(name), Type: ty}
}

// Block is a basic block: an ordered instruction sequence used as a
// branch target. Name is empty when the source label was a temporary.
//
// Blocks may be referenced before they are declared; the parser
// allocates a placeholder Block on first use and the declaration later
// adopts it, so all references share one *Block.
type Block struct {
	Name  string
	Insts []*Inst
}

// NewBlock creates a block, stripping temporary names.
func NewBlock(name string) *Block {
	return &Block{Name: StripTempName(name)}
}

// AddInst appends an instruction to the block.
func (b *Block) AddInst(inst *Inst) {
	b.Insts = append(b.Insts, inst)
}
