package ir

import "github.com/simonsan/llhd/pkg/types"

// Unit is a top-level construct of a module: a function, process or
// entity.
type Unit interface {
	// UnitName returns the unit's name as written, without its sigil.
	UnitName() string

	// UnitType returns the unit's type: a function type for functions,
	// an entity type for processes and entities.
	UnitType() types.Type

	// String returns a readable rendition of the unit for debugging.
	String() string

	unitNode()
}

// Module is an ordered container of top-level units.
type Module struct {
	Units []Unit
}

// NewModule creates an empty module.
func NewModule() *Module {
	return &Module{}
}

// Add appends a unit to the module.
func (m *Module) Add(u Unit) {
	m.Units = append(m.Units, u)
}

// Functions returns the module's functions in declaration order.
func (m *Module) Functions() []*Function {
	var fns []*Function
	for _, u := range m.Units {
		if f, ok := u.(*Function); ok {
			fns = append(fns, f)
		}
	}
	return fns
}

// Processes returns the module's processes in declaration order.
func (m *Module) Processes() []*Process {
	var procs []*Process
	for _, u := range m.Units {
		if p, ok := u.(*Process); ok {
			procs = append(procs, p)
		}
	}
	return procs
}

// Entities returns the module's entities in declaration order.
func (m *Module) Entities() []*Entity {
	var ents []*Entity
	for _, u := range m.Units {
		if e, ok := u.(*Entity); ok {
			ents = append(ents, e)
		}
	}
	return ents
}

// Function is a top-level unit modelling a pure computation. Its body
// is a control-flow graph of basic blocks.
type Function struct {
	Name   string
	Type   *types.FuncType
	Args   []*Argument
	Blocks []*Block
}

// NewFunction creates a function with arguments derived from its type.
func NewFunction(name string, ty *types.FuncType) *Function {
	fn := &Function{Name: name, Type: ty}
	for _, argTy := range ty.Args {
		fn.Args = append(fn.Args, &Argument{Type: argTy})
	}
	return fn
}

// AddBlock appends a block to the function body.
func (f *Function) AddBlock(b *Block) {
	f.Blocks = append(f.Blocks, b)
}

// Process is a top-level unit modelling sequential behaviour. Its body
// is a control-flow graph of basic blocks.
type Process struct {
	Name    string
	Type    *types.EntityType
	Inputs  []*Argument
	Outputs []*Argument
	Blocks  []*Block
}

// NewProcess creates a process with input and output arguments derived
// from its type.
func NewProcess(name string, ty *types.EntityType) *Process {
	p := &Process{Name: name, Type: ty}
	for _, inTy := range ty.Ins {
		p.Inputs = append(p.Inputs, &Argument{Type: inTy})
	}
	for _, outTy := range ty.Outs {
		p.Outputs = append(p.Outputs, &Argument{Type: outTy})
	}
	return p
}

// AddBlock appends a block to the process body.
func (p *Process) AddBlock(b *Block) {
	p.Blocks = append(p.Blocks, b)
}

// Entity is a top-level unit modelling structural hardware. Its body
// is a flat, unordered instruction list with no control flow.
type Entity struct {
	Name    string
	Type    *types.EntityType
	Inputs  []*Argument
	Outputs []*Argument
	Insts   []*Inst
}

// NewEntity creates an entity with input and output arguments derived
// from its type.
func NewEntity(name string, ty *types.EntityType) *Entity {
	e := &Entity{Name: name, Type: ty}
	for _, inTy := range ty.Ins {
		e.Inputs = append(e.Inputs, &Argument{Type: inTy})
	}
	for _, outTy := range ty.Outs {
		e.Outputs = append(e.Outputs, &Argument{Type: outTy})
	}
	return e
}

// AddInst appends an instruction to the entity body.
func (e *Entity) AddInst(inst *Inst) {
	e.Insts = append(e.Insts, inst)
}

func (f *Function) UnitName() string { return f.Name }
func (p *Process) UnitName() string  { return p.Name }
func (e *Entity) UnitName() string   { return e.Name }

func (f *Function) UnitType() types.Type { return f.Type }
func (p *Process) UnitType() types.Type  { return p.Type }
func (e *Entity) UnitType() types.Type   { return e.Type }

func (*Function) unitNode() {}
func (*Process) unitNode()  {}
func (*Entity) unitNode()   {}
