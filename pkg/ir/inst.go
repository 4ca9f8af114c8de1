package ir

import (
	"github.com/simonsan/llhd/pkg/types"
)

// UnaryOp is the operator of a unary instruction.
type UnaryOp int

const (
	UnaryNot UnaryOp = iota
)

var unaryOpNames = map[UnaryOp]string{
	UnaryNot: "not",
}

func (op UnaryOp) String() string { return unaryOpNames[op] }

// BinaryOp is the operator of a binary instruction.
type BinaryOp int

const (
	BinaryAdd BinaryOp = iota
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod
	BinaryRem
	BinaryAnd
	BinaryOr
	BinaryXor
)

var binaryOpNames = map[BinaryOp]string{
	BinaryAdd: "add",
	BinarySub: "sub",
	BinaryMul: "mul",
	BinaryDiv: "div",
	BinaryMod: "mod",
	BinaryRem: "rem",
	BinaryAnd: "and",
	BinaryOr:  "or",
	BinaryXor: "xor",
}

func (op BinaryOp) String() string { return binaryOpNames[op] }

// CompareOp is the sub-operator of a compare instruction.
type CompareOp int

const (
	CompareEq CompareOp = iota
	CompareNeq
	CompareSlt
	CompareSgt
	CompareSle
	CompareSge
	CompareUlt
	CompareUgt
	CompareUle
	CompareUge
)

var compareOpNames = map[CompareOp]string{
	CompareEq:  "eq",
	CompareNeq: "neq",
	CompareSlt: "slt",
	CompareSgt: "sgt",
	CompareSle: "sle",
	CompareSge: "sge",
	CompareUlt: "ult",
	CompareUgt: "ugt",
	CompareUle: "ule",
	CompareUge: "uge",
}

func (op CompareOp) String() string { return compareOpNames[op] }

// ShiftDir is the direction of a shift instruction.
type ShiftDir int

const (
	ShiftLeft ShiftDir = iota
	ShiftRight
)

func (d ShiftDir) String() string {
	if d == ShiftLeft {
		return "shl"
	}
	return "shr"
}

// AccessMode selects the part of a value an insert or extract
// instruction operates on.
type AccessMode interface {
	accessMode()
}

// ElementMode addresses a single element or field by index.
type ElementMode struct {
	Index int
}

// SliceAccess addresses a contiguous range of elements or bits.
type SliceAccess struct {
	Base   int
	Length int
}

func (*ElementMode) accessMode() {}
func (*SliceAccess) accessMode() {}

// InstKind is the closed set of instruction variants. Each kind knows
// the type of the value the instruction produces.
type InstKind interface {
	// ResultType returns the type of the instruction's result. Void
	// for instructions that produce no value.
	ResultType() types.Type

	instKind()
}

// Inst is a single instruction: an optional result name and a kind.
// Purely numeric source names are stripped; Name is empty for those
// and for unnamed instructions.
type Inst struct {
	Name string
	Kind InstKind
}

// NewInst creates an instruction, stripping temporary names.
func NewInst(name string, kind InstKind) *Inst {
	return &Inst{Name: StripTempName(name), Kind: kind}
}

// Type returns the type of the instruction's result.
func (i *Inst) Type() types.Type {
	return i.Kind.ResultType()
}

// Unary applies an operator to a single operand.
type Unary struct {
	Op   UnaryOp
	Type types.Type
	Arg  Value
}

// Binary applies an operator to two operands of the same type.
type Binary struct {
	Op   BinaryOp
	Type types.Type
	LHS  Value
	RHS  Value
}

// Compare compares two operands of the same type, yielding i1.
type Compare struct {
	Op   CompareOp
	Type types.Type
	LHS  Value
	RHS  Value
}

// Call invokes a function with positional arguments.
type Call struct {
	Type   *types.FuncType
	Target Value
	Args   []Value
}

// Instance instantiates a process or entity with input and output
// connections.
type Instance struct {
	Type   *types.EntityType
	Target Value
	Ins    []Value
	Outs   []Value
}

// Wait suspends a process until the target block is resumed, with an
// optional timeout and an optional sensitivity list of signals.
type Wait struct {
	Target  *Block
	Time    Value // nil if absent
	Signals []Value
}

// Return leaves a function, optionally with a value.
type Return struct {
	Type  types.Type // nil for a void return
	Value Value      // nil for a void return
}

// Branch transfers control to another block. Cond is nil for an
// unconditional branch; otherwise IfTrue and IfFalse are both set.
type Branch struct {
	Cond    Value
	IfTrue  *Block
	IfFalse *Block
}

// Signal declares a new signal with an optional initial value.
type Signal struct {
	Type types.Type
	Init Value // nil if absent
}

// Probe samples the current value of a signal.
type Probe struct {
	Signal Value
	Type   types.Type // the signal's inner type
}

// Drive schedules a new value onto a signal, optionally after a delay.
type Drive struct {
	Signal Value
	Value  Value
	Delay  Value // nil if absent
}

// Variable allocates a memory slot of the given type.
type Variable struct {
	Type types.Type
}

// Load reads a value of the given type through a pointer.
type Load struct {
	Type    types.Type
	Pointer Value
}

// Store writes a value of the given type through a pointer.
type Store struct {
	Type    types.Type
	Value   Value
	Pointer Value
}

// Insert produces a copy of Target with the addressed part replaced by
// Value.
type Insert struct {
	Type   types.Type
	Target Value
	Mode   AccessMode
	Value  Value
}

// Extract reads the addressed part out of Target.
type Extract struct {
	Type   types.Type
	Target Value
	Mode   AccessMode
}

// Shift shifts Target by Amount, shifting in bits or elements taken
// from Insert.
type Shift struct {
	Dir    ShiftDir
	Type   types.Type
	Target Value
	Insert Value
	Amount Value
}

// Halt terminates a process forever.
type Halt struct{}

func (*Unary) instKind()    {}
func (*Binary) instKind()   {}
func (*Compare) instKind()  {}
func (*Call) instKind()     {}
func (*Instance) instKind() {}
func (*Wait) instKind()     {}
func (*Return) instKind()   {}
func (*Branch) instKind()   {}
func (*Signal) instKind()   {}
func (*Probe) instKind()    {}
func (*Drive) instKind()    {}
func (*Variable) instKind() {}
func (*Load) instKind()     {}
func (*Store) instKind()    {}
func (*Insert) instKind()   {}
func (*Extract) instKind()  {}
func (*Shift) instKind()    {}
func (*Halt) instKind()     {}

func (k *Unary) ResultType() types.Type    { return k.Type }
func (k *Binary) ResultType() types.Type   { return k.Type }
func (k *Compare) ResultType() types.Type  { return types.Int(1) }
func (k *Call) ResultType() types.Type     { return k.Type.Return }
func (k *Instance) ResultType() types.Type { return types.Void }
func (k *Wait) ResultType() types.Type     { return types.Void }
func (k *Return) ResultType() types.Type   { return types.Void }
func (k *Branch) ResultType() types.Type   { return types.Void }
func (k *Signal) ResultType() types.Type   { return types.Signal(k.Type) }
func (k *Probe) ResultType() types.Type    { return k.Type }
func (k *Drive) ResultType() types.Type    { return types.Void }
func (k *Variable) ResultType() types.Type { return types.Pointer(k.Type) }
func (k *Load) ResultType() types.Type     { return k.Type }
func (k *Store) ResultType() types.Type    { return types.Void }
func (k *Insert) ResultType() types.Type   { return k.Type }
func (k *Halt) ResultType() types.Type     { return types.Void }
func (k *Shift) ResultType() types.Type    { return k.Type }

// ResultType of an extract depends on the target type and the access
// mode: elements of arrays and structs keep their own type, slices of
// arrays are shorter arrays, and integers decompose into bits (i1 for
// an element, a narrower integer for a slice).
func (k *Extract) ResultType() types.Type {
	switch mode := k.Mode.(type) {
	case *ElementMode:
		switch ty := k.Type.(type) {
		case *types.ArrayType:
			return ty.Element
		case *types.StructType:
			if mode.Index < len(ty.Fields) {
				return ty.Fields[mode.Index]
			}
			return types.Void
		case *types.IntType:
			return types.Int(1)
		}
	case *SliceAccess:
		switch ty := k.Type.(type) {
		case *types.ArrayType:
			return types.Array(mode.Length, ty.Element)
		case *types.IntType:
			return types.Int(mode.Length)
		}
	}
	return types.Void
}
