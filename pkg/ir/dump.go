package ir

import (
	"strconv"
	"strings"

	"github.com/simonsan/llhd/pkg/types"
)

// The String methods in this file render IR nodes in a readable,
// assembly-like notation for debugging, error messages and tests.
// Anonymous values print a placeholder name; the output is a dump, not
// a parseable round trip.

// refString renders a value the way it appears in operand position.
func refString(v Value) string {
	switch v := v.(type) {
	case *ConstInt:
		return v.String()
	case *ConstTime:
		return v.String()
	case *ArrayAggregate:
		return v.String()
	case *StructAggregate:
		return v.String()
	case *Argument:
		if v.Name == "" {
			return "%<arg>"
		}
		return "%" + v.Name
	case *Block:
		return v.String()
	case *Inst:
		if v.Name == "" {
			return "%<tmp>"
		}
		return "%" + v.Name
	case *Function:
		return "@" + v.Name
	case *Process:
		return "@" + v.Name
	case *Entity:
		return "@" + v.Name
	}
	return "<?>"
}

func (a *Argument) String() string {
	if a.Name == "" {
		return a.Type.String()
	}
	return a.Type.String() + " %" + a.Name
}

func (b *Block) String() string {
	if b.Name == "" {
		return "%<block>"
	}
	return "%" + b.Name
}

func (i *Inst) String() string {
	if i.Name != "" {
		return "%" + i.Name + " = " + kindString(i.Kind)
	}
	return kindString(i.Kind)
}

func kindString(k InstKind) string {
	switch k := k.(type) {
	case *Unary:
		return k.Op.String() + " " + k.Type.String() + " " + refString(k.Arg)
	case *Binary:
		return k.Op.String() + " " + k.Type.String() + " " + refString(k.LHS) + " " + refString(k.RHS)
	case *Compare:
		return "cmp " + k.Op.String() + " " + k.Type.String() + " " + refString(k.LHS) + " " + refString(k.RHS)
	case *Call:
		return "call " + refString(k.Target) + " (" + refList(k.Args) + ")"
	case *Instance:
		return "inst " + refString(k.Target) + " (" + refList(k.Ins) + ") (" + refList(k.Outs) + ")"
	case *Wait:
		s := "wait " + refString(k.Target)
		if k.Time != nil {
			s += " for " + refString(k.Time)
		}
		for _, sig := range k.Signals {
			s += ", " + refString(sig)
		}
		return s
	case *Return:
		if k.Value == nil {
			return "ret"
		}
		return "ret " + k.Type.String() + " " + refString(k.Value)
	case *Branch:
		if k.Cond == nil {
			return "br label " + refString(k.IfTrue)
		}
		return "br " + refString(k.Cond) + " label " + refString(k.IfTrue) + " " + refString(k.IfFalse)
	case *Signal:
		if k.Init == nil {
			return "sig " + k.Type.String()
		}
		return "sig " + k.Type.String() + " " + refString(k.Init)
	case *Probe:
		return "prb " + refString(k.Signal)
	case *Drive:
		s := "drv " + refString(k.Signal) + " " + refString(k.Value)
		if k.Delay != nil {
			s += " " + refString(k.Delay)
		}
		return s
	case *Variable:
		return "var " + k.Type.String()
	case *Load:
		return "load " + k.Type.String() + " " + refString(k.Pointer)
	case *Store:
		return "store " + k.Type.String() + " " + refString(k.Value) + " " + refString(k.Pointer)
	case *Insert:
		return "insert " + accessString(k.Type, k.Target, k.Mode) + ", " + refString(k.Value)
	case *Extract:
		return "extract " + accessString(k.Type, k.Target, k.Mode)
	case *Shift:
		return k.Dir.String() + " " + k.Type.String() + " " + refString(k.Target) +
			", " + refString(k.Insert) + ", " + refString(k.Amount)
	case *Halt:
		return "halt"
	}
	return "<?>"
}

func accessString(ty types.Type, target Value, mode AccessMode) string {
	switch mode := mode.(type) {
	case *ElementMode:
		return "element " + ty.String() + " " + refString(target) + ", " + strconv.Itoa(mode.Index)
	case *SliceAccess:
		return "slice " + ty.String() + " " + refString(target) + ", " +
			strconv.Itoa(mode.Base) + ", " + strconv.Itoa(mode.Length)
	}
	return "<?>"
}

func refList(values []Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = refString(v)
	}
	return strings.Join(parts, ", ")
}

func argList(args []*Argument) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

func blockDump(sb *strings.Builder, blocks []*Block) {
	for _, b := range blocks {
		if b.Name == "" {
			sb.WriteString("%<block>:\n")
		} else {
			sb.WriteString("%" + b.Name + ":\n")
		}
		for _, inst := range b.Insts {
			sb.WriteString("    " + inst.String() + "\n")
		}
	}
}

func (f *Function) String() string {
	var sb strings.Builder
	sb.WriteString("func @" + f.Name + " (" + argList(f.Args) + ") " + f.Type.Return.String() + " {\n")
	blockDump(&sb, f.Blocks)
	sb.WriteString("}\n")
	return sb.String()
}

func (p *Process) String() string {
	var sb strings.Builder
	sb.WriteString("proc @" + p.Name + " (" + argList(p.Inputs) + ") (" + argList(p.Outputs) + ") {\n")
	blockDump(&sb, p.Blocks)
	sb.WriteString("}\n")
	return sb.String()
}

func (e *Entity) String() string {
	var sb strings.Builder
	sb.WriteString("entity @" + e.Name + " (" + argList(e.Inputs) + ") (" + argList(e.Outputs) + ") {\n")
	for _, inst := range e.Insts {
		sb.WriteString("    " + inst.String() + "\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}

// String renders the whole module, units separated by blank lines.
func (m *Module) String() string {
	var sb strings.Builder
	for i, u := range m.Units {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(u.String())
	}
	return sb.String()
}
