package parser

import (
	"testing"

	"github.com/simonsan/llhd/pkg/ir"
	"github.com/simonsan/llhd/pkg/token"
	"github.com/simonsan/llhd/pkg/types"
)

func TestScopeInsertAndLookup(t *testing.T) {
	root := newScope(nil)
	child := newScope(root)

	fn := ir.NewFunction("f", types.Func(nil, types.Void))
	if err := root.insert(nameKey{global: true, text: "f"}, fn, fn.Type, token.Position{}); err != nil {
		t.Fatalf("insert error: %v", err)
	}

	// Lookup walks from the child scope to the root.
	b, err := child.lookup(nameKey{global: true, text: "f"}, token.Position{})
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	if b.value != ir.Value(fn) {
		t.Error("lookup returned a different value")
	}

	// Globals and locals of the same spelling are distinct keys.
	if _, err := child.lookup(nameKey{global: false, text: "f"}, token.Position{}); err == nil {
		t.Error("local lookup of a global name succeeded")
	}
}

func TestScopeDuplicateInsert(t *testing.T) {
	sc := newScope(nil)
	arg := &ir.Argument{Name: "a", Type: types.Int(1)}
	key := nameKey{global: false, text: "a"}

	if err := sc.insert(key, arg, arg.Type, token.Position{}); err != nil {
		t.Fatalf("first insert error: %v", err)
	}
	err := sc.insert(key, arg, arg.Type, token.Position{})
	if err == nil {
		t.Fatal("second insert succeeded, want error")
	}
	if perr := err.(*Error); perr.Code != ErrRedefinedName {
		t.Errorf("code = %s, want %s", perr.Code, ErrRedefinedName)
	}
}

func TestScopeShadowing(t *testing.T) {
	root := newScope(nil)
	child := newScope(root)

	outer := &ir.Argument{Name: "v", Type: types.Int(8)}
	inner := &ir.Argument{Name: "v", Type: types.Int(16)}
	key := nameKey{global: false, text: "v"}

	if err := root.insert(key, outer, outer.Type, token.Position{}); err != nil {
		t.Fatal(err)
	}
	if err := child.insert(key, inner, inner.Type, token.Position{}); err != nil {
		t.Fatal(err)
	}

	b, err := child.lookup(key, token.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if b.value != ir.Value(inner) {
		t.Error("child lookup did not shadow the root binding")
	}
}

func TestUseBlockCreatesPlaceholder(t *testing.T) {
	sc := newScope(nil)

	first, err := sc.useBlock("loop", token.Position{Line: 1, Column: 6})
	if err != nil {
		t.Fatalf("useBlock error: %v", err)
	}
	second, err := sc.useBlock("loop", token.Position{Line: 2, Column: 6})
	if err != nil {
		t.Fatalf("second useBlock error: %v", err)
	}
	if first != second {
		t.Error("repeated uses did not resolve to the same block")
	}

	// The declaration adopts the placeholder.
	declared, err := sc.declareBlock("loop", token.Position{Line: 3, Column: 1})
	if err != nil {
		t.Fatalf("declareBlock error: %v", err)
	}
	if declared != first {
		t.Error("declaration did not adopt the placeholder block")
	}

	if _, _, ok := sc.unresolvedBlock(); ok {
		t.Error("adopted placeholder still reported as unresolved")
	}
}

func TestDeclareBlockWithoutUse(t *testing.T) {
	sc := newScope(nil)
	blk, err := sc.declareBlock("entry", token.Position{})
	if err != nil {
		t.Fatalf("declareBlock error: %v", err)
	}
	if blk.Name != "entry" {
		t.Errorf("block name = %q, want %q", blk.Name, "entry")
	}

	// The declared block is resolvable as a value.
	used, err := sc.useBlock("entry", token.Position{})
	if err != nil {
		t.Fatalf("useBlock error: %v", err)
	}
	if used != blk {
		t.Error("useBlock did not return the declared block")
	}
}

func TestDeclareBlockTwice(t *testing.T) {
	sc := newScope(nil)
	if _, err := sc.declareBlock("bb", token.Position{}); err != nil {
		t.Fatal(err)
	}
	if _, err := sc.declareBlock("bb", token.Position{}); err == nil {
		t.Fatal("second declaration succeeded, want error")
	}
}

func TestUseBlockOnNonBlockValue(t *testing.T) {
	sc := newScope(nil)
	arg := &ir.Argument{Name: "v", Type: types.Int(1)}
	if err := sc.insert(nameKey{global: false, text: "v"}, arg, arg.Type, token.Position{}); err != nil {
		t.Fatal(err)
	}

	_, err := sc.useBlock("v", token.Position{})
	if err == nil {
		t.Fatal("useBlock succeeded, want error")
	}
	if perr := err.(*Error); perr.Code != ErrNotABlock {
		t.Errorf("code = %s, want %s", perr.Code, ErrNotABlock)
	}
}

func TestUnresolvedBlockReported(t *testing.T) {
	sc := newScope(nil)
	usePos := token.Position{Line: 4, Column: 9}
	if _, err := sc.useBlock("nowhere", usePos); err != nil {
		t.Fatal(err)
	}

	name, pos, ok := sc.unresolvedBlock()
	if !ok {
		t.Fatal("unresolved placeholder not reported")
	}
	if name != "nowhere" {
		t.Errorf("name = %q, want %q", name, "nowhere")
	}
	if pos != usePos {
		t.Errorf("position = %v, want %v", pos, usePos)
	}
}

func TestTemporaryBlockNamesStripped(t *testing.T) {
	sc := newScope(nil)
	blk, err := sc.declareBlock("0", token.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if blk.Name != "" {
		t.Errorf("block name = %q, want stripped", blk.Name)
	}

	// The temporary stays resolvable under its source name.
	if _, err := sc.useBlock("0", token.Position{}); err != nil {
		t.Errorf("useBlock error: %v", err)
	}
}
