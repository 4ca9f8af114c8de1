package parser

import (
	"math/big"
	"testing"

	"github.com/simonsan/llhd/pkg/ir"
	"github.com/simonsan/llhd/pkg/token"
	"github.com/simonsan/llhd/pkg/types"
)

// parseValueFor parses one inline value with the given context type
// and asserts that the whole input was consumed.
func parseValueFor(t *testing.T, input string, expected types.Type) ir.Value {
	t.Helper()
	p := testParser(input)
	sc := newScope(nil)
	v, err := p.parseValueInfer(sc, expected)
	if err != nil {
		t.Fatalf("parseValueInfer(%q) error: %v", input, err)
	}
	if !p.cursor.Is(token.EOF) {
		t.Fatalf("not all of %q consumed, stopped at %q", input, p.cursor.Current().Literal)
	}
	return v
}

func TestIntConstants(t *testing.T) {
	tests := []struct {
		input    string
		context  types.Type
		width    int
		expected int64
	}{
		{"0", types.Int(1), 1, 0},
		{"42", types.Int(32), 32, 42},
		{"-17", types.Int(8), 8, -17},
		{"i64 9001", types.Void, 64, 9001},
		{"i64 9001", nil, 64, 9001},
		{"i8 -5", nil, 8, -5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := testParser(tt.input)
			v, ty, err := p.parseValue(newScope(nil), tt.context)
			if err != nil {
				t.Fatalf("parseValue() error: %v", err)
			}
			k, ok := v.(*ir.ConstInt)
			if !ok {
				t.Fatalf("value is %T, want *ir.ConstInt", v)
			}
			if k.Width != tt.width {
				t.Errorf("width = %d, want %d", k.Width, tt.width)
			}
			if k.Value.Cmp(big.NewInt(tt.expected)) != 0 {
				t.Errorf("value = %s, want %d", k.Value, tt.expected)
			}
			if !ty.Equal(types.Int(tt.width)) {
				t.Errorf("type = %s, want i%d", ty, tt.width)
			}
		})
	}
}

func TestIntConstantTypeInferenceErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		context types.Type
	}{
		{"no_context", "42", nil},
		{"non_integer_context", "42", types.Void},
		{"time_context", "42", types.Time},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParser(tt.input)
			_, _, err := p.parseValue(newScope(nil), tt.context)
			if err == nil {
				t.Fatal("parseValue() succeeded, want error")
			}
			perr, ok := err.(*Error)
			if !ok {
				t.Fatalf("error is %T, want *Error", err)
			}
			if perr.Code != ErrCannotInferType {
				t.Errorf("code = %s, want %s", perr.Code, ErrCannotInferType)
			}
		})
	}
}

func ratFrom(t *testing.T, numer, denom string) *big.Rat {
	t.Helper()
	n, ok1 := new(big.Int).SetString(numer, 10)
	d, ok2 := new(big.Int).SetString(denom, 10)
	if !ok1 || !ok2 {
		t.Fatalf("bad rational %s/%s", numer, denom)
	}
	return new(big.Rat).SetFrac(n, d)
}

func TestTimeConstants(t *testing.T) {
	tests := []struct {
		input          string
		numer, denom   string
		delta, epsilon uint64
	}{
		{"1ns", "1", "1000000000", 0, 0},
		{"-2ns", "-2", "1000000000", 0, 0},
		{"3.45ns", "345", "100000000000", 0, 0},
		{"-4.56ns", "-456", "100000000000", 0, 0},
		{"5s", "5", "1", 0, 0},
		{"2ks", "2000", "1", 0, 0},
		{"1.5ms", "15", "10000", 0, 0},
		{"3as", "3", "1000000000000000000", 0, 0},
		{"2Es", "2000000000000000000", "1", 0, 0},
		{"0s 1d", "0", "1", 1, 0},
		{"0s 1e", "0", "1", 0, 1},
		{"0s 42d 9001e", "0", "1", 42, 9001},
		{"1ns 2d", "1", "1000000000", 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := parseValueFor(t, tt.input, types.Void)
			k, ok := v.(*ir.ConstTime)
			if !ok {
				t.Fatalf("value is %T, want *ir.ConstTime", v)
			}
			if want := ratFrom(t, tt.numer, tt.denom); k.Value.Cmp(want) != 0 {
				t.Errorf("value = %s, want %s", k.Value.RatString(), want.RatString())
			}
			if k.Delta != tt.delta {
				t.Errorf("delta = %d, want %d", k.Delta, tt.delta)
			}
			if k.Epsilon != tt.epsilon {
				t.Errorf("epsilon = %d, want %d", k.Epsilon, tt.epsilon)
			}
		})
	}
}

func TestArrayAggregates(t *testing.T) {
	intElems := func(vals ...int64) func(*testing.T, *ir.ArrayAggregate) {
		return func(t *testing.T, a *ir.ArrayAggregate) {
			t.Helper()
			if len(a.Values) != len(vals) {
				t.Fatalf("element count = %d, want %d", len(a.Values), len(vals))
			}
			for i, want := range vals {
				k, ok := a.Values[i].(*ir.ConstInt)
				if !ok {
					t.Fatalf("element %d is %T, want *ir.ConstInt", i, a.Values[i])
				}
				if k.Value.Cmp(big.NewInt(want)) != 0 {
					t.Errorf("element %d = %s, want %d", i, k.Value, want)
				}
			}
		}
	}

	tests := []struct {
		input    string
		typ      types.Type
		elements func(*testing.T, *ir.ArrayAggregate)
	}{
		{"[i32]", types.Array(0, types.Int(32)), intElems()},
		{"[i32 42]", types.Array(1, types.Int(32)), intElems(42)},
		{"[i32 42, 9001]", types.Array(2, types.Int(32)), intElems(42, 9001)},
		{"[i32 42, i32 9001]", types.Array(2, types.Int(32)), intElems(42, 9001)},
		{"[4 x i32 1, 2]", types.Array(4, types.Int(32)), intElems(1, 2)},
		{"[1 x i32 1, 2, 3]", types.Array(1, types.Int(32)), intElems(1, 2, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := parseValueFor(t, tt.input, types.Void)
			a, ok := v.(*ir.ArrayAggregate)
			if !ok {
				t.Fatalf("value is %T, want *ir.ArrayAggregate", v)
			}
			if !a.Type.Equal(tt.typ) {
				t.Errorf("type = %s, want %s", a.Type, tt.typ)
			}
			tt.elements(t, a)
		})
	}
}

func TestStructAggregates(t *testing.T) {
	tests := []struct {
		input string
		typ   types.Type
		count int
	}{
		{"{}", types.Struct(nil), 0},
		{"{i32 42}", types.Struct([]types.Type{types.Int(32)}), 1},
		{"{i32 42, i64 9001}", types.Struct([]types.Type{types.Int(32), types.Int(64)}), 2},
		{"{1ns, i8 3}", types.Struct([]types.Type{types.Time, types.Int(8)}), 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := parseValueFor(t, tt.input, types.Void)
			a, ok := v.(*ir.StructAggregate)
			if !ok {
				t.Fatalf("value is %T, want *ir.StructAggregate", v)
			}
			if !a.Type.Equal(tt.typ) {
				t.Errorf("type = %s, want %s", a.Type, tt.typ)
			}
			if len(a.Values) != tt.count {
				t.Errorf("field count = %d, want %d", len(a.Values), tt.count)
			}
		})
	}
}

func TestStructFieldsMustBeSelfDescribing(t *testing.T) {
	p := testParser("{42}")
	_, _, err := p.parseValue(newScope(nil), nil)
	if err == nil {
		t.Fatal("parseValue() succeeded, want error")
	}
}

func TestNamedValues(t *testing.T) {
	sc := newScope(nil)
	blk := ir.NewBlock("x")
	if err := sc.insert(nameKey{global: false, text: "x"}, blk, types.Int(8), token.Position{}); err != nil {
		t.Fatal(err)
	}

	p := testParser("%x")
	v, ty, err := p.parseValue(sc, nil)
	if err != nil {
		t.Fatalf("parseValue() error: %v", err)
	}
	if v != ir.Value(blk) {
		t.Error("lookup did not return the bound value")
	}
	if !ty.Equal(types.Int(8)) {
		t.Errorf("type = %s, want i8", ty)
	}
}

func TestTypePrefixedNamedValue(t *testing.T) {
	// An explicit type prefix on a named operand is parsed and
	// discarded; the symbol table's type wins.
	sc := newScope(nil)
	arg := &ir.Argument{Name: "x", Type: types.Int(8)}
	if err := sc.insert(nameKey{global: false, text: "x"}, arg, types.Int(8), token.Position{}); err != nil {
		t.Fatal(err)
	}

	for _, input := range []string{"i8 %x", "i64 %x", "{i32, i64} %x"} {
		t.Run(input, func(t *testing.T) {
			p := testParser(input)
			v, ty, err := p.parseValue(sc, nil)
			if err != nil {
				t.Fatalf("parseValue() error: %v", err)
			}
			if v != ir.Value(arg) {
				t.Error("lookup did not return the bound value")
			}
			if !ty.Equal(types.Int(8)) {
				t.Errorf("type = %s, want i8", ty)
			}
		})
	}
}

func TestUndeclaredName(t *testing.T) {
	p := testParser("%nope")
	_, _, err := p.parseValue(newScope(nil), nil)
	if err == nil {
		t.Fatal("parseValue() succeeded, want error")
	}
	perr := err.(*Error)
	if perr.Code != ErrUndeclaredName {
		t.Errorf("code = %s, want %s", perr.Code, ErrUndeclaredName)
	}
	if want := "name %nope has not been declared"; perr.Message != want {
		t.Errorf("message = %q, want %q", perr.Message, want)
	}
}
