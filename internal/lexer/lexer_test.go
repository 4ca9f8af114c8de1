package lexer

import (
	"testing"

	"github.com/simonsan/llhd/pkg/token"
)

// collect tokenizes the input and returns all tokens up to and
// including EOF.
func collect(t *testing.T, input string) []token.Token {
	t.Helper()
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func TestInstructionTokens(t *testing.T) {
	input := "%foo = add i32 %a %b\n"

	expected := []struct {
		typ     token.TokenType
		literal string
	}{
		{token.LOCAL, "foo"},
		{token.EQ, "="},
		{token.ADD, "add"},
		{token.IDENT, "i32"},
		{token.LOCAL, "a"},
		{token.LOCAL, "b"},
		{token.NEWLINE, "\n"},
		{token.EOF, ""},
	}

	toks := collect(t, input)
	if len(toks) != len(expected) {
		t.Fatalf("token count = %d, want %d", len(toks), len(expected))
	}
	for i, want := range expected {
		if toks[i].Type != want.typ {
			t.Errorf("token %d type = %s, want %s", i, toks[i].Type, want.typ)
		}
		if toks[i].Literal != want.literal {
			t.Errorf("token %d literal = %q, want %q", i, toks[i].Literal, want.literal)
		}
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		input string
		typ   token.TokenType
	}{
		{"func", token.FUNC},
		{"proc", token.PROC},
		{"entity", token.ENTITY},
		{"void", token.VOID},
		{"time", token.TIMETY},
		{"cmp", token.CMP},
		{"halt", token.HALT},
		{"label", token.LABEL},
		{"for", token.FOR},
		{"element", token.ELEMENT},
		{"slice", token.SLICE},
		{"x", token.X},
		{"wait", token.WAIT},
		{"shl", token.SHL},
		{"shr", token.SHR},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := collect(t, tt.input)
			if toks[0].Type != tt.typ {
				t.Errorf("type = %s, want %s", toks[0].Type, tt.typ)
			}
		})
	}
}

func TestNonKeywordIdentifiers(t *testing.T) {
	// Type spellings and compare sub-operators stay plain identifiers.
	for _, input := range []string{"i32", "n42", "eq", "neq", "ule", "foo.bar_1"} {
		t.Run(input, func(t *testing.T) {
			toks := collect(t, input)
			if toks[0].Type != token.IDENT {
				t.Errorf("type = %s, want IDENT", toks[0].Type)
			}
			if toks[0].Literal != input {
				t.Errorf("literal = %q, want %q", toks[0].Literal, input)
			}
		})
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		input   string
		typ     token.TokenType
		literal string
	}{
		{"@foo", token.GLOBAL, "foo"},
		{"@acc.0", token.GLOBAL, "acc.0"},
		{"%bar", token.LOCAL, "bar"},
		{"%0", token.LOCAL, "0"},
		{"%my_block.1", token.LOCAL, "my_block.1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := collect(t, tt.input)
			if toks[0].Type != tt.typ {
				t.Errorf("type = %s, want %s", toks[0].Type, tt.typ)
			}
			if toks[0].Literal != tt.literal {
				t.Errorf("literal = %q, want %q", toks[0].Literal, tt.literal)
			}
		})
	}
}

func TestNumberClassification(t *testing.T) {
	tests := []struct {
		input string
		typ   token.TokenType
	}{
		{"42", token.INT},
		{"0", token.INT},
		{"1ns", token.TIME},
		{"3.45ns", token.TIME},
		{"5s", token.TIME},
		{"2ms", token.TIME},
		{"10Es", token.TIME},
		{"42d", token.DELTA},
		{"9001e", token.EPSILON},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := collect(t, tt.input)
			if toks[0].Type != tt.typ {
				t.Errorf("type = %s, want %s", toks[0].Type, tt.typ)
			}
			if toks[0].Literal != tt.input {
				t.Errorf("literal = %q, want %q", toks[0].Literal, tt.input)
			}
		})
	}
}

func TestMalformedNumbers(t *testing.T) {
	for _, input := range []string{"3.45", "1q", "2.5d", "3xs"} {
		t.Run(input, func(t *testing.T) {
			l := New(input)
			tok := l.NextToken()
			if tok.Type != token.ILLEGAL {
				t.Errorf("type = %s, want ILLEGAL", tok.Type)
			}
			if len(l.Errors()) == 0 {
				t.Error("expected a lexer error")
			}
		})
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	input := "add ; the rest of this line vanishes\nsub"
	toks := collect(t, input)

	expected := []token.TokenType{token.ADD, token.NEWLINE, token.SUB, token.EOF}
	if len(toks) != len(expected) {
		t.Fatalf("token count = %d, want %d", len(toks), len(expected))
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Errorf("token %d = %s, want %s", i, toks[i].Type, want)
		}
	}
}

func TestCommentPreservation(t *testing.T) {
	l := New("; hello\n", WithPreserveComments(true))
	tok := l.NextToken()
	if tok.Type != token.COMMENT {
		t.Fatalf("type = %s, want COMMENT", tok.Type)
	}
	if tok.Literal != "; hello" {
		t.Errorf("literal = %q, want %q", tok.Literal, "; hello")
	}
}

func TestPositions(t *testing.T) {
	input := "add\nsub mul"
	toks := collect(t, input)

	expected := []struct {
		line, column int
	}{
		{1, 1}, // add
		{1, 4}, // newline
		{2, 1}, // sub
		{2, 5}, // mul
	}
	for i, want := range expected {
		if toks[i].Pos.Line != want.line || toks[i].Pos.Column != want.column {
			t.Errorf("token %d position = %d:%d, want %d:%d",
				i, toks[i].Pos.Line, toks[i].Pos.Column, want.line, want.column)
		}
	}
}

func TestBOMIsStripped(t *testing.T) {
	toks := collect(t, "\xEF\xBB\xBFadd")
	if toks[0].Type != token.ADD {
		t.Errorf("type = %s, want add", toks[0].Type)
	}
	if toks[0].Pos.Column != 1 {
		t.Errorf("column = %d, want 1", toks[0].Pos.Column)
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	l := New("#")
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("type = %s, want ILLEGAL", tok.Type)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("error count = %d, want 1", len(l.Errors()))
	}
}

func TestSigilWithoutName(t *testing.T) {
	l := New("% ")
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("type = %s, want ILLEGAL", tok.Type)
	}
	if len(l.Errors()) == 0 {
		t.Error("expected a lexer error")
	}
}
