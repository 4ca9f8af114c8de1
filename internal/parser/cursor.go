package parser

import (
	"github.com/simonsan/llhd/internal/lexer"
	"github.com/simonsan/llhd/pkg/token"
)

// TokenCursor provides an immutable cursor abstraction over a stream of
// tokens. All operations return new cursor instances; tokens are
// buffered lazily, which makes backtracking a matter of remembering an
// index.
//
// The instruction and inline-value grammars share prefixes between
// alternatives, so speculative parsing is routine: take a Mark, try an
// alternative, and ResetTo the mark when it does not pan out.
type TokenCursor struct {
	lexer   *lexer.Lexer
	current token.Token
	tokens  []token.Token
	index   int
}

// NewTokenCursor creates a new TokenCursor positioned at the first
// token of the stream.
func NewTokenCursor(l *lexer.Lexer) *TokenCursor {
	firstToken := l.NextToken()
	tokens := make([]token.Token, 1, 32)
	tokens[0] = firstToken
	return &TokenCursor{
		lexer:   l,
		current: firstToken,
		tokens:  tokens,
		index:   0,
	}
}

// Current returns the token at the current cursor position.
func (c *TokenCursor) Current() token.Token {
	return c.current
}

// Peek returns the token N positions ahead of the current position.
// Peek(0) is the current token. Tokens are buffered as needed.
func (c *TokenCursor) Peek(n int) token.Token {
	if n < 0 {
		return c.current
	}

	targetIndex := c.index + n
	for targetIndex >= len(c.tokens) {
		last := c.tokens[len(c.tokens)-1]
		if last.Type == token.EOF {
			return last
		}
		c.tokens = append(c.tokens, c.lexer.NextToken())
	}
	return c.tokens[targetIndex]
}

// Advance returns a new cursor positioned at the next token.
// The original cursor is unchanged.
func (c *TokenCursor) Advance() *TokenCursor {
	c.Peek(1)
	newIndex := c.index + 1
	if newIndex >= len(c.tokens) {
		newIndex = len(c.tokens) - 1
	}
	return &TokenCursor{
		lexer:   c.lexer,
		current: c.tokens[newIndex],
		tokens:  c.tokens,
		index:   newIndex,
	}
}

// Is checks if the current token matches the given type.
func (c *TokenCursor) Is(t token.TokenType) bool {
	return c.current.Type == t
}

// PeekIs checks if the token N positions ahead matches the given type.
func (c *TokenCursor) PeekIs(n int, t token.TokenType) bool {
	return c.Peek(n).Type == t
}

// IsEOF checks if the current token is EOF.
func (c *TokenCursor) IsEOF() bool {
	return c.current.Type == token.EOF
}

// Position returns the position of the current token.
func (c *TokenCursor) Position() token.Position {
	return c.current.Pos
}

// Mark is a saved cursor position that can be restored with ResetTo.
type Mark struct {
	index int
}

// Mark saves the current cursor position for later restoration.
func (c *TokenCursor) Mark() Mark {
	return Mark{index: c.index}
}

// ResetTo returns a new cursor positioned at the given mark.
func (c *TokenCursor) ResetTo(mark Mark) *TokenCursor {
	if mark.index < 0 || mark.index >= len(c.tokens) {
		return c
	}
	return &TokenCursor{
		lexer:   c.lexer,
		current: c.tokens[mark.index],
		tokens:  c.tokens,
		index:   mark.index,
	}
}
