// Package llhd is the public entry point of the LLHD assembly reader.
// It wires the lexer and parser together and hands back a fully
// constructed module, or a positional diagnostic on the first error.
package llhd

import (
	"fmt"
	"os"

	"github.com/simonsan/llhd/internal/lexer"
	"github.com/simonsan/llhd/internal/parser"
	"github.com/simonsan/llhd/pkg/ir"
)

// ParseString parses a complete LLHD assembly text into a module.
func ParseString(input string) (*ir.Module, error) {
	l := lexer.New(input)
	p := parser.New(l)
	return p.ParseModule()
}

// ParseFile reads and parses an LLHD assembly file.
func ParseFile(path string) (*ir.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	module, err := ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", path, err)
	}
	return module, nil
}
