package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/simonsan/llhd/internal/lexer"
	"github.com/simonsan/llhd/pkg/token"
	"github.com/spf13/cobra"
)

var (
	lexShowPos      bool
	lexKeepComments bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize an LLHD assembly file",
	Long: `Tokenize (lex) LLHD assembly and print the resulting tokens.

This command is useful for debugging the lexer and understanding how
assembly source is tokenized. If no file is provided, reads from
stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexKeepComments, "comments", false, "include comment tokens")
}

func runLex(cmd *cobra.Command, args []string) error {
	var input string
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		input = string(data)
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input = string(data)
	}

	l := lexer.New(input, lexer.WithPreserveComments(lexKeepComments))
	for {
		tok := l.NextToken()
		if lexShowPos {
			fmt.Printf("%-8s %-8s %q\n", tok.Pos, tok.Type, tok.Literal)
		} else {
			fmt.Printf("%-8s %q\n", tok.Type, tok.Literal)
		}
		if tok.Type == token.EOF {
			break
		}
	}

	for _, lexErr := range l.Errors() {
		fmt.Fprintf(os.Stderr, "%s: %s\n", lexErr.Pos, lexErr.Message)
	}
	return nil
}
