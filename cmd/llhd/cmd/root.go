package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "llhd",
	Short: "LLHD assembly reader",
	Long: `llhd reads textual LLHD assembly, the intermediate representation
for hardware description, and builds an in-memory module of functions,
processes and entities.

The reader performs lexing, recursive-descent parsing, type inference
for inline operands, forward-reference resolution for basic-block
labels, and scoped symbol binding. A single syntax error aborts with a
positional diagnostic.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))
}
