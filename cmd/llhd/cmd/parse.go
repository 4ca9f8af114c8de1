package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/simonsan/llhd/pkg/ir"
	"github.com/simonsan/llhd/pkg/llhd"
	"github.com/spf13/cobra"
)

var parseSummary bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse an LLHD assembly file and dump the module",
	Long: `Parse LLHD assembly and print the resulting module.

If no file is provided, reads from stdin.
Use --summary to print unit names and types instead of full bodies.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseSummary, "summary", false, "print only unit names and types")
}

func runParse(cmd *cobra.Command, args []string) error {
	var (
		module *ir.Module
		err    error
	)
	if len(args) == 1 {
		module, err = llhd.ParseFile(args[0])
	} else {
		var data []byte
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		module, err = llhd.ParseString(string(data))
	}
	if err != nil {
		return err
	}

	if parseSummary {
		for _, u := range module.Units {
			kind := "entity"
			switch u.(type) {
			case *ir.Function:
				kind = "func"
			case *ir.Process:
				kind = "proc"
			}
			fmt.Printf("%s @%s %s\n", kind, u.UnitName(), u.UnitType())
		}
		return nil
	}

	fmt.Print(module.String())
	return nil
}
