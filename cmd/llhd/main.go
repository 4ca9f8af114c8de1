package main

import (
	"os"

	"github.com/simonsan/llhd/cmd/llhd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
