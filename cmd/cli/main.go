// Package main is the entry point for the quote-calc CLI.
package main

import (
	"os"

	"quote-calculator/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
