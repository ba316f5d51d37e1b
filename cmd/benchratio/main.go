// Package main provides the entry point for the benchratio CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/benchratio/cmd/benchratio/commands"
	"github.com/Sumatoshi-tech/benchratio/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := commands.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
