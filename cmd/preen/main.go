// Package main is the entry point for the preen CLI.
package main

import (
	"os"

	"github.com/preenlabs/preen/cmd/preen/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
