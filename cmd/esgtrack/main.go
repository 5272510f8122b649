package main

import (
	"os"

	"github.com/wonny/esgtrack/cmd/esgtrack/commands"
)

// main is the entry point for the esgtrack CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
