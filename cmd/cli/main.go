// Package main is the entry point for the basket CLI.
package main

import (
	"os"

	"basket-pricer/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
