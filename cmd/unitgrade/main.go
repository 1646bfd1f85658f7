// Package main provides the CLI for the unitgrade evaluator.
package main

import (
	"os"

	"github.com/leapstack-labs/unitgrade/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
