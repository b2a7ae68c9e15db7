// Package main provides the aicontext command-line interface.
// It resolves, validates and initialises the .context workspace of a project
// and checks candidate paths against its boundary.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Cyclone1070/aicontext/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		if !errors.Is(err, cli.ErrCheckFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
