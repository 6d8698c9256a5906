package main

import (
	"context"
	"fmt"
	"os"

	"github.com/trebuchet-org/starknet-deploy/internal/cli"
	"github.com/trebuchet-org/starknet-deploy/internal/cli/render"
	"github.com/trebuchet-org/starknet-deploy/internal/config"
)

// Set via -ldflags at release time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
