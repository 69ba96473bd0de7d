package main

import (
	"os"

	"github.com/monokit-dev/monokit/internal/cli"
	"github.com/monokit-dev/monokit/internal/errors"
	"github.com/pterm/pterm"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := cli.Execute(version, commit, date); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err.Error())
		os.Exit(errors.ExitCode(err))
	}
}
