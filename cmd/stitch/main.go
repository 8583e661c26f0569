package main

import (
	"os"

	"github.com/stitch-cli/stitch/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands print their own errors via the output formatter;
		// main only maps the error to a process exit code.
		os.Exit(cli.GetExitCode(err))
	}
}
