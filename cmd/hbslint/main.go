// Package main is the entry point for the hbslint CLI.
package main

import (
	"os"

	"github.com/yaklabco/hbslint/internal/cli"
	"github.com/yaklabco/hbslint/internal/logging"

	// Import rules package to register built-in rules via init().
	_ "github.com/yaklabco/hbslint/pkg/lint/rules"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	err := rootCmd.Execute()
	if err == nil {
		return cli.ExitSuccess
	}

	// Lint outcomes were already reported; they only pick the exit code.
	if !cli.IsResultError(err) {
		logging.Default().Error("command failed", logging.FieldError, err)
	}

	return cli.ExitCode(err)
}
