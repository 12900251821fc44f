// Package cli provides the Cobra command structure for hbslint.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hbslint/internal/logging"
	"github.com/yaklabco/hbslint/internal/ui/pretty"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root hbslint command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "hbslint",
		Short: "Lint Handlebars templates embedded in hbs tagged template literals",
		Long: `hbslint finds hbs` + "`...`" + ` tagged template literals in JavaScript and
TypeScript sources, normalizes their indentation and checks the template
text with a Handlebars markup linter. Each literal with problems yields one
diagnostic listing every template finding.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "path to config file")
	rootCmd.PersistentFlags().String("color", pretty.ColorAuto, "colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	rootCmd.AddCommand(newLintCommand(info))
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	applyHelp(rootCmd)

	return rootCmd
}
