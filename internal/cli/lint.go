package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/yaklabco/hbslint/internal/configloader"
	"github.com/yaklabco/hbslint/internal/logging"
	"github.com/yaklabco/hbslint/internal/ui/pretty"
	"github.com/yaklabco/hbslint/pkg/config"
	"github.com/yaklabco/hbslint/pkg/jsast"
	"github.com/yaklabco/hbslint/pkg/lint"
	"github.com/yaklabco/hbslint/pkg/reporter"
	"github.com/yaklabco/hbslint/pkg/runner"
)

type lintFlags struct {
	format              string
	ruleFormat          string
	jobs                int
	ignore              []string
	include             []string
	extensions          []string
	enable              []string
	disable             []string
	strict              bool
	related             bool
	noContext           bool
	compact             bool
	detectExtensionless bool
	followSymlinks      bool
}

const lintLongDescription = `Lint hbs tagged template literals in JavaScript and TypeScript files.

By default, lints every .js, .mjs, .cjs, .jsx, .ts and .tsx file under the
current directory, skipping hidden directories and node_modules. Specify
paths to lint specific files or directories.`

const lintExample = `  hbslint lint                       Lint the current directory
  hbslint lint app/components        Lint one directory
  hbslint lint --related             List every template finding
  hbslint lint --format sarif        SARIF output for code scanning
  hbslint lint --format checkstyle   Checkstyle XML for CI dashboards
  hbslint lint --strict              Fail on warnings too`

func newLintCommand(info BuildInfo) *cobra.Command {
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:     "lint [paths...]",
		Short:   "Lint templates in script files",
		Long:    lintLongDescription,
		Example: lintExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, flags, info)
		},
	}

	addLintFlags(cmd, flags)

	return cmd
}

func addLintFlags(cmd *cobra.Command, flags *lintFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, sarif, checkstyle, summary")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "name",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "only lint files matching these glob patterns")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "script file extensions to lint (default .js,.mjs,.cjs,.jsx,.ts,.tsx)")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rules to enable, by ID or name")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rules to disable, by ID or name")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as errors for exit code")
	cmd.Flags().BoolVar(&flags.related, "related", false, "list the individual template findings of each diagnostic")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.detectExtensionless, "detect-extensionless", false,
		"also lint extensionless files that look like scripts")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
}

// cliConfig builds the config overrides for flags the user actually set,
// so unset flags never mask config files or the environment.
func cliConfig(cmd *cobra.Command, flags *lintFlags) (*config.Config, error) {
	cfg := &config.Config{}
	changed := cmd.Flags().Changed

	if changed("format") {
		if _, err := reporter.ParseFormat(flags.format); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUsage, err)
		}
		cfg.Format = config.OutputFormat(flags.format)
	}
	if changed("rule-format") {
		cfg.RuleFormat = config.RuleFormat(flags.ruleFormat)
		if !cfg.RuleFormat.IsValid() {
			return nil, fmt.Errorf("%w: unknown rule format %q; valid formats: name, id, combined", ErrUsage, flags.ruleFormat)
		}
	}
	if changed("jobs") {
		if flags.jobs < 0 {
			return nil, fmt.Errorf("%w: --jobs must be >= 0", ErrUsage)
		}
		cfg.Jobs = flags.jobs
	}
	if changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if changed("ext") {
		cfg.Extensions = flags.extensions
	}
	if changed("enable") {
		cfg.EnableRules = flags.enable
	}
	if changed("disable") {
		cfg.DisableRules = flags.disable
	}
	cfg.ShowRelated = flags.related

	return cfg, nil
}

func runLint(cmd *cobra.Command, args []string, flags *lintFlags, info BuildInfo) error {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	overrides, err := cliConfig(cmd, flags)
	if err != nil {
		return err
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		Registry:     lint.DefaultRegistry,
		CLIConfig:    overrides,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	cfg := loadResult.Config

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}
	logger.Debug("configuration resolved",
		logging.FieldFormat, cfg.Format,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldSeverityDefault, cfg.SeverityDefault,
	)

	ctx = logging.WithLogger(ctx, logger)
	fsys := osfs.New("/")

	engine := lint.NewEngine(jsast.TreeSitterParser{}, lint.DefaultRegistry)
	if err := engine.Activate(ctx, cfg, lint.Environment{
		FS:         fsys,
		WorkingDir: workDir,
		Logger:     logger,
	}); err != nil {
		return err
	}

	runOpts := runner.Options{
		Paths:               args,
		WorkingDir:          workDir,
		FS:                  fsys,
		Extensions:          cfg.Extensions,
		DetectExtensionless: flags.detectExtensionless,
		IncludeGlobs:        flags.include,
		ExcludeGlobs:        cfg.Ignore,
		FollowSymlinks:      flags.followSymlinks,
		Jobs:                cfg.Jobs,
		Config:              cfg,
	}

	logger.Debug("starting lint run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(engine).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("lint run failed: %w", err)
	}

	logger.Debug("lint run complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
		logging.FieldRuleFailures, result.Stats.RuleFailures,
	)

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = pretty.ColorAuto
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      reporter.Format(cfg.Format),
		Color:       colorMode,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		ShowRelated: cfg.ShowRelated,
		GroupByFile: true,
		Compact:     flags.compact,
		RuleFormat:  cfg.RuleFormat,
		ToolVersion: info.Version,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	return resultError(result, flags.strict)
}
