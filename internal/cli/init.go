package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/yaklabco/hbslint/internal/logging"
	"github.com/yaklabco/hbslint/pkg/config"
	"github.com/yaklabco/hbslint/pkg/fsutil"
	"github.com/yaklabco/hbslint/pkg/lint"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter hbslint configuration file",
		Long: `Create a new .hbslint.yml configuration file in the current directory.
The file can be customized to enable or disable rules, change severities
and pass rule options such as the template linter config file.`,
		Example: `  hbslint init                       Create a minimal .hbslint.yml
  hbslint init --full                Document every rule with its defaults
  hbslint init --format toml         Create .hbslint.toml instead
  hbslint init -o ci/hbslint.yml     Write to a custom path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags, lint.DefaultRegistry)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "generate a full template with every rule documented")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "file format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path (default .hbslint.yml or .hbslint.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags, registry *lint.Registry) error {
	logger := logging.NewInteractive(cmd.OutOrStdout())

	if flags.format != "yaml" && flags.format != "toml" {
		return fmt.Errorf("%w: invalid format %q: must be yaml or toml", ErrUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".hbslint.yml"
		if flags.format == "toml" {
			outputPath = ".hbslint.toml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	fsys := osfs.New("/")
	if fsutil.Exists(fsys, absPath) {
		if !flags.force {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrUsage, outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	}, templateRules(registry))
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := fsys.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := fsutil.WriteAtomic(ctx, fsys, absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	if flags.full {
		logger.Info("the full template lists every rule with its defaults")
	}
	logger.Info("run 'hbslint rules' to see all available rules")

	return nil
}

// templateRules describes the registered rules for config generation.
func templateRules(registry *lint.Registry) []config.RuleInfo {
	rules := registry.Rules()
	infos := make([]config.RuleInfo, 0, len(rules))
	for _, rule := range rules {
		info := config.RuleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Enabled:     rule.DefaultEnabled(),
			Severity:    rule.DefaultSeverity(),
			Tags:        rule.Tags(),
		}
		if exampled, ok := rule.(lint.Exampled); ok {
			info.Example = exampled.OptionsExample()
		}
		infos = append(infos, info)
	}
	return infos
}
