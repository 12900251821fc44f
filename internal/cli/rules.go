package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hbslint/internal/logging"
	"github.com/yaklabco/hbslint/internal/ui/pretty"
	"github.com/yaklabco/hbslint/pkg/config"
	"github.com/yaklabco/hbslint/pkg/lint"
	"github.com/yaklabco/hbslint/pkg/ruledoc"
)

type rulesFlags struct {
	ruleFormat string
	format     string
	raw        bool
}

const formatJSON = "json"

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	Enabled     bool     `json:"enabled"`
	Tags        []string `json:"tags,omitempty"`
	Summary     string   `json:"summary,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules [rule]",
		Short: "List available lint rules or show a rule's documentation",
		Long: `List all available lint rules with their IDs, descriptions and default
severity. Given a rule ID, name or legacy plugin name, print that rule's
documentation instead.`,
		Example: `  hbslint rules
  hbslint rules --format json
  hbslint rules hbs-template-literals`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return showRuleDoc(cmd, lint.DefaultRegistry, args[0], flags.raw)
			}
			return listRules(cmd.OutOrStdout(), lint.DefaultRegistry, flags)
		},
	}

	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "name",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "print rule documentation as Markdown without rendering")

	return cmd
}

func listRules(out io.Writer, registry *lint.Registry, flags *rulesFlags) error {
	rules := registry.Rules()

	switch flags.format {
	case formatJSON:
		return outputRulesJSON(out, rules)
	case "text", "":
	default:
		return fmt.Errorf("%w: unknown format %q; valid formats: text, json", ErrUsage, flags.format)
	}

	ruleFormat := config.RuleFormat(flags.ruleFormat)
	if !ruleFormat.IsValid() {
		return fmt.Errorf("%w: unknown rule format %q; valid formats: name, id, combined", ErrUsage, flags.ruleFormat)
	}

	logger := logging.NewInteractive(out)

	if len(rules) == 0 {
		logger.Info("no rules registered")
		return nil
	}

	logger.Info("available rules")

	for _, rule := range rules {
		logger.Info(config.FormatRuleID(ruleFormat, rule.ID(), rule.Name()),
			logging.FieldSeverity, rule.DefaultSeverity(),
			logging.FieldDescription, rule.Description(),
		)
	}

	return nil
}

// outputRulesJSON writes rules as an indented JSON array.
func outputRulesJSON(out io.Writer, rules []lint.Rule) error {
	infos := make([]ruleInfo, 0, len(rules))
	for _, rule := range rules {
		info := ruleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Severity:    string(rule.DefaultSeverity()),
			Enabled:     rule.DefaultEnabled(),
			Tags:        rule.Tags(),
		}
		if documented, ok := rule.(lint.Documented); ok {
			info.Summary = ruledoc.Summary(documented.Documentation())
		}
		infos = append(infos, info)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}

// showRuleDoc prints one rule's documentation, rendered for the terminal
// unless raw is set.
func showRuleDoc(cmd *cobra.Command, registry *lint.Registry, key string, raw bool) error {
	out := cmd.OutOrStdout()

	if _, _, ok := registry.Resolve(key); !ok {
		return fmt.Errorf("%w: unknown rule %q; run 'hbslint rules' to list rules", ErrUsage, key)
	}

	doc, ok := ruledoc.Lookup(registry, key)
	if !ok {
		_, err := fmt.Fprintf(out, "%s has no documentation\n", key)
		return err
	}

	if raw {
		_, err := io.WriteString(out, strings.TrimRight(doc.Markdown, "\n")+"\n")
		return err
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = pretty.ColorAuto
	}
	style := ruledoc.StyleNoTTY
	if pretty.IsColorEnabled(colorMode, out) {
		style = ruledoc.StyleAuto
	}

	rendered, err := ruledoc.Render(doc.Markdown, style, ruledoc.TerminalWidth(out))
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, rendered)
	return err
}
