package config

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes every rule with its description and defaults.
	// If false, generates a minimal commented template.
	Full bool

	// Format is the output format: "yaml" or "toml".
	Format string
}

// RuleInfo contains rule metadata for template generation.
// It keeps this package independent of the lint package.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
	Severity    Severity
	Tags        []string
	// Example is a sample options list written as a comment.
	Example string
}

// GenerateTemplate creates a configuration file template for the given rules.
func GenerateTemplate(opts TemplateOptions, rules []RuleInfo) ([]byte, error) {
	switch opts.Format {
	case "", "yaml", "yml":
		if opts.Full {
			return generateFullYAML(rules), nil
		}
		return []byte(minimalYAML), nil
	case "toml":
		return generateTOML(opts.Full, rules), nil
	default:
		return nil, fmt.Errorf("unsupported template format %q", opts.Format)
	}
}

const minimalYAML = `# hbslint configuration
# See: https://github.com/yaklabco/hbslint

# Default severity for rules without one: error, warning, or info
# severity_default: warning

# File patterns to ignore (doublestar globs)
# ignore:
#   - "node_modules/**"
#   - "dist/**"

# File extensions to lint
# extensions: [".js", ".mjs", ".ts"]

# Rule-specific configuration
# rules:
#   HBS001:
#     severity: error
#     options:
#       - 2
#       - ConfigFile: .template-lintrc.json
`

func generateFullYAML(rules []RuleInfo) []byte {
	var buf bytes.Buffer

	buf.WriteString(`# hbslint configuration - Full Template
# See: https://github.com/yaklabco/hbslint

severity_default: warning

ignore:
  - "node_modules/**"
  - "dist/**"
  - "tmp/**"

rules:
`)

	for _, rule := range sortedRules(rules) {
		fmt.Fprintf(&buf, "\n  # %s: %s\n", rule.ID, rule.Name)
		fmt.Fprintf(&buf, "  # %s\n", wrapComment(rule.Description, commentWrapWidth, "  # "))
		if len(rule.Tags) > 0 {
			fmt.Fprintf(&buf, "  # Tags: %s\n", strings.Join(rule.Tags, ", "))
		}
		fmt.Fprintf(&buf, "  %s:\n", rule.ID)
		fmt.Fprintf(&buf, "    enabled: %t\n", rule.Enabled)
		fmt.Fprintf(&buf, "    severity: %s\n", rule.Severity)
		if rule.Example != "" {
			fmt.Fprintf(&buf, "    # options: %s\n", rule.Example)
		}
	}

	return buf.Bytes()
}

func generateTOML(full bool, rules []RuleInfo) []byte {
	var buf bytes.Buffer

	buf.WriteString(`# hbslint configuration
# See: https://github.com/yaklabco/hbslint

# severity_default = "warning"
ignore = ["node_modules/**", "dist/**"]
`)

	if !full {
		buf.WriteString(`
# [rules.HBS001]
# severity = "error"
# options = [2, { ConfigFile = ".template-lintrc.json" }]
`)
		return buf.Bytes()
	}

	for _, rule := range sortedRules(rules) {
		fmt.Fprintf(&buf, "\n# %s: %s\n", rule.ID, rule.Name)
		fmt.Fprintf(&buf, "# %s\n", wrapComment(rule.Description, commentWrapWidth, "# "))
		fmt.Fprintf(&buf, "[rules.%s]\n", rule.ID)
		fmt.Fprintf(&buf, "enabled = %t\n", rule.Enabled)
		fmt.Fprintf(&buf, "severity = %q\n", rule.Severity)
	}

	return buf.Bytes()
}

func sortedRules(rules []RuleInfo) []RuleInfo {
	sorted := slices.Clone(rules)
	slices.SortFunc(sorted, func(a, b RuleInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return sorted
}

// wrapComment wraps text to maxWidth, continuing lines with prefix.
func wrapComment(text string, maxWidth int, prefix string) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+prefix)
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# hbslint configuration
# See: https://github.com/yaklabco/hbslint`
}
