package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/hbslint/internal/ui/pretty"
)

// helpStyles colors the parts of command help.
type helpStyles struct {
	command lipgloss.Style
	heading lipgloss.Style
	name    lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

func newHelpStyles(colorEnabled bool) helpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return helpStyles{command: plain, heading: plain, name: plain, flag: plain, dim: plain}
	}
	return helpStyles{
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		heading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		name:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

const helpTemplate = `{{with (or .Long .Short)}}{{ trimRight . }}

{{end}}{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if .IsAvailableCommand}}
  {{ name (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags.FlagUsages }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags.FlagUsages }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

// applyHelp installs styled help and usage output on cmd and its
// subcommands. Color follows the --color flag at render time.
func applyHelp(cmd *cobra.Command) {
	render := func(command *cobra.Command, out io.Writer) error {
		mode, err := command.Flags().GetString("color")
		if err != nil {
			mode = pretty.ColorAuto
		}
		styles := newHelpStyles(pretty.IsColorEnabled(mode, out))

		tmpl, err := template.New("help").Funcs(styles.funcs()).Parse(helpTemplate)
		if err != nil {
			return fmt.Errorf("parse help template: %w", err)
		}
		if err := tmpl.Execute(out, command); err != nil {
			return fmt.Errorf("render help: %w", err)
		}
		return nil
	}

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render(command, command.OutOrStdout()); err != nil {
			command.PrintErrln(err)
		}
	})
	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return render(command, command.OutOrStderr())
	})
}

func (s helpStyles) funcs() template.FuncMap {
	return template.FuncMap{
		"command":   s.command.Render,
		"heading":   s.heading.Render,
		"name":      s.name.Render,
		"dim":       s.dim.Render,
		"flags":     s.styleFlags,
		"rpad":      rpad,
		"trimRight": trimTrailingWhitespace,
	}
}

// styleFlags colors the flag names in pflag's usage block. Each line has
// the form "  -f, --flag type   description".
func (s helpStyles) styleFlags(usages string) string {
	lines := strings.Split(strings.TrimRight(usages, "\n"), "\n")
	for i, line := range lines {
		lines[i] = s.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

func (s helpStyles) styleFlagLine(line string) string {
	body := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(body)]

	// The description starts after the first run of two or more spaces.
	gap := strings.Index(body, "  ")
	if body == "" || gap < 0 {
		return line
	}
	spec := body[:gap]
	desc := strings.TrimLeft(body[gap:], " ")
	padding := body[gap : len(body)-len(desc)]

	tokens := strings.Fields(spec)
	for i, token := range tokens {
		if strings.HasPrefix(token, "-") {
			name, comma := strings.CutSuffix(token, ",")
			tokens[i] = s.flag.Render(name)
			if comma {
				tokens[i] += ","
			}
			continue
		}
		tokens[i] = s.dim.Render(token)
	}

	return indent + strings.Join(tokens, " ") + padding + desc
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
