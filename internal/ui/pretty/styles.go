// Package pretty renders lint output for terminals with lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color modes accepted by the --color flag.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ANSI 256 palette indexes.
const (
	colorRed    = lipgloss.Color("9")
	colorGreen  = lipgloss.Color("10")
	colorYellow = lipgloss.Color("11")
	colorBlue   = lipgloss.Color("12")
	colorCyan   = lipgloss.Color("14")
	colorGray   = lipgloss.Color("8")
	colorLight  = lipgloss.Color("7")
)

// Styles holds one lipgloss style per element of the lint output. With color
// disabled every style is plain and renders text unchanged.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	FilePath   lipgloss.Style
	RuleID     lipgloss.Style
	Message    lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	// Related template findings listed under a diagnostic.
	Related       lipgloss.Style
	RelatedSource lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Summary report tables.
	TableHeader    lipgloss.Style
	TableErrorRow  lipgloss.Style
	TableWarnRow   lipgloss.Style
	TableSeparator lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles returns colored styles, or plain ones when colorEnabled is false.
func NewStyles(colorEnabled bool) *Styles {
	plain := lipgloss.NewStyle()
	if !colorEnabled {
		return &Styles{
			Error: plain, Warning: plain, Info: plain,
			FilePath: plain, RuleID: plain, Message: plain, SourceLine: plain, Caret: plain,
			Related: plain, RelatedSource: plain,
			SummaryTitle: plain, SummaryValue: plain, Success: plain, Failure: plain,
			TableHeader: plain, TableErrorRow: plain, TableWarnRow: plain, TableSeparator: plain,
			Dim: plain, Bold: plain,
		}
	}

	fg := func(c lipgloss.Color) lipgloss.Style { return plain.Foreground(c) }
	bold := plain.Bold(true)

	return &Styles{
		Error:   fg(colorRed).Bold(true),
		Warning: fg(colorYellow).Bold(true),
		Info:    fg(colorBlue).Bold(true),

		FilePath:   bold,
		RuleID:     fg(colorGray),
		Message:    plain,
		SourceLine: fg(colorLight),
		Caret:      fg(colorRed),

		Related:       fg(colorCyan),
		RelatedSource: fg(colorGray).Italic(true),

		SummaryTitle: bold,
		SummaryValue: plain,
		Success:      fg(colorGreen).Bold(true),
		Failure:      fg(colorRed).Bold(true),

		TableHeader:    fg(colorLight).Bold(true),
		TableErrorRow:  fg(colorRed),
		TableWarnRow:   fg(colorYellow),
		TableSeparator: fg(colorGray),

		Dim:  fg(colorGray),
		Bold: bold,
	}
}

// IsColorEnabled resolves a color mode for writer. In auto mode (also used
// for unknown values) color needs a terminal and an empty NO_COLOR.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
