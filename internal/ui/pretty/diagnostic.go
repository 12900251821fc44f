package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/hbslint/pkg/config"
	"github.com/yaklabco/hbslint/pkg/lint"
)

// renderedTabWidth is lipgloss's default tab expansion.
const renderedTabWidth = 4

// FormatDiagnostic formats a single diagnostic for terminal output.
// Uses ID format for backwards compatibility.
func (s *Styles) FormatDiagnostic(diag *lint.Diagnostic, showContext bool, sourceLine string) string {
	return s.FormatDiagnosticWithFormat(diag, showContext, sourceLine, config.RuleFormatID)
}

// FormatDiagnosticWithFormat formats a diagnostic with configurable rule identifier format.
func (s *Styles) FormatDiagnosticWithFormat(diag *lint.Diagnostic, showContext bool, sourceLine string, ruleFormat config.RuleFormat) string {
	var builder strings.Builder

	// Location: path:line:col
	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(diag.FilePath),
		diag.StartLine,
		diag.StartColumn,
	)

	severity := s.FormatSeverity(diag.Severity)

	ruleIdentifier := config.FormatRuleID(ruleFormat, diag.RuleID, diag.RuleName)
	ruleDisplay := s.RuleID.Render("(" + ruleIdentifier + ")")

	// Main line: location  severity  message  (rule-id)
	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		location,
		severity,
		s.Message.Render(diag.Message),
		ruleDisplay,
	))

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, diag.StartColumn))
	}

	return builder.String()
}

// FormatRelated formats the related findings of a diagnostic, one per line:
//
//	    3:5  unclosed tag (syntax)
func (s *Styles) FormatRelated(related []lint.RelatedLocation) string {
	var builder strings.Builder

	for _, rel := range related {
		builder.WriteString("    ")
		builder.WriteString(s.Related.Render(fmt.Sprintf("%d:%d", rel.Line, rel.Column)))
		builder.WriteString("  ")
		builder.WriteString(s.Message.Render(rel.Message))
		if rel.Source != "" {
			builder.WriteString("  ")
			builder.WriteString(s.RelatedSource.Render("(" + rel.Source + ")"))
		}
		builder.WriteString("\n")
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	// Indent to align with diagnostic output
	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + caretPadding(line, column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// caretPadding returns spaces as wide as the first n bytes of line once
// rendered. Lipgloss expands each tab to renderedTabWidth spaces.
func caretPadding(line string, n int) string {
	n = min(n, len(line))
	width := n + strings.Count(line[:n], "\t")*(renderedTabWidth-1)
	return strings.Repeat(" ", width)
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}
