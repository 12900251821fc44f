package lint

import (
	"fmt"

	"github.com/yaklabco/hbslint/pkg/config"
	"github.com/yaklabco/hbslint/pkg/jsast"
)

// DiagnosticBuilder helps construct Diagnostic values for
// FileContext.ReportDiagnostic.
type DiagnosticBuilder struct {
	diag Diagnostic
}

// NewDiagnostic starts building a diagnostic with the given message.
func NewDiagnostic(message string) *DiagnosticBuilder {
	return &DiagnosticBuilder{diag: Diagnostic{Message: message}}
}

// NewDiagnosticf starts building a diagnostic with a formatted message.
func NewDiagnosticf(format string, args ...any) *DiagnosticBuilder {
	return NewDiagnostic(fmt.Sprintf(format, args...))
}

// At sets the diagnostic's span. ReportDiagnostic overrides it when given
// a node.
func (b *DiagnosticBuilder) At(rng jsast.Range) *DiagnosticBuilder {
	b.diag.StartLine = rng.Start.Line
	b.diag.StartColumn = rng.Start.Column
	b.diag.EndLine = rng.End.Line
	b.diag.EndColumn = rng.End.Column
	return b
}

// WithSeverity sets the severity. ReportDiagnostic replaces it with the
// configured rule severity.
func (b *DiagnosticBuilder) WithSeverity(s config.Severity) *DiagnosticBuilder {
	b.diag.Severity = s
	return b
}

// WithRelated appends related locations.
func (b *DiagnosticBuilder) WithRelated(related ...RelatedLocation) *DiagnosticBuilder {
	b.diag.Related = append(b.diag.Related, related...)
	return b
}

// Build returns the constructed Diagnostic.
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.diag
}
