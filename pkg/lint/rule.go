// Package lint provides the rule engine, diagnostics, and registry for hbslint.
package lint

import (
	"github.com/yaklabco/hbslint/pkg/config"
	"github.com/yaklabco/hbslint/pkg/jsast"
)

// Diagnostic represents a single lint issue found in a file.
type Diagnostic struct {
	// RuleID is the identifier of the rule that produced this diagnostic.
	RuleID string

	// RuleName is the human-readable name of the rule (e.g., "hbs-template-literals").
	RuleName string

	// Message is the human-readable description of the issue.
	Message string

	// Severity indicates the importance of the diagnostic.
	Severity config.Severity

	// FilePath is the path to the file containing the issue.
	FilePath string

	// StartLine is the 1-based line number where the issue starts.
	StartLine int

	// StartColumn is the 1-based column number where the issue starts.
	StartColumn int

	// EndLine is the 1-based line number where the issue ends.
	EndLine int

	// EndColumn is the 1-based column number where the issue ends.
	EndColumn int

	// Related points at the individual findings a diagnostic summarizes.
	// They are supplementary and never counted as issues of their own.
	Related []RelatedLocation
}

// RelatedLocation is a secondary position attached to a Diagnostic.
type RelatedLocation struct {
	// Line and Column are 1-based positions in the linted file.
	Line   int
	Column int

	Message string

	// Source names what produced the finding, e.g. a template rule.
	Source string
}

// Visitor inspects one node. Returning an error stops the rule for the
// rest of the file.
type Visitor func(fc *FileContext, node jsast.Node) error

// Visitors maps node kinds (jsast.KindTaggedTemplate, ...) to visitors.
type Visitors map[string]Visitor

// Rule defines the interface that all lint rules must implement.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "HBS001").
	ID() string

	// Name returns the human-readable name of the rule.
	Name() string

	// Description returns a detailed description of what the rule checks.
	Description() string

	// DefaultEnabled returns whether the rule is enabled by default.
	DefaultEnabled() bool

	// DefaultSeverity returns the default severity for this rule.
	DefaultSeverity() config.Severity

	// Tags returns categorization tags for this rule (e.g., ["templates"]).
	Tags() []string

	// Schema describes the positional options the rule accepts, or nil if
	// it takes none. The engine validates options before calling Create.
	Schema() *Schema

	// Create is called once per lint session and returns the visitors the
	// engine dispatches nodes to. Returned visitors may be called from
	// several goroutines at once, one file per goroutine.
	Create(s *Session) (Visitors, error)
}

// Documented is implemented by rules that ship Markdown documentation.
type Documented interface {
	Documentation() string
}

// Exampled is implemented by rules that can show a sample options list,
// written the way it appears in a YAML config file.
type Exampled interface {
	OptionsExample() string
}
