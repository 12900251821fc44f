// Package templatelint is the built-in Handlebars markup verifier used by
// the hbs-template-literals rule. Its configuration and result shapes follow
// ember-template-lint, so existing .template-lintrc.json files work.
package templatelint

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// Result severities.
const (
	SeverityWarning = 1
	SeverityError   = 2
)

// SyntaxRule names results produced by the always-on syntax checks.
const SyntaxRule = "syntax"

// ErrInvalidConfig is wrapped by configuration parse and validation errors.
var ErrInvalidConfig = errors.New("invalid template lint config")

// Source is one block of template text to verify.
type Source struct {
	Source string

	// ModuleID names the source in syntax error messages.
	ModuleID string
}

// Result is one violation.
type Result struct {
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Line     int    `json:"line"`   // 1-based
	Column   int    `json:"column"` // 0-based
	Source   string `json:"source"`
	Severity int    `json:"severity"`
	ModuleID string `json:"moduleId"`
	Fatal    bool   `json:"fatal,omitempty"`
}

// Verifier checks template text.
type Verifier interface {
	Verify(src Source) ([]Result, error)
}

type activeRule struct {
	def      *ruleDef
	severity int
	option   any
}

// Linter verifies templates against a fixed rule set.
// It is safe for concurrent use.
type Linter struct {
	rules []activeRule
}

// New builds a Linter for cfg. The zero Config runs only syntax checks.
func New(cfg Config) (*Linter, error) {
	settings := make(map[string]RuleSetting)

	for _, preset := range cfg.Extends {
		names, ok := presets[preset]
		if !ok {
			return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidConfig, preset)
		}
		for _, name := range names {
			settings[name] = RuleSetting{Enabled: true, Severity: SeverityError}
		}
	}

	for name, value := range cfg.Rules {
		if _, known := ruleDefs[name]; !known {
			continue
		}
		settings[name] = ParseRuleSetting(value)
	}

	linter := &Linter{}
	for name, setting := range settings {
		if !setting.Enabled {
			continue
		}

		def := ruleDefs[name]
		option := setting.Option
		if def.configure != nil {
			parsed, err := def.configure(option)
			if err != nil {
				return nil, fmt.Errorf("%w: rule %s: %w", ErrInvalidConfig, name, err)
			}
			option = parsed
		}

		linter.rules = append(linter.rules, activeRule{def: def, severity: setting.Severity, option: option})
	}

	slices.SortFunc(linter.rules, func(a, b activeRule) int {
		return cmp.Compare(a.def.name, b.def.name)
	})

	return linter, nil
}

// Rules returns the names of the enabled rules, excluding syntax checks.
func (l *Linter) Rules() []string {
	names := make([]string, len(l.rules))
	for i, rule := range l.rules {
		names[i] = rule.def.name
	}
	return names
}

// Verify parses src and returns its violations ordered by position.
func (l *Linter) Verify(src Source) ([]Result, error) {
	doc, err := parseDocument(src)
	if err != nil {
		return nil, err
	}

	results := doc.syntaxResults()
	for _, rule := range l.rules {
		for _, finding := range rule.def.check(doc, rule.option) {
			results = append(results, doc.result(rule.def.name, rule.severity, finding))
		}
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Or(
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
			cmp.Compare(a.Rule, b.Rule),
		)
	})

	return results, nil
}
