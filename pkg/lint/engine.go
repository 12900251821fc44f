package lint

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/yaklabco/hbslint/internal/logging"
	"github.com/yaklabco/hbslint/pkg/config"
	"github.com/yaklabco/hbslint/pkg/jsast"
)

var (
	// ErrActivation wraps any failure while preparing rules for a session:
	// invalid options or an error from Rule.Create.
	ErrActivation = errors.New("rule activation failed")

	// ErrParseFailure wraps parser errors returned by LintFile.
	ErrParseFailure = errors.New("parse failure")

	// ErrNotActivated is returned by LintFile before Activate succeeded.
	ErrNotActivated = errors.New("engine not activated")
)

// FileResult contains the results of linting a single file.
type FileResult struct {
	// File is the parsed file.
	File *jsast.File

	// Diagnostics contains all issues found, ordered by position.
	Diagnostics []Diagnostic

	// RuleErrors maps rule IDs to the error that stopped them on this file.
	RuleErrors map[string]error
}

// HasIssues returns true if any diagnostics were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// IssueCount returns the total number of diagnostics.
func (fr *FileResult) IssueCount() int {
	return len(fr.Diagnostics)
}

// HasRuleErrors returns true if any rule failed on the file.
func (fr *FileResult) HasRuleErrors() bool {
	return len(fr.RuleErrors) > 0
}

type activeRule struct {
	resolved ResolvedRule
	visitors Visitors
}

// Engine coordinates parsing and rule execution for linting.
//
// Activate must be called once before LintFile. After activation the
// engine is read-only and LintFile may be called concurrently.
type Engine struct {
	// Parser parses source files into jsast.Files.
	Parser Parser

	// Registry holds all available rules.
	Registry *Registry

	active []activeRule
	byKind map[string][]int
	logger *log.Logger
}

// NewEngine creates a new Engine with the given parser and registry.
func NewEngine(parser Parser, registry *Registry) *Engine {
	return &Engine{
		Parser:   parser,
		Registry: registry,
	}
}

// Activate resolves the enabled rules for cfg, validates their options and
// creates each rule's visitors once for the session.
func (e *Engine) Activate(ctx context.Context, cfg *config.Config, env Environment) error {
	if env.FS == nil {
		env.FS = osfs.New("/")
	}
	if env.Logger == nil {
		env.Logger = log.Default()
	}
	e.logger = env.Logger

	var active []activeRule
	byKind := make(map[string][]int)

	for _, rr := range ResolveRules(e.Registry, cfg) {
		name := rr.Rule.Name()
		opts := rr.Options()

		if schema := rr.Rule.Schema(); schema != nil {
			if err := schema.Validate(opts); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrActivation, name, err)
			}
		} else if len(opts) > 0 {
			return fmt.Errorf("%w: %s: %w: rule takes no options", ErrActivation, name, ErrInvalidOptions)
		}

		session := &Session{
			Ctx:         ctx,
			ID:          name,
			Options:     opts,
			Config:      cfg,
			Environment: env,
		}
		session.Logger = env.Logger.With(logging.FieldRule, name)

		visitors, err := rr.Rule.Create(session)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrActivation, name, err)
		}

		idx := len(active)
		active = append(active, activeRule{resolved: rr, visitors: visitors})
		for kind, visit := range visitors {
			if visit != nil {
				byKind[kind] = append(byKind[kind], idx)
			}
		}

		e.logger.Debug("rule activated", logging.FieldRule, name, logging.FieldSeverity, rr.Severity)
	}

	e.active = active
	e.byKind = byKind

	return nil
}

// ActiveRules returns the rules enabled by the last Activate call.
func (e *Engine) ActiveRules() []ResolvedRule {
	out := make([]ResolvedRule, len(e.active))
	for i, ar := range e.active {
		out[i] = ar.resolved
	}
	return out
}

// LintFile parses content and dispatches its nodes, in source order, to
// the visitors of every active rule. A rule whose visitor fails is skipped
// for the rest of the file and its error recorded in RuleErrors.
func (e *Engine) LintFile(ctx context.Context, path string, content []byte) (*FileResult, error) {
	if e.byKind == nil {
		return nil, ErrNotActivated
	}

	file, err := e.Parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	result := &FileResult{
		File:       file,
		RuleErrors: make(map[string]error),
	}

	e.logger.Debug("file parsed", logging.FieldPath, path, logging.FieldNodes, len(file.Nodes))

	contexts := make([]*FileContext, len(e.active))

	for _, node := range file.Nodes {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("linting cancelled: %w", ctx.Err())
		default:
		}

		for _, idx := range e.byKind[node.Kind()] {
			ar := e.active[idx]
			ruleID := ar.resolved.Rule.ID()
			if _, failed := result.RuleErrors[ruleID]; failed {
				continue
			}

			if contexts[idx] == nil {
				contexts[idx] = newFileContext(ctx, file, ar.resolved)
			}

			if err := ar.visitors[node.Kind()](contexts[idx], node); err != nil {
				result.RuleErrors[ruleID] = err
				e.logger.Debug("rule failed",
					logging.FieldRule, ar.resolved.Rule.Name(),
					logging.FieldPath, path,
					logging.FieldError, err,
				)
			}
		}
	}

	for _, fc := range contexts {
		if fc != nil {
			result.Diagnostics = append(result.Diagnostics, fc.diagnostics...)
		}
	}

	slices.SortStableFunc(result.Diagnostics, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.StartLine, b.StartLine),
			cmp.Compare(a.StartColumn, b.StartColumn),
		)
	})

	return result, nil
}
