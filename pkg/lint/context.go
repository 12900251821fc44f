package lint

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"

	"github.com/yaklabco/hbslint/pkg/config"
	"github.com/yaklabco/hbslint/pkg/jsast"
)

// Environment is what the host gives rules at activation time.
type Environment struct {
	// FS is the filesystem rules read auxiliary files from. The CLI uses
	// an OS-backed filesystem rooted at "/"; tests use memfs.
	FS billy.Filesystem

	// WorkingDir anchors relative paths in rule options.
	WorkingDir string

	// Logger receives rule diagnostics about the session itself.
	Logger *log.Logger
}

// Session is the per-rule state for one lint run. It is created once by
// Engine.Activate and handed to Rule.Create.
type Session struct {
	// Ctx is the activation context; it is not the per-file context.
	Ctx context.Context

	// ID identifies the session to collaborators. It is the rule name.
	ID string

	// Options are the rule's positional options, already schema-validated.
	Options []any

	// Config is the run's full configuration.
	Config *config.Config

	Environment
}

// ResolvePath makes path absolute relative to the session working directory.
func (s *Session) ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(s.WorkingDir, path)
}

// FileContext collects the diagnostics one rule reports for one file.
type FileContext struct {
	// Ctx is the per-file context for cancellation.
	Ctx context.Context

	// File is the parsed file being linted.
	File *jsast.File

	rule        ResolvedRule
	diagnostics []Diagnostic
}

func newFileContext(ctx context.Context, file *jsast.File, rule ResolvedRule) *FileContext {
	return &FileContext{Ctx: ctx, File: file, rule: rule}
}

// Report records a diagnostic spanning node.
func (fc *FileContext) Report(node jsast.Node, message string) {
	fc.ReportDiagnostic(node, Diagnostic{Message: message})
}

// ReportDiagnostic records diag, filling in the position from node and the
// rule, file and severity fields from the context.
func (fc *FileContext) ReportDiagnostic(node jsast.Node, diag Diagnostic) {
	if node != nil {
		rng := node.Range()
		diag.StartLine = rng.Start.Line
		diag.StartColumn = rng.Start.Column
		diag.EndLine = rng.End.Line
		diag.EndColumn = rng.End.Column
	}

	diag.RuleID = fc.rule.Rule.ID()
	diag.RuleName = fc.rule.Rule.Name()
	diag.Severity = fc.rule.Severity
	if fc.File != nil {
		diag.FilePath = fc.File.Path
	}

	fc.diagnostics = append(fc.diagnostics, diag)
}

// Diagnostics returns what has been reported so far.
func (fc *FileContext) Diagnostics() []Diagnostic {
	return fc.diagnostics
}
