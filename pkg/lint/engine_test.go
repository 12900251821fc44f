package lint_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hbslint/internal/logging"
	"github.com/yaklabco/hbslint/pkg/config"
	"github.com/yaklabco/hbslint/pkg/jsast"
	"github.com/yaklabco/hbslint/pkg/lint"
)

// mockParser returns one tagged template per entry in tags, one per line.
type mockParser struct {
	tags []string
	err  error
}

func (p *mockParser) Parse(_ context.Context, path string, content []byte) (*jsast.File, error) {
	if p.err != nil {
		return nil, p.err
	}

	file := jsast.NewFile(path, content)
	for i, tag := range p.tags {
		line := len(p.tags) - i // reverse order exercises diagnostic sorting
		file.Nodes = append(file.Nodes, &jsast.TaggedTemplate{
			Tag: tag,
			Loc: jsast.Range{
				Start: jsast.Position{Line: line, Column: 1},
				End:   jsast.Position{Line: line, Column: 10},
			},
		})
	}
	return file, nil
}

// funcRule adapts a visit function into a rule.
type funcRule struct {
	lint.BaseRule
	schema  *lint.Schema
	visit   lint.Visitor
	created []*lint.Session
	err     error
}

func newFuncRule(id string, visit lint.Visitor) *funcRule {
	return &funcRule{BaseRule: lint.NewBaseRule(id, id+"-name", "", nil), visit: visit}
}

func (r *funcRule) Schema() *lint.Schema { return r.schema }

func (r *funcRule) Create(s *lint.Session) (lint.Visitors, error) {
	r.created = append(r.created, s)
	if r.err != nil {
		return nil, r.err
	}
	return lint.Visitors{jsast.KindTaggedTemplate: r.visit}, nil
}

func reportTag(fc *lint.FileContext, node jsast.Node) error {
	tagged, ok := node.(*jsast.TaggedTemplate)
	if !ok {
		return errors.New("unexpected node")
	}
	fc.Report(node, "tag "+tagged.Tag)
	return nil
}

func activate(t *testing.T, engine *lint.Engine, cfg *config.Config) {
	t.Helper()

	err := engine.Activate(context.Background(), cfg, lint.Environment{
		FS:         memfs.New(),
		WorkingDir: "/project",
		Logger:     logging.NewWithWriter(&bytes.Buffer{}, "debug"),
	})
	require.NoError(t, err)
}

func TestEngine_LintFileBeforeActivate(t *testing.T) {
	t.Parallel()

	engine := lint.NewEngine(&mockParser{}, lint.NewRegistry())
	_, err := engine.LintFile(context.Background(), "a.js", nil)
	require.ErrorIs(t, err, lint.ErrNotActivated)
}

func TestEngine_LintFile_Diagnostics(t *testing.T) {
	t.Parallel()

	registry := lint.NewRegistry()
	registry.Register(newFuncRule("TST001", reportTag))

	engine := lint.NewEngine(&mockParser{tags: []string{"a", "b"}}, registry)
	cfg := config.NewConfig()
	cfg.Rules["TST001"] = config.RuleConfig{Severity: strPtr("error")}
	activate(t, engine, cfg)

	result, err := engine.LintFile(context.Background(), "app/a.js", []byte("x\ny\n"))
	require.NoError(t, err)
	require.True(t, result.HasIssues())
	require.Equal(t, 2, result.IssueCount())

	first := result.Diagnostics[0]
	assert.Equal(t, "tag b", first.Message)
	assert.Equal(t, 1, first.StartLine)
	assert.Equal(t, 10, first.EndColumn)
	assert.Equal(t, "TST001", first.RuleID)
	assert.Equal(t, "TST001-name", first.RuleName)
	assert.Equal(t, "app/a.js", first.FilePath)
	assert.Equal(t, config.SeverityError, first.Severity)
	assert.Equal(t, "tag a", result.Diagnostics[1].Message)
	assert.False(t, result.HasRuleErrors())
}

func TestEngine_Activate_CreatesOncePerSession(t *testing.T) {
	t.Parallel()

	rule := newFuncRule("TST001", reportTag)
	registry := lint.NewRegistry()
	registry.Register(rule)

	engine := lint.NewEngine(&mockParser{tags: []string{"a"}}, registry)
	activate(t, engine, config.NewConfig())

	for range 3 {
		_, err := engine.LintFile(context.Background(), "a.js", nil)
		require.NoError(t, err)
	}

	require.Len(t, rule.created, 1)
	session := rule.created[0]
	assert.Equal(t, "TST001-name", session.ID)
	assert.Equal(t, "/project/cfg.json", session.ResolvePath("cfg.json"))
	assert.Equal(t, "/abs/cfg.json", session.ResolvePath("/abs/cfg.json"))
	assert.Len(t, engine.ActiveRules(), 1)
}

func TestEngine_Activate_PassesValidatedOptions(t *testing.T) {
	t.Parallel()

	rule := newFuncRule("TST001", reportTag)
	rule.schema = lint.MustCompileSchema(testSchema)
	registry := lint.NewRegistry()
	registry.Register(rule)

	options := []any{"tab", map[string]any{"ConfigFile": ".template-lintrc.json"}}
	cfg := config.NewConfig()
	cfg.Rules["TST001"] = config.RuleConfig{Options: options}
	activate(t, lint.NewEngine(&mockParser{}, registry), cfg)

	require.Len(t, rule.created, 1)
	assert.Equal(t, options, rule.created[0].Options)
	assert.Same(t, cfg, rule.created[0].Config)
}

func TestEngine_Activate_Errors(t *testing.T) {
	t.Parallel()

	t.Run("create fails", func(t *testing.T) {
		t.Parallel()

		rule := newFuncRule("TST001", reportTag)
		rule.err = errors.New("bad config file")
		registry := lint.NewRegistry()
		registry.Register(rule)

		err := lint.NewEngine(&mockParser{}, registry).Activate(context.Background(), nil, lint.Environment{})
		require.ErrorIs(t, err, lint.ErrActivation)
		assert.Contains(t, err.Error(), "bad config file")
	})

	t.Run("options rejected by schema", func(t *testing.T) {
		t.Parallel()

		rule := newFuncRule("TST001", reportTag)
		rule.schema = lint.MustCompileSchema(testSchema)
		registry := lint.NewRegistry()
		registry.Register(rule)

		cfg := config.NewConfig()
		cfg.Rules["TST001"] = config.RuleConfig{Options: []any{-3}}

		err := lint.NewEngine(&mockParser{}, registry).Activate(context.Background(), cfg, lint.Environment{})
		require.ErrorIs(t, err, lint.ErrActivation)
		require.ErrorIs(t, err, lint.ErrInvalidOptions)
		assert.Empty(t, rule.created)
	})

	t.Run("options for a rule without schema", func(t *testing.T) {
		t.Parallel()

		registry := lint.NewRegistry()
		registry.Register(newFuncRule("TST001", reportTag))

		cfg := config.NewConfig()
		cfg.Rules["TST001"] = config.RuleConfig{Options: []any{1}}

		err := lint.NewEngine(&mockParser{}, registry).Activate(context.Background(), cfg, lint.Environment{})
		require.ErrorIs(t, err, lint.ErrInvalidOptions)
	})
}

func TestEngine_LintFile_RuleErrorStopsRuleForFile(t *testing.T) {
	t.Parallel()

	calls := 0
	failing := newFuncRule("TST001", func(fc *lint.FileContext, node jsast.Node) error {
		calls++
		fc.Report(node, "before failure")
		return errors.New("collaborator crashed")
	})

	registry := lint.NewRegistry()
	registry.Register(failing)
	registry.Register(newFuncRule("TST002", reportTag))

	engine := lint.NewEngine(&mockParser{tags: []string{"a", "b", "c"}}, registry)
	activate(t, engine, config.NewConfig())

	result, err := engine.LintFile(context.Background(), "a.js", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	require.Contains(t, result.RuleErrors, "TST001")
	assert.EqualError(t, result.RuleErrors["TST001"], "collaborator crashed")
	assert.True(t, result.HasRuleErrors())
	// The other rule still sees every node.
	assert.Equal(t, 4, result.IssueCount())
}

func TestEngine_LintFile_ParseError(t *testing.T) {
	t.Parallel()

	parseErr := errors.New("parse failed")
	engine := lint.NewEngine(&mockParser{err: parseErr}, lint.NewRegistry())
	activate(t, engine, nil)

	_, err := engine.LintFile(context.Background(), "a.js", nil)
	require.ErrorIs(t, err, parseErr)
	require.ErrorIs(t, err, lint.ErrParseFailure)
}

func TestEngine_LintFile_Cancelled(t *testing.T) {
	t.Parallel()

	registry := lint.NewRegistry()
	registry.Register(newFuncRule("TST001", reportTag))
	engine := lint.NewEngine(&mockParser{tags: []string{"a"}}, registry)
	activate(t, engine, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.LintFile(ctx, "a.js", nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestEngine_WithTreeSitterParser(t *testing.T) {
	t.Parallel()

	registry := lint.NewRegistry()
	registry.Register(newFuncRule("TST001", reportTag))
	engine := lint.NewEngine(jsast.TreeSitterParser{}, registry)
	activate(t, engine, nil)

	result, err := engine.LintFile(context.Background(), "a.js", []byte("const a = hbs`<p></p>`;\n"))
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "tag hbs", result.Diagnostics[0].Message)
	assert.Equal(t, 1, result.Diagnostics[0].StartLine)
	assert.Equal(t, 11, result.Diagnostics[0].StartColumn)
}
