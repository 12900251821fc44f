package runner_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"

	"github.com/yaklabco/hbslint/internal/logging"
	"github.com/yaklabco/hbslint/pkg/config"
	"github.com/yaklabco/hbslint/pkg/jsast"
	"github.com/yaklabco/hbslint/pkg/lint"
	"github.com/yaklabco/hbslint/pkg/runner"
)

// lineParser turns every line starting with "tag:" into a tagged template
// node, so tests control node counts through file content.
type lineParser struct{}

func (lineParser) Parse(_ context.Context, path string, content []byte) (*jsast.File, error) {
	if bytes.HasPrefix(content, []byte("!parse-error")) {
		return nil, errors.New("unexpected token")
	}

	file := jsast.NewFile(path, content)
	for i, line := range strings.Split(string(content), "\n") {
		tag, ok := strings.CutPrefix(line, "tag:")
		if !ok {
			continue
		}
		pos := jsast.Position{Line: i + 1, Column: 1}
		file.Nodes = append(file.Nodes, &jsast.TaggedTemplate{
			Tag: tag,
			Loc: jsast.Range{Start: pos, End: pos},
		})
	}
	return file, nil
}

// tagRule reports every "bad" tag and fails on "boom".
type tagRule struct {
	lint.BaseRule
}

func (r *tagRule) Create(_ *lint.Session) (lint.Visitors, error) {
	return lint.Visitors{
		jsast.KindTaggedTemplate: func(fc *lint.FileContext, node jsast.Node) error {
			tagged, _ := node.(*jsast.TaggedTemplate)
			switch tagged.Tag {
			case "bad":
				fc.Report(node, "bad template")
			case "boom":
				return errors.New("verifier exploded")
			}
			return nil
		},
	}, nil
}

func newRunner(t *testing.T, cfg *config.Config) *runner.Runner {
	t.Helper()

	registry := lint.NewRegistry()
	registry.Register(&tagRule{BaseRule: lint.NewBaseRule("TST001", "tag-rule", "", nil)})

	engine := lint.NewEngine(lineParser{}, registry)
	err := engine.Activate(context.Background(), cfg, lint.Environment{
		FS:         memfs.New(),
		WorkingDir: projectDir,
		Logger:     logging.NewWithWriter(&bytes.Buffer{}, "error"),
	})
	if err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	return runner.New(engine)
}

func run(t *testing.T, fs billy.Filesystem, cfg *config.Config, jobs int) *runner.Result {
	t.Helper()

	result, err := newRunner(t, cfg).Run(context.Background(), runner.Options{
		FS:         fs,
		WorkingDir: projectDir,
		Jobs:       jobs,
		Config:     cfg,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return result
}

func TestNew(t *testing.T) {
	t.Parallel()

	engine := lint.NewEngine(lineParser{}, lint.NewRegistry())
	lintRunner := runner.New(engine)

	if lintRunner.Engine != engine {
		t.Error("Engine not set correctly")
	}
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	fs := newProject(t, map[string]string{"README.md": "# hi"})
	result := run(t, fs, config.NewConfig(), 0)

	if result.Stats.FilesDiscovered != 0 {
		t.Errorf("FilesDiscovered = %d, want 0", result.Stats.FilesDiscovered)
	}
	if result.HasIssues() {
		t.Error("HasIssues() = true, want false")
	}
}

func TestRunner_Run_WithDiagnostics(t *testing.T) {
	t.Parallel()

	fs := newProject(t, map[string]string{
		"a.js": "tag:bad\ntag:ok\ntag:bad\n",
		"b.js": "tag:ok\n",
		"c.js": "tag:bad\n",
	})

	cfg := config.NewConfig()
	cfg.Rules["TST001"] = config.RuleConfig{Severity: strPtr("error")}

	result := run(t, fs, cfg, 2)

	if result.Stats.FilesDiscovered != 3 {
		t.Errorf("FilesDiscovered = %d, want 3", result.Stats.FilesDiscovered)
	}
	if result.Stats.FilesProcessed != 3 {
		t.Errorf("FilesProcessed = %d, want 3", result.Stats.FilesProcessed)
	}
	if result.Stats.DiagnosticsTotal != 3 {
		t.Errorf("DiagnosticsTotal = %d, want 3", result.Stats.DiagnosticsTotal)
	}
	if result.Stats.FilesWithIssues != 2 {
		t.Errorf("FilesWithIssues = %d, want 2", result.Stats.FilesWithIssues)
	}
	if result.Stats.NodesChecked != 5 {
		t.Errorf("NodesChecked = %d, want 5", result.Stats.NodesChecked)
	}
	if got := result.Stats.DiagnosticsBySeverity["error"]; got != 3 {
		t.Errorf("DiagnosticsBySeverity[error] = %d, want 3", got)
	}
	if !result.HasFailures() {
		t.Error("HasFailures() = false, want true")
	}
	if result.HasRuleFailures() {
		t.Error("HasRuleFailures() = true, want false")
	}

	first := result.Files[0]
	if first.Path != "/project/a.js" {
		t.Errorf("Files[0].Path = %s, want /project/a.js", first.Path)
	}
	if len(first.Result.Diagnostics) != 2 || first.Result.Diagnostics[1].StartLine != 3 {
		t.Errorf("Files[0] diagnostics = %+v", first.Result.Diagnostics)
	}
}

func TestRunner_Run_RuleFailuresAndFileErrors(t *testing.T) {
	t.Parallel()

	fs := newProject(t, map[string]string{
		"a.js": "tag:boom\ntag:bad\n",
		"b.js": "!parse-error\n",
		"c.js": "tag:bad\n",
	})

	result := run(t, fs, config.NewConfig(), 0)

	if result.Stats.RuleFailures != 1 {
		t.Errorf("RuleFailures = %d, want 1", result.Stats.RuleFailures)
	}
	if !result.HasRuleFailures() {
		t.Error("HasRuleFailures() = false, want true")
	}
	if result.Stats.FilesErrored != 1 {
		t.Errorf("FilesErrored = %d, want 1", result.Stats.FilesErrored)
	}
	if result.Stats.DiagnosticsTotal != 1 {
		t.Errorf("DiagnosticsTotal = %d, want 1 (only c.js)", result.Stats.DiagnosticsTotal)
	}
	if result.HasFailures() {
		t.Error("HasFailures() = true, want false for warnings")
	}

	parseErr := result.Files[1].Error
	if !errors.Is(parseErr, lint.ErrParseFailure) {
		t.Errorf("Files[1].Error = %v, want ErrParseFailure", parseErr)
	}
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	files := make(map[string]string)
	for idx := range 40 {
		content := "tag:ok\n"
		if idx%3 == 0 {
			content = "tag:bad\ntag:bad\n"
		}
		files[fmt.Sprintf("dir%d/file%02d.js", idx%4, idx)] = content
	}
	fs := newProject(t, files)

	serial := run(t, fs, config.NewConfig(), 1)
	parallel := run(t, fs, config.NewConfig(), 8)

	if serial.Stats.DiagnosticsTotal != parallel.Stats.DiagnosticsTotal {
		t.Errorf("DiagnosticsTotal mismatch: serial=%d, parallel=%d",
			serial.Stats.DiagnosticsTotal, parallel.Stats.DiagnosticsTotal)
	}

	if len(serial.Files) != len(parallel.Files) {
		t.Fatalf("File count mismatch: serial=%d, parallel=%d", len(serial.Files), len(parallel.Files))
	}

	for i := range serial.Files {
		if serial.Files[i].Path != parallel.Files[i].Path {
			t.Errorf("File[%d] path mismatch: serial=%s, parallel=%s",
				i, serial.Files[i].Path, parallel.Files[i].Path)
		}
	}
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	fs := newProject(t, map[string]string{"a.js": "tag:bad\n", "b.js": "tag:bad\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(t, config.NewConfig()).Run(ctx, runner.Options{FS: fs, WorkingDir: projectDir})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestResult_NilSafe(t *testing.T) {
	t.Parallel()

	var result *runner.Result
	if result.HasFailures() || result.HasIssues() || result.HasRuleFailures() {
		t.Error("nil result should report nothing")
	}
}

func strPtr(s string) *string {
	return &s
}
