package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hbslint/pkg/config"
	"github.com/yaklabco/hbslint/pkg/lint"
	"github.com/yaklabco/hbslint/pkg/runner"
)

func outcome(path string, diags ...lint.Diagnostic) runner.FileOutcome {
	return runner.FileOutcome{
		Path:   path,
		Result: &lint.FileResult{Diagnostics: diags, RuleErrors: map[string]error{}},
	}
}

func hbsDiag(severity config.Severity, sources ...string) lint.Diagnostic {
	diag := lint.Diagnostic{
		RuleID:      "HBS001",
		RuleName:    "hbs-template-literals",
		Severity:    severity,
		Message:     "1 error(s): x",
		StartLine:   1,
		StartColumn: 1,
	}
	for i, source := range sources {
		diag.Related = append(diag.Related, lint.RelatedLocation{Line: i + 2, Column: 3, Message: "finding", Source: source})
	}
	return diag
}

func TestAnalyze_EmptyResult(t *testing.T) {
	t.Parallel()

	report := Analyze(&runner.Result{}, DefaultOptions())

	require.NotNil(t, report)
	assert.Equal(t, ReportVersion, report.Version)
	assert.Equal(t, 0, report.Totals.Issues)
	assert.Empty(t, report.Diagnostics)
	assert.Empty(t, report.ByFile)
	assert.Empty(t, report.ByRule)
	assert.Empty(t, report.ByTemplateRule)
}

func TestAnalyze_NilResult(t *testing.T) {
	t.Parallel()

	report := Analyze(nil, DefaultOptions())
	require.NotNil(t, report)
	assert.False(t, report.Totals.HasIssues())
}

func TestAnalyze_CountsTotals(t *testing.T) {
	t.Parallel()

	result := &runner.Result{
		Files: []runner.FileOutcome{
			outcome("file1.js",
				hbsDiag(config.SeverityError, "syntax"),
				hbsDiag(config.SeverityError, "no-html-comments", "no-inline-styles"),
				hbsDiag(config.SeverityWarning, "syntax"),
			),
			outcome("file2.js", hbsDiag(config.SeverityWarning, "syntax")),
			outcome("file3.js"),
		},
	}

	report := Analyze(result, DefaultOptions())

	assert.Equal(t, 4, report.Totals.Issues)
	assert.Equal(t, 2, report.Totals.Errors)
	assert.Equal(t, 2, report.Totals.Warnings)
	assert.Equal(t, 3, report.Totals.Files)
	assert.Equal(t, 2, report.Totals.FilesWithIssues)
	assert.Equal(t, 5, report.Totals.TemplateFindings)
	assert.False(t, report.Totals.HasFailures())
}

func TestAnalyze_GroupsByRule(t *testing.T) {
	t.Parallel()

	other := lint.Diagnostic{RuleID: "TST001", RuleName: "other", Severity: config.SeverityWarning}
	result := &runner.Result{
		Files: []runner.FileOutcome{
			outcome("file1.js", hbsDiag(config.SeverityError), other),
			outcome("file2.js", hbsDiag(config.SeverityWarning)),
		},
	}

	report := Analyze(result, DefaultOptions())

	require.Len(t, report.ByRule, 2)

	// Sorted by count descending: HBS001 has 2, TST001 has 1.
	assert.Equal(t, "HBS001", report.ByRule[0].RuleID)
	assert.Equal(t, 2, report.ByRule[0].Issues)
	assert.Equal(t, 1, report.ByRule[0].Errors)
	assert.Equal(t, []string{"file1.js", "file2.js"}, report.ByRule[0].Files)

	assert.Equal(t, "TST001", report.ByRule[1].RuleID)
	assert.Equal(t, 1, report.ByRule[1].Issues)
}

func TestAnalyze_GroupsByFile(t *testing.T) {
	t.Parallel()

	result := &runner.Result{
		Files: []runner.FileOutcome{
			outcome("a.js", hbsDiag(config.SeverityError)),
			outcome("b.js",
				hbsDiag(config.SeverityError),
				hbsDiag(config.SeverityWarning),
				hbsDiag(config.SeverityWarning),
			),
		},
	}

	report := Analyze(result, DefaultOptions())

	require.Len(t, report.ByFile, 2)

	// Sorted by count descending, b.js has 3, a.js has 1
	assert.Equal(t, "b.js", report.ByFile[0].Path)
	assert.Equal(t, 3, report.ByFile[0].Issues)
	assert.Equal(t, 1, report.ByFile[0].Errors)
	assert.Equal(t, 2, report.ByFile[0].Warnings)
	assert.Equal(t, []string{"HBS001"}, report.ByFile[0].Rules)

	assert.Equal(t, "a.js", report.ByFile[1].Path)
	assert.Equal(t, 1, report.ByFile[1].Issues)
}

func TestAnalyze_GroupsByTemplateRule(t *testing.T) {
	t.Parallel()

	result := &runner.Result{
		Files: []runner.FileOutcome{
			outcome("a.js", hbsDiag(config.SeverityWarning, "syntax", "no-html-comments", "")),
			outcome("b.js", hbsDiag(config.SeverityWarning, "syntax")),
		},
	}

	report := Analyze(result, DefaultOptions())

	require.Len(t, report.ByTemplateRule, 3)
	assert.Equal(t, TemplateRuleAnalysis{Rule: "syntax", Findings: 2, Files: []string{"a.js", "b.js"}}, report.ByTemplateRule[0])
	// Ties fall back to name order.
	assert.Equal(t, "no-html-comments", report.ByTemplateRule[1].Rule)
	assert.Equal(t, "unknown", report.ByTemplateRule[2].Rule)
}

func TestAnalyze_Related(t *testing.T) {
	t.Parallel()

	result := &runner.Result{
		Files: []runner.FileOutcome{outcome("a.js", hbsDiag(config.SeverityWarning, "syntax"))},
	}

	report := Analyze(result, DefaultOptions())
	require.Len(t, report.Diagnostics, 1)
	assert.Empty(t, report.Diagnostics[0].Related)

	opts := DefaultOptions()
	opts.IncludeRelated = true
	report = Analyze(result, opts)
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, []RelatedEntry{{Line: 2, Column: 3, Message: "finding", Source: "syntax"}}, report.Diagnostics[0].Related)
}

func TestAnalyze_Failures(t *testing.T) {
	t.Parallel()

	failed := outcome("a.js")
	failed.Result.RuleErrors["HBS001"] = errors.New("verifier crashed")

	result := &runner.Result{
		Files: []runner.FileOutcome{
			failed,
			{Path: "b.js", Error: errors.New("parse failure")},
		},
	}

	report := Analyze(result, DefaultOptions())

	assert.Equal(t, 1, report.Totals.RuleFailures)
	assert.Equal(t, 1, report.Totals.FilesErrored)
	assert.True(t, report.Totals.HasFailures())
	assert.Equal(t, []FailureEntry{
		{FilePath: "a.js", RuleID: "HBS001", Error: "verifier crashed"},
		{FilePath: "b.js", Error: "parse failure"},
	}, report.Failures)
}

func TestAnalyze_RelativePaths(t *testing.T) {
	t.Parallel()

	result := &runner.Result{
		Files: []runner.FileOutcome{outcome("/project/app/a.js", hbsDiag(config.SeverityWarning))},
	}

	opts := DefaultOptions()
	opts.WorkingDir = "/project"
	report := Analyze(result, opts)

	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, "app/a.js", report.Diagnostics[0].FilePath)
}

func TestAnalyze_SortByAlpha(t *testing.T) {
	t.Parallel()

	result := &runner.Result{
		Files: []runner.FileOutcome{
			outcome("z.js", hbsDiag(config.SeverityWarning)),
			outcome("a.js", hbsDiag(config.SeverityWarning), hbsDiag(config.SeverityWarning)),
		},
	}

	opts := DefaultOptions()
	opts.SortBy = SortByAlpha

	report := Analyze(result, opts)

	require.Len(t, report.ByFile, 2)
	assert.Equal(t, "a.js", report.ByFile[0].Path)
	assert.Equal(t, "z.js", report.ByFile[1].Path)
}

func TestAnalyze_ExcludeViews(t *testing.T) {
	t.Parallel()

	result := &runner.Result{
		Files: []runner.FileOutcome{outcome("file.js", hbsDiag(config.SeverityWarning, "syntax"))},
	}

	opts := Options{
		IncludeDiagnostics: false,
		IncludeByFile:      false,
		IncludeByRule:      true,
		SortBy:             SortByCount,
		SortDesc:           true,
	}

	report := Analyze(result, opts)

	assert.Empty(t, report.Diagnostics, "diagnostics should be excluded")
	assert.Empty(t, report.ByFile, "byFile should be excluded")
	assert.Empty(t, report.ByTemplateRule, "byTemplateRule should be excluded")
	assert.NotEmpty(t, report.ByRule, "byRule should be included")
	assert.Equal(t, 1, report.Totals.Issues, "totals always computed")
}
