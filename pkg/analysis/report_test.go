package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/hbslint/pkg/config"
)

func TestTotalsPredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		totals       Totals
		wantIssues   bool
		wantErrors   bool
		wantFailures bool
	}{
		{name: "clean run", totals: Totals{Files: 4}},
		{
			name:       "warnings only",
			totals:     Totals{Issues: 2, Warnings: 2, TemplateFindings: 5},
			wantIssues: true,
		},
		{
			name:       "errors",
			totals:     Totals{Issues: 3, Errors: 1, Warnings: 2},
			wantIssues: true,
			wantErrors: true,
		},
		{
			name:         "unreadable file",
			totals:       Totals{Files: 1, FilesErrored: 1},
			wantFailures: true,
		},
		{
			name:         "verifier failure next to findings",
			totals:       Totals{Issues: 1, Errors: 1, RuleFailures: 1},
			wantIssues:   true,
			wantErrors:   true,
			wantFailures: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantIssues, tt.totals.HasIssues(), "HasIssues")
			assert.Equal(t, tt.wantErrors, tt.totals.HasErrors(), "HasErrors")
			assert.Equal(t, tt.wantFailures, tt.totals.HasFailures(), "HasFailures")
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()

	assert.True(t, opts.IncludeDiagnostics && opts.IncludeByFile && opts.IncludeByRule && opts.IncludeByTemplateRule,
		"every view is on by default")
	assert.False(t, opts.IncludeRelated, "related findings are opt-in")
	assert.Equal(t, SortByCount, opts.SortBy)
	assert.True(t, opts.SortDesc)
	assert.Equal(t, config.RuleFormatName, opts.RuleFormat)
	assert.Empty(t, opts.WorkingDir)
}

func TestSortField_IsValid(t *testing.T) {
	t.Parallel()

	for _, field := range []SortField{SortByCount, SortByAlpha, SortBySeverity} {
		assert.True(t, field.IsValid(), field)
	}
	assert.False(t, SortField("by-size").IsValid())
	assert.False(t, SortField("").IsValid())
}
