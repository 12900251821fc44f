// Package reporter renders lint results as terminal text, JSON, SARIF,
// checkstyle XML or an aggregated summary.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/hbslint/pkg/analysis"
	"github.com/yaklabco/hbslint/pkg/runner"
)

// Compile-time interface check for reporterFacade.
var _ Reporter = (*reporterFacade)(nil)

// Reporter formats and writes lint results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of issues reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// reporterFacade bridges the Reporter interface to Renderer implementations.
type reporterFacade struct {
	renderer     Renderer
	analysisOpts analysis.Options
}

// Report implements Reporter by analyzing the result and rendering it.
func (f *reporterFacade) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, f.analysisOpts)
	if err := f.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Issues, nil
}

// newRendererFacade creates a facade wrapping a Renderer.
func newRendererFacade(renderer Renderer, opts Options) *reporterFacade {
	analysisOpts := analysis.DefaultOptions()
	analysisOpts.IncludeRelated = opts.ShowRelated
	analysisOpts.RuleFormat = opts.RuleFormat
	analysisOpts.WorkingDir = opts.WorkingDir
	return &reporterFacade{
		renderer:     renderer,
		analysisOpts: analysisOpts,
	}
}

// New creates a Reporter for opts.
func New(opts Options) (Reporter, error) {
	// Default writer to stdout if not specified
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatSARIF:
		return NewSARIFReporter(opts), nil
	case FormatCheckstyle:
		return newRendererFacade(NewCheckstyleRenderer(opts), opts), nil
	case FormatSummary:
		return newRendererFacade(NewSummaryRenderer(opts), opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
