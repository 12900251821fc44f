package reporter

import (
	"bufio"
	"context"
	"fmt"
	"slices"

	"github.com/yaklabco/hbslint/internal/ui/pretty"
	"github.com/yaklabco/hbslint/pkg/analysis"
	"github.com/yaklabco/hbslint/pkg/jsast"
	"github.com/yaklabco/hbslint/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		total += r.reportFile(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

// reportFile writes one file's failures and diagnostics and returns the
// number of diagnostics written.
func (r *TextReporter) reportFile(file runner.FileOutcome) int {
	path := analysis.MakeRelativePath(file.Path, r.opts.WorkingDir)

	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
		)
		return 0
	}

	if file.Result == nil {
		return 0
	}

	diagnostics := file.Result.Diagnostics
	failed := sortedRuleIDs(file.Result.RuleErrors)
	if len(diagnostics) == 0 && len(failed) == 0 {
		return 0
	}

	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(diagnostics)))
	}

	for _, ruleID := range failed {
		fmt.Fprintf(r.bw, "  %s  %s\n",
			r.styles.Error.Render("rule "+ruleID+" failed:"),
			file.Result.RuleErrors[ruleID],
		)
	}

	for _, diag := range diagnostics {
		diag.FilePath = path
		fmt.Fprint(r.bw, r.styles.FormatDiagnosticWithFormat(&diag, r.opts.ShowContext,
			sourceLine(file.Result.File, diag.StartLine, r.opts.ShowContext), r.opts.RuleFormat))
		if r.opts.ShowRelated {
			fmt.Fprint(r.bw, r.styles.FormatRelated(diag.Related))
		}
	}

	if r.opts.GroupByFile {
		// Blank line between files
		fmt.Fprintln(r.bw)
	}

	return len(diagnostics)
}

// sourceLine returns line lineNum of file, or "" when context is off or
// the file is unavailable.
func sourceLine(file *jsast.File, lineNum int, enabled bool) string {
	if !enabled || file == nil {
		return ""
	}
	return string(file.LineContent(lineNum))
}

func sortedRuleIDs(errs map[string]error) []string {
	ids := make([]string, 0, len(errs))
	for id := range errs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
