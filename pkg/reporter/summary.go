package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/hbslint/internal/ui/pretty"
	"github.com/yaklabco/hbslint/pkg/analysis"
	"github.com/yaklabco/hbslint/pkg/config"
)

// Table layout constants for summary output.
// All tables share one width.
const (
	tableWidth         = 90 // Width of table separators (shared by all tables).
	ruleColWidth       = 30 // Width of the rule name column.
	fileColWidth       = 60 // Width of the file path column (wider for relative paths).
	numColWidth        = 7  // Width of numeric columns.
	warnColWidth       = 8  // Width of warnings column.
	maxRuleNameLength  = 28 // Maximum characters for rule name before truncation.
	maxFilePathLength  = 58 // Maximum characters for file path before truncation.
	totalPartsCapacity = 4  // Expected number of parts in total summary line.
)

const (
	separatorRune = "\u2500"
	ellipsis      = "\u2026"
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryRenderer formats results as aggregated summary tables.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if report.Totals.Issues == 0 && len(report.Failures) == 0 {
		fmt.Fprintln(r.out, r.styles.Success.Render("No issues found"))
		return nil
	}

	sections := []func() bool{
		func() bool { return r.renderRuleTable(report.ByRule) },
		func() bool { return r.renderTemplateRuleTable(report.ByTemplateRule) },
		func() bool { return r.renderFileTable(report.ByFile) },
		func() bool { return r.renderFailures(report.Failures) },
	}
	for _, section := range sections {
		if section() {
			fmt.Fprintln(r.out)
		}
	}

	r.renderTotals(report.Totals)

	return nil
}

func (r *SummaryRenderer) renderRuleTable(rules []analysis.RuleAnalysis) bool {
	if len(rules) == 0 {
		return false
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Rules Summary"))
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat(separatorRune, tableWidth)))

	// Header - pad first, then style
	fmt.Fprintf(r.out, "%s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("Rule", ruleColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", warnColWidth)),
	)
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat(separatorRune, tableWidth)))

	// Rows
	for _, rule := range rules {
		ruleName := config.FormatRuleID(r.opts.RuleFormat, rule.RuleID, rule.RuleName)
		if len(ruleName) > maxRuleNameLength {
			ruleName = ruleName[:maxRuleNameLength] + ellipsis
		}

		// Pad first, then style
		paddedName := padRight(ruleName, ruleColWidth)
		var styledName string
		switch {
		case rule.Errors > 0:
			styledName = r.styles.TableErrorRow.Render(paddedName)
		case rule.Warnings > 0:
			styledName = r.styles.TableWarnRow.Render(paddedName)
		default:
			styledName = paddedName
		}

		fmt.Fprintf(r.out, "%s %s %s %s\n",
			styledName,
			padLeft(strconv.Itoa(rule.Issues), numColWidth),
			padLeft(strconv.Itoa(rule.Errors), numColWidth),
			padLeft(strconv.Itoa(rule.Warnings), warnColWidth),
		)
	}
	return true
}

func (r *SummaryRenderer) renderTemplateRuleTable(rules []analysis.TemplateRuleAnalysis) bool {
	if len(rules) == 0 {
		return false
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Template Rules"))
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat(separatorRune, tableWidth)))
	fmt.Fprintf(r.out, "%s %s %s\n",
		r.styles.TableHeader.Render(padRight("Template rule", ruleColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Files", numColWidth)),
	)
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat(separatorRune, tableWidth)))

	for _, rule := range rules {
		name := rule.Rule
		if len(name) > maxRuleNameLength {
			name = name[:maxRuleNameLength] + ellipsis
		}
		fmt.Fprintf(r.out, "%s %s %s\n",
			padRight(name, ruleColWidth),
			padLeft(strconv.Itoa(rule.Findings), numColWidth),
			padLeft(strconv.Itoa(len(rule.Files)), numColWidth),
		)
	}
	return true
}

func (r *SummaryRenderer) renderFileTable(files []analysis.FileAnalysis) bool {
	if len(files) == 0 {
		return false
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat(separatorRune, tableWidth)))

	// Header - pad first, then style
	fmt.Fprintf(r.out, "%s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", warnColWidth)),
	)
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat(separatorRune, tableWidth)))

	// Rows
	for _, file := range files {
		path := file.Path
		if len(path) > maxFilePathLength {
			path = ellipsis + path[len(path)-(maxFilePathLength-1):]
		}

		// Pad first, then style
		paddedPath := padRight(path, fileColWidth)
		var styledPath string
		switch {
		case file.Errors > 0:
			styledPath = r.styles.TableErrorRow.Render(paddedPath)
		case file.Warnings > 0:
			styledPath = r.styles.TableWarnRow.Render(paddedPath)
		default:
			styledPath = paddedPath
		}

		fmt.Fprintf(r.out, "%s %s %s %s\n",
			styledPath,
			padLeft(strconv.Itoa(file.Issues), numColWidth),
			padLeft(strconv.Itoa(file.Errors), numColWidth),
			padLeft(strconv.Itoa(file.Warnings), warnColWidth),
		)
	}
	return true
}

func (r *SummaryRenderer) renderFailures(failures []analysis.FailureEntry) bool {
	if len(failures) == 0 {
		return false
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Failures"))
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat(separatorRune, tableWidth)))
	for _, failure := range failures {
		where := failure.FilePath
		if failure.RuleID != "" {
			where += " [" + failure.RuleID + "]"
		}
		fmt.Fprintf(r.out, "%s %s\n", r.styles.TableErrorRow.Render(where), failure.Error)
	}
	return true
}

func (r *SummaryRenderer) renderTotals(totals analysis.Totals) {
	parts := make([]string, 0, totalPartsCapacity)

	// Total issues
	issueWord := "issues"
	if totals.Issues == 1 {
		issueWord = "issue"
	}
	parts = append(parts, fmt.Sprintf("%d %s", totals.Issues, issueWord))

	// Severity breakdown
	var severityParts []string
	if totals.Errors > 0 {
		severityParts = append(severityParts, r.styles.Error.Render(fmt.Sprintf("%d errors", totals.Errors)))
	}
	if totals.Warnings > 0 {
		severityParts = append(severityParts, r.styles.Warning.Render(fmt.Sprintf("%d warnings", totals.Warnings)))
	}
	if len(severityParts) > 0 {
		parts[0] = fmt.Sprintf("%d %s (%s)", totals.Issues, issueWord, strings.Join(severityParts, ", "))
	}

	// Files with issues
	fileWord := "files"
	if totals.FilesWithIssues == 1 {
		fileWord = "file"
	}
	parts = append(parts, fmt.Sprintf("in %d %s", totals.FilesWithIssues, fileWord))

	if totals.TemplateFindings > 0 {
		parts = append(parts, fmt.Sprintf("(%d template findings)", totals.TemplateFindings))
	}
	if failed := totals.FilesErrored + totals.RuleFailures; failed > 0 {
		parts = append(parts, r.styles.Error.Render(fmt.Sprintf("%d failed", failed)))
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Total: ")+strings.Join(parts, " "))
}
