package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/hbslint/pkg/analysis"
	"github.com/yaklabco/hbslint/pkg/lint"
	"github.com/yaklabco/hbslint/pkg/runner"
)

// Severity string constants.
const (
	severityWarning = "warning"
)

// jsonVersion is the version of the JSON output shape.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string            `json:"path"`
	Diagnostics []JSONDiagnostic  `json:"diagnostics"`
	RuleErrors  map[string]string `json:"ruleErrors,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// JSONDiagnostic represents a single diagnostic.
type JSONDiagnostic struct {
	RuleID      string        `json:"ruleId"`
	RuleName    string        `json:"ruleName"`
	Severity    string        `json:"severity"`
	Message     string        `json:"message"`
	StartLine   int           `json:"startLine"`
	StartColumn int           `json:"startColumn"`
	EndLine     int           `json:"endLine"`
	EndColumn   int           `json:"endColumn"`
	Related     []JSONRelated `json:"related,omitempty"`
}

// JSONRelated is one template finding behind a diagnostic.
type JSONRelated struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
	Source  string `json:"source,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked     int            `json:"filesChecked"`
	FilesWithIssues  int            `json:"filesWithIssues"`
	FilesErrored     int            `json:"filesErrored"`
	TemplatesChecked int            `json:"templatesChecked"`
	TotalIssues      int            `json:"totalIssues"`
	RuleFailures     int            `json:"ruleFailures"`
	BySeverity       map[string]int `json:"bySeverity"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalIssues, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			BySeverity: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	output.Summary.TemplatesChecked = result.Stats.NodesChecked

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:        analysis.MakeRelativePath(file.Path, r.opts.WorkingDir),
			Diagnostics: make([]JSONDiagnostic, 0),
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
			output.Summary.FilesErrored++
		}

		if file.Result != nil {
			for _, ruleID := range sortedRuleIDs(file.Result.RuleErrors) {
				if fileResult.RuleErrors == nil {
					fileResult.RuleErrors = make(map[string]string)
				}
				fileResult.RuleErrors[ruleID] = file.Result.RuleErrors[ruleID].Error()
				output.Summary.RuleFailures++
			}

			for _, diag := range file.Result.Diagnostics {
				fileResult.Diagnostics = append(fileResult.Diagnostics, r.jsonDiagnostic(&diag))
				output.Summary.TotalIssues++

				severity := string(diag.Severity)
				if severity == "" {
					severity = severityWarning
				}
				output.Summary.BySeverity[severity]++
			}
		}

		if len(fileResult.Diagnostics) > 0 {
			output.Summary.FilesWithIssues++
		}

		output.Files = append(output.Files, fileResult)
		output.Summary.FilesChecked++
	}

	return output
}

func (r *JSONReporter) jsonDiagnostic(diag *lint.Diagnostic) JSONDiagnostic {
	out := JSONDiagnostic{
		RuleID:      diag.RuleID,
		RuleName:    diag.RuleName,
		Severity:    string(diag.Severity),
		Message:     diag.Message,
		StartLine:   diag.StartLine,
		StartColumn: diag.StartColumn,
		EndLine:     diag.EndLine,
		EndColumn:   diag.EndColumn,
	}

	if r.opts.ShowRelated {
		for _, rel := range diag.Related {
			out.Related = append(out.Related, JSONRelated{
				Line:    rel.Line,
				Column:  rel.Column,
				Message: rel.Message,
				Source:  rel.Source,
			})
		}
	}

	return out
}
