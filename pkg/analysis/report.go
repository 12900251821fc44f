package analysis

import "time"

// Report contains pre-computed views of lint results.
// Computed once by Analyze(), used by all renderers.
type Report struct {
	// Diagnostics is the flat list for detailed output.
	Diagnostics []DiagnosticEntry `json:"diagnostics,omitempty"`

	// ByFile groups diagnostics by file path.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// ByRule groups diagnostics by rule.
	ByRule []RuleAnalysis `json:"byRule,omitempty"`

	// ByTemplateRule groups the template findings behind diagnostics by the
	// template rule that produced them.
	ByTemplateRule []TemplateRuleAnalysis `json:"byTemplateRule,omitempty"`

	// Failures lists files that could not be linted and rules that stopped
	// with an error.
	Failures []FailureEntry `json:"failures,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// DiagnosticEntry represents a single diagnostic in the report.
type DiagnosticEntry struct {
	FilePath    string         `json:"filePath"`
	RuleID      string         `json:"ruleId"`
	RuleName    string         `json:"ruleName"`
	Severity    string         `json:"severity"`
	Message     string         `json:"message"`
	StartLine   int            `json:"startLine"`
	StartColumn int            `json:"startColumn"`
	EndLine     int            `json:"endLine"`
	EndColumn   int            `json:"endColumn"`
	Related     []RelatedEntry `json:"related,omitempty"`
}

// RelatedEntry is one template finding summarized by a diagnostic.
type RelatedEntry struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
	Source  string `json:"source,omitempty"`
}

// FailureEntry records a file or rule that did not complete.
type FailureEntry struct {
	FilePath string `json:"filePath"`

	// RuleID is empty when the whole file failed (read or parse error).
	RuleID string `json:"ruleId,omitempty"`

	Error string `json:"error"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files            int `json:"filesChecked"`
	FilesWithIssues  int `json:"filesWithIssues"`
	FilesErrored     int `json:"filesErrored"`
	Issues           int `json:"totalIssues"`
	Errors           int `json:"errors"`
	Warnings         int `json:"warnings"`
	Infos            int `json:"infos"`
	TemplateFindings int `json:"templateFindings"`
	RuleFailures     int `json:"ruleFailures"`
}

// HasIssues returns true if there are any issues.
func (t Totals) HasIssues() bool {
	return t.Issues > 0
}

// HasErrors returns true if there are any errors.
func (t Totals) HasErrors() bool {
	return t.Errors > 0
}

// HasFailures returns true if any file or rule failed.
func (t Totals) HasFailures() bool {
	return t.FilesErrored > 0 || t.RuleFailures > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path     string   `json:"path"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
	Rules    []string `json:"rules,omitempty"`
}

// RuleAnalysis contains aggregated data for a single rule.
type RuleAnalysis struct {
	RuleID   string   `json:"ruleId"`
	RuleName string   `json:"ruleName"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
	Files    []string `json:"files,omitempty"`
}

// TemplateRuleAnalysis contains aggregated data for one template rule.
type TemplateRuleAnalysis struct {
	Rule     string   `json:"rule"`
	Findings int      `json:"findings"`
	Files    []string `json:"files,omitempty"`
}
