package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfigFile = "config_file"

	// Configuration fields.
	FieldJobs            = "jobs"
	FieldFormat          = "format"
	FieldSeverityDefault = "severity_default"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesWithIssues  = "files_with_issues"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldRuleFailures     = "rule_failures"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Rule fields.
	FieldRule        = "rule"
	FieldSeverity    = "severity"
	FieldDescription = "description"
	FieldOption      = "option"

	// Template fields.
	FieldNodes = "nodes"
)
