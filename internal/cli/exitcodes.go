package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/hbslint/internal/configloader"
	"github.com/yaklabco/hbslint/pkg/lint"
	"github.com/yaklabco/hbslint/pkg/runner"
)

// Exit codes for hbslint.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitLintErrors indicates lint completed but found errors.
	ExitLintErrors = 1

	// ExitLintWarnings indicates lint completed but found warnings (when strict mode).
	ExitLintWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration or rule option errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error, including a rule or
	// parser failing on a file.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrLintIssuesFound is returned when lint found error-severity issues.
	ErrLintIssuesFound = errors.New("lint issues found")

	// ErrLintWarningsFound is returned in strict mode when lint found warnings.
	ErrLintWarningsFound = errors.New("lint warnings found")

	// ErrRuleFailures is returned when a rule or the parser failed on at least one file.
	ErrRuleFailures = errors.New("some files could not be fully checked")

	// ErrUnreadableFiles is returned when at least one file could not be read.
	ErrUnreadableFiles = errors.New("some files could not be read")

	// ErrUsage marks invalid command-line usage.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig marks configuration errors.
	ErrConfig = errors.New("configuration error")
)

// ExitCodeFromResult determines the exit code based on result and strict mode.
// Failures that left files unchecked take precedence over findings.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	unreadable := false
	for _, file := range result.Files {
		if file.Error == nil {
			continue
		}
		if errors.Is(file.Error, lint.ErrParseFailure) {
			return ExitInternalError
		}
		unreadable = true
	}
	if result.Stats.RuleFailures > 0 {
		return ExitInternalError
	}
	if unreadable {
		return ExitIOError
	}

	if result.Stats.DiagnosticsBySeverity["error"] > 0 {
		return ExitLintErrors
	}

	if strict && result.Stats.DiagnosticsBySeverity["warning"] > 0 {
		return ExitLintWarnings
	}

	return ExitSuccess
}

// resultError returns the sentinel matching ExitCodeFromResult, or nil.
func resultError(result *runner.Result, strict bool) error {
	switch ExitCodeFromResult(result, strict) {
	case ExitInternalError:
		return ErrRuleFailures
	case ExitIOError:
		return ErrUnreadableFiles
	case ExitLintErrors:
		return ErrLintIssuesFound
	case ExitLintWarnings:
		return ErrLintWarningsFound
	default:
		return nil
	}
}

// IsResultError reports whether err only signals the outcome of a lint run
// that was already reported to the user.
func IsResultError(err error) bool {
	return errors.Is(err, ErrLintIssuesFound) ||
		errors.Is(err, ErrLintWarningsFound) ||
		errors.Is(err, ErrRuleFailures) ||
		errors.Is(err, ErrUnreadableFiles)
}

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrLintIssuesFound):
		return ExitLintErrors
	case errors.Is(err, ErrLintWarningsFound):
		return ExitLintWarnings
	case errors.Is(err, ErrRuleFailures):
		return ExitInternalError
	case errors.Is(err, ErrUnreadableFiles):
		return ExitIOError
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.Is(err, lint.ErrActivation), errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
