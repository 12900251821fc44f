package configloader

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/hbslint/pkg/config"
	"github.com/yaklabco/hbslint/pkg/lint"
	"github.com/yaklabco/hbslint/pkg/runner"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "rules.HBS001.severity").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown rules).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) addError(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings. Rule keys are
// looked up in registry; a nil registry means lint.DefaultRegistry.
func Validate(cfg *config.Config, registry *lint.Registry) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}
	if registry == nil {
		registry = lint.DefaultRegistry
	}

	if cfg.SeverityDefault != "" && !IsValidSeverity(cfg.SeverityDefault) {
		result.addError("severity_default", cfg.SeverityDefault,
			"invalid severity %q; must be one of: error, warning, info", cfg.SeverityDefault)
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.addError("format", cfg.Format,
			"invalid format %q; must be one of: text, json, sarif, checkstyle, summary", cfg.Format)
	}

	if cfg.RuleFormat != "" && !cfg.RuleFormat.IsValid() {
		result.addError("rule_format", cfg.RuleFormat,
			"invalid rule format %q; must be one of: name, id, combined", cfg.RuleFormat)
	}

	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	validateRules(cfg, registry, result)
	validateRuleLists(cfg, registry, result)
	validateGlobs(cfg, result)
	validateExtensions(cfg, result)

	return result
}

// validateRules checks rule configurations for errors and warnings.
func validateRules(cfg *config.Config, registry *lint.Registry, result *ValidationResult) {
	keys := make([]string, 0, len(cfg.Rules))
	for key := range cfg.Rules {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		ruleCfg := cfg.Rules[key]

		if _, _, ok := registry.Resolve(key); !ok {
			result.addWarning("rules."+key, key, "unknown rule %q; it will be ignored", key)
		}

		if ruleCfg.Severity != nil && !IsValidSeverity(*ruleCfg.Severity) {
			result.addError("rules."+key+".severity", *ruleCfg.Severity,
				"invalid severity %q; must be one of: error, warning, info", *ruleCfg.Severity)
		}
	}
}

// validateRuleLists warns about --enable/--disable entries naming no rule.
func validateRuleLists(cfg *config.Config, registry *lint.Registry, result *ValidationResult) {
	for field, list := range map[string][]string{"enable": cfg.EnableRules, "disable": cfg.DisableRules} {
		for _, key := range list {
			if _, _, ok := registry.Resolve(key); !ok {
				result.addWarning(field, key, "unknown rule %q; it will be ignored", key)
			}
		}
	}
	slices.SortStableFunc(result.Warnings, func(a, b ValidationError) int {
		return strings.Compare(a.Field, b.Field)
	})
}

// validateGlobs checks that ignore patterns are valid doublestar globs.
func validateGlobs(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if !runner.ValidateGlob(pattern) {
			result.addError(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern %q", pattern)
		}
	}
}

// validateExtensions requires every extension to carry its leading dot.
func validateExtensions(cfg *config.Config, result *ValidationResult) {
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			result.addError(fmt.Sprintf("extensions[%d]", i), ext,
				"invalid extension %q; must start with a dot, e.g. \".js\"", ext)
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, registry *lint.Registry, filePath string) *ValidationResult {
	result := Validate(cfg, registry)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidSeverity returns true if the severity string is valid.
func IsValidSeverity(s string) bool {
	return config.Severity(s).IsValid()
}
