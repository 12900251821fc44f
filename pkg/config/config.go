// Package config defines core configuration types for hbslint.
// These types are plain data; loading, merging and validation live in internal/configloader.
package config

// Severity represents the severity level of a lint diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid reports whether s is a known severity.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// RuleConfig holds per-rule configuration.
type RuleConfig struct {
	Enabled  *bool   `yaml:"enabled,omitempty"  toml:"enabled,omitempty"  json:"enabled,omitempty"`
	Severity *string `yaml:"severity,omitempty" toml:"severity,omitempty" json:"severity,omitempty"`

	// Options are the rule's positional options, e.g. ["tab", {ConfigFile: ".template-lintrc.json"}].
	// They are validated against the rule's schema when the engine is activated.
	Options []any `yaml:"options,omitempty" toml:"options,omitempty" json:"options,omitempty"`
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText       OutputFormat = "text"
	FormatJSON       OutputFormat = "json"
	FormatSARIF      OutputFormat = "sarif"
	FormatCheckstyle OutputFormat = "checkstyle"
	FormatSummary    OutputFormat = "summary"
)

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "hbs-template-literals"
	RuleFormatID       RuleFormat = "id"       // "HBS001"
	RuleFormatCombined RuleFormat = "combined" // "HBS001/hbs-template-literals"
)

// Config is the root configuration structure for hbslint.
type Config struct {
	// SeverityDefault is the severity for rules whose config does not set one.
	// Empty means each rule's own default.
	SeverityDefault string `yaml:"severity_default,omitempty" toml:"severity_default,omitempty"`

	// Rules contains per-rule configuration keyed by rule ID.
	Rules map[string]RuleConfig `yaml:"rules,omitempty" toml:"rules,omitempty"`

	// Ignore contains doublestar glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// Extensions overrides the file extensions considered during discovery.
	Extensions []string `yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-" toml:"-"`

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat RuleFormat `yaml:"-" toml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-" toml:"-"`

	// EnableRules contains rule IDs to explicitly enable.
	EnableRules []string `yaml:"-" toml:"-"`

	// DisableRules contains rule IDs to explicitly disable.
	DisableRules []string `yaml:"-" toml:"-"`

	// ShowRelated makes reporters print the individual template violations
	// attached to each diagnostic.
	ShowRelated bool `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Rules:      make(map[string]RuleConfig),
		Format:     FormatText,
		RuleFormat: RuleFormatName,
		Jobs:       0, // 0 means use GOMAXPROCS
	}
}
