package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/hbslint/pkg/config"
)

// envVarPrefix is the prefix for all hbslint environment variables.
const envVarPrefix = "HBSLINT_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines an environment variable to config field mapping.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"SEVERITY_DEFAULT": {field: "severity_default", typ: envTypeString, description: "Default severity: error, warning, or info"},
	"FORMAT":           {field: "format", typ: envTypeString, description: "Output format: text, json, sarif, checkstyle, or summary"},
	"RULE_FORMAT":      {field: "rule_format", typ: envTypeString, description: "Rule identifiers in output: name, id, or combined"},
	"JOBS":             {field: "jobs", typ: envTypeInt, description: "Number of parallel workers (0 = auto)"},
	"RELATED":          {field: "related", typ: envTypeBool, description: "Show individual template findings: true or false"},
	"IGNORE":           {field: "ignore", typ: envTypeSlice, description: "Comma-separated list of ignore globs"},
	"EXTENSIONS":       {field: "extensions", typ: envTypeSlice, description: "Comma-separated list of script file extensions"},
	"ENABLE":           {field: "enable", typ: envTypeSlice, description: "Comma-separated list of rules to enable"},
	"DISABLE":          {field: "disable", typ: envTypeSlice, description: "Comma-separated list of rules to disable"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with HBSLINT_ (e.g., HBSLINT_FORMAT).
func LoadFromEnv(cfg *config.Config) error {
	return loadFromLookup(cfg, os.LookupEnv)
}

// loadFromLookup applies overrides read through lookup. Empty values are skipped.
func loadFromLookup(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value, ok := lookup(envVar)
		if !ok || value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		if mapping.field == "related" {
			cfg.ShowRelated = b
		}
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		if mapping.field == "jobs" {
			cfg.Jobs = i
		}
	case envTypeSlice:
		setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
	return nil
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) {
	switch field {
	case "severity_default":
		cfg.SeverityDefault = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "rule_format":
		cfg.RuleFormat = config.RuleFormat(value)
	}
}

func setSliceField(cfg *config.Config, field string, value []string) {
	switch field {
	case "ignore":
		cfg.Ignore = value
	case "extensions":
		cfg.Extensions = value
	case "enable":
		cfg.EnableRules = value
	case "disable":
		cfg.DisableRules = value
	}
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
