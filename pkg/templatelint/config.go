package templatelint

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// Config mirrors the JSON form of an ember-template-lint configuration.
type Config struct {
	// Extends names presets: "recommended", "octane" or "stylistic".
	Extends []string

	// Rules maps rule names to settings: true, false, "off", "warn",
	// "error", or a rule-specific option value.
	Rules map[string]any
}

// ParseConfig decodes a configuration file. Comments and trailing commas
// are tolerated.
func ParseConfig(data []byte) (Config, error) {
	var raw struct {
		Extends json.RawMessage `json:"extends"`
		Rules   map[string]any  `json:"rules"`
	}

	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg := Config{Rules: raw.Rules}

	if len(raw.Extends) > 0 && string(raw.Extends) != "null" {
		var single string
		if err := json.Unmarshal(raw.Extends, &single); err == nil {
			cfg.Extends = []string{single}
		} else if err := json.Unmarshal(raw.Extends, &cfg.Extends); err != nil {
			return Config{}, fmt.Errorf("%w: extends must be a string or a list of strings", ErrInvalidConfig)
		}
	}

	return cfg, nil
}

// RuleSetting is a decoded rule value.
type RuleSetting struct {
	Enabled  bool
	Severity int
	Option   any
}

// ParseRuleSetting interprets a rule value from Config.Rules.
func ParseRuleSetting(value any) RuleSetting {
	switch v := value.(type) {
	case nil:
		return RuleSetting{}
	case bool:
		return RuleSetting{Enabled: v, Severity: SeverityError}
	case string:
		switch v {
		case "off":
			return RuleSetting{}
		case "warn", "warning":
			return RuleSetting{Enabled: true, Severity: SeverityWarning}
		case "error", "on":
			return RuleSetting{Enabled: true, Severity: SeverityError}
		}
	}

	return RuleSetting{Enabled: true, Severity: SeverityError, Option: value}
}
