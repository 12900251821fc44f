package lint

import (
	"slices"

	"github.com/yaklabco/hbslint/pkg/config"
)

// ResolvedRule pairs a Rule with its resolved configuration.
type ResolvedRule struct {
	// Rule is the underlying rule implementation.
	Rule Rule

	// Enabled indicates whether the rule should be run.
	Enabled bool

	// Severity is the resolved severity for diagnostics from this rule.
	Severity config.Severity

	// Config is the rule-specific configuration (may be nil).
	Config *config.RuleConfig
}

// Options returns the configured positional options, or nil.
func (rr ResolvedRule) Options() []any {
	if rr.Config == nil {
		return nil
	}
	return rr.Config.Options
}

// ResolveRules determines which rules to run based on registry and config.
// Returns only enabled rules, sorted by ID.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	var resolved []ResolvedRule

	for _, rule := range registry.Rules() {
		rr := resolveRule(rule, cfg)
		if rr.Enabled {
			resolved = append(resolved, rr)
		}
	}

	return resolved
}

// resolveRule applies, in increasing precedence: rule defaults, the config
// file's default severity, the rule's own config entry, and the CLI
// enable/disable lists.
func resolveRule(rule Rule, cfg *config.Config) ResolvedRule {
	rr := ResolvedRule{
		Rule:     rule,
		Enabled:  rule.DefaultEnabled(),
		Severity: rule.DefaultSeverity(),
	}

	if cfg == nil {
		return rr
	}

	if sev := config.Severity(cfg.SeverityDefault); sev.IsValid() {
		rr.Severity = sev
	}

	if ruleCfg, ok := cfg.Rules[rule.ID()]; ok {
		rr.Config = &ruleCfg

		if ruleCfg.Enabled != nil {
			rr.Enabled = *ruleCfg.Enabled
		}
		if ruleCfg.Severity != nil {
			rr.Severity = config.Severity(*ruleCfg.Severity)
		}
	}

	matches := func(key string) bool {
		return key == rule.ID() || key == rule.Name()
	}
	if slices.ContainsFunc(cfg.EnableRules, matches) {
		rr.Enabled = true
	}
	if slices.ContainsFunc(cfg.DisableRules, matches) {
		rr.Enabled = false
	}

	return rr
}
