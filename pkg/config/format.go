package config

// FormatRuleID formats a rule identifier based on the given format.
// It falls back to the ID when the name is empty.
func FormatRuleID(format RuleFormat, ruleID, ruleName string) string {
	if ruleName == "" {
		return ruleID
	}

	switch format {
	case RuleFormatID:
		return ruleID
	case RuleFormatCombined:
		return ruleID + "/" + ruleName
	case RuleFormatName:
		return ruleName
	default:
		return ruleName
	}
}

// IsValid reports whether f is a known rule format.
func (f RuleFormat) IsValid() bool {
	switch f {
	case RuleFormatName, RuleFormatID, RuleFormatCombined:
		return true
	default:
		return false
	}
}

// IsValid reports whether f is a known output format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSARIF, FormatCheckstyle, FormatSummary:
		return true
	default:
		return false
	}
}
