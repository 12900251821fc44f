package lint

import "github.com/yaklabco/hbslint/pkg/config"

// BaseRule provides default metadata methods for Rule implementations.
// Embed it and implement Create (and Schema, if the rule takes options).
type BaseRule struct {
	id   string
	name string
	desc string
	tags []string
}

// NewBaseRule creates a BaseRule with the given properties.
func NewBaseRule(id, name, desc string, tags []string) BaseRule {
	return BaseRule{
		id:   id,
		name: name,
		desc: desc,
		tags: tags,
	}
}

// ID returns the unique identifier for this rule.
func (r *BaseRule) ID() string {
	return r.id
}

// Name returns the human-readable name of the rule.
func (r *BaseRule) Name() string {
	return r.name
}

// Description returns a detailed description of what the rule checks.
func (r *BaseRule) Description() string {
	return r.desc
}

// DefaultEnabled returns true. Override to ship a rule disabled.
func (r *BaseRule) DefaultEnabled() bool {
	return true
}

// DefaultSeverity returns warning. Override to change the default.
func (r *BaseRule) DefaultSeverity() config.Severity {
	return config.SeverityWarning
}

// Tags returns categorization tags for this rule.
func (r *BaseRule) Tags() []string {
	return r.tags
}

// Schema returns nil: the rule accepts no options.
func (r *BaseRule) Schema() *Schema {
	return nil
}

// Create registers no visitors. Concrete rules override it.
func (r *BaseRule) Create(_ *Session) (Visitors, error) {
	return nil, nil
}
