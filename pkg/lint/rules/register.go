package rules

import "github.com/yaklabco/hbslint/pkg/lint"

// RegisterAll registers all built-in rules with the given registry.
func RegisterAll(registry *lint.Registry) {
	registry.Register(NewHBSTemplateLiteralsRule()) // HBS001
}

// RegisterLegacyAliases registers the names the rule carried as an ESLint
// plugin, so configurations written against the plugin keep working:
//   - "hbs/check-hbs-template-literals" -> HBS001
//   - "check-hbs-template-literals" -> HBS001.
func RegisterLegacyAliases(registry *lint.Registry) {
	registry.RegisterAlias("hbs/check-hbs-template-literals", "HBS001")
	registry.RegisterAlias("check-hbs-template-literals", "HBS001")
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(lint.DefaultRegistry)
	RegisterLegacyAliases(lint.DefaultRegistry)
}
