package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hbslint/pkg/config"
)

func sampleRules() []config.RuleInfo {
	return []config.RuleInfo{
		{
			ID:          "HBS001",
			Name:        "hbs-template-literals",
			Description: "Lint Handlebars markup embedded in hbs tagged template literals",
			Enabled:     true,
			Severity:    config.SeverityWarning,
			Tags:        []string{"templates"},
			Example:     `[2, {ConfigFile: ".template-lintrc.json"}]`,
		},
	}
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	t.Run("minimal yaml parses", func(t *testing.T) {
		t.Parallel()
		out, err := config.GenerateTemplate(config.TemplateOptions{}, sampleRules())
		require.NoError(t, err)
		_, err = config.FromYAML(out)
		require.NoError(t, err)
		assert.Contains(t, string(out), "# hbslint configuration")
	})

	t.Run("full yaml lists rules", func(t *testing.T) {
		t.Parallel()
		out, err := config.GenerateTemplate(config.TemplateOptions{Full: true}, sampleRules())
		require.NoError(t, err)

		cfg, err := config.FromYAML(out)
		require.NoError(t, err)
		require.Contains(t, cfg.Rules, "HBS001")
		assert.Equal(t, "warning", *cfg.Rules["HBS001"].Severity)
		assert.Contains(t, string(out), "# options: [2,")
	})

	t.Run("full toml parses", func(t *testing.T) {
		t.Parallel()
		out, err := config.GenerateTemplate(config.TemplateOptions{Full: true, Format: "toml"}, sampleRules())
		require.NoError(t, err)

		cfg, err := config.FromTOML(out)
		require.NoError(t, err)
		require.Contains(t, cfg.Rules, "HBS001")
		assert.True(t, *cfg.Rules["HBS001"].Enabled)
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()
		_, err := config.GenerateTemplate(config.TemplateOptions{Format: "ini"}, nil)
		require.Error(t, err)
	})
}
