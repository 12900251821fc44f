package configloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hbslint/pkg/config"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoadFromEnv_AppliesValues(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	err := loadFromLookup(cfg, lookupFrom(map[string]string{
		"HBSLINT_SEVERITY_DEFAULT": "error",
		"HBSLINT_FORMAT":           "checkstyle",
		"HBSLINT_RULE_FORMAT":      "combined",
		"HBSLINT_JOBS":             "3",
		"HBSLINT_RELATED":          "true",
		"HBSLINT_IGNORE":           " vendor/** , dist/**,,",
		"HBSLINT_EXTENSIONS":       ".js,.gjs",
		"HBSLINT_ENABLE":           "HBS001",
		"HBSLINT_DISABLE":          "other",
		"HBSLINT_JOBS_EXTRA":       "ignored",
	}))
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.SeverityDefault)
	assert.Equal(t, config.FormatCheckstyle, cfg.Format)
	assert.Equal(t, config.RuleFormatCombined, cfg.RuleFormat)
	assert.Equal(t, 3, cfg.Jobs)
	assert.True(t, cfg.ShowRelated)
	assert.Equal(t, []string{"vendor/**", "dist/**"}, cfg.Ignore)
	assert.Equal(t, []string{".js", ".gjs"}, cfg.Extensions)
	assert.Equal(t, []string{"HBS001"}, cfg.EnableRules)
	assert.Equal(t, []string{"other"}, cfg.DisableRules)
}

func TestLoadFromEnv_EmptyValuesSkipped(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	require.NoError(t, loadFromLookup(cfg, lookupFrom(map[string]string{"HBSLINT_FORMAT": ""})))
	assert.Equal(t, config.FormatText, cfg.Format)
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"HBSLINT_JOBS":    "many",
		"HBSLINT_RELATED": "sometimes",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Parallel()

			err := loadFromLookup(config.NewConfig(), lookupFrom(map[string]string{key: value}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadFromEnv_NilConfig(t *testing.T) {
	t.Parallel()

	assert.NoError(t, LoadFromEnv(nil))
}

func TestLoadFromEnv_ProcessEnvironment(t *testing.T) {
	t.Setenv("HBSLINT_RULE_FORMAT", "id")

	cfg := config.NewConfig()
	require.NoError(t, LoadFromEnv(cfg))
	assert.Equal(t, config.RuleFormatID, cfg.RuleFormat)
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	assert.Len(t, vars, len(envMappings))
	assert.Contains(t, vars, "HBSLINT_FORMAT")
	assert.Contains(t, vars["HBSLINT_FORMAT"], "checkstyle")
}
