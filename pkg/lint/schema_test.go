package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hbslint/pkg/lint"
)

const testSchema = `
#Indent: "tab" | int & >=0
#Extended: {
	ConfigFile?: string
}
#Options: [] | [#Indent] | [#Indent, #Extended]
`

func TestSchema_Validate(t *testing.T) {
	t.Parallel()

	schema := lint.MustCompileSchema(testSchema)

	tests := []struct {
		name    string
		options []any
		wantErr bool
	}{
		{"nil", nil, false},
		{"empty", []any{}, false},
		{"tab", []any{"tab"}, false},
		{"integer", []any{2}, false},
		{"zero", []any{0}, false},
		{"integral float from JSON", []any{float64(4)}, false},
		{"with config file", []any{2, map[string]any{"ConfigFile": ".template-lintrc.json"}}, false},
		{"empty extended object", []any{"tab", map[string]any{}}, false},
		{"negative integer", []any{-1}, true},
		{"fractional", []any{2.5}, true},
		{"unknown marker", []any{"spaces"}, true},
		{"extra key", []any{2, map[string]any{"ConfigFile": "x", "Other": 1}}, true},
		{"config file not a string", []any{2, map[string]any{"ConfigFile": 3}}, true},
		{"too many entries", []any{2, map[string]any{}, 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := schema.Validate(tt.options)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, lint.ErrInvalidOptions)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCompileSchema_Errors(t *testing.T) {
	t.Parallel()

	_, err := lint.CompileSchema(`#Other: int`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#Options is not defined")

	_, err = lint.CompileSchema(`#Options: [`)
	require.Error(t, err)

	assert.Panics(t, func() { lint.MustCompileSchema(`#Options: [`) })
}

func TestSchema_Source(t *testing.T) {
	t.Parallel()

	schema := lint.MustCompileSchema(testSchema)
	assert.Equal(t, testSchema, schema.Source())
}
