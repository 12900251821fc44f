package ruledoc_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hbslint/pkg/lint"
	"github.com/yaklabco/hbslint/pkg/lint/rules"
	"github.com/yaklabco/hbslint/pkg/ruledoc"
)

func TestSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{
			name:     "first paragraph after heading",
			markdown: "# Title\n\nFirst `code` and *emphasis* in a\nwrapped line.\n\nSecond paragraph.\n",
			want:     "First code and emphasis in a wrapped line.",
		},
		{
			name:     "no paragraph",
			markdown: "# Only a heading\n\n```js\nconst x = 1;\n```\n",
			want:     "",
		},
		{
			name:     "empty",
			markdown: "",
			want:     "",
		},
		{
			name:     "link text kept",
			markdown: "See [the docs](https://example.com) for more.",
			want:     "See the docs for more.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ruledoc.Summary(tt.markdown))
		})
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	registry := lint.NewRegistry()
	rules.RegisterAll(registry)
	rules.RegisterLegacyAliases(registry)

	for _, key := range []string{"HBS001", "hbs-template-literals", "hbs/check-hbs-template-literals"} {
		doc, ok := ruledoc.Lookup(registry, key)
		require.True(t, ok, key)
		assert.Equal(t, "HBS001", doc.ID)
		assert.Equal(t, "hbs-template-literals", doc.Name)
		assert.Contains(t, doc.Summary(), "Handlebars markup written inside hbs tagged template literals")
	}

	_, ok := ruledoc.Lookup(registry, "no-such-rule")
	assert.False(t, ok)
}

func TestLookup_Undocumented(t *testing.T) {
	t.Parallel()

	registry := lint.NewRegistry()
	base := lint.NewBaseRule("TST001", "plain", "no docs", nil)
	registry.Register(&base)

	_, ok := ruledoc.Lookup(registry, "TST001")
	assert.False(t, ok)
}

func TestRender(t *testing.T) {
	t.Parallel()

	out, err := ruledoc.Render("# Heading\n\nSome **bold** text.\n", ruledoc.StyleNoTTY, 40)
	require.NoError(t, err)
	assert.Contains(t, out, "Heading")
	assert.Contains(t, out, "bold")
}

func TestTerminalWidth_NonTerminal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ruledoc.DefaultWidth, ruledoc.TerminalWidth(&bytes.Buffer{}))
}
