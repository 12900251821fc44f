package templatelint_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hbslint/pkg/templatelint"
)

func verify(t *testing.T, cfg templatelint.Config, source string) []templatelint.Result {
	t.Helper()

	linter, err := templatelint.New(cfg)
	require.NoError(t, err)

	results, err := linter.Verify(templatelint.Source{Source: source, ModuleID: "hbs-template-literals"})
	require.NoError(t, err)
	return results
}

func recommended() templatelint.Config {
	return templatelint.Config{Extends: []string{"recommended"}}
}

func only(rule string, value any) templatelint.Config {
	return templatelint.Config{Rules: map[string]any{rule: value}}
}

func firstLine(msg string) string {
	line, _, _ := strings.Cut(msg, "\n")
	return line
}

func findRule(results []templatelint.Result, rule string) []templatelint.Result {
	var out []templatelint.Result
	for _, r := range results {
		if r.Rule == rule {
			out = append(out, r)
		}
	}
	return out
}

func TestVerify_CleanTemplate(t *testing.T) {
	t.Parallel()

	results := verify(t, recommended(), "<h1>Hi</h1>\n<p>{{this.name}}</p>")
	assert.Empty(t, results)
}

func TestVerify_Syntax(t *testing.T) {
	t.Parallel()

	t.Run("unclosed element", func(t *testing.T) {
		t.Parallel()

		results := verify(t, templatelint.Config{}, "<h1>Hi</h1>\n<p>bad")
		syntax := findRule(results, templatelint.SyntaxRule)
		require.NotEmpty(t, syntax)

		var unclosed *templatelint.Result
		for i := range syntax {
			if firstLine(syntax[i].Message) == "Unclosed element `p`" {
				unclosed = &syntax[i]
			}
		}
		require.NotNil(t, unclosed)
		assert.Equal(t, 2, unclosed.Line)
		assert.Equal(t, 0, unclosed.Column)
		assert.True(t, unclosed.Fatal)
		assert.Equal(t, templatelint.SeverityError, unclosed.Severity)
		assert.Equal(t, "hbs-template-literals", unclosed.ModuleID)
		assert.Contains(t, unclosed.Message, "|  <p>bad")
		assert.Contains(t, unclosed.Message, "(error occurred in 'hbs-template-literals' @ line 2 : column 0)")
	})

	strayEndTags := []struct {
		name   string
		source string
		want   string
		column int
	}{
		{name: "stray end tag", source: "<p></p></div>", want: "Closing tag `</div>` without an open tag", column: 7},
		{name: "lone end tag", source: "</div>", want: "Closing tag `</div>` without an open tag", column: 0},
		{name: "nested stray end tag", source: "<div><p></p></span></div>", want: "Closing tag `</span>` without an open tag", column: 12},
		{name: "custom element end tag", source: "<p></p></my-widget>", want: "Closing tag `</my-widget>` without an open tag", column: 7},
	}
	for _, tt := range strayEndTags {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			results := verify(t, templatelint.Config{}, tt.source)
			require.NotEmpty(t, results)

			found := false
			for _, r := range results {
				assert.NotContains(t, r.Message, "Parse error on line")
				if firstLine(r.Message) == tt.want {
					found = true
					assert.Equal(t, 1, r.Line)
					assert.Equal(t, tt.column, r.Column)
				}
			}
			assert.True(t, found, "results: %+v", results)
		})
	}

	t.Run("unclosed mustache", func(t *testing.T) {
		t.Parallel()

		results := verify(t, templatelint.Config{}, "<p>{{name</p>")
		require.Len(t, results, 1)
		assert.Equal(t, "Unclosed mustache `{{`", firstLine(results[0].Message))
		assert.Equal(t, 3, results[0].Column)
	})

	t.Run("stray mustache closer", func(t *testing.T) {
		t.Parallel()

		results := verify(t, templatelint.Config{}, "<p>name}}</p>")
		require.Len(t, results, 1)
		assert.Equal(t, "Unexpected `}}` without an opening `{{`", firstLine(results[0].Message))
	})

	t.Run("closing braces in style are not mustaches", func(t *testing.T) {
		t.Parallel()

		results := verify(t, templatelint.Config{}, "<style>@media print { p { color: red }}</style>")
		assert.Empty(t, results)
	})

	t.Run("element modifiers parse", func(t *testing.T) {
		t.Parallel()

		results := verify(t, recommended(), `<button type="button" {{on "click" this.save}}>Save</button>`)
		assert.Empty(t, results)
	})

	t.Run("mustache comments hide markup", func(t *testing.T) {
		t.Parallel()

		results := verify(t, templatelint.Config{}, "{{!-- <div> --}}\n<p></p>")
		assert.Empty(t, results)
	})
}

func TestVerify_Rules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     templatelint.Config
		source  string
		rule    string
		message string
		line    int
		column  int
	}{
		{
			name:    "triple curlies",
			cfg:     recommended(),
			source:  "<div>{{{this.html}}}</div>",
			rule:    "no-triple-curlies",
			message: "Usage of triple curly brackets is unsafe",
			line:    1, column: 5,
		},
		{
			name:    "html comment",
			cfg:     recommended(),
			source:  "<p></p>\n<!-- TODO -->",
			rule:    "no-html-comments",
			message: "HTML comment detected",
			line:    2, column: 0,
		},
		{
			name:    "inline style",
			cfg:     recommended(),
			source:  `<div style="color: red"></div>`,
			rule:    "no-inline-styles",
			message: "elements cannot have inline styles",
			line:    1, column: 5,
		},
		{
			name:    "missing alt",
			cfg:     recommended(),
			source:  `<img src="logo.png">`,
			rule:    "require-valid-alt-text",
			message: "All `<img>` tags must have an alt attribute",
			line:    1, column: 0,
		},
		{
			name:    "duplicate attribute",
			cfg:     recommended(),
			source:  `<div class="a" class="b"></div>`,
			rule:    "no-duplicate-attributes",
			message: "Duplicate attribute `class` found in the Element.",
			line:    1, column: 15,
		},
		{
			name:    "trailing whitespace",
			cfg:     only("no-trailing-spaces", true),
			source:  "<p></p>  \n<p></p>",
			rule:    "no-trailing-spaces",
			message: "line has trailing whitespace",
			line:    1, column: 7,
		},
		{
			name:    "bare string",
			cfg:     only("no-bare-strings", true),
			source:  "<p>Hello</p>",
			rule:    "no-bare-strings",
			message: "Non-translated string used",
			line:    1, column: 3,
		},
		{
			name:    "child indentation",
			cfg:     recommended(),
			source:  "<div>\n<p></p>\n</div>",
			rule:    "block-indentation",
			message: "Incorrect indentation for `<p>` beginning at L2:C0. Expected `<p>` to be at an indentation of 2 but was found at 0.",
			line:    2, column: 0,
		},
		{
			name:    "closing tag indentation",
			cfg:     recommended(),
			source:  "<div>\n  <p></p>\n  </div>",
			rule:    "block-indentation",
			message: "Incorrect indentation for `div` beginning at L1:C0. Expected `</div>` ending at L3:C8 to be at an indentation of 0 but was found at 2.",
			line:    3, column: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			results := verify(t, tt.cfg, tt.source)
			matching := findRule(results, tt.rule)
			require.Len(t, matching, 1, "results: %+v", results)

			got := matching[0]
			assert.Equal(t, tt.message, got.Message)
			assert.Equal(t, tt.line, got.Line)
			assert.Equal(t, tt.column, got.Column)
			assert.False(t, got.Fatal)
		})
	}
}

func TestVerify_RuleExemptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cfg    templatelint.Config
		source string
	}{
		{"alt present", recommended(), `<img src="a.png" alt="">`},
		{"img with splattributes", recommended(), `<img ...attributes>`},
		{"template-lint directive comment", recommended(), "<!-- template-lint-disable no-bare-strings -->"},
		{"translated string", only("no-bare-strings", true), `<p>{{t "greeting"}}</p>`},
		{"allowlisted string", only("no-bare-strings", []any{"OK"}), "<button>OK</button>"},
		{"block content indented", recommended(), "<div>\n  {{#if this.show}}\n    <p></p>\n  {{/if}}\n</div>"},
		{"tab indentation", templatelint.Config{Rules: map[string]any{"block-indentation": "tab"}}, "<ul>\n\t<li></li>\n</ul>"},
		{"custom width", templatelint.Config{Rules: map[string]any{"block-indentation": float64(4)}}, "<ul>\n    <li></li>\n</ul>"},
		{"rule turned off", templatelint.Config{Extends: []string{"recommended"}, Rules: map[string]any{"no-inline-styles": "off"}}, `<p style="x"></p>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Empty(t, verify(t, tt.cfg, tt.source))
		})
	}
}

func TestVerify_SeverityAndOrdering(t *testing.T) {
	t.Parallel()

	cfg := templatelint.Config{Rules: map[string]any{
		"no-inline-styles":  "warn",
		"no-triple-curlies": true,
	}}

	results := verify(t, cfg, "<p>{{{a}}}</p>\n<p style=\"x\"></p>")
	require.Len(t, results, 2)

	assert.Equal(t, "no-triple-curlies", results[0].Rule)
	assert.Equal(t, templatelint.SeverityError, results[0].Severity)
	assert.Equal(t, "{{{a}}}", results[0].Source)

	assert.Equal(t, "no-inline-styles", results[1].Rule)
	assert.Equal(t, templatelint.SeverityWarning, results[1].Severity)
	assert.Equal(t, 2, results[1].Line)
}

func TestVerify_Concurrent(t *testing.T) {
	t.Parallel()

	linter, err := templatelint.New(recommended())
	require.NoError(t, err)

	var wg sync.WaitGroup
	counts := make([]int, 16)
	for i := range counts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, err := linter.Verify(templatelint.Source{Source: `<img src="a.png">`})
			if err == nil {
				counts[i] = len(results)
			}
		}()
	}
	wg.Wait()

	for _, n := range counts {
		assert.Equal(t, 1, n)
	}
}
