package jsast_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hbslint/pkg/jsast"
)

func parse(t *testing.T, src string) *jsast.File {
	t.Helper()

	file, err := jsast.TreeSitterParser{}.Parse(context.Background(), "component.js", []byte(src))
	require.NoError(t, err)
	return file
}

func taggedTemplates(t *testing.T, file *jsast.File) []*jsast.TaggedTemplate {
	t.Helper()

	out := make([]*jsast.TaggedTemplate, 0, len(file.Nodes))
	for _, node := range file.Nodes {
		tagged, ok := node.(*jsast.TaggedTemplate)
		require.True(t, ok)
		assert.Equal(t, jsast.KindTaggedTemplate, node.Kind())
		out = append(out, tagged)
	}
	return out
}

func TestParse_StaticTemplate(t *testing.T) {
	t.Parallel()

	file := parse(t, "const t = hbs`\n  <h1>Hi</h1>\n`;\n")
	nodes := taggedTemplates(t, file)
	require.Len(t, nodes, 1)

	node := nodes[0]
	assert.Equal(t, "hbs", node.Tag)
	assert.True(t, node.Quasi.IsStatic())
	assert.Equal(t, 1, node.Loc.Start.Line)
	assert.Equal(t, 11, node.Loc.Start.Column)
	assert.Equal(t, 3, node.Loc.End.Line)

	quasi := node.Quasi.Quasis[0]
	assert.Equal(t, "\n  <h1>Hi</h1>\n", quasi.Raw)
	require.NotNil(t, quasi.Cooked)
	assert.Equal(t, "\n  <h1>Hi</h1>\n", *quasi.Cooked)
	assert.Equal(t, 1, quasi.Range.Start.Line)
	assert.Equal(t, 15, quasi.Range.Start.Column)
}

func TestParse_Substitutions(t *testing.T) {
	t.Parallel()

	file := parse(t, "hbs`<p>${name}</p>`;")
	nodes := taggedTemplates(t, file)
	require.Len(t, nodes, 1)

	quasi := nodes[0].Quasi
	assert.False(t, quasi.IsStatic())
	assert.Equal(t, 1, quasi.Expressions)
	require.Len(t, quasi.Quasis, 2)
	assert.Equal(t, "<p>", quasi.Quasis[0].Raw)
	assert.Equal(t, "</p>", quasi.Quasis[1].Raw)
}

func TestParse_NonIdentifierTag(t *testing.T) {
	t.Parallel()

	file := parse(t, "Ember.hbs`<p></p>`;\nfoo()`x`;")
	nodes := taggedTemplates(t, file)
	require.Len(t, nodes, 2)
	assert.Empty(t, nodes[0].Tag)
	assert.Empty(t, nodes[1].Tag)
}

func TestParse_NestedTemplatesInSourceOrder(t *testing.T) {
	t.Parallel()

	file := parse(t, "hbs`${html`<b></b>`}`;")
	nodes := taggedTemplates(t, file)
	require.Len(t, nodes, 2)
	assert.Equal(t, "hbs", nodes[0].Tag)
	assert.Equal(t, "html", nodes[1].Tag)
	assert.Less(t, nodes[0].Loc.Start.Offset, nodes[1].Loc.Start.Offset)
}

func TestParse_InvalidEscapeLeavesCookedNil(t *testing.T) {
	t.Parallel()

	file := parse(t, "hbs`a\\1b`;")
	nodes := taggedTemplates(t, file)
	require.Len(t, nodes, 1)

	quasi := nodes[0].Quasi.Quasis[0]
	assert.Equal(t, `a\1b`, quasi.Raw)
	assert.Nil(t, quasi.Cooked)
}

func TestParse_CRLFNormalized(t *testing.T) {
	t.Parallel()

	file := parse(t, "hbs`\r\n  <p></p>\r\n`;")
	nodes := taggedTemplates(t, file)
	require.Len(t, nodes, 1)
	assert.Equal(t, "\n  <p></p>\n", nodes[0].Quasi.Quasis[0].Raw)
}

func TestParse_NoTemplates(t *testing.T) {
	t.Parallel()

	file := parse(t, "export default function () { return 1; }\n")
	assert.Empty(t, file.Nodes)
	assert.Equal(t, 2, file.LineCount())
}

func TestParse_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := jsast.TreeSitterParser{}.Parse(ctx, "a.js", []byte("hbs``"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestAcquireParser_ReusedAfterRelease(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want int
	}{
		{src: "hbs`<p></p>`", want: 1},
		{src: "const a = 1;", want: 0},
		{src: "x.hbs`<i></i>`; hbs`<b></b>`", want: 2},
	}

	for _, tt := range tests {
		p := jsast.AcquireParser()
		file, err := p.Parse(context.Background(), "a.js", []byte(tt.src))
		jsast.ReleaseParser(p)
		require.NoError(t, err)
		assert.Len(t, file.Nodes, tt.want, tt.src)
	}
}
