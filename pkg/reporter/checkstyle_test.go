package reporter

import (
	"bytes"
	"context"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hbslint/pkg/analysis"
	"github.com/yaklabco/hbslint/pkg/config"
)

func renderCheckstyle(t *testing.T, opts Options, report *analysis.Report) *etree.Document {
	t.Helper()

	var buf bytes.Buffer
	opts.Writer = &buf
	require.NoError(t, NewCheckstyleRenderer(opts).Render(context.Background(), report))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))
	return doc
}

func TestCheckstyleRenderer_Empty(t *testing.T) {
	t.Parallel()

	doc := renderCheckstyle(t, Options{ToolVersion: "1.0.0"}, &analysis.Report{})

	root := doc.SelectElement("checkstyle")
	require.NotNil(t, root)
	assert.Equal(t, "1.0.0", root.SelectAttrValue("version", ""))
	assert.Empty(t, root.ChildElements())
}

func TestCheckstyleRenderer_GroupsByFile(t *testing.T) {
	t.Parallel()

	report := &analysis.Report{
		Diagnostics: []analysis.DiagnosticEntry{
			{FilePath: "app/a.js", RuleID: "HBS001", RuleName: "hbs-template-literals", Severity: "error", Message: "1 error(s): x", StartLine: 3, StartColumn: 13},
			{FilePath: "app/b.js", RuleID: "HBS001", RuleName: "hbs-template-literals", Severity: "warning", Message: "2 error(s): y", StartLine: 1, StartColumn: 1},
			{FilePath: "app/a.js", RuleID: "HBS001", RuleName: "hbs-template-literals", Severity: "error", Message: "1 error(s): z", StartLine: 9, StartColumn: 5},
		},
	}

	doc := renderCheckstyle(t, Options{RuleFormat: config.RuleFormatID}, report)

	files := doc.FindElements("//file")
	require.Len(t, files, 2)
	assert.Equal(t, "app/a.js", files[0].SelectAttrValue("name", ""))
	assert.Equal(t, "app/b.js", files[1].SelectAttrValue("name", ""))

	errs := files[0].SelectElements("error")
	require.Len(t, errs, 2)
	assert.Equal(t, "3", errs[0].SelectAttrValue("line", ""))
	assert.Equal(t, "13", errs[0].SelectAttrValue("column", ""))
	assert.Equal(t, "error", errs[0].SelectAttrValue("severity", ""))
	assert.Equal(t, "1 error(s): x", errs[0].SelectAttrValue("message", ""))
	assert.Equal(t, "hbslint.HBS001", errs[0].SelectAttrValue("source", ""))
	assert.Equal(t, "9", errs[1].SelectAttrValue("line", ""))
}

func TestCheckstyleRenderer_RelatedAndFailures(t *testing.T) {
	t.Parallel()

	report := &analysis.Report{
		Diagnostics: []analysis.DiagnosticEntry{{
			FilePath: "app/a.js", RuleID: "HBS001", RuleName: "hbs-template-literals",
			Severity: "error", Message: "1 error(s): unclosed tag", StartLine: 2, StartColumn: 13,
			Related: []analysis.RelatedEntry{{Line: 4, Column: 3, Message: "unclosed tag", Source: "syntax"}},
		}},
		Failures: []analysis.FailureEntry{
			{FilePath: "app/c.js", Error: "unexpected token"},
			{FilePath: "app/a.js", RuleID: "HBS001", Error: "boom"},
		},
	}

	doc := renderCheckstyle(t, Options{RuleFormat: config.RuleFormatName}, report)

	files := doc.FindElements("//file")
	require.Len(t, files, 2)

	errs := files[0].SelectElements("error")
	require.Len(t, errs, 3)
	assert.Equal(t, "hbslint.hbs-template-literals", errs[0].SelectAttrValue("source", ""))
	assert.Equal(t, "info", errs[1].SelectAttrValue("severity", ""))
	assert.Equal(t, "hbslint.hbs-template-literals.syntax", errs[1].SelectAttrValue("source", ""))
	assert.Equal(t, "hbslint.HBS001", errs[2].SelectAttrValue("source", ""))
	assert.Equal(t, "boom", errs[2].SelectAttrValue("message", ""))

	failed := files[1].SelectElements("error")
	require.Len(t, failed, 1)
	assert.Equal(t, "hbslint.failure", failed[0].SelectAttrValue("source", ""))
	assert.Equal(t, "0", failed[0].SelectAttrValue("line", ""))
	assert.Empty(t, failed[0].SelectAttrValue("column", ""))
}
