package reporter

import (
	"context"
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/yaklabco/hbslint/pkg/analysis"
	"github.com/yaklabco/hbslint/pkg/config"
)

// checkstyleIndent is the number of spaces per XML nesting level.
const checkstyleIndent = 2

// checkstyleSourcePrefix namespaces the source attribute, as other
// checkstyle producers do ("eslint.rules.no-undef").
const checkstyleSourcePrefix = "hbslint."

// CheckstyleRenderer writes checkstyle XML, the format CI annotators and
// editor plugins consume for lint results.
type CheckstyleRenderer struct {
	opts Options
}

// NewCheckstyleRenderer creates a new checkstyle renderer.
func NewCheckstyleRenderer(opts Options) *CheckstyleRenderer {
	return &CheckstyleRenderer{opts: opts}
}

// Render implements Renderer.
func (r *CheckstyleRenderer) Render(_ context.Context, report *analysis.Report) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("checkstyle")
	root.CreateAttr("version", r.opts.toolVersion())

	files := make(map[string]*etree.Element)
	fileElement := func(path string) *etree.Element {
		if el, ok := files[path]; ok {
			return el
		}
		el := root.CreateElement("file")
		el.CreateAttr("name", path)
		files[path] = el
		return el
	}

	for _, diag := range report.Diagnostics {
		file := fileElement(diag.FilePath)
		ruleID := config.FormatRuleID(r.opts.RuleFormat, diag.RuleID, diag.RuleName)

		addError(file, diag.StartLine, diag.StartColumn, diag.Severity, diag.Message, checkstyleSourcePrefix+ruleID)

		for _, rel := range diag.Related {
			source := checkstyleSourcePrefix + ruleID
			if rel.Source != "" {
				source += "." + rel.Source
			}
			addError(file, rel.Line, rel.Column, "info", rel.Message, source)
		}
	}

	for _, failure := range report.Failures {
		source := checkstyleSourcePrefix + "failure"
		if failure.RuleID != "" {
			source = checkstyleSourcePrefix + failure.RuleID
		}
		addError(fileElement(failure.FilePath), 0, 0, "error", failure.Error, source)
	}

	if !r.opts.Compact {
		doc.Indent(checkstyleIndent)
	}

	if _, err := doc.WriteTo(r.opts.Writer); err != nil {
		return fmt.Errorf("write checkstyle: %w", err)
	}
	return nil
}

func addError(file *etree.Element, line, column int, severity, message, source string) {
	el := file.CreateElement("error")
	el.CreateAttr("line", strconv.Itoa(line))
	if column > 0 {
		el.CreateAttr("column", strconv.Itoa(column))
	}
	el.CreateAttr("severity", severity)
	el.CreateAttr("message", message)
	el.CreateAttr("source", source)
}
