// Package ruledoc looks up, summarizes and renders the Markdown documentation
// that rules embed.
package ruledoc

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/term"

	"github.com/yaklabco/hbslint/pkg/lint"
)

// DefaultWidth is used when the terminal width cannot be determined.
const DefaultWidth = 100

// Style names accepted by Render.
const (
	StyleAuto  = "auto"
	StyleNoTTY = "notty"
)

// Doc is one rule's documentation.
type Doc struct {
	ID       string
	Name     string
	Markdown string
}

// Summary returns the first paragraph of the documentation as plain text.
func (d Doc) Summary() string {
	return Summary(d.Markdown)
}

// Lookup resolves key (an ID, name or alias) in registry and returns the
// rule's documentation. ok is false for unknown rules and for rules that
// ship no documentation.
func Lookup(registry *lint.Registry, key string) (Doc, bool) {
	id, rule, ok := registry.Resolve(key)
	if !ok {
		return Doc{}, false
	}

	documented, ok := rule.(lint.Documented)
	if !ok || documented.Documentation() == "" {
		return Doc{}, false
	}

	return Doc{ID: id, Name: rule.Name(), Markdown: documented.Documentation()}, true
}

// Summary returns the text of the first paragraph in markdown, with inline
// markup removed and line breaks folded into spaces.
func Summary(markdown string) string {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var paragraph ast.Node
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && node.Kind() == ast.KindParagraph {
			paragraph = node
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if paragraph == nil {
		return ""
	}

	var builder strings.Builder
	_ = ast.Walk(paragraph, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Text:
			builder.Write(n.Segment.Value(source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				builder.WriteByte(' ')
			}
		case *ast.String:
			builder.Write(n.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(builder.String())
}

// Render renders markdown for a terminal. style is a glamour style name;
// StyleAuto picks one from the terminal background. width <= 0 disables
// word wrapping.
func Render(markdown, style string, width int) (string, error) {
	options := make([]glamour.TermRendererOption, 0, 2)
	if style == "" || style == StyleAuto {
		options = append(options, glamour.WithAutoStyle())
	} else {
		options = append(options, glamour.WithStandardStyle(style))
	}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return rendered, nil
}

// TerminalWidth returns the width of the terminal behind w, or DefaultWidth.
func TerminalWidth(w io.Writer) int {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return DefaultWidth
}
