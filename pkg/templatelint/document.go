package templatelint

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

// ErrNoTree is returned when tree-sitter produces no syntax tree.
var ErrNoTree = errors.New("tree-sitter returned no tree")

//nolint:gochecknoglobals // Language handles are immutable and shared.
var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

//nolint:gochecknoglobals // Pool of reusable HTML parsers.
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}
		return parser
	},
}

func acquireParser() *sitter.Parser {
	p, _ := parserPool.Get().(*sitter.Parser)
	p.Reset()
	return p
}

func releaseParser(p *sitter.Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

//nolint:gochecknoglobals // Fixed lookup table.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

type element struct {
	name        string
	start       int // offset of '<'
	startTagEnd int
	endTag      int // offset of "</", or -1
	selfClosing bool
	rawText     bool // <script> and <style>
	end         int
	attrs       []attribute
	children    []*element
}

func (e *element) attr(name string) (attribute, bool) {
	for _, a := range e.attrs {
		if strings.EqualFold(a.name, name) {
			return a, true
		}
	}
	return attribute{}, false
}

type attribute struct {
	name     string
	value    string
	hasValue bool
	start    int
}

type span struct {
	start, end int
}

// finding is a violation before it is turned into a Result.
type finding struct {
	offset  int
	message string
	source  string
}

// document is a parsed template. Offsets index both text and masked,
// which have identical lengths.
type document struct {
	src        Source
	text       string
	masked     []byte
	lineStarts []int
	mustaches  []mustache
	elements   []*element // document order
	comments   []span
	texts      []span
	syntax     []finding
}

func parseDocument(src Source) (*document, error) {
	d := &document{
		src:        src,
		text:       src.Source,
		lineStarts: []int{0},
	}
	for i := 0; i < len(d.text); i++ {
		if d.text[i] == '\n' {
			d.lineStarts = append(d.lineStarts, i+1)
		}
	}

	spans, issues := scanMustaches(d.text)
	d.mustaches = spans
	d.masked = maskMustaches(d.text, spans)

	parser := acquireParser()
	defer releaseParser(parser)

	tree := parser.Parse(d.masked, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse template: %w", ErrNoTree)
	}
	defer tree.Close()

	d.walk(tree.RootNode(), nil, false)

	for _, el := range d.elements {
		if el.endTag < 0 && !el.selfClosing && !voidElements[strings.ToLower(el.name)] {
			d.addSyntax(el.start, fmt.Sprintf("Unclosed element `%s`", el.name))
		}
	}

	for _, issue := range issues {
		if issue.stray && d.inRawText(issue.offset) {
			continue
		}
		d.addSyntax(issue.offset, issue.message)
	}

	return d, nil
}

func (d *document) walk(node *sitter.Node, parent *element, inError bool) {
	start := int(node.StartByte())
	kind := node.Kind()

	switch {
	case node.IsMissing():
		d.addSyntax(start, fmt.Sprintf("Expected `%s`", kind))
	case node.IsError() && !inError:
		// A closing tag at the top level with nothing open is an ERROR
		// node rather than erroneous_end_tag.
		if name, ok := strayEndTag(d.slice(node)); ok {
			d.addSyntax(start, fmt.Sprintf("Closing tag `</%s>` without an open tag", name))
		} else {
			line, _ := d.position(start)
			d.addSyntax(start, fmt.Sprintf("Parse error on line %d", line))
		}
		inError = true
	}

	switch kind {
	case "element", "script_element", "style_element":
		el := d.newElement(node)
		el.rawText = kind != "element"
		d.elements = append(d.elements, el)
		if parent != nil {
			parent.children = append(parent.children, el)
		}
		parent = el
	case "comment":
		d.comments = append(d.comments, span{start: start, end: int(node.EndByte())})
	case "text":
		d.texts = append(d.texts, span{start: start, end: int(node.EndByte())})
	case "erroneous_end_tag":
		name := ""
		if nameNode := firstChildOfKind(node, "erroneous_end_tag_name"); nameNode != nil {
			name = d.slice(nameNode)
		}
		d.addSyntax(start, fmt.Sprintf("Closing tag `</%s>` without an open tag", name))
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			d.walk(child, parent, inError)
		}
	}
}

func (d *document) newElement(node *sitter.Node) *element {
	el := &element{
		start:  int(node.StartByte()),
		endTag: -1,
		end:    int(node.EndByte()),
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}

		switch child.Kind() {
		case "start_tag", "self_closing_tag":
			el.selfClosing = child.Kind() == "self_closing_tag"
			el.startTagEnd = int(child.EndByte())
			d.readTag(el, child)
		case "end_tag":
			el.endTag = int(child.StartByte())
		}
	}

	return el
}

func (d *document) readTag(el *element, tag *sitter.Node) {
	for i := uint(0); i < tag.ChildCount(); i++ {
		child := tag.Child(i)
		if child == nil {
			continue
		}

		switch child.Kind() {
		case "tag_name":
			el.name = d.slice(child)
		case "attribute":
			el.attrs = append(el.attrs, d.readAttribute(child))
		}
	}
}

func (d *document) readAttribute(node *sitter.Node) attribute {
	attr := attribute{start: int(node.StartByte())}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}

		switch child.Kind() {
		case "attribute_name":
			attr.name = d.slice(child)
		case "attribute_value":
			attr.value, attr.hasValue = d.slice(child), true
		case "quoted_attribute_value":
			attr.hasValue = true
			if value := firstChildOfKind(child, "attribute_value"); value != nil {
				attr.value = d.slice(value)
			}
		}
	}

	return attr
}

// strayEndTag reports the tag name when text starts with a closing tag.
func strayEndTag(text string) (string, bool) {
	rest, ok := strings.CutPrefix(text, "</")
	if !ok {
		return "", false
	}
	end := strings.IndexFunc(rest, func(r rune) bool {
		return !(r == '-' || r == ':' || r == '_' || r == '.' ||
			('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9'))
	})
	if end < 0 {
		end = len(rest)
	}
	if end == 0 {
		return "", false
	}
	return rest[:end], true
}

func firstChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// slice returns the original text under node, mustaches included.
func (d *document) slice(node *sitter.Node) string {
	return d.text[node.StartByte():node.EndByte()]
}

func (d *document) addSyntax(offset int, message string) {
	d.syntax = append(d.syntax, finding{offset: offset, message: message})
}

func (d *document) inRawText(offset int) bool {
	for _, el := range d.elements {
		if el.rawText && offset >= el.startTagEnd && offset < el.end {
			return true
		}
	}
	return false
}

// position returns the 1-based line and 0-based column of offset.
func (d *document) position(offset int) (int, int) {
	line := sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > offset
	})
	return line, offset - d.lineStarts[line-1]
}

// line returns line n (1-based) without its newline.
func (d *document) line(n int) string {
	if n < 1 || n > len(d.lineStarts) {
		return ""
	}
	end := len(d.text)
	if n < len(d.lineStarts) {
		end = d.lineStarts[n] - 1
	}
	return d.text[d.lineStarts[n-1]:end]
}

// lineIndent returns the width of the whitespace before offset when
// offset is the first non-blank character of its line.
func (d *document) lineIndent(offset int) (int, bool) {
	line, column := d.position(offset)
	prefix := d.text[d.lineStarts[line-1]:offset]
	if strings.TrimLeft(prefix, " \t") != "" {
		return 0, false
	}
	return column, true
}

// blockDepth counts the mustache blocks open at offset.
func (d *document) blockDepth(offset int) int {
	depth := 0
	for _, m := range d.mustaches {
		if m.end > offset {
			break
		}
		depth += m.block
	}
	return depth
}

// frame renders the source excerpt appended to syntax error messages.
func (d *document) frame(line, column int) string {
	return fmt.Sprintf("\n\n|\n|  %s\n|\n\n(error occurred in '%s' @ line %d : column %d)",
		d.line(line), d.src.ModuleID, line, column)
}

func (d *document) syntaxResults() []Result {
	results := make([]Result, 0, len(d.syntax))
	for _, f := range d.syntax {
		line, column := d.position(f.offset)
		result := d.result(SyntaxRule, SeverityError, f)
		result.Message += d.frame(line, column)
		result.Fatal = true
		results = append(results, result)
	}
	return results
}

func (d *document) result(rule string, severity int, f finding) Result {
	line, column := d.position(f.offset)
	source := f.source
	if source == "" {
		source = strings.TrimSpace(d.line(line))
	}

	return Result{
		Rule:     rule,
		Message:  f.message,
		Line:     line,
		Column:   column,
		Source:   source,
		Severity: severity,
		ModuleID: d.src.ModuleID,
	}
}
