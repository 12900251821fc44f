package jsast

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// ErrNoTree is returned when tree-sitter produces no syntax tree.
var ErrNoTree = errors.New("tree-sitter returned no tree")

//nolint:gochecknoglobals // Language handles are immutable and shared.
var jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())

// taggedTemplateQuery matches every tag`...` form. The JavaScript grammar
// models tagged templates as calls whose arguments are a template_string.
const taggedTemplateQuery = `
	(call_expression
		function: (_) @tag
		arguments: (template_string) @template) @call
`

// Parser extracts tagged templates from JavaScript source.
// A Parser is not safe for concurrent use; borrow one per goroutine with
// AcquireParser or use TreeSitterParser.
type Parser struct {
	parser *sitter.Parser
	query  *sitter.Query
}

//nolint:gochecknoglobals // Pool of reusable parsers.
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(jsLang); err != nil {
			panic(fmt.Sprintf("failed to set JS language: %v", err))
		}

		query, qerr := sitter.NewQuery(jsLang, taggedTemplateQuery)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile tagged template query: %v", qerr))
		}

		return &Parser{parser: parser, query: query}
	},
}

// AcquireParser gets a parser from the pool.
func AcquireParser() *Parser {
	p, _ := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool.
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Parse parses content and returns its tagged templates in source order.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	tree := p.parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse %s: %w", path, ErrNoTree)
	}
	defer tree.Close()

	file := NewFile(path, content)

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	names := p.query.CaptureNames()
	matches := cursor.Matches(p.query, tree.RootNode(), content)
	for match := matches.Next(); match != nil; match = matches.Next() {
		var call, tag, template *sitter.Node

		for _, capture := range match.Captures {
			node := capture.Node
			switch names[capture.Index] {
			case "call":
				call = &node
			case "tag":
				tag = &node
			case "template":
				template = &node
			}
		}

		if call == nil || tag == nil || template == nil {
			continue
		}

		file.Nodes = append(file.Nodes, file.taggedTemplate(call, tag, template))
	}

	slices.SortStableFunc(file.Nodes, func(a, b Node) int {
		return cmp.Compare(a.Range().Start.Offset, b.Range().Start.Offset)
	})

	return file, nil
}

func (f *File) taggedTemplate(call, tag, template *sitter.Node) *TaggedTemplate {
	node := &TaggedTemplate{
		Quasi: f.templateLiteral(template),
		Loc:   f.RangeOf(int(call.StartByte()), int(call.EndByte())),
	}

	if tag.Kind() == "identifier" {
		node.Tag = string(f.Content[tag.StartByte():tag.EndByte()])
	}

	return node
}

func (f *File) templateLiteral(template *sitter.Node) TemplateLiteral {
	start, end := int(template.StartByte()), int(template.EndByte())
	lit := TemplateLiteral{Range: f.RangeOf(start, end)}

	// Skip the opening backtick, and the closing one when error recovery
	// did not leave it missing.
	chunkStart := start + 1
	chunkEnd := end
	if end > chunkStart && f.Content[end-1] == '`' {
		chunkEnd = end - 1
	}

	for i := uint(0); i < template.ChildCount(); i++ {
		child := template.Child(i)
		if child == nil || child.Kind() != "template_substitution" {
			continue
		}

		lit.Quasis = append(lit.Quasis, f.templateElement(chunkStart, int(child.StartByte())))
		lit.Expressions++
		chunkStart = int(child.EndByte())
	}

	lit.Quasis = append(lit.Quasis, f.templateElement(chunkStart, max(chunkStart, chunkEnd)))

	return lit
}

func (f *File) templateElement(start, end int) TemplateElement {
	raw := normalizeLineTerminators(string(f.Content[start:end]))
	elem := TemplateElement{
		Raw:   raw,
		Range: f.RangeOf(start, end),
	}

	if cooked, ok := Cook(raw); ok {
		elem.Cooked = &cooked
	}

	return elem
}

// TreeSitterParser parses files with pooled Parsers. It is safe for
// concurrent use and is the parser the lint engine uses by default.
type TreeSitterParser struct{}

// Parse borrows a Parser from the pool for the duration of one parse.
func (TreeSitterParser) Parse(ctx context.Context, path string, content []byte) (*File, error) {
	p := AcquireParser()
	defer ReleaseParser(p)

	return p.Parse(ctx, path, content)
}
