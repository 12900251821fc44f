// Package jsast locates tagged template literals in JavaScript and TypeScript
// source and exposes them as lint nodes.
//
// Only the syntax hbslint rules dispatch on is modelled. Everything else in
// the host language is left to tree-sitter and never materialized.
package jsast

// KindTaggedTemplate is the node kind rules register visitors for.
const KindTaggedTemplate = "TaggedTemplateExpression"

// Position is a location in a source file.
// Line and Column are 1-based; Column counts bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Range is a half-open span of source.
type Range struct {
	Start Position
	End   Position
}

// Node is a syntax node visited by lint rules.
type Node interface {
	Kind() string
	Range() Range
}

// TemplateElement is one literal chunk of a template, between backticks and
// substitutions.
type TemplateElement struct {
	// Raw is the source text with line terminators normalized to "\n".
	Raw string

	// Cooked is Raw with escape sequences applied, or nil when Raw contains
	// an escape that is invalid in a template literal.
	Cooked *string

	Range Range
}

// TemplateLiteral is the backtick-delimited part of a tagged template.
type TemplateLiteral struct {
	Quasis      []TemplateElement
	Expressions int
	Range       Range
}

// IsStatic reports whether the template has no ${...} substitutions.
func (t TemplateLiteral) IsStatic() bool {
	return t.Expressions == 0 && len(t.Quasis) == 1
}

// TaggedTemplate is a template literal preceded by a tag expression.
type TaggedTemplate struct {
	// Tag is the tag identifier, or "" when the tag is a member
	// expression, call, or other non-identifier expression.
	Tag   string
	Quasi TemplateLiteral
	Loc   Range
}

func (t *TaggedTemplate) Kind() string { return KindTaggedTemplate }
func (t *TaggedTemplate) Range() Range { return t.Loc }
