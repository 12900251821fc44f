package templatelint

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"unicode"
)

type ruleDef struct {
	name        string
	recommended bool

	// configure validates and converts a rule's option. Nil means the rule
	// takes no option.
	configure func(option any) (any, error)
	check     func(d *document, option any) []finding
}

//nolint:gochecknoglobals // Built-in rule table.
var ruleDefs = map[string]*ruleDef{}

//nolint:gochecknoglobals // Built-in presets, filled from ruleDefs.
var presets = map[string][]string{
	"stylistic": {"block-indentation", "no-trailing-spaces"},
}

func init() {
	defs := []*ruleDef{
		{name: "block-indentation", recommended: true, configure: configureIndentation, check: checkBlockIndentation},
		{name: "no-bare-strings", configure: configureBareStrings, check: checkBareStrings},
		{name: "no-duplicate-attributes", recommended: true, check: checkDuplicateAttributes},
		{name: "no-html-comments", recommended: true, check: checkHTMLComments},
		{name: "no-inline-styles", recommended: true, check: checkInlineStyles},
		{name: "no-trailing-spaces", check: checkTrailingSpaces},
		{name: "no-triple-curlies", recommended: true, check: checkTripleCurlies},
		{name: "require-valid-alt-text", recommended: true, check: checkAltText},
	}

	for _, def := range defs {
		ruleDefs[def.name] = def
		if def.recommended {
			presets["recommended"] = append(presets["recommended"], def.name)
		}
	}
	presets["octane"] = presets["recommended"]
}

// RuleNames lists the built-in rules in sorted order.
func RuleNames() []string {
	return slices.Sorted(maps.Keys(ruleDefs))
}

func checkTripleCurlies(d *document, _ any) []finding {
	var out []finding
	for _, m := range d.mustaches {
		if m.triple {
			out = append(out, finding{
				offset:  m.start,
				message: "Usage of triple curly brackets is unsafe",
				source:  d.text[m.start:m.end],
			})
		}
	}
	return out
}

func checkHTMLComments(d *document, _ any) []finding {
	var out []finding
	for _, c := range d.comments {
		text := d.text[c.start:c.end]
		body := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "<!--"), "-->"))
		if strings.HasPrefix(body, "template-lint") {
			continue
		}
		out = append(out, finding{offset: c.start, message: "HTML comment detected", source: text})
	}
	return out
}

func checkInlineStyles(d *document, _ any) []finding {
	var out []finding
	for _, el := range d.elements {
		if attr, ok := el.attr("style"); ok {
			out = append(out, finding{offset: attr.start, message: "elements cannot have inline styles"})
		}
	}
	return out
}

func checkAltText(d *document, _ any) []finding {
	var out []finding
	for _, el := range d.elements {
		if !strings.EqualFold(el.name, "img") {
			continue
		}
		if _, splat := el.attr("...attributes"); splat {
			continue
		}
		if _, ok := el.attr("alt"); !ok {
			out = append(out, finding{offset: el.start, message: "All `<img>` tags must have an alt attribute"})
		}
	}
	return out
}

func checkDuplicateAttributes(d *document, _ any) []finding {
	var out []finding
	for _, el := range d.elements {
		seen := make(map[string]bool, len(el.attrs))
		for _, attr := range el.attrs {
			if seen[attr.name] {
				out = append(out, finding{
					offset:  attr.start,
					message: fmt.Sprintf("Duplicate attribute `%s` found in the Element.", attr.name),
				})
				continue
			}
			seen[attr.name] = true
		}
	}
	return out
}

func checkTrailingSpaces(d *document, _ any) []finding {
	var out []finding
	for n := 1; n <= len(d.lineStarts); n++ {
		line := d.line(n)
		trimmed := strings.TrimRight(line, " \t")
		if len(trimmed) != len(line) {
			out = append(out, finding{
				offset:  d.lineStarts[n-1] + len(trimmed),
				message: "line has trailing whitespace",
				source:  line,
			})
		}
	}
	return out
}

func configureBareStrings(option any) (any, error) {
	switch v := option.(type) {
	case nil, bool:
		return []string(nil), nil
	case []any:
		allowed := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, errors.New("allowlist entries must be strings")
			}
			allowed = append(allowed, s)
		}
		return allowed, nil
	default:
		return nil, fmt.Errorf("expected a list of allowed strings, got %T", option)
	}
}

// checkBareStrings reads text from the masked source so mustaches, which
// are the translated parts, never count as bare text.
func checkBareStrings(d *document, option any) []finding {
	allowed, _ := option.([]string)

	var out []finding
	for _, t := range d.texts {
		text := string(d.masked[t.start:t.end])
		for _, s := range allowed {
			text = strings.ReplaceAll(text, s, strings.Repeat(" ", len(s)))
		}

		idx := strings.IndexFunc(text, unicode.IsLetter)
		if idx < 0 {
			continue
		}
		out = append(out, finding{
			offset:  t.start + idx,
			message: "Non-translated string used",
			source:  strings.TrimSpace(d.text[t.start:t.end]),
		})
	}
	return out
}

type indentStyle struct {
	width int
	tab   bool
}

func configureIndentation(option any) (any, error) {
	switch v := option.(type) {
	case nil, bool:
		return indentStyle{width: 2}, nil
	case string:
		if v == "tab" {
			return indentStyle{width: 1, tab: true}, nil
		}
	case int:
		if v > 0 {
			return indentStyle{width: v}, nil
		}
	case float64:
		if v > 0 && v == math.Trunc(v) {
			return indentStyle{width: int(v)}, nil
		}
	}
	return nil, fmt.Errorf("expected a positive integer or \"tab\", got %v", option)
}

func checkBlockIndentation(d *document, option any) []finding {
	style, _ := option.(indentStyle)
	if style.width == 0 {
		style.width = 2
	}

	var out []finding
	for _, el := range d.elements {
		indent, ok := d.lineIndent(el.start)
		if !ok {
			continue
		}
		line, column := d.position(el.start)

		if el.endTag >= 0 {
			endLine, endColumn := d.position(el.endTag)
			if found, ok := d.lineIndent(el.endTag); ok && endLine != line && found != indent {
				closing := "</" + el.name + ">"
				out = append(out, finding{
					offset: el.endTag,
					message: fmt.Sprintf(
						"Incorrect indentation for `%s` beginning at L%d:C%d. Expected `%s` ending at L%d:C%d to be at an indentation of %d but was found at %d.",
						el.name, line, column, closing, endLine, endColumn+len(closing), indent, found),
					source: closing,
				})
			}
		}

		for _, child := range el.children {
			childLine, childColumn := d.position(child.start)
			if childLine == line {
				continue
			}
			found, ok := d.lineIndent(child.start)
			if !ok {
				continue
			}

			depth := d.blockDepth(child.start) - d.blockDepth(el.startTagEnd)
			if depth < 0 {
				continue
			}

			expected := indent + style.width*(1+depth)
			if found != expected {
				out = append(out, finding{
					offset: child.start,
					message: fmt.Sprintf(
						"Incorrect indentation for `<%s>` beginning at L%d:C%d. Expected `<%s>` to be at an indentation of %d but was found at %d.",
						child.name, childLine, childColumn, child.name, expected, found),
				})
			}
		}
	}
	return out
}
