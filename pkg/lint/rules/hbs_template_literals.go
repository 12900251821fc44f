package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strings"

	"github.com/go-git/go-billy/v5/util"

	"github.com/yaklabco/hbslint/internal/logging"
	"github.com/yaklabco/hbslint/pkg/jsast"
	"github.com/yaklabco/hbslint/pkg/lint"
	"github.com/yaklabco/hbslint/pkg/templatelint"
)

// hbsTag is the only tag whose templates are checked.
const hbsTag = "hbs"

// indentTab is the tab marker accepted as the first option.
const indentTab = "tab"

const hbsOptionsSchema = `
#Indent: "tab" | int & >=0

#Extended: {
	ConfigFile?: string
}

#Options: [] | [#Indent] | [#Indent, #Extended]
`

//go:embed docs/hbs-template-literals.md
var hbsTemplateLiteralsDoc string

// IndentOption is the first rule option: "tab" or a number of spaces.
type IndentOption struct {
	Set   bool
	Tab   bool
	Width int
}

func (o IndentOption) String() string {
	switch {
	case !o.Set:
		return "unset"
	case o.Tab:
		return indentTab
	default:
		return fmt.Sprintf("%d", o.Width)
	}
}

// HBSOptions are the parsed options of the hbs-template-literals rule.
type HBSOptions struct {
	// Indent is accepted for compatibility but does not affect linting:
	// the shared indentation of each template is always detected.
	Indent IndentOption

	// ConfigFile is the template linter configuration, e.g.
	// ".template-lintrc.json". Empty means the default configuration.
	ConfigFile string
}

// ParseHBSOptions reads the positional options
//
//	[indent?, {ConfigFile?: string}?]
//
// Options are expected to have passed the rule schema already; anything
// else is reported as lint.ErrInvalidOptions.
func ParseHBSOptions(options []any) (HBSOptions, error) {
	var opts HBSOptions

	if len(options) > 2 {
		return opts, fmt.Errorf("%w: expected at most 2 options, got %d", lint.ErrInvalidOptions, len(options))
	}

	if len(options) > 0 {
		indent, err := parseIndentOption(options[0])
		if err != nil {
			return opts, err
		}
		opts.Indent = indent
	}

	if len(options) > 1 {
		extended, ok := options[1].(map[string]any)
		if !ok {
			return opts, fmt.Errorf("%w: second option must be an object, got %T", lint.ErrInvalidOptions, options[1])
		}
		if value, ok := extended["ConfigFile"]; ok {
			path, ok := value.(string)
			if !ok {
				return opts, fmt.Errorf("%w: ConfigFile must be a string, got %T", lint.ErrInvalidOptions, value)
			}
			opts.ConfigFile = path
		}
	}

	return opts, nil
}

func parseIndentOption(value any) (IndentOption, error) {
	var width int

	switch v := value.(type) {
	case string:
		if v != indentTab {
			return IndentOption{}, fmt.Errorf("%w: indent must be %q or a number, got %q", lint.ErrInvalidOptions, indentTab, v)
		}
		return IndentOption{Set: true, Tab: true}, nil
	case int:
		width = v
	case int64:
		width = int(v)
	case uint64:
		width = int(min(v, math.MaxInt32))
	case float64:
		if v != math.Trunc(v) {
			return IndentOption{}, fmt.Errorf("%w: indent must be an integer, got %v", lint.ErrInvalidOptions, v)
		}
		width = int(v)
	default:
		return IndentOption{}, fmt.Errorf("%w: indent must be %q or a number, got %T", lint.ErrInvalidOptions, indentTab, value)
	}

	if width < 0 {
		return IndentOption{}, fmt.Errorf("%w: indent must not be negative, got %d", lint.ErrInvalidOptions, width)
	}

	return IndentOption{Set: true, Width: width}, nil
}

// VerifierFactory builds the template verifier for a session.
type VerifierFactory func(cfg templatelint.Config) (templatelint.Verifier, error)

// HBSOption configures an HBSTemplateLiteralsRule.
type HBSOption func(*HBSTemplateLiteralsRule)

// WithVerifierFactory replaces the built-in template linter.
func WithVerifierFactory(factory VerifierFactory) HBSOption {
	return func(r *HBSTemplateLiteralsRule) {
		r.newVerifier = factory
	}
}

func newTemplateLinter(cfg templatelint.Config) (templatelint.Verifier, error) {
	linter, err := templatelint.New(cfg)
	if err != nil {
		return nil, err
	}
	return linter, nil
}

// HBSTemplateLiteralsRule lints the Handlebars markup inside hbs`...`
// tagged templates and reports one diagnostic per template with problems.
type HBSTemplateLiteralsRule struct {
	lint.BaseRule

	schema      *lint.Schema
	newVerifier VerifierFactory
}

// NewHBSTemplateLiteralsRule creates the hbs template literal rule.
func NewHBSTemplateLiteralsRule(opts ...HBSOption) *HBSTemplateLiteralsRule {
	rule := &HBSTemplateLiteralsRule{
		BaseRule: lint.NewBaseRule(
			"HBS001",
			"hbs-template-literals",
			"Handlebars markup in hbs tagged templates should pass the template linter",
			[]string{"templates", "handlebars"},
		),
		schema:      lint.MustCompileSchema(hbsOptionsSchema),
		newVerifier: newTemplateLinter,
	}

	for _, opt := range opts {
		opt(rule)
	}

	return rule
}

// Schema returns the rule's options schema.
func (r *HBSTemplateLiteralsRule) Schema() *lint.Schema {
	return r.schema
}

// Documentation returns the rule's Markdown documentation.
func (r *HBSTemplateLiteralsRule) Documentation() string {
	return hbsTemplateLiteralsDoc
}

// OptionsExample returns sample options for generated config files.
func (r *HBSTemplateLiteralsRule) OptionsExample() string {
	return `[2, {ConfigFile: .template-lintrc.json}]`
}

// Create parses the options, loads the template linter configuration and
// builds the verifier shared by every file in the session.
func (r *HBSTemplateLiteralsRule) Create(s *lint.Session) (lint.Visitors, error) {
	opts, err := ParseHBSOptions(s.Options)
	if err != nil {
		return nil, err
	}

	logger := s.Logger
	if logger == nil {
		logger = logging.Default()
	}

	if opts.Indent.Set {
		logger.Debug("indent option has no effect; template indentation is detected",
			logging.FieldOption, opts.Indent.String())
	}

	cfg, err := loadTemplateConfig(s, opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	verifier, err := r.newVerifier(cfg)
	if err != nil {
		return nil, fmt.Errorf("create template linter: %w", err)
	}

	return lint.Visitors{
		jsast.KindTaggedTemplate: templateVisitor(verifier, s.ID),
	}, nil
}

// loadTemplateConfig reads the template linter configuration. A missing
// file is not an error: the default configuration is used instead.
func loadTemplateConfig(s *lint.Session, configFile string) (templatelint.Config, error) {
	if configFile == "" || s.FS == nil {
		return templatelint.Config{}, nil
	}

	path := s.ResolvePath(configFile)
	if _, err := s.FS.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if s.Logger != nil {
				s.Logger.Debug("template lint config not found; using defaults", logging.FieldConfigFile, path)
			}
			return templatelint.Config{}, nil
		}
		return templatelint.Config{}, fmt.Errorf("stat %s: %w", path, err)
	}

	data, err := util.ReadFile(s.FS, path)
	if err != nil {
		return templatelint.Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg, err := templatelint.ParseConfig(data)
	if err != nil {
		return templatelint.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

func templateVisitor(verifier templatelint.Verifier, moduleID string) lint.Visitor {
	return func(fc *lint.FileContext, node jsast.Node) error {
		tagged, ok := node.(*jsast.TaggedTemplate)
		if !ok || tagged.Tag != hbsTag || !tagged.Quasi.IsStatic() {
			return nil
		}

		quasi := tagged.Quasi.Quasis[0]
		if quasi.Cooked == nil {
			return nil
		}

		block := NormalizeIndent(*quasi.Cooked)

		results, err := verifier.Verify(templatelint.Source{Source: block.Text, ModuleID: moduleID})
		if err != nil {
			return fmt.Errorf("verify template at line %d: %w", tagged.Loc.Start.Line, err)
		}
		if len(results) == 0 {
			return nil
		}

		fc.ReportDiagnostic(node, lint.NewDiagnosticf("%d error(s): %s", len(results), firstLine(results[0].Message)).
			WithRelated(relatedLocations(quasi.Range.Start, block, results)...).
			Build())
		return nil
	}
}

// relatedLocations places each result in the linted file. Positions are
// exact for templates without escape sequences.
func relatedLocations(start jsast.Position, block Block, results []templatelint.Result) []lint.RelatedLocation {
	related := make([]lint.RelatedLocation, 0, len(results))

	for _, res := range results {
		lineDelta, column := block.Origin(max(res.Line, 1), max(res.Column, 0))
		column++
		if lineDelta == 0 {
			column += start.Column - 1
		}

		related = append(related, lint.RelatedLocation{
			Line:    start.Line + lineDelta,
			Column:  column,
			Message: firstLine(res.Message),
			Source:  res.Rule,
		})
	}

	return related
}

func firstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return line
}
