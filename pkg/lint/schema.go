package lint

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// ErrInvalidOptions is wrapped by Schema.Validate failures.
var ErrInvalidOptions = errors.New("invalid rule options")

// optionsPath is the definition a schema source must declare.
const optionsPath = "#Options"

// Schema validates a rule's positional options against a CUE definition.
//
// The source must declare #Options, a list type describing the whole
// options list:
//
//	#Indent:   "tab" | int & >=0
//	#Extended: {ConfigFile?: string}
//	#Options:  [] | [#Indent] | [#Indent, #Extended]
type Schema struct {
	mu      sync.Mutex // cue.Context is not safe for concurrent use
	ctx     *cue.Context
	options cue.Value
	source  string
}

// CompileSchema compiles CUE source containing an #Options definition.
func CompileSchema(source string) (*Schema, error) {
	ctx := cuecontext.New()

	value := ctx.CompileString(source)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compile options schema: %w", err)
	}

	options := value.LookupPath(cue.ParsePath(optionsPath))
	if !options.Exists() {
		return nil, fmt.Errorf("compile options schema: %s is not defined", optionsPath)
	}

	return &Schema{ctx: ctx, options: options, source: source}, nil
}

// MustCompileSchema is like CompileSchema but panics on error.
func MustCompileSchema(source string) *Schema {
	schema, err := CompileSchema(source)
	if err != nil {
		panic(err)
	}
	return schema
}

// Source returns the CUE source the schema was compiled from.
func (s *Schema) Source() string {
	return s.source
}

// Validate checks options against the schema. A nil list is treated as
// empty, so every schema must accept [].
func (s *Schema) Validate(options []any) error {
	if options == nil {
		options = []any{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	value := s.ctx.Encode(normalizeOption(options))
	if err := value.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	unified := s.options.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, cueerrors.Details(err, nil))
	}

	return nil
}

// normalizeOption rewrites integral floats, as produced by JSON decoding
// and YAML flow values, into ints so they satisfy CUE's int type.
func normalizeOption(v any) any {
	switch val := v.(type) {
	case float64:
		if val == math.Trunc(val) && !math.IsInf(val, 0) && math.Abs(val) < 1<<53 {
			return int64(val)
		}
		return val
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeOption(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeOption(item)
		}
		return out
	default:
		return v
	}
}
