package lint

import (
	"context"

	"github.com/yaklabco/hbslint/pkg/jsast"
)

// Parser turns source bytes into a jsast.File.
//
// Implementations must be safe for concurrent use: the runner parses
// several files at once through one Engine. jsast.TreeSitterParser is the
// production implementation.
type Parser interface {
	// Parse must not mutate content or perform I/O; path is only used for
	// diagnostics. The returned File's Nodes are in source order.
	Parse(ctx context.Context, path string, content []byte) (*jsast.File, error)
}
