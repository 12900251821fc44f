package jsast

import (
	"bytes"
	"sort"
)

// File is a parsed source file.
type File struct {
	Path    string
	Content []byte

	// Nodes holds every node rules may visit, ordered by start offset.
	Nodes []Node

	lineStarts []int
}

// NewFile creates a File with no nodes. Parsers fill in Nodes.
func NewFile(path string, content []byte) *File {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &File{
		Path:       path,
		Content:    content,
		lineStarts: starts,
	}
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.lineStarts)
}

// Position converts a byte offset into a Position.
func (f *File) Position(offset int) Position {
	offset = max(0, min(offset, len(f.Content)))
	line := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	})

	return Position{
		Offset: offset,
		Line:   line,
		Column: offset - f.lineStarts[line-1] + 1,
	}
}

// RangeOf converts a byte span into a Range.
func (f *File) RangeOf(start, end int) Range {
	return Range{Start: f.Position(start), End: f.Position(end)}
}

// LineContent returns line n (1-based) without its terminator, or nil when
// n is out of range.
func (f *File) LineContent(n int) []byte {
	if n < 1 || n > len(f.lineStarts) {
		return nil
	}

	start := f.lineStarts[n-1]
	end := len(f.Content)
	if n < len(f.lineStarts) {
		end = f.lineStarts[n] - 1
	}

	return bytes.TrimSuffix(f.Content[start:end], []byte("\r"))
}
