package rules

import "strings"

// Block is template text with its shared indentation removed.
type Block struct {
	// Text is the normalized template, lines joined with "\n".
	Text string

	// LeadingLinesDropped is 1 when the raw text started with an empty
	// line (the template opened with a newline right after the backtick).
	LeadingLinesDropped int

	// Indent is the number of characters stripped from each line.
	Indent int
}

// NormalizeIndent removes the indentation shared by every non-blank line
// of raw. An empty first line and an empty last line are dropped, so
//
//	hbs`
//	  <h1>Hi</h1>
//	`
//
// normalizes to "<h1>Hi</h1>".
func NormalizeIndent(raw string) Block {
	lines := strings.Split(raw, "\n")

	var block Block
	if len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
		block.LeadingLinesDropped = 1
	}

	block.Indent = CommonIndent(lines)
	for i, line := range lines {
		if len(line) <= block.Indent {
			lines[i] = ""
			continue
		}
		lines[i] = line[block.Indent:]
	}

	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	block.Text = strings.Join(lines, "\n")
	return block
}

// CommonIndent returns the length of the run of one repeated whitespace
// character (space or tab) that starts every line. Lines too short to reach
// a depth do not take part in it. When no line ever differs, the result is
// the longest line's length.
func CommonIndent(lines []string) int {
	longest := 0
	for _, line := range lines {
		longest = max(longest, len(line))
	}

	for depth := range longest {
		var want byte
		for _, line := range lines {
			if len(line) <= depth {
				continue
			}

			got := line[depth]
			if got != ' ' && got != '\t' {
				return depth
			}
			if want == 0 {
				want = got
			} else if got != want {
				return depth
			}
		}
	}

	return longest
}

// Origin maps a 1-based line and 0-based column inside b.Text back to the
// raw text it came from, as a 0-based line offset and 0-based column.
func (b Block) Origin(line, column int) (int, int) {
	return b.LeadingLinesDropped + line - 1, b.Indent + column
}
