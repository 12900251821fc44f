package templatelint

import "strings"

// mustache is one {{...}} span in template text.
type mustache struct {
	start, end int // byte offsets, end exclusive
	triple     bool
	comment    bool
	block      int // +1 opens a block, -1 closes one
}

type scanIssue struct {
	offset  int
	message string
	stray   bool
}

// scanMustaches finds mustache spans in src. Unterminated openers and
// stray closers are returned as issues; scanning stops at the first
// unterminated opener.
func scanMustaches(src string) ([]mustache, []scanIssue) {
	var (
		spans  []mustache
		issues []scanIssue
	)

	for i := 0; i < len(src); {
		open := strings.Index(src[i:], "{{")
		closing := strings.Index(src[i:], "}}")

		if closing >= 0 && (open < 0 || closing < open) {
			issues = append(issues, scanIssue{
				offset:  i + closing,
				message: "Unexpected `}}` without an opening `{{`",
				stray:   true,
			})
			i += closing + 2
			continue
		}
		if open < 0 {
			break
		}

		start := i + open

		// \{{ is an escaped, literal mustache.
		if start > 0 && src[start-1] == '\\' {
			next := strings.Index(src[start+2:], "}}")
			if next < 0 {
				break
			}
			i = start + 2 + next + 2
			continue
		}

		m := mustache{start: start}
		var terminator string
		body := start + 2

		switch {
		case strings.HasPrefix(src[start:], "{{!--"):
			m.comment, terminator, body = true, "--}}", start+5
		case strings.HasPrefix(src[start:], "{{!"):
			m.comment, terminator, body = true, "}}", start+3
		case strings.HasPrefix(src[start:], "{{{"):
			m.triple, terminator, body = true, "}}}", start+3
		default:
			terminator = "}}"
			m.block = blockDelta(src[body:])
		}

		end := strings.Index(src[body:], terminator)
		if end < 0 {
			issues = append(issues, scanIssue{offset: start, message: "Unclosed mustache `" + src[start:body] + "`"})
			break
		}

		m.end = body + end + len(terminator)
		spans = append(spans, m)
		i = m.end
	}

	return spans, issues
}

// blockDelta reports whether a mustache body opens or closes a block.
func blockDelta(body string) int {
	body = strings.TrimPrefix(body, "~")
	switch {
	case strings.HasPrefix(body, "#"):
		return 1
	case strings.HasPrefix(body, "/"):
		return -1
	default:
		return 0
	}
}

// maskMustaches replaces mustache spans with '_' so the HTML parser sees
// them as plain attribute names, values or text. Newlines are kept so
// offsets and lines line up with the original source.
func maskMustaches(src string, spans []mustache) []byte {
	masked := []byte(src)
	for _, m := range spans {
		for i := m.start; i < m.end; i++ {
			if masked[i] != '\n' {
				masked[i] = '_'
			}
		}
	}
	return masked
}
