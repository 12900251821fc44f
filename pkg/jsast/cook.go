package jsast

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// normalizeLineTerminators converts CRLF and lone CR to LF, as template
// literals do for both their raw and cooked values.
func normalizeLineTerminators(raw string) string {
	if !strings.Contains(raw, "\r") {
		return raw
	}
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.ReplaceAll(raw, "\r", "\n")
}

// Cook applies template-literal escape processing to raw.
// It returns false when raw contains an escape sequence that is invalid in a
// template literal (legacy octals, malformed \x or \u). Tagged templates keep
// such values as undefined rather than failing to parse.
func Cook(raw string) (string, bool) {
	if !strings.Contains(raw, `\`) {
		return raw, true
	}

	var b strings.Builder
	b.Grow(len(raw))

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}

		i++
		if i >= len(raw) {
			return "", false
		}

		switch c = raw[i]; c {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			if i+1 < len(raw) && isDecimal(raw[i+1]) {
				return "", false
			}
			b.WriteByte(0)
		case '1', '2', '3', '4', '5', '6', '7', '8', '9':
			return "", false
		case 'x':
			if i+3 > len(raw) {
				return "", false
			}
			n, err := strconv.ParseUint(raw[i+1:i+3], 16, 8)
			if err != nil {
				return "", false
			}
			b.WriteRune(rune(n))
			i += 2
		case 'u':
			r, next, ok := readUnicodeEscape(raw, i+1)
			if !ok {
				return "", false
			}
			b.WriteRune(r)
			i = next - 1
		case '\n':
			// Line continuation.
		default:
			// Any other character, including multi-byte ones and U+2028/9
			// continuations, stands for itself.
			if c >= utf8.RuneSelf {
				r, size := utf8.DecodeRuneInString(raw[i:])
				if r != '\u2028' && r != '\u2029' {
					b.WriteString(raw[i : i+size])
				}
				i += size - 1
				continue
			}
			b.WriteByte(c)
		}
	}

	return b.String(), true
}

// readUnicodeEscape parses the part of a \u escape that starts at raw[start]
// and returns the rune and the offset just past the escape. Surrogate pairs
// written as two consecutive \uXXXX escapes are combined.
func readUnicodeEscape(raw string, start int) (rune, int, bool) {
	if start < len(raw) && raw[start] == '{' {
		end := strings.IndexByte(raw[start:], '}')
		if end < 2 {
			return 0, 0, false
		}
		n, err := strconv.ParseUint(raw[start+1:start+end], 16, 32)
		if err != nil || n > utf8.MaxRune {
			return 0, 0, false
		}
		return rune(n), start + end + 1, true
	}

	r, ok := hex4(raw, start)
	if !ok {
		return 0, 0, false
	}
	next := start + 4

	if utf16.IsSurrogate(r) && strings.HasPrefix(raw[next:], `\u`) {
		if low, ok := hex4(raw, next+2); ok {
			if combined := utf16.DecodeRune(r, low); combined != utf8.RuneError {
				return combined, next + 6, true
			}
		}
	}

	return r, next, true
}

func hex4(raw string, start int) (rune, bool) {
	if start+4 > len(raw) {
		return 0, false
	}
	n, err := strconv.ParseUint(raw[start:start+4], 16, 16)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}

func isDecimal(c byte) bool {
	return c >= '0' && c <= '9'
}
