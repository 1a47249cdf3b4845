package sqlfix

import "strings"

// EscapeLine doubles every single quote that sits inside a SQL string
// literal, leaving the quotes that open and close the literal untouched.
//
// A quote seen while inside a literal is a closing delimiter when the next
// character is a terminator (comma, closing bracket, whitespace or end of
// line) or is the last character of the line. An existing '' pair is kept
// as is. Any other quote is escaped.
//
// This is a lookahead heuristic, not a SQL tokenizer: an apostrophe that is
// followed by a space ('rock 'n' roll') is taken as a closing delimiter.
// Backslash escapes, comments and multi-line literals are not understood.
func EscapeLine(line string) string {
	if !strings.ContainsRune(line, '\'') {
		return line
	}

	runes := []rune(line)
	n := len(runes)

	var sb strings.Builder
	sb.Grow(len(line) + 8)

	inString := false
	for i := 0; i < n; i++ {
		c := runes[i]
		if c != '\'' {
			sb.WriteRune(c)
			continue
		}

		if !inString {
			inString = true
			sb.WriteRune(c)
			continue
		}

		if i+1 < n && runes[i+1] == '\'' {
			sb.WriteString("''")
			i++
			continue
		}

		if i+1 >= n || i == n-2 || isTerminator(runes[i+1]) {
			inString = false
			sb.WriteRune(c)
			continue
		}

		sb.WriteString("''")
	}

	return sb.String()
}

// EscapeLines applies EscapeLine to each line. The result has the same
// length and order as lines.
func EscapeLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = EscapeLine(line)
	}
	return out
}

// EscapeText escapes a multi-line text. Line terminators (\n or \r\n) are
// preserved exactly.
func EscapeText(text string) string {
	lines := strings.SplitAfter(text, "\n")

	var sb strings.Builder
	sb.Grow(len(text))
	for _, line := range lines {
		body, eol := splitEOL(line)
		sb.WriteString(EscapeLine(body))
		sb.WriteString(eol)
	}
	return sb.String()
}

func isTerminator(r rune) bool {
	switch r {
	case ',', ')', '}', ']', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// splitEOL detaches a trailing "\n" or "\r\n" from line.
func splitEOL(line string) (string, string) {
	if strings.HasSuffix(line, "\r\n") {
		return line[:len(line)-2], "\r\n"
	}
	if strings.HasSuffix(line, "\n") {
		return line[:len(line)-1], "\n"
	}
	return line, ""
}
