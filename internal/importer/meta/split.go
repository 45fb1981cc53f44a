package meta

import (
	"regexp"
	"strings"
)

var lineBreak = regexp.MustCompile(`\r\n|\n`)

// SplitLines breaks a document into its non-blank lines.
// A leading byte order mark is dropped.
func SplitLines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")

	var lines []string

	for _, line := range lineBreak.Split(text, -1) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		lines = append(lines, line)
	}

	return lines
}

// SplitFields splits one comma-delimited line. Commas inside double quotes
// are kept as text, the quotes themselves are dropped and every field is
// trimmed. An unterminated quote still yields the buffered last field.
func SplitFields(line string) []string {
	var (
		fields  []string
		buf     strings.Builder
		inQuote bool
	)

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuote = !inQuote
		case ch == ',' && !inQuote:
			fields = append(fields, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteRune(ch)
		}
	}

	return append(fields, strings.TrimSpace(buf.String()))
}
