// backend/src/parsers/text.go
package parsers

import (
	"regexp"
	"strings"
)

var lineBreakRe = regexp.MustCompile(`\r?\n`)

// SplitLines strips a leading byte-order mark, splits on CRLF or LF and drops
// lines that are blank after trimming. Order is preserved; the kept lines are
// not trimmed.
func SplitLines(text string) []string {
	text = strings.TrimPrefix(text, "\uFEFF")
	var lines []string
	for _, l := range lineBreakRe.Split(text, -1) {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// ParseCSVLine splits a comma-delimited line. See ParseDelimitedLine.
func ParseCSVLine(line string) []string {
	return ParseDelimitedLine(line, ',')
}

// ParseDelimitedLine splits one line into trimmed fields. Quotes toggle a quoted
// section in which the delimiter is literal; inside a quoted section a doubled
// quote stands for one literal quote.
//
// encoding/csv is not used because it rejects bare quotes inside unquoted fields
// and would turn a single malformed row into a parse error for the whole file.
func ParseDelimitedLine(line string, delim rune) []string {
	var (
		out      []string
		cur      strings.Builder
		inQuotes bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch == '"' {
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
			continue
		}
		if ch == delim && !inQuotes {
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteRune(ch)
	}
	return append(out, strings.TrimSpace(cur.String()))
}

// QuoteField is the inverse of ParseCSVLine for a single value: it quotes the
// value when it contains a comma, a quote or a newline, doubling embedded quotes.
func QuoteField(v string) string {
	if !strings.ContainsAny(v, ",\"\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// Field returns cols[i], or "" when the row is too short.
func Field(cols []string, i int) string {
	if i < 0 || i >= len(cols) {
		return ""
	}
	return cols[i]
}
