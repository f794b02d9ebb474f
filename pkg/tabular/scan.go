// Package tabular turns raw export payloads (delimited text or spreadsheets) into rows of fields.
package tabular

import "strings"

const (
	fieldDelimiter = ','
	rowDelimiter   = '\n'
	quote          = '"'
)

// Scan splits delimited text into rows of fields in a single pass.
//
// A quote toggles a quoted section in which field and row delimiters are literal.
// A doubled quote inside a quoted section is a literal quote. A carriage return
// directly before an unquoted row delimiter is dropped. Scan never fails: an
// unterminated quote simply runs to the end of the input.
func Scan(text string) [][]string {
	var (
		rows     [][]string
		fields   []string
		current  strings.Builder
		inQuotes bool
		dirty    bool
	)

	flushField := func() {
		fields = append(fields, current.String())
		current.Reset()
	}
	flushRow := func() {
		flushField()
		rows = append(rows, fields)
		fields = nil
		dirty = false
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == quote:
			dirty = true
			if inQuotes && i+1 < len(text) && text[i+1] == quote {
				current.WriteByte(quote)
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == fieldDelimiter && !inQuotes:
			dirty = true
			flushField()
		case c == '\r' && !inQuotes && i+1 < len(text) && text[i+1] == rowDelimiter:
			continue
		case c == rowDelimiter && !inQuotes:
			flushRow()
		default:
			dirty = true
			current.WriteByte(c)
		}
	}
	if dirty || current.Len() > 0 || len(fields) > 0 {
		flushRow()
	}
	return rows
}

// IsBlank reports whether every field in the row is empty after trimming.
func IsBlank(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// Field returns the trimmed value at idx, or "" when the row is too short.
func Field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
