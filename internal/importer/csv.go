package importer

import "strings"

// parseLine splits one CSV line with a two-state quote machine. A quote
// outside quote mode opens it; a doubled quote inside quote mode emits a
// literal quote; a comma outside quote mode flushes the current field,
// trimmed of surrounding whitespace. End of line flushes the final field.
func parseLine(line string) []string {
	var fields []string
	var buf strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"' && !inQuotes:
			inQuotes = true
		case ch == '"' && inQuotes:
			if i+1 < len(runes) && runes[i+1] == '"' {
				buf.WriteRune('"')
				i++
			} else {
				inQuotes = false
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteRune(ch)
		}
	}

	fields = append(fields, strings.TrimSpace(buf.String()))
	return fields
}

// zipRow pairs header names with field values by position. Missing trailing
// fields become empty strings; surplus fields are dropped.
func zipRow(headers, fields []string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, header := range headers {
		value := ""
		if i < len(fields) {
			value = fields[i]
		}
		row[header] = value
	}
	return row
}
