package export

import (
	"regexp"
	"strings"
)

var filenameUnsafe = regexp.MustCompile(`[^a-z0-9]`)

// WriteCSV renders a header row plus data rows. Every field is wrapped in
// double quotes (embedded quotes doubled) and rows are joined with \n, so
// the output always has exactly len(rows)+1 lines.
func WriteCSV(headers []string, rows [][]string) []byte {
	var b strings.Builder

	writeRow(&b, headers)
	for _, row := range rows {
		b.WriteByte('\n')
		writeRow(&b, row)
	}

	return []byte(b.String())
}

func writeRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
}

// CSVFilename derives a download filename from an entity name: anything
// outside [a-z0-9] becomes an underscore.
func CSVFilename(name, suffix string) string {
	base := filenameUnsafe.ReplaceAllString(strings.ToLower(name), "_")
	return base + suffix
}
