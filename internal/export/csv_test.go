package export

import (
	"strings"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		rows    [][]string
		want    string
	}{
		{
			name:    "headers only",
			headers: []string{"ID", "Title"},
			want:    `"ID","Title"`,
		},
		{
			name:    "plain rows",
			headers: []string{"ID", "Title"},
			rows:    [][]string{{"1", "Plumbing"}, {"2", "Bricklaying"}},
			want:    "\"ID\",\"Title\"\n\"1\",\"Plumbing\"\n\"2\",\"Bricklaying\"",
		},
		{
			name:    "embedded quotes doubled",
			headers: []string{"Title"},
			rows:    [][]string{{`The "Complete" Course`}},
			want:    "\"Title\"\n\"The \"\"Complete\"\" Course\"",
		},
		{
			name:    "commas stay inside quotes",
			headers: []string{"Title", "Price"},
			rows:    [][]string{{"Plumbing, Level 2", "499.99"}},
			want:    "\"Title\",\"Price\"\n\"Plumbing, Level 2\",\"499.99\"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(WriteCSV(tt.headers, tt.rows))
			if got != tt.want {
				t.Errorf("WriteCSV() = %q, want %q", got, tt.want)
			}
			if lines := strings.Count(got, "\n") + 1; lines != len(tt.rows)+1 {
				t.Errorf("WriteCSV() has %d lines, want %d", lines, len(tt.rows)+1)
			}
		})
	}
}

func TestCSVFilename(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		suffix string
		want   string
	}{
		{name: "spaces to underscores", input: "Health and Safety", suffix: "_chapters.csv", want: "health_and_safety_chapters.csv"},
		{name: "punctuation to underscores", input: "Plumbing & Heating!", suffix: ".csv", want: "plumbing___heating_.csv"},
		{name: "already safe", input: "courses", suffix: ".csv", want: "courses.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CSVFilename(tt.input, tt.suffix); got != tt.want {
				t.Errorf("CSVFilename(%q, %q) = %q, want %q", tt.input, tt.suffix, got, tt.want)
			}
		})
	}
}
