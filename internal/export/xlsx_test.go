package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	data, err := WriteXLSX("Courses", []string{"ID", "Title"}, [][]string{
		{"1", "Plumbing"},
		{"2", "Bricklaying"},
	})
	if err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Courses")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("workbook has %d rows, want 3", len(rows))
	}
	if rows[0][1] != "Title" {
		t.Errorf("header cell = %q, want Title", rows[0][1])
	}
	if rows[2][1] != "Bricklaying" {
		t.Errorf("data cell = %q, want Bricklaying", rows[2][1])
	}
}
