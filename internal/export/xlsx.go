package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX renders the same header-plus-rows table as an xlsx workbook
// with a single sheet.
func WriteXLSX(sheet string, headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	writeXLSXRow := func(rowIdx int, fields []string) error {
		for colIdx, value := range fields {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeXLSXRow(1, headers); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		if err := writeXLSXRow(i+2, row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	return buf.Bytes(), nil
}
