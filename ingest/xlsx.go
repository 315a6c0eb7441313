package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads a worksheet whose first row is the header. An empty sheet
// name selects the first sheet.
func ReadXLSX(r io.Reader, sheet string, columns []string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, columnError("", "workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("ingest: read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, columnError("", "sheet "+sheet+" is empty")
	}

	return tableFromRecords(rows[0], rows[1:], columns)
}
