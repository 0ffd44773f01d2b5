package loader

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/preenlabs/preen/pkg/dataset"
)

// loadExcel reads the configured sheet (or the first one) of an XLSX
// workbook. Cell values arrive as formatted strings and go through the
// same type inference as CSV fields.
func (l *Loader) loadExcel(body []byte) (*dataset.Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty: no header row", sheet)
	}

	return l.table(rows[0], rows[1:])
}
