package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/preenlabs/preen/pkg/dataset"
)

const excelSheet = "Sheet1"

// ExcelWriter writes datasets as a single-sheet XLSX workbook. Numeric
// cells stay numeric; timestamps and text are written as strings.
type ExcelWriter struct {
	dst io.Writer
	f   *excelize.File
}

// NewExcelWriter creates an XLSX writer.
func NewExcelWriter(w io.Writer) *ExcelWriter {
	return &ExcelWriter{dst: w}
}

// WriteDataset builds the workbook and writes it out.
func (w *ExcelWriter) WriteDataset(ds *dataset.Dataset) error {
	w.f = excelize.NewFile()

	for j, name := range ds.Names() {
		cell, err := cellRef(j, 0)
		if err != nil {
			return err
		}
		if err := w.f.SetCellValue(excelSheet, cell, name); err != nil {
			return err
		}
	}

	for i := 0; i < ds.Rows(); i++ {
		row := ds.Row(i)
		for j, v := range row {
			if v.IsNull() {
				continue
			}
			cell, err := cellRef(j, i+1)
			if err != nil {
				return err
			}
			var val any
			if v.Kind() == dataset.KindNumber {
				val = v.Number()
			} else {
				val = cellString(v)
			}
			if err := w.f.SetCellValue(excelSheet, cell, val); err != nil {
				return err
			}
		}
	}

	return w.f.Write(w.dst)
}

// Close releases the workbook.
func (w *ExcelWriter) Close() error {
	if w.f != nil {
		return w.f.Close()
	}
	return nil
}

// cellRef converts zero-based column/row indices to an A1-style
// reference.
func cellRef(col, row int) (string, error) {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", name, row+1), nil
}
