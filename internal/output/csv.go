package output

import (
	"encoding/csv"
	"io"

	"github.com/preenlabs/preen/pkg/dataset"
)

// CSVWriter writes datasets as CSV with a header row. Numbers keep a
// decimal point and timestamps use the naive wire layout, so a written
// file loads back with the same column shapes.
type CSVWriter struct {
	w *csv.Writer
}

// NewCSVWriter creates a CSV writer.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// WriteDataset writes the header and all rows.
func (w *CSVWriter) WriteDataset(ds *dataset.Dataset) error {
	if err := w.w.Write(ds.Names()); err != nil {
		return err
	}
	for i := 0; i < ds.Rows(); i++ {
		row := ds.Row(i)
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = cellString(v)
		}
		if err := w.w.Write(rec); err != nil {
			return err
		}
	}
	w.w.Flush()
	return w.w.Error()
}

// Close flushes pending rows.
func (w *CSVWriter) Close() error {
	w.w.Flush()
	return w.w.Error()
}
