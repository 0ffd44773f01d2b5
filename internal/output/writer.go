// Package output handles serialization of cleaned datasets and audit
// documents to the supported wire formats.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/preenlabs/preen/pkg/dataset"
)

// Format represents output format types.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// Writer handles document serialization: audits, reports, version info.
type Writer interface {
	// Write outputs a single document.
	Write(data any) error

	// WriteAll outputs multiple documents.
	WriteAll(data []any) error

	// Flush ensures all data is written.
	Flush() error

	// Close releases resources.
	Close() error
}

// DatasetWriter serializes tabular data row by row.
type DatasetWriter interface {
	// WriteDataset writes the full dataset, header included where the
	// format has one.
	WriteDataset(ds *dataset.Dataset) error

	// Close flushes and releases resources.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty bool
	indent string
}

// WithPretty enables pretty-printing.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithIndent sets the indentation string.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// NewWriter creates a document writer for the specified format. CSV and
// XLSX hold tabular data only and are rejected here; use
// NewDatasetWriter for those.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		pretty: true,
		indent: "  ",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatJSON:
		return NewJSONWriter(w, cfg.pretty, cfg.indent), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported document format: %s", format)
	}
}

// NewDatasetWriter creates a tabular writer for the specified format.
// The record-oriented formats (json, jsonl, yaml) serialize each row as
// a column-to-value map.
func NewDatasetWriter(w io.Writer, format Format, opts ...WriterOption) (DatasetWriter, error) {
	switch format {
	case FormatCSV:
		return NewCSVWriter(w), nil
	case FormatXLSX:
		return NewExcelWriter(w), nil
	case FormatJSON, FormatJSONL, FormatYAML:
		doc, err := NewWriter(w, format, opts...)
		if err != nil {
			return nil, err
		}
		return &recordWriter{doc: doc}, nil
	default:
		return nil, fmt.Errorf("unsupported dataset format: %s", format)
	}
}

// recordWriter adapts a document writer to tabular output by emitting
// one map per row.
type recordWriter struct {
	doc Writer
}

func (w *recordWriter) WriteDataset(ds *dataset.Dataset) error {
	names := ds.Names()
	for i := 0; i < ds.Rows(); i++ {
		row := ds.Row(i)
		rec := make(map[string]any, len(names))
		for j, name := range names {
			rec[name] = row[j].Interface()
		}
		if err := w.doc.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func (w *recordWriter) Close() error {
	return w.doc.Close()
}

// cellString renders a single cell for the text-tabular formats. Nulls
// become empty fields, numbers keep their decimal point, timestamps use
// the naive wire layout.
func cellString(v dataset.Value) string {
	switch v.Kind() {
	case dataset.KindNull:
		return ""
	case dataset.KindNumber:
		return dataset.FormatNumber(v.Number())
	case dataset.KindTime:
		return v.Time().Format(dataset.TimeLayout)
	default:
		return v.Text()
	}
}
