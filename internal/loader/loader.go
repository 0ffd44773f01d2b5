// Package loader reads tabular input files into datasets. It supports
// CSV, Excel workbooks, JSON record arrays and HTML tables, inferring
// column types the way a dataframe reader would: missing-value markers
// become nulls, columns whose every remaining cell parses as a number
// become numeric, everything else stays text.
package loader

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/preenlabs/preen/internal/logger"
	"github.com/preenlabs/preen/pkg/dataset"
)

// Format identifies an input format.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
)

// naValues are the cell contents treated as missing on load, matching
// the default marker set of the usual dataframe readers. Whitespace-only
// cells are NOT markers; they stay text for the cleaning pipeline to
// deal with.
var naValues = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// Loader reads tabular files into datasets.
type Loader struct {
	delimiter rune
	sheet     string
	extraNA   map[string]bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithDelimiter sets the CSV field delimiter (default comma).
func WithDelimiter(d rune) Option {
	return func(l *Loader) {
		l.delimiter = d
	}
}

// WithSheet selects the Excel sheet to read (default: first sheet).
func WithSheet(name string) Option {
	return func(l *Loader) {
		l.sheet = name
	}
}

// WithExtraNA adds input-specific missing-value markers.
func WithExtraNA(values ...string) Option {
	return func(l *Loader) {
		for _, v := range values {
			l.extraNA[v] = true
		}
	}
}

// New creates a loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		delimiter: ',',
		extraNA:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads a dataset from r in the given format. FormatAuto sniffs
// the content.
func (l *Loader) Load(r io.Reader, format Format) (*dataset.Dataset, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return l.LoadBytes(body, format)
}

// LoadBytes reads a dataset from an in-memory file.
func (l *Loader) LoadBytes(body []byte, format Format) (*dataset.Dataset, error) {
	if format == FormatAuto || format == "" {
		format = Detect("", "", body)
	}

	var (
		ds  *dataset.Dataset
		err error
	)
	switch format {
	case FormatCSV:
		ds, err = l.loadCSV(body)
	case FormatJSON:
		ds, err = l.loadJSON(body)
	case FormatXLSX:
		ds, err = l.loadExcel(body)
	case FormatHTML:
		ds, err = l.loadHTML(body)
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("loaded dataset",
		"format", string(format), "rows", ds.Rows(), "columns", len(ds.Names()))
	return ds, nil
}

// LoadFile reads a dataset from path, detecting the format from the
// file name and content.
func (l *Loader) LoadFile(path string) (*dataset.Dataset, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return l.LoadBytes(body, Detect(path, "", body))
}

// isNA reports whether a raw cell is a missing-value marker.
func (l *Loader) isNA(field string) bool {
	return naValues[field] || l.extraNA[field]
}

// table converts a header row plus string rows into a typed dataset.
// Short rows are padded with nulls on the right; rows longer than the
// header are rejected.
func (l *Loader) table(header []string, rows [][]string) (*dataset.Dataset, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	for i, row := range rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(row), len(header))
		}
	}

	fieldAt := func(i, j int) string {
		if j < len(rows[i]) {
			return rows[i][j]
		}
		return ""
	}

	cols := make([]*dataset.Column, len(header))
	for j, name := range header {
		numeric := true
		hasValue := false
		for i := range rows {
			field := fieldAt(i, j)
			if l.isNA(field) {
				continue
			}
			hasValue = true
			if numeric {
				if _, err := strconv.ParseFloat(strings.TrimSpace(field), 64); err != nil {
					numeric = false
				}
			}
		}

		cells := make([]dataset.Value, len(rows))
		for i := range rows {
			field := fieldAt(i, j)
			switch {
			case l.isNA(field):
				cells[i] = dataset.Null()
			case numeric && hasValue:
				f, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
				if err != nil {
					return nil, fmt.Errorf("column %q row %d: %w", name, i+1, err)
				}
				cells[i] = dataset.Number(f)
			default:
				cells[i] = dataset.Text(field)
			}
		}
		cols[j] = &dataset.Column{Name: name, Cells: cells}
	}

	return dataset.New(cols...)
}
