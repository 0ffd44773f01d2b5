package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/preenlabs/preen/pkg/dataset"
)

// loadCSV reads a comma-separated file with a header row. All rows must
// have the header's field count; the csv reader enforces that.
func (l *Loader) loadCSV(body []byte) (*dataset.Dataset, error) {
	r := csv.NewReader(bytes.NewReader(body))
	r.Comma = l.delimiter

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty input: no header row")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV rows: %w", err)
	}

	return l.table(header, rows)
}
