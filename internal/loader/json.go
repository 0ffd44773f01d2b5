package loader

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/preenlabs/preen/pkg/dataset"
)

// loadJSON reads an array of record objects. Columns are ordered by
// first appearance; keys missing from a record become nulls, so ragged
// records are fine. JSON null is the only missing-value marker here;
// empty strings stay text for the pipeline to handle.
func (l *Loader) loadJSON(body []byte) (*dataset.Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid JSON input: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("JSON input must be an array of record objects")
	}

	var (
		names  []string
		colIdx = make(map[string]int)
		cols   [][]dataset.Value
		rows   int
	)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid JSON input: %w", err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, fmt.Errorf("record %d is not an object", rows+1)
		}

		for i := range cols {
			cols[i] = append(cols[i], dataset.Null())
		}

		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("invalid JSON input: %w", err)
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("record %d has a non-string key", rows+1)
			}

			var v any
			if err := dec.Decode(&v); err != nil {
				return nil, fmt.Errorf("record %d, key %q: %w", rows+1, key, err)
			}
			cell, err := jsonCell(v)
			if err != nil {
				return nil, fmt.Errorf("record %d, key %q: %w", rows+1, key, err)
			}

			idx, ok := colIdx[key]
			if !ok {
				idx = len(names)
				names = append(names, key)
				colIdx[key] = idx
				col := make([]dataset.Value, rows+1)
				for i := range col {
					col[i] = dataset.Null()
				}
				cols = append(cols, col)
			}
			cols[idx][rows] = cell
		}

		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("invalid JSON input: %w", err)
		}
		rows++
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid JSON input: %w", err)
	}

	out := make([]*dataset.Column, len(names))
	for i, name := range names {
		out[i] = &dataset.Column{Name: name, Cells: cols[i]}
	}
	return dataset.New(out...)
}

// jsonCell converts a decoded JSON value to a cell. Scalars only:
// nested objects and arrays have no tabular shape.
func jsonCell(v any) (dataset.Value, error) {
	switch t := v.(type) {
	case nil:
		return dataset.Null(), nil
	case string:
		return dataset.Text(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return dataset.Value{}, fmt.Errorf("bad number %q: %w", t.String(), err)
		}
		return dataset.Number(f), nil
	case bool:
		if t {
			return dataset.Text("true"), nil
		}
		return dataset.Text("false"), nil
	default:
		return dataset.Value{}, fmt.Errorf("nested values are not supported")
	}
}
