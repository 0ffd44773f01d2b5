// Package dataset defines the in-memory tabular model the cleaning
// pipeline operates on: datasets of named, equal-length columns holding
// tagged scalar values, plus the column classification stages dispatch on.
package dataset

import (
	"fmt"
)

// Column is a named sequence of cells, one per dataset row.
type Column struct {
	Name  string
	Cells []Value
}

// NullCount returns the number of null cells in the column.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.Cells {
		if v.IsNull() {
			n++
		}
	}
	return n
}

// Dataset is an ordered collection of equal-length columns. Pipeline
// stages mutate it in place; a single cleaning invocation owns it
// exclusively, so callers that need the original intact pass a Clone.
type Dataset struct {
	cols []*Column
}

// New builds a dataset from columns, rejecting ragged tables and
// duplicate column names. A malformed table is the one input error the
// cleaning engine refuses outright; everything else degrades per-value.
func New(cols ...*Column) (*Dataset, error) {
	d := &Dataset{cols: cols}
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if seen[c.Name] {
			return nil, fmt.Errorf("dataset: duplicate column %q", c.Name)
		}
		seen[c.Name] = true
		if len(c.Cells) != len(cols[0].Cells) {
			return nil, fmt.Errorf("dataset: column %q has %d rows, column %q has %d",
				c.Name, len(c.Cells), cols[0].Name, len(cols[0].Cells))
		}
	}
	return d, nil
}

// Rows returns the row count.
func (d *Dataset) Rows() int {
	if len(d.cols) == 0 {
		return 0
	}
	return len(d.cols[0].Cells)
}

// Columns returns the columns in order. Mutating the returned slice
// header does not affect the dataset; mutating the columns does.
func (d *Dataset) Columns() []*Column {
	out := make([]*Column, len(d.cols))
	copy(out, d.cols)
	return out
}

// Column returns the named column, or false if absent.
func (d *Dataset) Column(name string) (*Column, bool) {
	for _, c := range d.cols {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.cols))
	for i, c := range d.cols {
		names[i] = c.Name
	}
	return names
}

// Row materializes row i across all columns, in column order.
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.cols))
	for j, c := range d.cols {
		row[j] = c.Cells[i]
	}
	return row
}

// KeepRows retains only the rows at the given indices, in the order
// given, across every column. Indices must be valid and strictly
// increasing to preserve relative row order.
func (d *Dataset) KeepRows(idx []int) {
	for _, c := range d.cols {
		kept := make([]Value, len(idx))
		for i, r := range idx {
			kept[i] = c.Cells[r]
		}
		c.Cells = kept
	}
}

// Clone returns a deep copy. Values are immutable, so copying the cell
// slices is sufficient.
func (d *Dataset) Clone() *Dataset {
	cols := make([]*Column, len(d.cols))
	for i, c := range d.cols {
		cells := make([]Value, len(c.Cells))
		copy(cells, c.Cells)
		cols[i] = &Column{Name: c.Name, Cells: cells}
	}
	return &Dataset{cols: cols}
}
