package cleaner

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/preenlabs/preen/pkg/dataset"
)

// Deduplicator drops rows that collide under a case- and
// whitespace-insensitive comparison of text cells; all other cells
// compare as-is, and null equals null. The first occurrence in input
// order survives; the relative order of survivors is preserved.
//
// Only text cells are normalized for comparison: numbers compare as
// raw float64, so two spellings of the same quantity that loaded as
// different values do not collide. Stricter numeric dedup is a known
// fidelity gap, kept as-is.
type Deduplicator struct{}

// NewDeduplicator creates the deduplication stage.
func NewDeduplicator() *Deduplicator { return &Deduplicator{} }

// Name returns the stage name.
func (s *Deduplicator) Name() string { return "deduplicator" }

// Clean scans rows in order, keeping the first row for each comparison
// key and dropping later collisions. The drop count is reported under
// duplicates_removed only when at least one row was dropped.
func (s *Deduplicator) Clean(ds *dataset.Dataset, classes map[string]dataset.Class) (*dataset.Dataset, *StageReport, error) {
	rep := NewStageReport(s.Name())

	rows := ds.Rows()
	seen := make(map[string]bool, rows)
	keep := make([]int, 0, rows)
	for i := 0; i < rows; i++ {
		k := rowKey(ds, i)
		if seen[k] {
			continue
		}
		seen[k] = true
		keep = append(keep, i)
	}

	if removed := rows - len(keep); removed > 0 {
		ds.KeepRows(keep)
		rep.DuplicatesRemoved = removed
	}

	return ds, rep, nil
}

// rowKey builds the comparison key for row i. Cell encodings are
// kind-tagged and length-prefixed so distinct rows cannot collide on
// separator characters inside values.
func rowKey(ds *dataset.Dataset, i int) string {
	var sb strings.Builder
	for _, v := range ds.Row(i) {
		var repr string
		switch v.Kind() {
		case dataset.KindNull:
			repr = ""
		case dataset.KindText:
			repr = strings.ToLower(strings.TrimSpace(v.Text()))
		case dataset.KindNumber:
			repr = strconv.FormatFloat(v.Number(), 'g', -1, 64)
		case dataset.KindTime:
			repr = v.Time().UTC().Format(time.RFC3339Nano)
		}
		fmt.Fprintf(&sb, "%d:%d:%s|", int(v.Kind()), len(repr), repr)
	}
	return sb.String()
}
