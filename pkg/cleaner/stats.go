package cleaner

import (
	"sort"
	"time"

	"github.com/preenlabs/preen/pkg/dataset"
)

// median returns the middle of the sorted values, averaging the two
// middle values when the count is even. Empty input resolves to 0, the
// documented numeric fallback, rather than an error.
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// timeMode returns the most frequent timestamp; ties resolve to the
// earliest instant. ok is false on empty input.
func timeMode(vals []time.Time) (time.Time, bool) {
	if len(vals) == 0 {
		return time.Time{}, false
	}

	type entry struct {
		t time.Time
		n int
	}
	counts := make(map[string]*entry, len(vals))
	for _, t := range vals {
		k := t.Format(time.RFC3339Nano)
		if e, ok := counts[k]; ok {
			e.n++
		} else {
			counts[k] = &entry{t: t, n: 1}
		}
	}

	var best *entry
	for _, e := range counts {
		if best == nil || e.n > best.n || (e.n == best.n && e.t.Before(best.t)) {
			best = e
		}
	}
	return best.t, true
}

// valueMode returns the most frequent non-null value; ties resolve to
// the lexicographically first rendering. ok is false when there is no
// non-null value to take a mode from.
func valueMode(cells []dataset.Value) (dataset.Value, bool) {
	type entry struct {
		v dataset.Value
		n int
	}
	counts := make(map[string]*entry)
	for _, v := range cells {
		if v.IsNull() {
			continue
		}
		k := v.Kind().String() + ":" + v.String()
		if e, ok := counts[k]; ok {
			e.n++
		} else {
			counts[k] = &entry{v: v, n: 1}
		}
	}
	if len(counts) == 0 {
		return dataset.Value{}, false
	}

	var (
		best    *entry
		bestKey string
	)
	for k, e := range counts {
		if best == nil || e.n > best.n || (e.n == best.n && k < bestKey) {
			best, bestKey = e, k
		}
	}
	return best.v, true
}
