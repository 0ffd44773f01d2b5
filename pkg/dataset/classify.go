package dataset

import (
	"strings"
)

// Class is a column classification. It is computed once per column
// before cleaning starts and threaded through every stage, so no stage
// re-derives name-based guesses mid-run.
type Class int

const (
	ClassUnknown Class = iota
	ClassNumeric
	ClassTemporal
	ClassEmailLike
	ClassText
)

// String returns the class name for logging/debugging.
func (c Class) String() string {
	switch c {
	case ClassUnknown:
		return "unknown"
	case ClassNumeric:
		return "numeric"
	case ClassTemporal:
		return "temporal"
	case ClassEmailLike:
		return "email"
	case ClassText:
		return "text"
	default:
		return "invalid"
	}
}

// temporalHints are the column-name substrings that mark a column as
// date/time-like. Matching is by name only: a column of date-shaped
// strings under a non-matching name is never parsed (precision over
// recall), and a non-date column under a matching name is parsed
// anyway.
var temporalHints = []string{"date", "_at", "time"}

// Classify tags a column. Name heuristics win over content: a column
// whose lowercase name contains "date", "_at", or "time" is Temporal
// whatever its cells hold, and a column whose name contains "email" is
// EmailLike as long as it holds at least one text cell. Content decides
// the rest: all-number columns are Numeric, all-timestamp columns
// Temporal, anything with text is Text, and entirely-null columns are
// Unknown.
func Classify(col *Column) Class {
	name := strings.ToLower(col.Name)
	for _, hint := range temporalHints {
		if strings.Contains(name, hint) {
			return ClassTemporal
		}
	}

	var texts, numbers, times, nonNull int
	for _, v := range col.Cells {
		switch v.Kind() {
		case KindNull:
			// not counted
		case KindText:
			texts++
			nonNull++
		case KindNumber:
			numbers++
			nonNull++
		case KindTime:
			times++
			nonNull++
		}
	}

	if strings.Contains(name, "email") && texts > 0 {
		return ClassEmailLike
	}
	switch {
	case nonNull == 0:
		return ClassUnknown
	case numbers == nonNull:
		return ClassNumeric
	case times == nonNull:
		return ClassTemporal
	default:
		return ClassText
	}
}

// ClassifyAll tags every column in the dataset, keyed by column name.
func ClassifyAll(d *Dataset) map[string]Class {
	return Hints{}.ClassifyAll(d)
}

// Hints extends the name heuristics with caller-supplied column names,
// matched exactly (case-insensitive). A hinted column is forced into
// its class before the builtin substring rules run; the zero Hints
// value classifies identically to Classify.
type Hints struct {
	TemporalColumns []string
	EmailColumns    []string
}

// Classify tags a column, consulting the hints first.
func (h Hints) Classify(col *Column) Class {
	if matchName(col.Name, h.TemporalColumns) {
		return ClassTemporal
	}
	if matchName(col.Name, h.EmailColumns) {
		for _, v := range col.Cells {
			if v.Kind() == KindText {
				return ClassEmailLike
			}
		}
	}
	return Classify(col)
}

// ClassifyAll tags every column in the dataset, keyed by column name.
func (h Hints) ClassifyAll(d *Dataset) map[string]Class {
	classes := make(map[string]Class, len(d.Columns()))
	for _, c := range d.Columns() {
		classes[c.Name] = h.Classify(c)
	}
	return classes
}

func matchName(name string, hints []string) bool {
	for _, hint := range hints {
		if strings.EqualFold(name, hint) {
			return true
		}
	}
	return false
}
