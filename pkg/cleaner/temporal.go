package cleaner

import (
	"strings"
	"time"

	"github.com/preenlabs/preen/pkg/dataset"
)

// temporalLayouts is the fixed grammar of accepted timestamp shapes,
// tried in order. Profiles may append layouts but the builtins are
// never removed.
var temporalLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
	"2006/01/02",
}

// TemporalParser bulk-parses columns classified temporal and replaces
// them with normalized timestamps. Zone-aware inputs are converted to
// UTC and the offset discarded; everything downstream works on naive
// timestamps.
//
// The coerce-to-null policy is deliberately destructive: a value that
// fails to parse becomes null even when it was a perfectly good
// non-date string in a column that merely matched the name heuristic.
// Downstream consumers depend on this behavior, so it is preserved
// rather than softened.
type TemporalParser struct {
	layouts []string
}

// NewTemporalParser creates the temporal parsing stage. Extra layouts,
// if any, are tried after the builtin ones.
func NewTemporalParser(extraLayouts ...string) *TemporalParser {
	layouts := make([]string, 0, len(temporalLayouts)+len(extraLayouts))
	layouts = append(layouts, temporalLayouts...)
	layouts = append(layouts, extraLayouts...)
	return &TemporalParser{layouts: layouts}
}

// Name returns the stage name.
func (s *TemporalParser) Name() string { return "temporal_parser" }

// Clean attempts to parse every cell of every temporal-classified
// column. If at least one cell parses, the column is replaced: parsed
// cells become timestamps and everything unparseable becomes null. A
// column where nothing parses is left exactly as it was. The success
// count is reported under parsed_to_datetime.
func (s *TemporalParser) Clean(ds *dataset.Dataset, classes map[string]dataset.Class) (*dataset.Dataset, *StageReport, error) {
	rep := NewStageReport(s.Name())

	for _, c := range ds.Columns() {
		if classes[c.Name] != dataset.ClassTemporal {
			continue
		}

		parsed := make([]dataset.Value, len(c.Cells))
		n := 0
		for i, v := range c.Cells {
			switch v.Kind() {
			case dataset.KindNull:
				parsed[i] = dataset.Null()
			case dataset.KindText:
				if t, ok := s.parse(v.Text()); ok {
					parsed[i] = dataset.Time(t)
					n++
				} else {
					parsed[i] = dataset.Null()
				}
			case dataset.KindNumber:
				// Numbers in a date-named column coerce to null like
				// any other unparseable value; there is no epoch
				// interpretation.
				parsed[i] = dataset.Null()
			case dataset.KindTime:
				parsed[i] = dataset.Time(v.Time().UTC())
				n++
			}
		}

		if n > 0 {
			c.Cells = parsed
			rep.Column(c.Name).ParsedToDatetime = Int(n)
		}
	}

	return ds, rep, nil
}

// parse tries each layout in order and normalizes the first hit to
// UTC.
func (s *TemporalParser) parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range s.layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
