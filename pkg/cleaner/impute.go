package cleaner

import (
	"fmt"
	"time"

	"github.com/preenlabs/preen/pkg/dataset"
)

// Imputer fills every remaining null with a statistic derived from the
// column's surviving values: the median for numeric columns, the most
// frequent value for temporal and textual ones. It is the terminal
// stage; after it runs the dataset contains no nulls at all.
type Imputer struct {
	// TextFallback fills textual columns that hold no non-null value
	// to take a mode from. Defaults to "Unknown".
	TextFallback string
}

// NewImputer creates the imputation stage with the default fallback.
func NewImputer() *Imputer { return &Imputer{TextFallback: "Unknown"} }

// Name returns the stage name.
func (s *Imputer) Name() string { return "imputer" }

// Clean fills nulls column by column, branching on the column's
// runtime type at imputation time (a date-named column where nothing
// parsed is still textual here, and imputes as text):
//
//   - numeric: median of the non-null values, even counts averaging
//     the middle pair; imputation_strategy embeds the value
//     ("median=15.0").
//   - temporal: most frequent timestamp, ties resolving to the
//     earliest; strategy is "mode (datetime)".
//   - textual and everything else, all-null columns included: most
//     frequent value, ties resolving to the lexicographically first;
//     all-null columns take the fallback; strategy embeds the value
//     ("mode='Unknown'").
//
// Columns with no nulls are untouched and report nothing.
func (s *Imputer) Clean(ds *dataset.Dataset, classes map[string]dataset.Class) (*dataset.Dataset, *StageReport, error) {
	rep := NewStageReport(s.Name())

	for _, c := range ds.Columns() {
		if c.NullCount() == 0 {
			continue
		}

		var (
			fill     dataset.Value
			strategy string
		)
		switch runtimeKind(c) {
		case dataset.KindNumber:
			med := median(columnNumbers(c))
			fill = dataset.Number(med)
			strategy = "median=" + dataset.FormatNumber(med)
		case dataset.KindTime:
			mode, ok := timeMode(columnTimes(c))
			if !ok {
				mode = time.Time{} // unset marker
			}
			fill = dataset.Time(mode)
			strategy = "mode (datetime)"
		case dataset.KindText, dataset.KindNull:
			mode, ok := valueMode(c.Cells)
			if !ok {
				mode = dataset.Text(s.TextFallback)
			}
			fill = mode
			strategy = fmt.Sprintf("mode='%s'", mode.String())
		}

		filled := 0
		for i, v := range c.Cells {
			if v.IsNull() {
				c.Cells[i] = fill
				filled++
			}
		}

		cc := rep.Column(c.Name)
		cc.ImputedMissing = Int(filled)
		cc.ImputationStrategy = strategy
	}

	return ds, rep, nil
}

// runtimeKind reports a column's effective type at imputation time:
// KindNumber when every non-null cell is a number, KindTime when every
// non-null cell is a timestamp, KindText otherwise. Entirely-null
// columns report KindNull and take the textual branch.
func runtimeKind(c *dataset.Column) dataset.Kind {
	var numbers, times, nonNull int
	for _, v := range c.Cells {
		switch v.Kind() {
		case dataset.KindNull:
			// not counted
		case dataset.KindNumber:
			numbers++
			nonNull++
		case dataset.KindTime:
			times++
			nonNull++
		case dataset.KindText:
			nonNull++
		}
	}
	switch {
	case nonNull == 0:
		return dataset.KindNull
	case numbers == nonNull:
		return dataset.KindNumber
	case times == nonNull:
		return dataset.KindTime
	default:
		return dataset.KindText
	}
}

func columnNumbers(c *dataset.Column) []float64 {
	out := make([]float64, 0, len(c.Cells))
	for _, v := range c.Cells {
		if v.Kind() == dataset.KindNumber {
			out = append(out, v.Number())
		}
	}
	return out
}

func columnTimes(c *dataset.Column) []time.Time {
	out := make([]time.Time, 0, len(c.Cells))
	for _, v := range c.Cells {
		if v.Kind() == dataset.KindTime {
			out = append(out, v.Time())
		}
	}
	return out
}
