// Package cleaner implements the deterministic cleaning pipeline: a
// fixed sequence of stages that normalize, deduplicate, and impute a
// tabular dataset while recording every corrective action in an audit
// record.
package cleaner

import (
	"github.com/preenlabs/preen/pkg/dataset"
)

// Stage is one pass of the cleaning pipeline. A stage takes ownership
// of the dataset, mutates or replaces it, and hands it back together
// with a report of what it changed. Stages never write to a shared
// audit; the pipeline merges their reports.
//
// Per-value failures (unparseable timestamp, malformed email) degrade
// to null or are left as-is and surface only in the report, never as
// an error. A stage errors only on conditions that make the dataset
// unusable for the stages after it.
type Stage interface {
	// Clean transforms the dataset. The classes map is the column
	// classification computed once before the pipeline started;
	// stages dispatch on it instead of re-deriving name heuristics.
	Clean(ds *dataset.Dataset, classes map[string]dataset.Class) (*dataset.Dataset, *StageReport, error)

	// Name returns the stage name for logging/debugging.
	Name() string
}
