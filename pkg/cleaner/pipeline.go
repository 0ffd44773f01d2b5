package cleaner

import (
	"fmt"
	"strings"

	"github.com/preenlabs/preen/pkg/dataset"
)

// Pipeline applies stages in a fixed order and owns the audit record.
// Later stages depend on earlier normalization, so the order is part
// of the contract: text normalization, temporal parsing, email
// normalization, deduplication, imputation.
type Pipeline struct {
	stages   []Stage
	classify ClassifierFunc
}

// ClassifierFunc tags every column before the stages run. The default
// is dataset.ClassifyAll; cleaning profiles substitute a hint-aware
// classifier.
type ClassifierFunc func(*dataset.Dataset) map[string]dataset.Class

// NewPipeline creates a pipeline over the given stages, applied in the
// order provided.
//
// Example:
//
//	p := cleaner.NewPipeline(
//	    cleaner.NewTextNormalizer(),
//	    cleaner.NewDeduplicator(),
//	)
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages, classify: dataset.ClassifyAll}
}

// WithClassifier substitutes the column classifier and returns the
// pipeline for chaining.
func (p *Pipeline) WithClassifier(fn ClassifierFunc) *Pipeline {
	if fn != nil {
		p.classify = fn
	}
	return p
}

// Default returns the standard five-stage pipeline.
func Default() *Pipeline {
	return NewPipeline(
		NewTextNormalizer(),
		NewTemporalParser(),
		NewEmailNormalizer(),
		NewDeduplicator(),
		NewImputer(),
	)
}

// Stages returns the stages in application order.
func (p *Pipeline) Stages() []Stage {
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

// Name returns the composed stage names for logging/debugging.
func (p *Pipeline) Name() string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return "pipeline(" + strings.Join(names, "->") + ")"
}

// Run cleans the dataset and returns it with the completed audit.
//
// The run is synchronous and single-threaded: columns are classified
// once up front, then each stage takes ownership of the dataset in
// turn and hands back a report that Run merges into the audit. The
// dataset is mutated in place, so callers that need the original
// intact must pass a Clone. After Run returns, the audit satisfies
// rows_after == rows_before - duplicates_removed and the dataset
// contains no null values.
func (p *Pipeline) Run(ds *dataset.Dataset) (*dataset.Dataset, *Audit, error) {
	audit := NewAudit(ds)
	classes := p.classify(ds)

	for _, stage := range p.stages {
		var (
			rep *StageReport
			err error
		)
		ds, rep, err = stage.Clean(ds, classes)
		if err != nil {
			return nil, nil, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		if err := audit.merge(rep); err != nil {
			return nil, nil, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
	}

	audit.RowsAfter = ds.Rows()
	audit.Columns = ds.Names()
	return ds, audit, nil
}
