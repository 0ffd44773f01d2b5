package cleaner

import (
	"fmt"

	"github.com/preenlabs/preen/pkg/dataset"
)

// ColumnChanges records what the pipeline did to a single column. All
// sub-keys are optional on the wire: an absent key means the stage did
// not apply or had nothing to report, which is distinct from a
// reported zero. The email stage is the one stage that reports
// explicit zeros (both validity counts appear whenever the column is
// touched).
type ColumnChanges struct {
	NewNullsFromEmptyStrings *int   `json:"new_nulls_from_empty_strings,omitempty" yaml:"new_nulls_from_empty_strings,omitempty"`
	ParsedToDatetime         *int   `json:"parsed_to_datetime,omitempty" yaml:"parsed_to_datetime,omitempty"`
	EmailsValidBefore        *int   `json:"emails_valid_before,omitempty" yaml:"emails_valid_before,omitempty"`
	EmailsValidAfter         *int   `json:"emails_valid_after,omitempty" yaml:"emails_valid_after,omitempty"`
	ImputedMissing           *int   `json:"imputed_missing,omitempty" yaml:"imputed_missing,omitempty"`
	ImputationStrategy       string `json:"imputation_strategy,omitempty" yaml:"imputation_strategy,omitempty"`
}

// IsZero reports whether no change of any kind was recorded.
func (c *ColumnChanges) IsZero() bool {
	return c.NewNullsFromEmptyStrings == nil &&
		c.ParsedToDatetime == nil &&
		c.EmailsValidBefore == nil &&
		c.EmailsValidAfter == nil &&
		c.ImputedMissing == nil &&
		c.ImputationStrategy == ""
}

// merge copies the set fields of other into c. Every sub-key belongs
// to exactly one stage, so a field set on both sides means two stages
// raced on the same entry; that is a pipeline bug and errors out.
func (c *ColumnChanges) merge(other *ColumnChanges) error {
	if other.NewNullsFromEmptyStrings != nil {
		if c.NewNullsFromEmptyStrings != nil {
			return fmt.Errorf("new_nulls_from_empty_strings already set")
		}
		c.NewNullsFromEmptyStrings = other.NewNullsFromEmptyStrings
	}
	if other.ParsedToDatetime != nil {
		if c.ParsedToDatetime != nil {
			return fmt.Errorf("parsed_to_datetime already set")
		}
		c.ParsedToDatetime = other.ParsedToDatetime
	}
	if other.EmailsValidBefore != nil {
		if c.EmailsValidBefore != nil {
			return fmt.Errorf("emails_valid_before already set")
		}
		c.EmailsValidBefore = other.EmailsValidBefore
	}
	if other.EmailsValidAfter != nil {
		if c.EmailsValidAfter != nil {
			return fmt.Errorf("emails_valid_after already set")
		}
		c.EmailsValidAfter = other.EmailsValidAfter
	}
	if other.ImputedMissing != nil {
		if c.ImputedMissing != nil {
			return fmt.Errorf("imputed_missing already set")
		}
		c.ImputedMissing = other.ImputedMissing
	}
	if other.ImputationStrategy != "" {
		if c.ImputationStrategy != "" {
			return fmt.Errorf("imputation_strategy already set")
		}
		c.ImputationStrategy = other.ImputationStrategy
	}
	return nil
}

// Int returns a pointer to n, for populating ColumnChanges counts.
func Int(n int) *int { return &n }

// Audit is the structured record of every corrective action a pipeline
// run took. It is created empty when the run starts, grown additively
// as stage reports merge in, and immutable once Run returns it.
type Audit struct {
	RowsBefore        int                       `json:"rows_before" yaml:"rows_before"`
	RowsAfter         int                       `json:"rows_after" yaml:"rows_after"`
	DuplicatesRemoved int                       `json:"duplicates_removed" yaml:"duplicates_removed"`
	Columns           []string                  `json:"columns" yaml:"columns"`
	ColumnChanges     map[string]*ColumnChanges `json:"column_changes" yaml:"column_changes"`
	Issues            []string                  `json:"issues" yaml:"issues"`
}

// NewAudit creates the audit for a dataset about to be cleaned: entry
// row count captured, one empty change entry per input column (keys
// are exactly the input column names; no stage adds or removes one),
// no issues.
func NewAudit(ds *dataset.Dataset) *Audit {
	changes := make(map[string]*ColumnChanges, len(ds.Names()))
	for _, name := range ds.Names() {
		changes[name] = &ColumnChanges{}
	}
	return &Audit{
		RowsBefore:    ds.Rows(),
		Columns:       ds.Names(),
		ColumnChanges: changes,
		Issues:        make([]string, 0),
	}
}

// merge folds a stage report into the audit. Column entries must
// already exist; duplicate-removal counts accumulate; issues append.
func (a *Audit) merge(rep *StageReport) error {
	for name, cc := range rep.Columns {
		dst, ok := a.ColumnChanges[name]
		if !ok {
			return fmt.Errorf("report for unknown column %q", name)
		}
		if err := dst.merge(cc); err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}
	}
	a.DuplicatesRemoved += rep.DuplicatesRemoved
	a.Issues = append(a.Issues, rep.Issues...)
	return nil
}

// StageReport is a single stage's audit contribution. Stages populate
// their own report and never touch the shared audit, so two stages
// cannot race on the same structure.
type StageReport struct {
	Stage             string
	DuplicatesRemoved int
	Columns           map[string]*ColumnChanges
	Issues            []string
}

// NewStageReport creates an empty report for the named stage.
func NewStageReport(stage string) *StageReport {
	return &StageReport{
		Stage:   stage,
		Columns: make(map[string]*ColumnChanges),
	}
}

// Column returns the change entry for name, creating it on first use.
func (r *StageReport) Column(name string) *ColumnChanges {
	if cc, ok := r.Columns[name]; ok {
		return cc
	}
	cc := &ColumnChanges{}
	r.Columns[name] = cc
	return cc
}
