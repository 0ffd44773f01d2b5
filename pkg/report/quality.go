package report

import (
	"fmt"

	"github.com/preenlabs/preen/pkg/cleaner"
)

// Quality summarizes an audit as a single 0-100 score plus the three
// sub-metrics the technical narrative breaks it down into. All figures
// derive purely from the audit record.
type Quality struct {
	Score        int
	Completeness float64
	Consistency  float64
	Accuracy     float64
}

// Assess scores an audit. The score starts at 100, loses up to 30
// points for row loss not explained by deduplication, gains up to 10
// for duplicate removal and up to 15 (3 per change) for recorded
// improvements, then clamps to 0-100.
func Assess(a *cleaner.Audit) Quality {
	score := 100.0

	if a.RowsBefore > 0 {
		loss := a.RowsBefore - a.RowsAfter - a.DuplicatesRemoved
		if loss > 0 {
			score -= min(30, float64(loss)/float64(a.RowsBefore)*100)
		}
		if a.DuplicatesRemoved > 0 {
			score += min(10, float64(a.DuplicatesRemoved)/float64(a.RowsBefore)*20)
		}
	}

	improvements := 0
	for _, cc := range a.ColumnChanges {
		for _, e := range changeEntries(cc) {
			if e.key != "imputation_strategy" {
				improvements++
			}
		}
	}
	if improvements > 0 {
		score += min(15, float64(improvements)*3)
	}

	return Quality{
		Score:        int(max(0, min(100, score))),
		Completeness: completeness(a),
		Consistency:  consistency(a),
		Accuracy:     accuracy(a),
	}
}

// completeness is 100 minus the share of cells that had to be imputed.
func completeness(a *cleaner.Audit) float64 {
	if a.RowsBefore <= 0 {
		return 100
	}
	total := 0
	for _, cc := range a.ColumnChanges {
		if cc != nil && cc.ImputedMissing != nil {
			total += *cc.ImputedMissing
		}
	}
	return max(0, 100-float64(total)/float64(a.RowsBefore)*100)
}

// consistency is 100 minus the share of cells that needed format fixes
// (empty-string promotion, datetime coercion).
func consistency(a *cleaner.Audit) float64 {
	if a.RowsBefore <= 0 {
		return 100
	}
	issues := 0
	for _, cc := range a.ColumnChanges {
		if cc == nil {
			continue
		}
		if cc.NewNullsFromEmptyStrings != nil {
			issues += *cc.NewNullsFromEmptyStrings
		}
		if cc.ParsedToDatetime != nil {
			issues += *cc.ParsedToDatetime
		}
	}
	return max(0, 100-float64(issues)/float64(a.RowsBefore)*100)
}

// accuracy is 100 minus the duplicate share.
func accuracy(a *cleaner.Audit) float64 {
	if a.RowsBefore <= 0 {
		return 100
	}
	return max(0, 100-float64(a.DuplicatesRemoved)/float64(a.RowsBefore)*100)
}

// MajorIssues extracts the headline data-quality problems from the
// audit, in column order.
func MajorIssues(a *cleaner.Audit) []string {
	var issues []string
	for _, col := range a.Columns {
		cc := a.ColumnChanges[col]
		if cc == nil {
			continue
		}
		if cc.ImputedMissing != nil && *cc.ImputedMissing > 0 {
			issues = append(issues, fmt.Sprintf("Missing values in %s", col))
		}
		if cc.NewNullsFromEmptyStrings != nil && *cc.NewNullsFromEmptyStrings > 0 {
			issues = append(issues, fmt.Sprintf("Empty strings in %s", col))
		}
		if cc.ParsedToDatetime != nil && *cc.ParsedToDatetime > 0 {
			issues = append(issues, fmt.Sprintf("Date format issues in %s", col))
		}
	}
	return issues
}
