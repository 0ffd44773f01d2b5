// Package report renders an audit record into human-readable form: a
// markdown report for download, narrative stories in three styles, and
// a derived data-quality score. Everything here is a read-only
// consumer of the audit; absent column-change keys mean "no change of
// that kind" and are simply skipped.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/preenlabs/preen/pkg/cleaner"
)

// changeEntry is one reportable column-change key/value pair.
type changeEntry struct {
	key   string
	value string
}

// changeEntries lists the set, non-empty sub-keys of a column change
// entry in canonical order. Zero counts are skipped: the report shows
// what happened, and a zero (the email stage reports explicit zeros)
// is nothing happening.
func changeEntries(cc *cleaner.ColumnChanges) []changeEntry {
	if cc == nil {
		return nil
	}
	var entries []changeEntry
	add := func(key string, v *int) {
		if v != nil && *v != 0 {
			entries = append(entries, changeEntry{key, fmt.Sprintf("%d", *v)})
		}
	}
	add("new_nulls_from_empty_strings", cc.NewNullsFromEmptyStrings)
	add("parsed_to_datetime", cc.ParsedToDatetime)
	add("emails_valid_before", cc.EmailsValidBefore)
	add("emails_valid_after", cc.EmailsValidAfter)
	add("imputed_missing", cc.ImputedMissing)
	if cc.ImputationStrategy != "" {
		entries = append(entries, changeEntry{"imputation_strategy", cc.ImputationStrategy})
	}
	return entries
}

// titleCase renders an audit key as a heading: underscores to spaces,
// every word capitalized ("imputed_missing" -> "Imputed Missing").
func titleCase(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Markdown renders the audit as a downloadable markdown report.
func Markdown(a *cleaner.Audit) string {
	return renderMarkdown(a, time.Now().UTC())
}

func renderMarkdown(a *cleaner.Audit, now time.Time) string {
	var b strings.Builder

	b.WriteString("# Data Tale Report\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Generated: %sZ\n", now.Format("2006-01-02T15:04:05.999999"))
	b.WriteString("\n")
	b.WriteString("## Dataset Overview\n")
	fmt.Fprintf(&b, "- Rows before: **%d**\n", a.RowsBefore)
	fmt.Fprintf(&b, "- Rows after: **%d**\n", a.RowsAfter)
	fmt.Fprintf(&b, "- Columns: **%d**\n", len(a.Columns))
	b.WriteString("\n")
	fmt.Fprintf(&b, "### Duplicates Removed: %d\n", a.DuplicatesRemoved)
	b.WriteString("\n")
	b.WriteString("## Column-by-Column Changes\n")

	for _, col := range a.Columns {
		fmt.Fprintf(&b, "### `%s`\n", col)
		for _, e := range changeEntries(a.ColumnChanges[col]) {
			fmt.Fprintf(&b, "- **%s**: %s\n", titleCase(e.key), e.value)
		}
		b.WriteString("\n")
	}

	if len(a.Issues) > 0 {
		b.WriteString("## Unresolved Issues\n")
		for _, issue := range a.Issues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
