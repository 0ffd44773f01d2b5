package cleaner

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/preenlabs/preen/pkg/dataset"
)

func TestColumnChangesMerge(t *testing.T) {
	t.Run("disjoint fields combine", func(t *testing.T) {
		dst := &ColumnChanges{NewNullsFromEmptyStrings: Int(2)}
		src := &ColumnChanges{ImputedMissing: Int(2), ImputationStrategy: "mode='x'"}

		if err := dst.merge(src); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dst.NewNullsFromEmptyStrings == nil || *dst.NewNullsFromEmptyStrings != 2 {
			t.Error("existing field lost in merge")
		}
		if dst.ImputedMissing == nil || *dst.ImputedMissing != 2 {
			t.Error("merged field missing")
		}
		if dst.ImputationStrategy != "mode='x'" {
			t.Errorf("expected strategy 'mode='x'', got %q", dst.ImputationStrategy)
		}
	})

	t.Run("same field twice errors", func(t *testing.T) {
		dst := &ColumnChanges{ParsedToDatetime: Int(1)}
		src := &ColumnChanges{ParsedToDatetime: Int(2)}

		err := dst.merge(src)
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "parsed_to_datetime") {
			t.Errorf("expected error to name the sub-key, got %v", err)
		}
	})

	t.Run("zero value is zero", func(t *testing.T) {
		if !(&ColumnChanges{}).IsZero() {
			t.Error("empty entry should be zero")
		}
		if (&ColumnChanges{EmailsValidBefore: Int(0)}).IsZero() {
			t.Error("explicit zero count is a recorded change, not absence")
		}
	})
}

func TestAuditJSON(t *testing.T) {
	tests := []struct {
		name     string
		cols     []*dataset.Column
		contains []string
		excludes []string
	}{
		{
			name: "untouched column serializes as empty object",
			cols: []*dataset.Column{
				tcol("email", dataset.Text("A@X.COM"), dataset.Text("bad"), dataset.Null()),
				tcol("score", dataset.Number(1), dataset.Null(), dataset.Number(3)),
				tcol("note", dataset.Text("ok"), dataset.Text("ok"), dataset.Text("meh")),
			},
			contains: []string{
				`"rows_before":3`,
				`"rows_after":3`,
				`"duplicates_removed":0`,
				`"emails_valid_before":1`,
				`"emails_valid_after":1`,
				`"median=2.0"`,
				`"note":{}`,
				`"issues":[]`,
			},
			excludes: []string{
				`"parsed_to_datetime"`,
				`"new_nulls_from_empty_strings"`,
			},
		},
		{
			name: "email zeros are written out",
			cols: []*dataset.Column{
				tcol("email", dataset.Text("nope"), dataset.Text("also nope")),
			},
			contains: []string{
				`"emails_valid_before":0`,
				`"emails_valid_after":0`,
			},
		},
		{
			name: "clean input reports nothing per column",
			cols: []*dataset.Column{
				tcol("id", dataset.Number(1), dataset.Number(2)),
			},
			contains: []string{
				`"id":{}`,
				`"columns":["id"]`,
			},
			excludes: []string{
				`"imputed_missing"`,
				`"imputation_strategy"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := mustDataset(t, tt.cols...)
			_, audit, err := Default().Run(ds)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			raw, err := json.Marshal(audit)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			got := string(raw)

			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected JSON to contain %q\ngot: %s", want, got)
				}
			}
			for _, not := range tt.excludes {
				if strings.Contains(got, not) {
					t.Errorf("expected JSON to exclude %q\ngot: %s", not, got)
				}
			}
		})
	}
}

func TestNewAudit(t *testing.T) {
	ds := mustDataset(t,
		tcol("a", dataset.Text("x")),
		tcol("b", dataset.Number(1)),
	)

	audit := NewAudit(ds)
	if audit.RowsBefore != 1 {
		t.Errorf("expected rows_before = 1, got %d", audit.RowsBefore)
	}
	if len(audit.ColumnChanges) != 2 {
		t.Fatalf("expected one entry per column, got %d", len(audit.ColumnChanges))
	}
	for name, cc := range audit.ColumnChanges {
		if !cc.IsZero() {
			t.Errorf("entry %q not empty at start", name)
		}
	}
	if audit.Issues == nil {
		t.Error("issues should start as an empty slice, not nil")
	}
}
