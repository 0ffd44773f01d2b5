package cleaner

import (
	"testing"

	"github.com/preenlabs/preen/pkg/dataset"
)

func TestEmailPattern(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"user@example.com", true},
		{"USER.NAME+tag@ex-ample.co", true},
		{"a_b%c@sub.domain.org", true},
		{"a@b.co", true},
		{"bad", false},
		{"@example.com", false},
		{"a@b", false},
		{"a@b.c", false},
		{"a b@c.com", false},
		{"a@b.com ", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := emailPattern.MatchString(tt.in); got != tt.valid {
				t.Errorf("match(%q) = %v, want %v", tt.in, got, tt.valid)
			}
		})
	}
}

func TestEmailNormalizerClean(t *testing.T) {
	t.Run("lower-cases and tracks validity", func(t *testing.T) {
		ds := mustDataset(t, tcol("email",
			dataset.Text("A@B.COM"),
			dataset.Text("bad"),
			dataset.Null(),
		))

		ds, rep, err := NewEmailNormalizer().Clean(ds, dataset.ClassifyAll(ds))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		c, _ := ds.Column("email")
		if c.Cells[0].Text() != "a@b.com" {
			t.Errorf("expected 'a@b.com', got %q", c.Cells[0].Text())
		}
		if c.Cells[1].Text() != "bad" {
			t.Errorf("expected 'bad' untouched by lower-casing, got %q", c.Cells[1].Text())
		}
		if !c.Cells[2].IsNull() {
			t.Error("expected null to stay null")
		}

		cc := rep.Columns["email"]
		if cc == nil {
			t.Fatal("expected report entry for email column")
		}
		if cc.EmailsValidBefore == nil || *cc.EmailsValidBefore != 1 {
			t.Errorf("expected emails_valid_before = 1, got %v", cc.EmailsValidBefore)
		}
		if cc.EmailsValidAfter == nil || *cc.EmailsValidAfter != 1 {
			t.Errorf("expected emails_valid_after = 1, got %v", cc.EmailsValidAfter)
		}
	})

	t.Run("always emits both keys even when zero", func(t *testing.T) {
		ds := mustDataset(t, tcol("contact_email", dataset.Text("nope")))

		_, rep, err := NewEmailNormalizer().Clean(ds, dataset.ClassifyAll(ds))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cc := rep.Columns["contact_email"]
		if cc == nil {
			t.Fatal("expected report entry")
		}
		if cc.EmailsValidBefore == nil || *cc.EmailsValidBefore != 0 {
			t.Errorf("expected explicit zero before-count, got %v", cc.EmailsValidBefore)
		}
		if cc.EmailsValidAfter == nil || *cc.EmailsValidAfter != 0 {
			t.Errorf("expected explicit zero after-count, got %v", cc.EmailsValidAfter)
		}
	})

	t.Run("case normalization can validate, never repair", func(t *testing.T) {
		ds := mustDataset(t, tcol("email",
			dataset.Text("GOOD@EXAMPLE.COM"),
			dataset.Text("broken@"),
		))

		ds, rep, err := NewEmailNormalizer().Clean(ds, dataset.ClassifyAll(ds))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		c, _ := ds.Column("email")
		if c.Cells[1].Text() != "broken@" {
			t.Errorf("expected invalid value only case-folded, got %q", c.Cells[1].Text())
		}
		cc := rep.Columns["email"]
		if *cc.EmailsValidBefore != 1 || *cc.EmailsValidAfter != 1 {
			t.Errorf("expected 1/1, got %d/%d", *cc.EmailsValidBefore, *cc.EmailsValidAfter)
		}
	})

	t.Run("non-email columns untouched", func(t *testing.T) {
		ds := mustDataset(t, tcol("name", dataset.Text("UPPER")))

		ds, rep, err := NewEmailNormalizer().Clean(ds, dataset.ClassifyAll(ds))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		c, _ := ds.Column("name")
		if c.Cells[0].Text() != "UPPER" {
			t.Error("expected non-email column left alone")
		}
		if len(rep.Columns) != 0 {
			t.Errorf("expected empty report, got %v", rep.Columns)
		}
	})
}
