package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/preenlabs/preen/pkg/cleaner"
	"github.com/preenlabs/preen/pkg/llm"
)

// sampleAudit builds the audit of a typical small run: 10 rows in, 2
// duplicates out, imputation and parsing on two columns.
func sampleAudit() *cleaner.Audit {
	return &cleaner.Audit{
		RowsBefore:        10,
		RowsAfter:         8,
		DuplicatesRemoved: 2,
		Columns:           []string{"name", "email", "signup_date", "score"},
		ColumnChanges: map[string]*cleaner.ColumnChanges{
			"name": {NewNullsFromEmptyStrings: cleaner.Int(1)},
			"email": {
				EmailsValidBefore: cleaner.Int(3),
				EmailsValidAfter:  cleaner.Int(5),
			},
			"signup_date": {ParsedToDatetime: cleaner.Int(7)},
			"score": {
				ImputedMissing:     cleaner.Int(2),
				ImputationStrategy: "median=42.0",
			},
		},
		Issues: []string{},
	}
}

func emptyAudit() *cleaner.Audit {
	return &cleaner.Audit{
		Columns:       []string{},
		ColumnChanges: map[string]*cleaner.ColumnChanges{},
		Issues:        []string{},
	}
}

func TestMarkdown(t *testing.T) {
	got := renderMarkdown(sampleAudit(), time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	contains := []string{
		"# Data Tale Report",
		"Generated: 2024-03-01T12:00:00Z",
		"- Rows before: **10**",
		"- Rows after: **8**",
		"- Columns: **4**",
		"### Duplicates Removed: 2",
		"## Column-by-Column Changes",
		"### `score`",
		"- **Imputed Missing**: 2",
		"- **Imputation Strategy**: median=42.0",
		"- **Parsed To Datetime**: 7",
		"- **Emails Valid Before**: 3",
	}
	for _, want := range contains {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q\n%s", want, got)
		}
	}
}

func TestMarkdownSkipsZeroValues(t *testing.T) {
	a := emptyAudit()
	a.Columns = []string{"email"}
	a.ColumnChanges["email"] = &cleaner.ColumnChanges{
		EmailsValidBefore: cleaner.Int(0),
		EmailsValidAfter:  cleaner.Int(0),
	}

	got := Markdown(a)
	if strings.Contains(got, "Emails Valid") {
		t.Errorf("zero counts should be skipped in the report:\n%s", got)
	}
	if !strings.Contains(got, "### `email`") {
		t.Errorf("column heading should still appear:\n%s", got)
	}
}

func TestAssess(t *testing.T) {
	t.Run("clean run with improvements", func(t *testing.T) {
		q := Assess(sampleAudit())

		// 100 base, no unexplained loss, +4 duplicate bonus
		// (2/10*20), +15 improvement cap (5 counted changes).
		if q.Score != 100 {
			t.Errorf("expected score 100, got %d", q.Score)
		}
		// 2 imputed of 10 rows.
		if q.Completeness != 80.0 {
			t.Errorf("expected completeness 80.0, got %v", q.Completeness)
		}
		// 1 empty string + 7 parsed of 10 rows.
		if q.Consistency != 20.0 {
			t.Errorf("expected consistency 20.0, got %v", q.Consistency)
		}
		// 2 duplicates of 10 rows.
		if q.Accuracy != 80.0 {
			t.Errorf("expected accuracy 80.0, got %v", q.Accuracy)
		}
	})

	t.Run("no changes at all", func(t *testing.T) {
		a := &cleaner.Audit{
			RowsBefore:    5,
			RowsAfter:     5,
			Columns:       []string{"a"},
			ColumnChanges: map[string]*cleaner.ColumnChanges{"a": {}},
		}
		q := Assess(a)
		if q.Score != 100 {
			t.Errorf("untouched dataset should score 100, got %d", q.Score)
		}
	})

	t.Run("zero rows does not divide by zero", func(t *testing.T) {
		q := Assess(emptyAudit())
		if q.Score != 100 || q.Completeness != 100 || q.Consistency != 100 || q.Accuracy != 100 {
			t.Errorf("empty audit should score perfect, got %+v", q)
		}
	})

	t.Run("unexplained row loss deducts", func(t *testing.T) {
		a := &cleaner.Audit{
			RowsBefore:    100,
			RowsAfter:     50,
			Columns:       []string{},
			ColumnChanges: map[string]*cleaner.ColumnChanges{},
		}
		q := Assess(a)
		if q.Score != 70 {
			t.Errorf("expected 30-point cap deduction, got %d", q.Score)
		}
	})
}

func TestMajorIssues(t *testing.T) {
	issues := MajorIssues(sampleAudit())

	want := []string{
		"Missing values in score",
		"Empty strings in name",
		"Date format issues in signup_date",
	}
	for _, w := range want {
		found := false
		for _, issue := range issues {
			if issue == w {
				found = true
			}
		}
		if !found {
			t.Errorf("expected issue %q in %v", w, issues)
		}
	}

	if got := MajorIssues(emptyAudit()); len(got) != 0 {
		t.Errorf("empty audit should yield no issues, got %v", got)
	}
}

func TestStoryStyles(t *testing.T) {
	a := sampleAudit()

	tests := []struct {
		style    Style
		contains []string
		excludes []string
	}{
		{
			style: StyleExecutive,
			contains: []string{
				"# Executive Data Quality Report",
				"**Data Quality Score**: 100%",
				"10 → 8 records (-2 change)",
				"Strategic Recommendations",
			},
		},
		{
			style: StyleTechnical,
			contains: []string{
				"# Technical Data Quality Analysis Report",
				"### Column: `score`",
				"2 values imputed using median=42.0",
				"7 values parsed as datetime objects",
				"**Data Completeness**: 80.0%",
			},
		},
		{
			style: StyleCasual,
			contains: []string{
				"# Your Data Cleanup Story",
				"We found 2 duplicate records",
				"**Before**: 10 records",
				"**After**: 8 clean, reliable records",
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			got := Story(a, tt.style)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("story missing %q\n%s", want, got)
				}
			}
			for _, not := range tt.excludes {
				if strings.Contains(got, not) {
					t.Errorf("story should not contain %q", not)
				}
			}
		})
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in   string
		want Style
	}{
		{"technical", StyleTechnical},
		{"CASUAL", StyleCasual},
		{"executive", StyleExecutive},
		{"", StyleExecutive},
		{"bogus", StyleExecutive},
	}
	for _, tt := range tests {
		if got := ParseStyle(tt.in); got != tt.want {
			t.Errorf("ParseStyle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// fakeProvider returns a canned response or error.
type fakeProvider struct {
	content string
	err     error
	calls   int
}

func (f *fakeProvider) Execute(ctx context.Context, req llm.Request) (*llm.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Content: f.content, Model: "fake-model"}, nil
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-model" }

func TestEnhancer(t *testing.T) {
	short := "## Short story\nOnly 2 rows changed."

	t.Run("expands short stories", func(t *testing.T) {
		enhanced := strings.Repeat("Much richer narrative. ", 20)
		p := &fakeProvider{content: enhanced}
		e := NewEnhancer(p)

		got := e.Enhance(context.Background(), short, StyleExecutive)
		if got != strings.TrimSpace(enhanced) {
			t.Errorf("expected enhanced story, got %q", got)
		}
		if p.calls != 1 {
			t.Errorf("expected 1 provider call, got %d", p.calls)
		}
	})

	t.Run("long stories pass through untouched", func(t *testing.T) {
		long := strings.Repeat("x", 600)
		p := &fakeProvider{content: "should not be used"}
		e := NewEnhancer(p)

		if got := e.Enhance(context.Background(), long, StyleCasual); got != long {
			t.Error("long story should not be enhanced")
		}
		if p.calls != 0 {
			t.Errorf("expected no provider calls, got %d", p.calls)
		}
	})

	t.Run("provider failure falls back to template", func(t *testing.T) {
		p := &fakeProvider{err: errors.New("boom")}
		e := NewEnhancer(p)

		if got := e.Enhance(context.Background(), short, StyleTechnical); got != short {
			t.Error("failure should fall back to the template story")
		}
	})

	t.Run("shorter output is discarded", func(t *testing.T) {
		p := &fakeProvider{content: "tiny"}
		e := NewEnhancer(p)

		if got := e.Enhance(context.Background(), short, StyleExecutive); got != short {
			t.Error("output shorter than the template should be discarded")
		}
	})

	t.Run("nil provider is a no-op", func(t *testing.T) {
		var e *Enhancer
		if got := e.Enhance(context.Background(), short, StyleExecutive); got != short {
			t.Error("nil enhancer should return the story unchanged")
		}
	})
}
