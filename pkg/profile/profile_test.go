package profile

import (
	"strings"
	"testing"

	"github.com/preenlabs/preen/pkg/dataset"
)

func TestDefaultProfilePipeline(t *testing.T) {
	p := Default()
	got := p.Pipeline().Name()
	want := "pipeline(text_normalizer->temporal_parser->email_normalizer->deduplicator->imputer)"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFromYAML(t *testing.T) {
	t.Run("full profile", func(t *testing.T) {
		doc := []byte(`
name: contacts
description: cleaning rules for the contacts export
stages:
  deduplicator: false
temporal_columns:
  - last_seen
email_columns:
  - contact
temporal_formats:
  - "02.01.2006"
text_fallback: missing
`)
		p, err := FromYAML(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Name != "contacts" {
			t.Errorf("expected name 'contacts', got %q", p.Name)
		}
		name := p.Pipeline().Name()
		if strings.Contains(name, "deduplicator") {
			t.Errorf("deduplicator should be disabled: %s", name)
		}
		if !strings.Contains(name, "imputer") {
			t.Errorf("imputer should stay enabled: %s", name)
		}
	})

	t.Run("bad yaml", func(t *testing.T) {
		if _, err := FromYAML([]byte("stages: [not a map")); err == nil {
			t.Fatal("expected error for malformed YAML")
		}
	})

	t.Run("layout without reference year rejected", func(t *testing.T) {
		_, err := FromYAML([]byte("temporal_formats: [\"01/02/2017\"]"))
		if err == nil {
			t.Fatal("expected validation error for bad layout")
		}
		if !strings.Contains(err.Error(), "timelayout") {
			t.Errorf("expected timelayout failure, got %v", err)
		}
	})
}

func TestFromJSON(t *testing.T) {
	p, err := FromJSON([]byte(`{"name":"orders","temporal_columns":["shipped"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.TemporalColumns) != 1 || p.TemporalColumns[0] != "shipped" {
		t.Errorf("unexpected temporal columns: %v", p.TemporalColumns)
	}

	if _, err := FromJSON([]byte(`{bad`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestProfileClassifierHints(t *testing.T) {
	p := &Profile{TemporalColumns: []string{"last_seen"}}

	ds, err := dataset.New(
		&dataset.Column{Name: "last_seen", Cells: []dataset.Value{dataset.Text("2023-01-01")}},
		&dataset.Column{Name: "note", Cells: []dataset.Value{dataset.Text("hello")}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, audit, err := p.Pipeline().Run(ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cc := audit.ColumnChanges["last_seen"]
	if cc.ParsedToDatetime == nil || *cc.ParsedToDatetime != 1 {
		t.Errorf("hinted column should have been parsed: %+v", cc)
	}
	if !audit.ColumnChanges["note"].IsZero() {
		t.Errorf("unhinted column should be untouched: %+v", audit.ColumnChanges["note"])
	}
}

func TestNilProfilePipeline(t *testing.T) {
	var p *Profile
	if p.Pipeline() == nil {
		t.Fatal("nil profile should yield the default pipeline")
	}
}
