package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/preenlabs/preen/pkg/dataset"
)

// Test document structure
type testDoc struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

// testDataset builds a small mixed-type dataset.
func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		&dataset.Column{Name: "name", Cells: []dataset.Value{
			dataset.Text("Alice"), dataset.Text("Bob"),
		}},
		&dataset.Column{Name: "score", Cells: []dataset.Value{
			dataset.Number(88.5), dataset.Number(15),
		}},
		&dataset.Column{Name: "created_at", Cells: []dataset.Value{
			dataset.Time(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
			dataset.Null(),
		}},
	)
	if err != nil {
		t.Fatalf("failed to build dataset: %v", err)
	}
	return ds
}

// --- Factory Tests ---

func TestNewWriter_JSON(t *testing.T) {
	w, err := NewWriter(&bytes.Buffer{}, FormatJSON)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if _, ok := w.(*JSONWriter); !ok {
		t.Errorf("expected *JSONWriter, got %T", w)
	}
}

func TestNewWriter_JSONL(t *testing.T) {
	w, err := NewWriter(&bytes.Buffer{}, FormatJSONL)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if _, ok := w.(*JSONLWriter); !ok {
		t.Errorf("expected *JSONLWriter, got %T", w)
	}
}

func TestNewWriter_YAML(t *testing.T) {
	w, err := NewWriter(&bytes.Buffer{}, FormatYAML)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if _, ok := w.(*YAMLWriter); !ok {
		t.Errorf("expected *YAMLWriter, got %T", w)
	}
}

func TestNewWriter_RejectsTabularFormats(t *testing.T) {
	for _, f := range []Format{FormatCSV, FormatXLSX} {
		if _, err := NewWriter(&bytes.Buffer{}, f); err == nil {
			t.Errorf("expected error for document writer with format %s", f)
		}
	}
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Format("toml"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected error containing 'unsupported', got %v", err)
	}
}

func TestNewDatasetWriter_AllFormats(t *testing.T) {
	for _, f := range []Format{FormatCSV, FormatXLSX, FormatJSON, FormatJSONL, FormatYAML} {
		if _, err := NewDatasetWriter(&bytes.Buffer{}, f); err != nil {
			t.Errorf("NewDatasetWriter(%s) error = %v", f, err)
		}
	}
	if _, err := NewDatasetWriter(&bytes.Buffer{}, Format("parquet")); err == nil {
		t.Error("expected error for unsupported dataset format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "json", want: FormatJSON},
		{in: "JSON", want: FormatJSON},
		{in: "ndjson", want: FormatJSONL},
		{in: "yml", want: FormatYAML},
		{in: " csv ", want: FormatCSV},
		{in: "excel", want: FormatXLSX},
		{in: "parquet", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

// --- JSONWriter Tests ---

func TestJSONWriter_SingleDocumentIsNotWrappedInArray(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true, "  ")

	if err := w.Write(testDoc{Name: "audit", Value: 1}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var doc testDoc
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if doc.Name != "audit" || doc.Value != 1 {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestJSONWriter_MultipleDocumentsBecomeArray(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false, "")

	if err := w.WriteAll([]any{
		testDoc{Name: "a", Value: 1},
		testDoc{Name: "b", Value: 2},
	}); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	var docs []testDoc
	if err := json.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if len(docs) != 2 || docs[0].Name != "a" || docs[1].Name != "b" {
		t.Errorf("unexpected documents: %+v", docs)
	}
}

func TestJSONWriter_CompactIsSingleLine(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false, "")

	if err := w.Write(testDoc{Name: "x", Value: 1}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("expected single line, got %d", len(lines))
	}
}

func TestJSONWriter_PrettyIndents(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true, "\t")

	if err := w.Write(testDoc{Name: "x", Value: 1}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if !strings.Contains(buf.String(), "\t") {
		t.Errorf("expected tab indentation, got %q", buf.String())
	}
}

// --- JSONLWriter Tests ---

func TestJSONLWriter_OneLinePerDocument(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONLWriter(buf)

	if err := w.Write(testDoc{Name: "first", Value: 1}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Write(testDoc{Name: "second", Value: 2}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	for i, line := range lines {
		var doc testDoc
		if err := json.Unmarshal([]byte(line), &doc); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
	}
}

// --- YAMLWriter Tests ---

func TestYAMLWriter_SingleDocument(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf)

	if err := w.Write(testDoc{Name: "audit", Value: 9}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var doc testDoc
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if doc.Name != "audit" || doc.Value != 9 {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestYAMLWriter_MultipleDocumentsBecomeSequence(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf)

	if err := w.Write(testDoc{Name: "a", Value: 1}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Write(testDoc{Name: "b", Value: 2}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var docs []testDoc
	if err := yaml.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
}

// --- CSVWriter Tests ---

func TestCSVWriter_WriteDataset(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewCSVWriter(buf)

	if err := w.WriteDataset(testDataset(t)); err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	want := "name,score,created_at\n" +
		"Alice,88.5,2023-01-01 00:00:00\n" +
		"Bob,15.0,\n"
	if buf.String() != want {
		t.Errorf("unexpected CSV output:\ngot:  %q\nwant: %q", buf.String(), want)
	}
}

func TestCSVWriter_QuotesFieldsWithCommas(t *testing.T) {
	ds, err := dataset.New(&dataset.Column{Name: "note", Cells: []dataset.Value{
		dataset.Text("hello, world"),
	}})
	if err != nil {
		t.Fatalf("failed to build dataset: %v", err)
	}

	buf := &bytes.Buffer{}
	w := NewCSVWriter(buf)
	if err := w.WriteDataset(ds); err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}

	if !strings.Contains(buf.String(), `"hello, world"`) {
		t.Errorf("expected quoted field, got %q", buf.String())
	}
}

// --- ExcelWriter Tests ---

func TestExcelWriter_RoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewExcelWriter(buf)

	if err := w.WriteDataset(testDataset(t)); err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}
	defer w.Close()

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(excelSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "name" || rows[0][1] != "score" || rows[0][2] != "created_at" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "Alice" {
		t.Errorf("expected Alice in first data row, got %v", rows[1])
	}
	if rows[1][2] != "2023-01-01 00:00:00" {
		t.Errorf("expected wire-format timestamp, got %q", rows[1][2])
	}
}

// --- Record Orientation Tests ---

func TestDatasetWriter_JSONRecords(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewDatasetWriter(buf, FormatJSON)
	if err != nil {
		t.Fatalf("NewDatasetWriter() error = %v", err)
	}

	if err := w.WriteDataset(testDataset(t)); err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("failed to unmarshal records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["name"] != "Alice" {
		t.Errorf("expected name Alice, got %v", records[0]["name"])
	}
	if records[0]["score"] != 88.5 {
		t.Errorf("expected score 88.5, got %v", records[0]["score"])
	}
	if records[1]["created_at"] != nil {
		t.Errorf("expected null cell to serialize as null, got %v", records[1]["created_at"])
	}
}

// --- cellString Tests ---

func TestCellString(t *testing.T) {
	tests := []struct {
		name string
		in   dataset.Value
		want string
	}{
		{name: "null is empty", in: dataset.Null(), want: ""},
		{name: "text verbatim", in: dataset.Text("hi"), want: "hi"},
		{name: "whole number keeps decimal", in: dataset.Number(15), want: "15.0"},
		{name: "fraction unchanged", in: dataset.Number(88.5), want: "88.5"},
		{
			name: "time uses wire layout",
			in:   dataset.Time(time.Date(2023, 6, 15, 14, 30, 0, 0, time.UTC)),
			want: "2023-06-15 14:30:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cellString(tt.in); got != tt.want {
				t.Errorf("cellString() = %q, want %q", got, tt.want)
			}
		})
	}
}
