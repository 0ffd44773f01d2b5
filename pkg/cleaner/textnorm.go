package cleaner

import (
	"strings"

	"github.com/preenlabs/preen/pkg/dataset"
)

// TextNormalizer strips leading/trailing whitespace from text cells
// and promotes cells left empty to null, so downstream stages see one
// uniform missing-value sentinel instead of a mix of "" and null.
type TextNormalizer struct{}

// NewTextNormalizer creates the text normalization stage.
func NewTextNormalizer() *TextNormalizer { return &TextNormalizer{} }

// Name returns the stage name.
func (s *TextNormalizer) Name() string { return "text_normalizer" }

// Clean trims every text cell in every column, whatever its class; a
// cell that trims to the empty string becomes null. The per-column
// null delta is reported under new_nulls_from_empty_strings, only when
// non-zero. Non-text cells are never touched.
func (s *TextNormalizer) Clean(ds *dataset.Dataset, classes map[string]dataset.Class) (*dataset.Dataset, *StageReport, error) {
	rep := NewStageReport(s.Name())

	for _, c := range ds.Columns() {
		newNulls := 0
		for i, v := range c.Cells {
			switch v.Kind() {
			case dataset.KindText:
				trimmed := strings.TrimSpace(v.Text())
				if trimmed == "" {
					c.Cells[i] = dataset.Null()
					newNulls++
				} else {
					c.Cells[i] = dataset.Text(trimmed)
				}
			case dataset.KindNull, dataset.KindNumber, dataset.KindTime:
				// untouched
			}
		}
		if newNulls > 0 {
			rep.Column(c.Name).NewNullsFromEmptyStrings = Int(newNulls)
		}
	}

	return ds, rep, nil
}
