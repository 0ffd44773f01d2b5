package cleaner

import (
	"regexp"
	"strings"

	"github.com/preenlabs/preen/pkg/dataset"
)

// emailPattern accepts local@domain.tld where the local part is one or
// more of letters/digits/._%+-, the domain one or more of
// letters/digits/.-, and the final label two or more letters.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// EmailNormalizer lower-cases email-classified columns and tracks how
// many values match the address pattern before and after. It
// case-normalizes, never repairs: an invalid address is lower-cased
// and left invalid.
type EmailNormalizer struct{}

// NewEmailNormalizer creates the email normalization stage.
func NewEmailNormalizer() *EmailNormalizer { return &EmailNormalizer{} }

// Name returns the stage name.
func (s *EmailNormalizer) Name() string { return "email_normalizer" }

// Clean processes every email-classified column: count pattern-valid
// cells, lower-case every text cell unconditionally, count again.
// Unlike the other stages this one always reports both counts once a
// column is touched, zeros included — absence of the keys means the
// column never matched, not that nothing was valid.
func (s *EmailNormalizer) Clean(ds *dataset.Dataset, classes map[string]dataset.Class) (*dataset.Dataset, *StageReport, error) {
	rep := NewStageReport(s.Name())

	for _, c := range ds.Columns() {
		if classes[c.Name] != dataset.ClassEmailLike {
			continue
		}

		before := countValidEmails(c)
		for i, v := range c.Cells {
			switch v.Kind() {
			case dataset.KindText:
				c.Cells[i] = dataset.Text(strings.ToLower(v.Text()))
			case dataset.KindNull, dataset.KindNumber, dataset.KindTime:
				// untouched
			}
		}
		after := countValidEmails(c)

		cc := rep.Column(c.Name)
		cc.EmailsValidBefore = Int(before)
		cc.EmailsValidAfter = Int(after)
	}

	return ds, rep, nil
}

func countValidEmails(c *dataset.Column) int {
	n := 0
	for _, v := range c.Cells {
		if v.Kind() == dataset.KindText && emailPattern.MatchString(v.Text()) {
			n++
		}
	}
	return n
}
