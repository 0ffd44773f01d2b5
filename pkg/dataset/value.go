package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the display layout for timestamps. Stored timestamps
// are naive (zone information is discarded on parse), so the layout
// carries no offset.
const TimeLayout = "2006-01-02 15:04:05"

// Kind identifies the runtime type of a cell value.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindTime
)

// String returns the kind name for logging/debugging.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return "invalid"
	}
}

// Value is a tagged scalar cell. Null is a first-class sentinel,
// distinct from the empty string. The zero Value is null.
type Value struct {
	kind Kind
	text string
	num  float64
	ts   time.Time
}

// Null returns the null sentinel.
func Null() Value { return Value{} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Time returns a timestamp value. Callers convert zone-aware inputs to
// UTC before wrapping; the stored instant is treated as naive.
func Time(t time.Time) Value { return Value{kind: KindTime, ts: t} }

// Kind returns the value's type tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is the null sentinel.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Text returns the text content; empty unless Kind is KindText.
func (v Value) Text() string { return v.text }

// Number returns the numeric content; zero unless Kind is KindNumber.
func (v Value) Number() float64 { return v.num }

// Time returns the timestamp content; zero time unless Kind is KindTime.
func (v Value) Time() time.Time { return v.ts }

// Equal reports whether two values are equal. Null equals null; values
// of different kinds are never equal. Numbers compare as float64 with
// no representation normalization, so 1.0 and 1 loaded under different
// inferences stay distinct if their kinds differ.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	case KindTime:
		return v.ts.Equal(o.ts)
	default:
		return false
	}
}

// String renders the value for display and CSV output: text as-is,
// numbers in minimal float form with a trailing ".0" on integral
// values, timestamps in TimeLayout, null as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindText:
		return v.text
	case KindNumber:
		return FormatNumber(v.num)
	case KindTime:
		return v.ts.Format(TimeLayout)
	default:
		return ""
	}
}

// Interface returns the value as a native Go type for generic
// serializers: nil, string, float64, or time.Time.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindText:
		return v.text
	case KindNumber:
		return v.num
	case KindTime:
		return v.ts
	default:
		return nil
	}
}

// FormatNumber renders a float with the fewest digits that round-trip,
// keeping a trailing ".0" on integral values so numeric text stays
// recognizably numeric (15 renders as "15.0").
func FormatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
