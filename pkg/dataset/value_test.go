package dataset

import (
	"testing"
	"time"
)

func TestValueKinds(t *testing.T) {
	t.Run("zero value is null", func(t *testing.T) {
		var v Value
		if !v.IsNull() {
			t.Error("expected zero Value to be null")
		}
		if v.Kind() != KindNull {
			t.Errorf("expected KindNull, got %v", v.Kind())
		}
	})

	t.Run("constructors tag kinds", func(t *testing.T) {
		if Text("x").Kind() != KindText {
			t.Error("expected KindText")
		}
		if Number(1.5).Kind() != KindNumber {
			t.Error("expected KindNumber")
		}
		if Time(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)).Kind() != KindTime {
			t.Error("expected KindTime")
		}
		if Null().Kind() != KindNull {
			t.Error("expected KindNull")
		}
	})

	t.Run("accessors return content", func(t *testing.T) {
		if got := Text("hello").Text(); got != "hello" {
			t.Errorf("expected 'hello', got %q", got)
		}
		if got := Number(42.5).Number(); got != 42.5 {
			t.Errorf("expected 42.5, got %v", got)
		}
		ts := time.Date(2023, 6, 15, 12, 30, 0, 0, time.UTC)
		if got := Time(ts).Time(); !got.Equal(ts) {
			t.Errorf("expected %v, got %v", ts, got)
		}
	})
}

func TestValueEqual(t *testing.T) {
	ts := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"null equals null", Null(), Null(), true},
		{"null differs from empty text", Null(), Text(""), false},
		{"equal text", Text("a"), Text("a"), true},
		{"case-sensitive text", Text("a"), Text("A"), false},
		{"equal numbers", Number(1.0), Number(1.0), true},
		{"different numbers", Number(1.0), Number(2.0), false},
		{"number never equals numeric text", Number(1.0), Text("1"), false},
		{"equal times", Time(ts), Time(ts), true},
		{"same instant different zone", Time(ts), Time(ts.In(time.FixedZone("x", 3600))), true},
		{"different times", Time(ts), Time(ts.Add(time.Hour)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null renders empty", Null(), ""},
		{"text as-is", Text(" padded "), " padded "},
		{"integral number keeps .0", Number(15), "15.0"},
		{"fractional number minimal", Number(3.5), "3.5"},
		{"negative number", Number(-2), "-2.0"},
		{"timestamp naive layout", Time(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)), "2023-01-01 00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{15, "15.0"},
		{15.5, "15.5"},
		{0, "0.0"},
		{-0.25, "-0.25"},
		{1000000, "1000000.0"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
