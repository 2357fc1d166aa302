package coercer

import (
	"testing"
	"time"

	"aceintel/domain/record"
)

func TestCoerce_Numeric(t *testing.T) {
	c := New()

	cases := map[string]float64{
		"12.5":  12.5,
		" 7 ":   7,
		"1,250": 1250,
		"(3.5)": -3.5,
		"85%":   85,
		"-0.25": -0.25,
		"1.2e3": 1200,
		"0":     0,
	}

	for input, want := range cases {
		v := c.Coerce(input)
		if !v.IsNumeric() {
			t.Errorf("Coerce(%q): expected numeric, got %s", input, v.Type)
			continue
		}
		if v.AsFloat64() != want {
			t.Errorf("Coerce(%q) = %v, want %v", input, v.AsFloat64(), want)
		}
	}
}

func TestCoerce_Timestamp(t *testing.T) {
	c := New()

	cases := map[string]time.Time{
		"2024-01-01":       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"2024-01-01T08:00": time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		"01/15/2024":       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	for input, want := range cases {
		v := c.Coerce(input)
		if !v.IsTimestamp() {
			t.Errorf("Coerce(%q): expected timestamp, got %s", input, v.Type)
			continue
		}
		if !v.AsTime().Equal(want) {
			t.Errorf("Coerce(%q) = %v, want %v", input, v.AsTime(), want)
		}
	}
}

func TestCoerce_UnparseableDateBecomesString(t *testing.T) {
	c := New()

	v := c.Coerce("not a date")
	if v.Type != record.ValueTypeString {
		t.Errorf("expected string fallback, got %s", v.Type)
	}
	if _, ok := c.TryTimestamp("not a date"); ok {
		t.Error("TryTimestamp should reject garbage input")
	}
}

func TestCoerce_EmptyIsMissing(t *testing.T) {
	c := New()

	for _, input := range []string{"", "   "} {
		v := c.Coerce(input)
		if !v.IsMissing {
			t.Errorf("Coerce(%q): expected missing value, got %s", input, v.Type)
		}
	}
}

func TestCoerce_NumericWinsOverString(t *testing.T) {
	c := New()

	v := c.Coerce("42")
	if !v.IsNumeric() {
		t.Fatalf("expected numeric for %q, got %s", "42", v.Type)
	}
}
