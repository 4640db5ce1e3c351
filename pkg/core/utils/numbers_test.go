package utils

import (
	"math"
	"testing"
)

func TestParseAmountSeparatorStyles(t *testing.T) {
	// Both the European and the US style must yield the same magnitude.
	cases := []struct {
		input    string
		expected float64
	}{
		{"(1.234,56)", -1234.56},
		{"1,234.56", 1234.56},
		{"1.234,56", 1234.56},
		{"$ 5.798.692", 5798692},
		{"(2.500.000)", -2500000},
		{"1234,5", 1234.5},
		{"1234.5", 1234.5},
		{"(500)", -500},
		{"-42", -42},
	}
	for _, tc := range cases {
		got := ParseAmount(tc.input)
		if got == nil {
			t.Errorf("ParseAmount(%q) expected %v, got nil", tc.input, tc.expected)
			continue
		}
		if math.Abs(*got-tc.expected) > 0.0001 {
			t.Errorf("ParseAmount(%q) expected %v, got %v", tc.input, tc.expected, *got)
		}
	}
}

func TestParseAmountUnusable(t *testing.T) {
	inputs := []any{nil, "", "   ", "-", ".", "-.", "N/A", "sin dato", math.NaN()}
	for _, input := range inputs {
		if got := ParseAmount(input); got != nil {
			t.Errorf("ParseAmount(%v) expected nil, got %v", input, *got)
		}
	}
}

func TestParseAmountNativeNumbers(t *testing.T) {
	if got := ParseAmount(float64(1500.5)); got == nil || *got != 1500.5 {
		t.Errorf("ParseAmount(float64) expected 1500.5, got %v", got)
	}
	if got := ParseAmount(int(-300)); got == nil || *got != -300 {
		t.Errorf("ParseAmount(int) expected -300, got %v", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := FormatCurrency(FloatPtr(5798692)); got != "COP 5,798,692" {
		t.Errorf("expected COP 5,798,692, got %q", got)
	}
	if got := FormatCurrency(FloatPtr(-1234567)); got != "COP -1,234,567" {
		t.Errorf("expected COP -1,234,567, got %q", got)
	}
	if got := FormatCurrency(nil); got != "N/D" {
		t.Errorf("expected N/D, got %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(FloatPtr(109.5), 1); got != "109.5" {
		t.Errorf("expected 109.5, got %q", got)
	}
	if got := FormatNumber(FloatPtr(1234567.891), 2); got != "1,234,567.89" {
		t.Errorf("expected 1,234,567.89, got %q", got)
	}
	if got := FormatNumber(nil, 2); got != "N/D" {
		t.Errorf("expected N/D, got %q", got)
	}
}

func TestPctChange(t *testing.T) {
	got := PctChange(FloatPtr(120), FloatPtr(100))
	if got == nil || math.Abs(*got-20) > 0.0001 {
		t.Errorf("expected 20, got %v", got)
	}
	// Sign convention over a negative base
	got = PctChange(FloatPtr(-50), FloatPtr(-100))
	if got == nil || math.Abs(*got-50) > 0.0001 {
		t.Errorf("expected 50, got %v", got)
	}
	if got := PctChange(FloatPtr(120), FloatPtr(0)); got != nil {
		t.Errorf("expected nil on zero base, got %v", *got)
	}
	if got := PctChange(nil, FloatPtr(100)); got != nil {
		t.Errorf("expected nil on missing current, got %v", *got)
	}
}
