package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{".5", "0.5", true},
		{"3.", "3", true},
		{"1.005", "1.01", true}, // half-up rounding
		{"12.344", "12.34", true},
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.001", "", false}, // rounds to zero
		{"1e3", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{".", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error, got %s", tc.in, got)
			}
		}
	}
}

func TestSumKeepsNonPositiveAmounts(t *testing.T) {
	expenses := []Expense{
		{Amount: decimal.RequireFromString("10.10")},
		{Amount: decimal.RequireFromString("0.20")},
		{Amount: decimal.Zero},
		{Amount: decimal.RequireFromString("-0.30")},
	}
	if got := Sum(expenses); !got.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("Sum() = %s, want 10.00", got)
	}
	if got := Sum(nil); !got.IsZero() {
		t.Fatalf("Sum(nil) = %s, want 0", got)
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(decimal.RequireFromString("3.5")); got != "3.50" {
		t.Errorf("FormatAmount() = %q, want %q", got, "3.50")
	}
}
