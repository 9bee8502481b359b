package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewExpense(t *testing.T) {
	cat := "c1"
	at := time.Date(2025, 3, 31, 23, 59, 59, 999e6, time.UTC)
	e := NewExpense(decimal.NewFromInt(5), "coffee", &cat, at)

	if e.ID == "" {
		t.Fatal("expected generated id")
	}
	if e.Timestamp != at.UnixMilli() {
		t.Fatalf("timestamp = %d, want %d", e.Timestamp, at.UnixMilli())
	}
	cat = "changed"
	if !e.HasCategory("c1") {
		t.Fatal("category id must be copied, not aliased")
	}
	if other := NewExpense(decimal.NewFromInt(5), "coffee", nil, at); other.ID == e.ID {
		t.Fatal("ids must be unique")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{ID: "x", Amount: decimal.RequireFromString("0.01")}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{ID: "", Amount: decimal.NewFromInt(1)},
		{ID: "x", Amount: decimal.Zero},
		{ID: "x", Amount: decimal.NewFromInt(-1)},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := NewCategory(" Food ", nil, DefaultColor).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := NewCategory("   ", nil, DefaultColor).Validate(); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestSplitKeywords(t *testing.T) {
	got := SplitKeywords(" pizza, ,cafe ,")
	if len(got) != 2 || got[0] != "pizza" || got[1] != "cafe" {
		t.Fatalf("SplitKeywords() = %q", got)
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want int32
		ok   bool
	}{
		{"#00FF88", Palette[0], true},
		{"FF00FF88", Palette[0], true},
		{"#ff6b6b", Palette[1], true},
		{"#12345", 0, false},
		{"#GGGGGG", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseColor(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseColor(%q) expected error", tc.in)
		}
	}
	if got := FormatColor(Palette[0]); got != "#FF00FF88" {
		t.Errorf("FormatColor() = %q", got)
	}
}

func TestParseCategorySpec(t *testing.T) {
	tests := []struct {
		line     string
		name     string
		keywords []string
		color    int32
		wantErr  bool
	}{
		{"Food: pizza, cafe #FF6B6B", "Food", []string{"pizza", "cafe"}, Palette[1], false},
		{"Transit", "Transit", []string{}, DefaultColor, false},
		{" Rent :  , landlord ", "Rent", []string{"landlord"}, DefaultColor, false},
		{"Misc: a #zzz", "Misc", []string{"a #zzz"}, DefaultColor, false},
		{": orphan", "", nil, 0, true},
	}

	for _, tc := range tests {
		name, keywords, color, err := ParseCategorySpec(tc.line)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseCategorySpec(%q) expected error", tc.line)
			}
			continue
		}
		if err != nil || name != tc.name || color != tc.color || len(keywords) != len(tc.keywords) {
			t.Errorf("ParseCategorySpec(%q) = %q, %v, %v, %v", tc.line, name, keywords, color, err)
			continue
		}
		for i := range keywords {
			if keywords[i] != tc.keywords[i] {
				t.Errorf("ParseCategorySpec(%q) keywords = %v, want %v", tc.line, keywords, tc.keywords)
			}
		}
	}
}
