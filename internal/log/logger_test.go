package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{" warn ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLogger_TagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentStorage, Output: &buf})

	l.WithComponent(ComponentUndo).Info("slot cleared", FieldExpenseID, "e1")
	l.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "component=undo") || !strings.Contains(out, "expense_id=e1") {
		t.Errorf("unexpected output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug record should be filtered at info level")
	}
}

func TestLogFields(t *testing.T) {
	cat := "food"
	f := NewFields().
		WithOperation(OpCreate).
		WithExpense("e1", decimal.RequireFromString("3.5"), &cat).
		WithError(nil)

	if f[FieldAmount] != "3.50" || f[FieldCategoryID] != "food" {
		t.Errorf("fields = %v", f)
	}
	if _, ok := f[FieldError]; ok {
		t.Error("nil error must not add a field")
	}
	f.WithError(errors.New("boom"))
	if f[FieldError] != "boom" {
		t.Errorf("error field = %v", f[FieldError])
	}
	if len(f.ToSlice()) != 2*len(f) {
		t.Errorf("ToSlice length = %d", len(f.ToSlice()))
	}
}
