package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mintly/internal/core"
)

var rome = mustLoad("Europe/Rome")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, 3600)
	}
	return loc
}

func exp(id, amount string, t time.Time) core.Expense {
	return core.Expense{ID: id, Amount: decimal.RequireFromString(amount), Timestamp: t.UnixMilli()}
}

func TestMonthlyTotal_HonoursMonthBoundaries(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, loc)
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, loc)
	end := time.Date(2025, time.April, 1, 0, 0, 0, 0, loc)

	expenses := []core.Expense{
		exp("first-ms", "1.00", start),
		exp("last-ms", "2.00", end.Add(-time.Millisecond)),
		exp("before", "100", start.Add(-time.Millisecond)),
		exp("after", "200", end),
		exp("middle", "0.50", now),
	}

	got := MonthlyTotal(expenses, now, loc)
	if want := decimal.RequireFromString("3.50"); !got.Equal(want) {
		t.Errorf("MonthlyTotal = %s, want %s", got, want)
	}
}

func TestMonthlyTotal_UsesLocation(t *testing.T) {
	// 23:30 UTC on Jan 31 is already February in Rome
	ts := time.Date(2025, time.January, 31, 23, 30, 0, 0, time.UTC)
	expenses := []core.Expense{exp("a", "10", ts)}
	now := time.Date(2025, time.February, 10, 12, 0, 0, 0, time.UTC)

	if got := MonthlyTotal(expenses, now, rome); !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Rome total = %s, want 10", got)
	}
	if got := MonthlyTotal(expenses, now, time.UTC); !got.IsZero() {
		t.Errorf("UTC total = %s, want 0", got)
	}
}

func TestMonthlyTotal_EmptyAndNonPositive(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	if got := MonthlyTotal(nil, now, time.UTC); !got.IsZero() {
		t.Errorf("empty total = %s, want 0", got)
	}

	stored := []core.Expense{
		exp("a", "5", now),
		exp("b", "-2", now),
		exp("c", "0", now),
	}
	if got := MonthlyTotal(stored, now, time.UTC); !got.Equal(decimal.NewFromInt(3)) {
		t.Errorf("total = %s, want 3", got)
	}
}

func TestGroupMonth_ThirtyOneDayMonth(t *testing.T) {
	m := core.Month{Year: 2025, Month: time.January}
	at := func(day int) time.Time { return time.Date(2025, time.January, day, 12, 0, 0, 0, time.UTC) }

	// newest first, as the store emits them
	expenses := []core.Expense{
		exp("feb", "99", time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)),
		exp("d31", "3", at(31)),
		exp("d15b", "2.25", at(15).Add(time.Hour)),
		exp("d15a", "1.75", at(15)),
		exp("d1", "1", at(1)),
		exp("dec", "99", time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)),
	}

	g := GroupMonth(expenses, m, time.UTC)

	if len(g.Days) != 31 {
		t.Fatalf("len(Days) = %d, want 31", len(g.Days))
	}
	active := g.ActiveDays()
	want := []int{1, 15, 31}
	if len(active) != len(want) {
		t.Fatalf("ActiveDays = %v, want %v", active, want)
	}
	for i := range want {
		if active[i] != want[i] {
			t.Fatalf("ActiveDays = %v, want %v", active, want)
		}
	}
	if !g.Total.Equal(decimal.NewFromInt(8)) {
		t.Errorf("Total = %s, want 8", g.Total)
	}
	if g.FirstWeekday != time.Wednesday {
		t.Errorf("FirstWeekday = %v, want Wednesday", g.FirstWeekday)
	}

	day := 15
	d := g.Detail(&day)
	if d.Day != 15 || len(d.Expenses) != 2 {
		t.Fatalf("Detail(15) = %+v", d)
	}
	if d.Expenses[0].ID != "d15b" || d.Expenses[1].ID != "d15a" {
		t.Errorf("Detail(15) lost source order: %s, %s", d.Expenses[0].ID, d.Expenses[1].ID)
	}
	if !d.Total.Equal(decimal.NewFromInt(4)) {
		t.Errorf("Detail(15).Total = %s, want 4", d.Total)
	}
}

func TestGroupMonth_DaysInMonth(t *testing.T) {
	tests := []struct {
		month core.Month
		want  int
	}{
		{core.Month{Year: 2024, Month: time.February}, 29},
		{core.Month{Year: 2025, Month: time.February}, 28},
		{core.Month{Year: 2025, Month: time.April}, 30},
		{core.Month{Year: 2025, Month: time.December}, 31},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			g := GroupMonth(nil, tt.month, time.UTC)
			if len(g.Days) != tt.want {
				t.Errorf("len(Days) = %d, want %d", len(g.Days), tt.want)
			}
			if !g.Total.IsZero() || len(g.ActiveDays()) != 0 {
				t.Errorf("empty month should have no activity")
			}
		})
	}
}

func TestDetail_EmptyCases(t *testing.T) {
	m := core.Month{Year: 2025, Month: time.April}
	g := GroupMonth([]core.Expense{exp("a", "5", time.Date(2025, time.April, 2, 9, 0, 0, 0, time.UTC))}, m, time.UTC)

	day := func(d int) *int { return &d }
	tests := []struct {
		name     string
		selected *int
	}{
		{"nothing selected", nil},
		{"day without expenses", day(3)},
		{"day zero", day(0)},
		{"past month end", day(31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := g.Detail(tt.selected)
			if len(d.Expenses) != 0 || !d.Total.IsZero() {
				t.Errorf("Detail = %+v, want empty", d)
			}
			if d.Expenses == nil {
				t.Error("Expenses should be an empty slice, not nil")
			}
		})
	}
}
