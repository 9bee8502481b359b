// Package aggregate derives totals and calendar groupings from expense
// snapshots. The functions are pure; Engine adds memoisation on top.
package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"mintly/internal/core"
)

type (
	// DaySummary is one calendar cell of a month grouping.
	DaySummary struct {
		Day         int
		HasExpenses bool
		Total       decimal.Decimal
		Expenses    []core.Expense // source order
	}

	// MonthGrouping is a month of expenses split by day of month. Days holds
	// one entry per calendar day, Days[0] being the 1st.
	MonthGrouping struct {
		Month        core.Month
		Days         []DaySummary
		Total        decimal.Decimal
		FirstWeekday time.Weekday
	}

	// DayDetail lists the expenses of a selected day and their subtotal.
	DayDetail struct {
		Day      int // 0 when nothing is selected
		Expenses []core.Expense
		Total    decimal.Decimal
	}
)

// MonthlyTotal sums the amounts of expenses dated within the calendar month
// containing now, in loc. Stored zero or negative amounts are summed as-is.
func MonthlyTotal(expenses []core.Expense, now time.Time, loc *time.Location) decimal.Decimal {
	if loc != nil {
		now = now.In(loc)
	}
	return MonthTotal(expenses, core.MonthOf(now), loc)
}

// MonthTotal sums the amounts of expenses dated within m.
func MonthTotal(expenses []core.Expense, m core.Month, loc *time.Location) decimal.Decimal {
	start, end := m.Range(loc)
	total := decimal.Zero
	for _, e := range expenses {
		if e.Timestamp >= start && e.Timestamp <= end {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// GroupMonth filters expenses to m and groups them by day of month in loc.
func GroupMonth(expenses []core.Expense, m core.Month, loc *time.Location) MonthGrouping {
	start, end := m.Range(loc)
	g := MonthGrouping{
		Month:        m,
		Days:         make([]DaySummary, m.Days()),
		Total:        decimal.Zero,
		FirstWeekday: m.FirstWeekday(loc),
	}
	for i := range g.Days {
		g.Days[i] = DaySummary{Day: i + 1, Total: decimal.Zero}
	}

	for _, e := range expenses {
		if e.Timestamp < start || e.Timestamp > end {
			continue
		}
		d := &g.Days[e.Time(loc).Day()-1]
		d.HasExpenses = true
		d.Total = d.Total.Add(e.Amount)
		d.Expenses = append(d.Expenses, e)
		g.Total = g.Total.Add(e.Amount)
	}
	return g
}

// Day returns the summary for day, or false when day is outside the month.
func (g MonthGrouping) Day(day int) (DaySummary, bool) {
	if day < 1 || day > len(g.Days) {
		return DaySummary{}, false
	}
	return g.Days[day-1], true
}

// ActiveDays lists the days of the month that have at least one expense.
func (g MonthGrouping) ActiveDays() []int {
	var out []int
	for _, d := range g.Days {
		if d.HasExpenses {
			out = append(out, d.Day)
		}
	}
	return out
}

// Detail returns the expenses and subtotal for the selected day. It is empty
// with a zero total when selected is nil, out of range, or has no expenses.
func (g MonthGrouping) Detail(selected *int) DayDetail {
	empty := DayDetail{Expenses: []core.Expense{}, Total: decimal.Zero}
	if selected == nil {
		return empty
	}
	d, ok := g.Day(*selected)
	if !ok {
		return empty
	}
	detail := DayDetail{Day: d.Day, Expenses: d.Expenses, Total: d.Total}
	if detail.Expenses == nil {
		detail.Expenses = []core.Expense{}
	}
	return detail
}
