package viewstate

import (
	"time"

	"github.com/shopspring/decimal"

	"mintly/internal/aggregate"
	"mintly/internal/core"
	"mintly/internal/live"
	"mintly/internal/suggest"
)

// Expenses lists every expense, newest first.
func (c *Controller) Expenses() *live.Value[[]core.Expense] {
	return c.repo.AllExpenses()
}

// Categories lists every category ascending by name.
func (c *Controller) Categories() *live.Value[[]core.Category] {
	return c.repo.AllCategories()
}

// ExpensesBetween lists expenses dated from start through end inclusive,
// newest first. The caller must Close the view.
func (c *Controller) ExpensesBetween(start, end time.Time) *live.View[[]core.Expense] {
	return c.repo.ExpensesInRange(start.UnixMilli(), end.UnixMilli())
}

// TotalBetween sums the amounts dated from start through end inclusive. The
// caller must Close the view.
func (c *Controller) TotalBetween(start, end time.Time) *live.View[decimal.Decimal] {
	return c.repo.TotalInRange(start.UnixMilli(), end.UnixMilli())
}

// MonthlyTotal is the sum of the current calendar month. It follows both
// writes and the month rolling over.
func (c *Controller) MonthlyTotal() *live.Value[decimal.Decimal] {
	return c.monthlyTotal.Value
}

// MonthGrouping returns a live day grouping of the given month. Out of range
// months are normalised, so month 13 is January of the next year. The caller
// must Close the view.
func (c *Controller) MonthGrouping(year int, month time.Month) *live.View[aggregate.MonthGrouping] {
	return c.engine.Watch(normaliseMonth(year, month))
}

// Calendar is the displayed month, its grouping and the selected day.
func (c *Controller) Calendar() *live.Value[Calendar] {
	return c.calendar.Value
}

// SelectedDayDetail lists the expenses of the selected day.
func (c *Controller) SelectedDayDetail() *live.Value[aggregate.DayDetail] {
	return c.detail.Value
}

// Suggestion is the latest debounced category match for the draft.
func (c *Controller) Suggestion() *live.Value[Suggestion] {
	return c.suggestion
}

func (c *Controller) Draft() *live.Value[Draft] {
	return c.draft
}

// CurrentMonth is the wall-clock month the monthly total covers.
func (c *Controller) CurrentMonth() core.Month {
	return c.clock.Get()
}

func (c *Controller) Location() *time.Location {
	return c.loc
}

// SuggestCategory matches description against the current categories without
// any delay.
func (c *Controller) SuggestCategory(description string) (core.Category, bool) {
	return suggest.Match(description, c.repo.AllCategories().Get())
}

// ResolveCategory looks up a category by id. Dangling and nil references
// resolve to no category.
func (c *Controller) ResolveCategory(id *string) (core.Category, bool) {
	if id == nil {
		return core.Category{}, false
	}
	for _, cat := range c.repo.AllCategories().Get() {
		if cat.ID == *id {
			return cat, true
		}
	}
	return core.Category{}, false
}

// LastCategoryID is the category of the most recently added expense, used
// to preselect the next entry.
func (c *Controller) LastCategoryID() (string, bool) {
	return c.undo.LastCategoryID()
}

// CanUndo reports whether an insert is held for undo.
func (c *Controller) CanUndo() bool {
	_, ok := c.undo.Last()
	return ok
}

func normaliseMonth(year int, month time.Month) core.Month {
	return core.MonthOf(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}
