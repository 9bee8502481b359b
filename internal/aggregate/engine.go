package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"mintly/internal/cache"
	"mintly/internal/core"
	"mintly/internal/live"
)

const defaultMemoSize = 24

type memoKey struct {
	version uint64
	month   core.Month
}

// Engine computes month groupings over a live expense sequence and memoises
// them by snapshot version, so revisiting a month between writes is free.
type Engine struct {
	expenses *live.Value[[]core.Expense]
	loc      *time.Location
	memo     *cache.LRU[memoKey, MonthGrouping]
}

func NewEngine(expenses *live.Value[[]core.Expense], loc *time.Location, memoSize int) *Engine {
	if loc == nil {
		loc = time.Local
	}
	if memoSize <= 0 {
		memoSize = defaultMemoSize
	}
	return &Engine{
		expenses: expenses,
		loc:      loc,
		memo:     cache.NewLRU[memoKey, MonthGrouping](memoSize),
	}
}

// Group returns the grouping of m for the current snapshot.
func (e *Engine) Group(m core.Month) MonthGrouping {
	list, version := e.expenses.Snapshot()
	return e.group(list, version, m)
}

func (e *Engine) group(list []core.Expense, version uint64, m core.Month) MonthGrouping {
	return e.memo.GetOrCompute(memoKey{version: version, month: m}, func() MonthGrouping {
		return GroupMonth(list, m, e.loc)
	})
}

// Watch returns a live grouping of m, recomputed on every expense emission.
func (e *Engine) Watch(m core.Month) *live.View[MonthGrouping] {
	return live.Map(e.expenses, func([]core.Expense) MonthGrouping {
		return e.Group(m)
	})
}

// MonthlyTotal returns a live total for the month reported by clock. It is
// recomputed when the expenses change and when the clock rolls over.
func (e *Engine) MonthlyTotal(clock *live.Value[core.Month]) *live.View[decimal.Decimal] {
	return live.Combine(e.expenses, clock, func(_ []core.Expense, m core.Month) decimal.Decimal {
		return e.Group(m).Total
	})
}

func (e *Engine) Stats() cache.Stats {
	return e.memo.Stats()
}
