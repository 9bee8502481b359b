// Package store defines the persistence ports for expenses and categories and
// the live-query plumbing shared by every store implementation.
package store

import (
	"context"

	"github.com/shopspring/decimal"

	"mintly/internal/core"
	"mintly/internal/live"
)

// Ports implemented by persistence adapters.
type (
	ExpenseWriter interface {
		// InsertExpense stores e, replacing any expense with the same id.
		InsertExpense(ctx context.Context, e core.Expense) error
		// DeleteExpense removes the expense with e's id. A missing row is not an error.
		DeleteExpense(ctx context.Context, e core.Expense) error
	}

	// ExpenseReader exposes live queries. Every committed write re-emits them
	// before the write call returns.
	ExpenseReader interface {
		// Expenses lists all expenses, newest timestamp first.
		Expenses() *live.Value[[]core.Expense]
		// ExpensesInRange lists expenses with timestamp in [start, end], newest first.
		ExpensesInRange(start, end int64) *live.View[[]core.Expense]
		// SumAmountInRange sums amounts with timestamp in [start, end]; zero when empty.
		SumAmountInRange(start, end int64) *live.View[decimal.Decimal]
	}

	ExpenseStore interface {
		ExpenseWriter
		ExpenseReader
	}

	CategoryStore interface {
		InsertCategory(ctx context.Context, c core.Category) error
		DeleteCategory(ctx context.Context, c core.Category) error
		UpdateCategory(ctx context.Context, c core.Category) error
		// Categories lists all categories ascending by name.
		Categories() *live.Value[[]core.Category]
	}

	// Store is a complete backend holding both tables.
	Store interface {
		ExpenseStore
		CategoryStore
		Close() error
	}
)
