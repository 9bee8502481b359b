// Package repository exposes expenses and categories to the rest of the
// application through one façade over the persistence ports.
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"mintly/internal/core"
	"mintly/internal/live"
	"mintly/internal/store"
)

// Repository forwards every call to the underlying stores and hands back their
// live sequences unchanged.
type Repository struct {
	expenses   store.ExpenseStore
	categories store.CategoryStore
}

func New(expenses store.ExpenseStore, categories store.CategoryStore) *Repository {
	return &Repository{
		expenses:   expenses,
		categories: categories,
	}
}

// AllExpenses lists every expense, newest first.
func (r *Repository) AllExpenses() *live.Value[[]core.Expense] {
	return r.expenses.Expenses()
}

// ExpensesInRange lists expenses with timestamp in [start, end]. The caller
// owns the returned view and must Close it.
func (r *Repository) ExpensesInRange(start, end int64) *live.View[[]core.Expense] {
	return r.expenses.ExpensesInRange(start, end)
}

// TotalInRange sums amounts with timestamp in [start, end]. The caller owns the
// returned view and must Close it.
func (r *Repository) TotalInRange(start, end int64) *live.View[decimal.Decimal] {
	return r.expenses.SumAmountInRange(start, end)
}

func (r *Repository) InsertExpense(ctx context.Context, e core.Expense) error {
	return r.expenses.InsertExpense(ctx, e)
}

func (r *Repository) DeleteExpense(ctx context.Context, e core.Expense) error {
	return r.expenses.DeleteExpense(ctx, e)
}

// AllCategories lists every category ascending by name.
func (r *Repository) AllCategories() *live.Value[[]core.Category] {
	return r.categories.Categories()
}

func (r *Repository) InsertCategory(ctx context.Context, c core.Category) error {
	return r.categories.InsertCategory(ctx, c)
}

func (r *Repository) DeleteCategory(ctx context.Context, c core.Category) error {
	return r.categories.DeleteCategory(ctx, c)
}

func (r *Repository) UpdateCategory(ctx context.Context, c core.Category) error {
	return r.categories.UpdateCategory(ctx, c)
}
