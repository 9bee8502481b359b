package store

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"mintly/internal/core"
	"mintly/internal/live"
)

// Querier runs one-shot reads against a backend. Live wraps it to keep
// queries current.
type Querier interface {
	QueryExpenses(ctx context.Context) ([]core.Expense, error)
	QueryExpensesInRange(ctx context.Context, start, end int64) ([]core.Expense, error)
	QuerySumInRange(ctx context.Context, start, end int64) (decimal.Decimal, error)
	QueryCategories(ctx context.Context) ([]core.Category, error)
}

// Live turns a Querier into live queries. Writes go through WriteExpenses and
// WriteCategories, which serialise writes per table and re-run the open
// queries of that table after each successful commit.
type Live struct {
	q     Querier
	onErr func(error)

	expMu             sync.Mutex
	catMu             sync.Mutex
	expensesChanged   *live.Value[uint64]
	categoriesChanged *live.Value[uint64]

	expenses   *live.View[[]core.Expense]
	categories *live.View[[]core.Category]
}

// NewLive builds the standing queries. onErr receives failed re-runs; the
// affected query keeps its previous snapshot.
func NewLive(q Querier, onErr func(error)) *Live {
	l := &Live{
		q:                 q,
		onErr:             onErr,
		expensesChanged:   live.NewValue[uint64](0),
		categoriesChanged: live.NewValue[uint64](0),
	}
	l.expenses = live.Query(l.expensesChanged, func() ([]core.Expense, error) {
		return q.QueryExpenses(context.Background())
	}, onErr)
	l.categories = live.Query(l.categoriesChanged, func() ([]core.Category, error) {
		return q.QueryCategories(context.Background())
	}, onErr)
	return l
}

// WriteExpenses runs fn under the expenses write lock and notifies on success.
func (l *Live) WriteExpenses(fn func() error) error {
	l.expMu.Lock()
	defer l.expMu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	l.expensesChanged.Set(l.expensesChanged.Get() + 1)
	return nil
}

// WriteCategories runs fn under the categories write lock and notifies on success.
func (l *Live) WriteCategories(fn func() error) error {
	l.catMu.Lock()
	defer l.catMu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	l.categoriesChanged.Set(l.categoriesChanged.Get() + 1)
	return nil
}

func (l *Live) Expenses() *live.Value[[]core.Expense] {
	return l.expenses.Value
}

func (l *Live) ExpensesInRange(start, end int64) *live.View[[]core.Expense] {
	return live.Query(l.expensesChanged, func() ([]core.Expense, error) {
		return l.q.QueryExpensesInRange(context.Background(), start, end)
	}, l.onErr)
}

func (l *Live) SumAmountInRange(start, end int64) *live.View[decimal.Decimal] {
	return live.Query(l.expensesChanged, func() (decimal.Decimal, error) {
		return l.q.QuerySumInRange(context.Background(), start, end)
	}, l.onErr)
}

func (l *Live) Categories() *live.Value[[]core.Category] {
	return l.categories.Value
}

// Close detaches the standing queries.
func (l *Live) Close() {
	l.expenses.Close()
	l.categories.Close()
}
