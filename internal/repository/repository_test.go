package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintly/internal/core"
	"mintly/internal/store/memory"
)

func TestRepository_ForwardsToStores(t *testing.T) {
	ctx := context.Background()
	st := memory.New(nil)
	repo := New(st, st)

	assert.Same(t, st.Expenses(), repo.AllExpenses(), "live sequence must be handed back unchanged")
	assert.Same(t, st.Categories(), repo.AllCategories())

	e := core.Expense{ID: "e1", Amount: decimal.NewFromInt(5), Timestamp: 1000}
	require.NoError(t, repo.InsertExpense(ctx, e))

	total := repo.TotalInRange(0, 2000)
	defer total.Close()
	in := repo.ExpensesInRange(0, 2000)
	defer in.Close()

	assert.Len(t, st.Expenses().Get(), 1)
	assert.Equal(t, "5", total.Get().String())
	assert.Len(t, in.Get(), 1)

	require.NoError(t, repo.DeleteExpense(ctx, e))
	assert.Empty(t, repo.AllExpenses().Get())
	assert.True(t, total.Get().IsZero())

	c := core.Category{ID: "c1", Name: "Food"}
	require.NoError(t, repo.InsertCategory(ctx, c))
	c.Name = "Meals"
	require.NoError(t, repo.UpdateCategory(ctx, c))
	require.Len(t, repo.AllCategories().Get(), 1)
	assert.Equal(t, "Meals", repo.AllCategories().Get()[0].Name)

	require.NoError(t, repo.DeleteCategory(ctx, c))
	assert.Empty(t, repo.AllCategories().Get())
}

type failingExpenses struct {
	*memory.Store
}

var errDisk = errors.New("disk full")

func (failingExpenses) InsertExpense(context.Context, core.Expense) error { return errDisk }

func TestRepository_PropagatesErrors(t *testing.T) {
	st := memory.New(nil)
	repo := New(failingExpenses{st}, st)

	var seen []int
	cancel := repo.AllExpenses().Observe(func(es []core.Expense) { seen = append(seen, len(es)) })
	defer cancel()

	err := repo.InsertExpense(context.Background(), core.Expense{ID: "x", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, []int{0}, seen, "a failed write must not emit")
}
