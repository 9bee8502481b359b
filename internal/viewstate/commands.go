package viewstate

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mintly/internal/core"
	"mintly/internal/log"
	"mintly/internal/suggest"
)

// AddExpense validates and stores a new expense stamped with the current
// time. On success it becomes the undo candidate.
func (c *Controller) AddExpense(ctx context.Context, amount decimal.Decimal, description string, categoryID *string) (core.Expense, error) {
	var added core.Expense
	err := c.exec(ctx, func(ctx context.Context) error {
		e, err := c.addExpense(ctx, amount, description, categoryID)
		added = e
		return err
	})
	return added, err
}

// SubmitDraft stores the draft as an expense of amount and resets the draft.
func (c *Controller) SubmitDraft(ctx context.Context, amount decimal.Decimal) (core.Expense, error) {
	var added core.Expense
	err := c.exec(ctx, func(ctx context.Context) error {
		d := c.draft.Get()
		e, err := c.addExpense(ctx, amount, d.Description, d.CategoryID)
		if err != nil {
			return err
		}
		added = e
		c.resetDraft()
		return nil
	})
	return added, err
}

func (c *Controller) addExpense(ctx context.Context, amount decimal.Decimal, description string, categoryID *string) (core.Expense, error) {
	if err := core.ValidateAmount(amount); err != nil {
		c.logger.DebugContext(ctx, "Rejected expense",
			log.FieldOperation, log.OpValidate, log.FieldAmount, amount.String(), log.FieldError, err)
		return core.Expense{}, err
	}
	if categoryID != nil && strings.TrimSpace(*categoryID) == "" {
		categoryID = nil
	}

	e := core.NewExpense(amount, strings.TrimSpace(description), categoryID, c.now())
	if err := c.repo.InsertExpense(ctx, e); err != nil {
		c.logger.ErrorContext(ctx, "Failed to add expense",
			log.NewFields().WithOperation(log.OpCreate).WithExpense(e.ID, e.Amount, e.CategoryID).WithError(err).ToSlice()...)
		return core.Expense{}, err
	}
	c.undo.Record(e)

	c.logger.InfoContext(ctx, "Expense added",
		log.NewFields().WithOperation(log.OpCreate).WithExpense(e.ID, e.Amount, e.CategoryID).ToSlice()...)
	return e, nil
}

// DeleteExpense removes the expense with id. Deleting the undo candidate
// also clears the undo slot.
func (c *Controller) DeleteExpense(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return core.ErrEmptyID
	}
	return c.exec(ctx, func(ctx context.Context) error {
		if err := c.repo.DeleteExpense(ctx, core.Expense{ID: id}); err != nil {
			return err
		}
		if c.undo.Clear(id) {
			c.logger.DebugContext(ctx, "Undo slot cleared by manual delete", log.FieldExpenseID, id)
		}
		c.logger.InfoContext(ctx, "Expense deleted", log.FieldOperation, log.OpDelete, log.FieldExpenseID, id)
		return nil
	})
}

// UndoLastExpense deletes the most recently added expense. It reports false
// when nothing is held. The slot is kept if the delete fails.
func (c *Controller) UndoLastExpense(ctx context.Context) (core.Expense, bool, error) {
	var (
		undone core.Expense
		ok     bool
	)
	err := c.exec(ctx, func(ctx context.Context) error {
		e, held := c.undo.Last()
		if !held {
			return nil
		}
		if err := c.repo.DeleteExpense(ctx, e); err != nil {
			c.logger.WithComponent(log.ComponentUndo).ErrorContext(ctx, "Failed to undo expense",
				log.FieldOperation, log.OpUndo, log.FieldExpenseID, e.ID, log.FieldError, err)
			return err
		}
		c.undo.Clear(e.ID)
		undone, ok = e, true
		c.logger.WithComponent(log.ComponentUndo).InfoContext(ctx, "Expense undone", log.FieldOperation, log.OpUndo, log.FieldExpenseID, e.ID)
		return nil
	})
	return undone, ok, err
}

// AddCategory stores a new category. Blank keywords are dropped.
func (c *Controller) AddCategory(ctx context.Context, name string, keywords []string, colorDot int32) (core.Category, error) {
	cat := core.NewCategory(name, keywords, colorDot)
	if err := cat.Validate(); err != nil {
		return core.Category{}, err
	}
	err := c.exec(ctx, func(ctx context.Context) error {
		if err := c.repo.InsertCategory(ctx, cat); err != nil {
			return err
		}
		c.logger.InfoContext(ctx, "Category added",
			log.FieldOperation, log.OpCreate, log.FieldCategoryID, cat.ID, "name", cat.Name)
		return nil
	})
	if err != nil {
		return core.Category{}, err
	}
	return cat, nil
}

// UpdateCategory replaces the name, keywords and colour of an existing
// category.
func (c *Controller) UpdateCategory(ctx context.Context, cat core.Category) error {
	cat.Name = strings.TrimSpace(cat.Name)
	cat.Keywords = core.CleanKeywords(cat.Keywords)
	if err := cat.Validate(); err != nil {
		return err
	}
	return c.exec(ctx, func(ctx context.Context) error {
		if err := c.repo.UpdateCategory(ctx, cat); err != nil {
			return err
		}
		c.logger.InfoContext(ctx, "Category updated",
			log.NewFields().WithOperation(log.OpUpdate).WithCategory(cat.ID).ToSlice()...)
		return nil
	})
}

// DeleteCategory removes a category. Expenses keep their reference, which
// from then on resolves to no category.
func (c *Controller) DeleteCategory(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return core.ErrEmptyID
	}
	return c.exec(ctx, func(ctx context.Context) error {
		if err := c.repo.DeleteCategory(ctx, core.Category{ID: id}); err != nil {
			return err
		}
		if d := c.draft.Get(); d.CategoryID != nil && *d.CategoryID == id {
			d.CategoryID = nil
			d.Source = SourceNone
			c.draft.Set(d)
		}
		c.logger.InfoContext(ctx, "Category deleted",
			log.NewFields().WithOperation(log.OpDelete).WithCategory(id).ToSlice()...)
		return nil
	})
}

// SetDescription updates the draft description and schedules a debounced
// suggestion. A blank description cancels the pending one and drops a
// suggested category.
func (c *Controller) SetDescription(ctx context.Context, description string) error {
	return c.exec(ctx, func(ctx context.Context) error {
		d := c.draft.Get()
		d.Description = description

		if strings.TrimSpace(description) == "" {
			c.debounce.Cancel()
			if d.Source == SourceSuggested {
				d.CategoryID = nil
				d.Source = SourceNone
			}
			c.draft.Set(d)
			c.suggestion.Set(Suggestion{})
			return nil
		}
		c.draft.Set(d)
		c.debounce.Do(func() {
			err := c.exec(context.Background(), func(ctx context.Context) error {
				c.applySuggestion(ctx, description)
				return nil
			})
			if err != nil {
				c.hintLog.Debug("Dropped suggestion",
					log.FieldOperation, log.OpSuggest, log.FieldDescription, description, log.FieldError, err)
			}
		})
		return nil
	})
}

// applySuggestion publishes the match for description if the draft still
// reads the same, and fills in the draft category unless the user chose one.
func (c *Controller) applySuggestion(ctx context.Context, description string) {
	d := c.draft.Get()
	if d.Description != description {
		return
	}
	cat, found := suggest.Match(description, c.repo.AllCategories().Get())
	if found && d.Source != SourceManual {
		id := cat.ID
		d.CategoryID = &id
		d.Source = SourceSuggested
		c.draft.Set(d)
		c.hintLog.DebugContext(ctx, "Category suggested",
			log.FieldOperation, log.OpSuggest, log.FieldDescription, description, log.FieldCategoryID, id)
	}
	c.suggestion.Set(Suggestion{Description: description, Category: cat, Found: found})
}

// SelectCategory records the user's own category choice for the draft,
// which stops suggestions from overriding it. Selecting nil hands the choice
// back to suggestions.
func (c *Controller) SelectCategory(ctx context.Context, id *string) error {
	return c.exec(ctx, func(context.Context) error {
		d := c.draft.Get()
		if id == nil || strings.TrimSpace(*id) == "" {
			d.CategoryID = nil
			d.Source = SourceNone
		} else {
			v := *id
			d.CategoryID = &v
			d.Source = SourceManual
		}
		c.draft.Set(d)
		return nil
	})
}

// ClearDraft empties the draft, preselecting the last used category, and
// cancels any pending suggestion.
func (c *Controller) ClearDraft(ctx context.Context) error {
	return c.exec(ctx, func(context.Context) error {
		c.resetDraft()
		return nil
	})
}

func (c *Controller) resetDraft() {
	c.debounce.Cancel()
	d := Draft{}
	if id, ok := c.undo.LastCategoryID(); ok {
		d.CategoryID = &id
		d.Source = SourcePreselected
	}
	c.draft.Set(d)
	c.suggestion.Set(Suggestion{})
}

// ShowMonth displays the given month and clears the day selection.
func (c *Controller) ShowMonth(ctx context.Context, year int, month time.Month) error {
	return c.exec(ctx, func(ctx context.Context) error {
		c.showMonth(ctx, normaliseMonth(year, month))
		return nil
	})
}

func (c *Controller) NextMonth(ctx context.Context) error {
	return c.exec(ctx, func(ctx context.Context) error {
		c.showMonth(ctx, c.nav.Get().month.Next())
		return nil
	})
}

func (c *Controller) PrevMonth(ctx context.Context) error {
	return c.exec(ctx, func(ctx context.Context) error {
		c.showMonth(ctx, c.nav.Get().month.Prev())
		return nil
	})
}

func (c *Controller) showMonth(ctx context.Context, m core.Month) {
	c.nav.Set(calendarNav{month: m})
	c.logger.DebugContext(ctx, "Calendar month shown", log.FieldOperation, log.OpNavigate, log.FieldMonth, m.String())
}

// SelectDay selects a day of the displayed month. Selecting the selected day
// again, or a day below one, clears the selection.
func (c *Controller) SelectDay(ctx context.Context, day int) error {
	return c.exec(ctx, func(ctx context.Context) error {
		n := c.nav.Get()
		if day < 1 || (n.selected != nil && *n.selected == day) {
			n.selected = nil
		} else {
			d := day
			n.selected = &d
		}
		c.nav.Set(n)
		c.logger.DebugContext(ctx, "Day selected",
			log.FieldOperation, log.OpNavigate, log.FieldMonth, n.month.String(), log.FieldDay, day, "selected", n.selected != nil)
		return nil
	})
}

// RefreshClock re-reads the wall clock, for instance after the machine
// resumed from sleep past a month boundary.
func (c *Controller) RefreshClock(ctx context.Context) error {
	return c.exec(ctx, func(context.Context) error {
		c.refreshClock()
		return nil
	})
}
