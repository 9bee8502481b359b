package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type (
	// Expense is a single recorded spending event. It is never edited in place:
	// a change is a delete followed by a new insert.
	Expense struct {
		ID          string
		Amount      decimal.Decimal
		Description string
		CategoryID  *string // nil means uncategorized; may dangle after a category delete
		Timestamp   int64   // milliseconds since epoch
	}

	// Category is a user-defined label with match keywords and a colour tag.
	Category struct {
		ID       string
		Name     string
		Keywords []string
		ColorDot int32 // ARGB packed, opaque to the core
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyName     = errors.New("empty category name")
	ErrEmptyID       = errors.New("empty id")
)

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// NewExpense builds an expense stamped with the given time. Input is not validated.
func NewExpense(amount decimal.Decimal, description string, categoryID *string, at time.Time) Expense {
	return Expense{
		ID:          NewID(),
		Amount:      amount,
		Description: description,
		CategoryID:  cloneID(categoryID),
		Timestamp:   at.UnixMilli(),
	}
}

// NewCategory builds a category with a fresh id, dropping blank keywords.
func NewCategory(name string, keywords []string, colorDot int32) Category {
	return Category{
		ID:       NewID(),
		Name:     strings.TrimSpace(name),
		Keywords: CleanKeywords(keywords),
		ColorDot: colorDot,
	}
}

// Time returns the expense timestamp in loc.
func (e Expense) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(e.Timestamp).In(loc)
}

// HasCategory reports whether the expense references the given category id.
func (e Expense) HasCategory(id string) bool {
	return e.CategoryID != nil && *e.CategoryID == id
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	return ValidateAmount(e.Amount)
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// ValidateAmount rejects zero and negative amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// CleanKeywords trims keywords and drops blank ones, keeping order.
func CleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out = append(out, k)
	}
	return out
}

// SplitKeywords parses a comma separated keyword list as typed by a user.
func SplitKeywords(s string) []string {
	return CleanKeywords(strings.Split(s, ","))
}

func cloneID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
