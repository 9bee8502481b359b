// Package log provides the component-tagged structured logger and the field
// names shared across mintly.
package log

import "github.com/shopspring/decimal"

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldExpenseID   = "expense_id"
	FieldCategoryID  = "category_id"
	FieldAmount      = "amount"
	FieldDescription = "description"
	FieldMonth       = "month"
	FieldDay         = "day"
	FieldBackend     = "backend"
	FieldPath        = "path"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentStorage   = "storage"
	ComponentViewState = "viewstate"
	ComponentSuggest   = "suggest"
	ComponentUndo      = "undo"
	ComponentBackend   = "backend"
	ComponentShell     = "shell"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpDelete   = "delete"
	OpUpdate   = "update"
	OpUndo     = "undo"
	OpSuggest  = "suggest"
	OpNavigate = "navigate"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error text; a nil error adds nothing.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithExpense adds the identifying fields of an expense.
func (f LogFields) WithExpense(id string, amount decimal.Decimal, categoryID *string) LogFields {
	f[FieldExpenseID] = id
	f[FieldAmount] = amount.StringFixed(2)
	if categoryID != nil {
		f[FieldCategoryID] = *categoryID
	}
	return f
}

func (f LogFields) WithCategory(id string) LogFields {
	f[FieldCategoryID] = id
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
