// Package undo keeps the single most recent expense insert so it can be
// reverted.
package undo

import (
	"sync"

	"mintly/internal/core"
)

// Log is a single-slot transaction log. Recording overwrites the slot; there is
// no history beyond the last insert.
type Log struct {
	mu           sync.Mutex
	last         *core.Expense
	lastCategory *string
}

func New() *Log {
	return &Log{}
}

// Record remembers e as the last successful insert. The category id survives
// a later undo so the next entry can preselect it.
func (l *Log) Record(e core.Expense) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last = &e
	l.lastCategory = nil
	if e.CategoryID != nil {
		id := *e.CategoryID
		l.lastCategory = &id
	}
}

// Last returns the held expense, if any.
func (l *Log) Last() (core.Expense, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.last == nil {
		return core.Expense{}, false
	}
	return *l.last, true
}

// Clear empties the slot if it still holds the expense with id. It reports
// whether anything was cleared.
func (l *Log) Clear(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.last == nil || l.last.ID != id {
		return false
	}
	l.last = nil
	return true
}

// LastCategoryID returns the category of the most recently recorded expense.
func (l *Log) LastCategoryID() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lastCategory == nil {
		return "", false
	}
	return *l.lastCategory, true
}
