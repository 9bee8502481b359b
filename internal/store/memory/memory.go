package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"mintly/internal/core"
	"mintly/internal/store"
)

// Store keeps both tables in process memory. Rows are kept in write order;
// an upsert moves the row to the end, like a REPLACE in SQLite.
type Store struct {
	*store.Live

	mu         sync.RWMutex
	expenses   []core.Expense
	categories []core.Category
}

var _ store.Store = (*Store)(nil)

func New(categories []core.Category) *Store {
	s := &Store{categories: dedupeByName(categories)}
	s.Live = store.NewLive(s, nil)
	return s
}

// NewFromFiles seeds categories from base/seed_categories.txt. Each line reads
// "Name: keyword, keyword #RRGGBB"; keywords and colour are optional, blank
// lines and lines starting with # are skipped.
func NewFromFiles(base string) *Store {
	var cats []core.Category
	for _, line := range readLines(filepath.Join(base, "seed_categories.txt")) {
		if c, ok := parseSeedLine(line); ok {
			cats = append(cats, c)
		}
	}
	if len(cats) == 0 {
		cats = []core.Category{
			core.NewCategory("Food", []string{"pizza", "cafe", "restaurant"}, core.Palette[0]),
			core.NewCategory("Groceries", []string{"market", "grocer"}, core.Palette[10]),
			core.NewCategory("Transit", []string{"uber", "bus", "train", "taxi"}, core.Palette[6]),
		}
	}
	return New(cats)
}

func (s *Store) InsertExpense(_ context.Context, e core.Expense) error {
	return s.WriteExpenses(func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.expenses = append(removeExpense(s.expenses, e.ID), e)
		return nil
	})
}

func (s *Store) DeleteExpense(_ context.Context, e core.Expense) error {
	return s.WriteExpenses(func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.expenses = removeExpense(s.expenses, e.ID)
		return nil
	})
}

func (s *Store) InsertCategory(_ context.Context, c core.Category) error {
	return s.WriteCategories(func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.categories = append(removeCategory(s.categories, c.ID), c)
		return nil
	})
}

func (s *Store) DeleteCategory(_ context.Context, c core.Category) error {
	return s.WriteCategories(func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.categories = removeCategory(s.categories, c.ID)
		return nil
	})
}

// UpdateCategory replaces an existing category in place. Unknown ids are ignored.
func (s *Store) UpdateCategory(_ context.Context, c core.Category) error {
	return s.WriteCategories(func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := range s.categories {
			if s.categories[i].ID == c.ID {
				s.categories[i] = c
			}
		}
		return nil
	})
}

func (s *Store) QueryExpenses(_ context.Context) ([]core.Expense, error) {
	return s.filterExpenses(func(core.Expense) bool { return true }), nil
}

func (s *Store) QueryExpensesInRange(_ context.Context, start, end int64) ([]core.Expense, error) {
	return s.filterExpenses(func(e core.Expense) bool {
		return e.Timestamp >= start && e.Timestamp <= end
	}), nil
}

func (s *Store) QuerySumInRange(ctx context.Context, start, end int64) (decimal.Decimal, error) {
	in, _ := s.QueryExpensesInRange(ctx, start, end)
	return core.Sum(in), nil
}

func (s *Store) QueryCategories(_ context.Context) ([]core.Category, error) {
	s.mu.RLock()
	out := make([]core.Category, len(s.categories))
	copy(out, s.categories)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Close detaches live queries; the data is dropped with the store.
func (s *Store) Close() error {
	s.Live.Close()
	return nil
}

// filterExpenses returns matching rows newest first; rows with equal
// timestamps come latest write first.
func (s *Store) filterExpenses(keep func(core.Expense) bool) []core.Expense {
	s.mu.RLock()
	out := make([]core.Expense, 0, len(s.expenses))
	for i := len(s.expenses) - 1; i >= 0; i-- {
		if keep(s.expenses[i]) {
			out = append(out, s.expenses[i])
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out
}

func removeExpense(in []core.Expense, id string) []core.Expense {
	out := in[:0]
	for _, e := range in {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

func removeCategory(in []core.Category, id string) []core.Category {
	out := in[:0]
	for _, c := range in {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

func parseSeedLine(line string) (core.Category, bool) {
	name, keywords, color, err := core.ParseCategorySpec(line)
	if err != nil {
		return core.Category{}, false
	}
	return core.NewCategory(name, keywords, color), true
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

func dedupeByName(in []core.Category) []core.Category {
	seen := map[string]struct{}{}
	out := make([]core.Category, 0, len(in))
	for _, c := range in {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		if _, ok := seen[c.Name]; ok {
			continue
		}
		seen[c.Name] = struct{}{}
		out = append(out, c)
	}
	return out
}
