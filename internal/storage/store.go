package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"mintly/internal/core"
	"mintly/internal/store"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists expenses and categories in a local SQLite file.
type SQLiteStore struct {
	*store.Live
	db *sql.DB
}

var _ store.Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// single writer; also keeps every statement on the same connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	s.Live = store.NewLive(s, func(err error) {
		slog.Error("Live query failed", "error", err)
	})

	slog.Debug("SQLite store opened", "path", dbPath, "schema_version", version)
	return s, nil
}

func (s *SQLiteStore) Close() error {
	s.Live.Close()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InsertExpense implements store.ExpenseWriter
func (s *SQLiteStore) InsertExpense(ctx context.Context, e core.Expense) error {
	err := s.WriteExpenses(func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO expenses (id, amount, description, categoryId, timestamp)
			 VALUES (?, ?, ?, ?, ?)`,
			e.ID, e.Amount.InexactFloat64(), e.Description, nullString(e.CategoryID), e.Timestamp,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"amount", e.Amount.String(),
		"timestamp", e.Timestamp)

	return nil
}

// DeleteExpense implements store.ExpenseWriter
func (s *SQLiteStore) DeleteExpense(ctx context.Context, e core.Expense) error {
	var affected int64
	err := s.WriteExpenses(func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, e.ID)
		if err != nil {
			return err
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense deleted from SQLite", "id", e.ID, "rows", affected)
	return nil
}

// InsertCategory implements store.CategoryStore
func (s *SQLiteStore) InsertCategory(ctx context.Context, c core.Category) error {
	keywords, err := encodeKeywords(c.Keywords)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	err = s.WriteCategories(func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO categories (id, name, keywords, colorDot) VALUES (?, ?, ?, ?)`,
			c.ID, c.Name, keywords, c.ColorDot,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}

	slog.InfoContext(ctx, "Category saved to SQLite",
		"id", c.ID,
		"name", c.Name,
		"keywords", len(c.Keywords))

	return nil
}

// DeleteCategory implements store.CategoryStore. Expenses referencing the
// category keep their categoryId.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, c core.Category) error {
	err := s.WriteCategories(func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, c.ID)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	slog.InfoContext(ctx, "Category deleted from SQLite", "id", c.ID)
	return nil
}

// UpdateCategory implements store.CategoryStore
func (s *SQLiteStore) UpdateCategory(ctx context.Context, c core.Category) error {
	keywords, err := encodeKeywords(c.Keywords)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	err = s.WriteCategories(func() error {
		_, err := s.db.ExecContext(ctx,
			`UPDATE categories SET name = ?, keywords = ?, colorDot = ? WHERE id = ?`,
			c.Name, keywords, c.ColorDot, c.ID,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// QueryExpenses implements store.Querier
func (s *SQLiteStore) QueryExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, amount, description, categoryId, timestamp FROM expenses
		 ORDER BY timestamp DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	return scanExpenses(rows)
}

// QueryExpensesInRange implements store.Querier
func (s *SQLiteStore) QueryExpensesInRange(ctx context.Context, start, end int64) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, amount, description, categoryId, timestamp FROM expenses
		 WHERE timestamp >= ? AND timestamp <= ?
		 ORDER BY timestamp DESC, rowid DESC`, start, end)
	if err != nil {
		return nil, fmt.Errorf("query expenses in range: %w", err)
	}
	return scanExpenses(rows)
}

// QuerySumInRange implements store.Querier. Amounts are summed as decimals so
// the result does not carry float rounding noise.
func (s *SQLiteStore) QuerySumInRange(ctx context.Context, start, end int64) (decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT amount FROM expenses WHERE timestamp >= ? AND timestamp <= ?`, start, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("query sum in range: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amount float64
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, fmt.Errorf("scan amount: %w", err)
		}
		total = total.Add(decimal.NewFromFloat(amount))
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("query sum in range: %w", err)
	}
	return total, nil
}

// QueryCategories implements store.Querier
func (s *SQLiteStore) QueryCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, keywords, colorDot FROM categories ORDER BY name ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	out := []core.Category{}
	for rows.Next() {
		var (
			c        core.Category
			keywords string
		)
		if err := rows.Scan(&c.ID, &c.Name, &keywords, &c.ColorDot); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if c.Keywords, err = decodeKeywords(keywords); err != nil {
			slog.Warn("Ignoring unreadable category keywords", "id", c.ID, "error", err)
			c.Keywords = []string{}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	return out, nil
}

func scanExpenses(rows *sql.Rows) ([]core.Expense, error) {
	defer rows.Close()

	out := []core.Expense{}
	for rows.Next() {
		var (
			e          core.Expense
			amount     float64
			categoryID sql.NullString
		)
		if err := rows.Scan(&e.ID, &amount, &e.Description, &categoryID, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Amount = decimal.NewFromFloat(amount)
		if categoryID.Valid {
			id := categoryID.String
			e.CategoryID = &id
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan expenses: %w", err)
	}
	return out, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func encodeKeywords(keywords []string) (string, error) {
	if keywords == nil {
		keywords = []string{}
	}
	b, err := json.Marshal(keywords)
	if err != nil {
		return "", fmt.Errorf("encode keywords: %w", err)
	}
	return string(b), nil
}

func decodeKeywords(s string) ([]string, error) {
	out := []string{}
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}
