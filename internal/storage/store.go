package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yashsdhond/expense-tracker-mcp-server/internal/core"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed expense store. Each operation is a single
// self-contained statement against the shared *sql.DB; concurrent writers
// rely on SQLite's own write serialization.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at dbPath and runs schema
// migrations before returning. A store that Open returns is always ready for
// Create/List/Summarize calls.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Create persists one expense row and returns its auto-assigned id. Optional
// fields must already be resolved to concrete strings by the caller; the
// store never writes NULL for subcategory or note.
func (s *Store) Create(ctx context.Context, e core.Expense) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (date, amount, category, subcategory, note)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Date, e.Amount, e.Category, e.Subcategory, e.Note,
	)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"date", e.Date,
		"amount", e.Amount,
		"category", e.Category)

	return id, nil
}

// ListByDateRange returns all expenses whose date lies between start and end,
// both bounds inclusive, compared as strings. Rows come back in ascending id
// order (insertion order), never reordered by date. A reversed range simply
// matches nothing.
func (s *Store) ListByDateRange(ctx context.Context, start, end string) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, amount, category, subcategory, note
		 FROM expenses
		 WHERE date BETWEEN ? AND ?
		 ORDER BY id ASC`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.Date, &e.Amount, &e.Category, &e.Subcategory, &e.Note); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

// Summarize groups expenses in the inclusive date range by category and sums
// their amounts. A non-empty category restricts the result to that exact
// category (case-sensitive). Results are ordered by category ascending and
// only contain categories with at least one matching row.
func (s *Store) Summarize(ctx context.Context, start, end, category string) ([]core.CategoryTotal, error) {
	query := `SELECT category, SUM(amount) AS total_amount
		 FROM expenses
		 WHERE date BETWEEN ? AND ?`
	args := []any{start, end}

	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}

	query += ` GROUP BY category ORDER BY category ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	totals := []core.CategoryTotal{}
	for rows.Next() {
		var t core.CategoryTotal
		if err := rows.Scan(&t.Category, &t.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary rows: %w", err)
	}

	return totals, nil
}

// GetExpense retrieves a single expense by id. Used by the mirror worker to
// fetch the full row referenced by an event message.
func (s *Store) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	var e core.Expense
	err := s.db.QueryRowContext(ctx,
		`SELECT id, date, amount, category, subcategory, note
		 FROM expenses WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Date, &e.Amount, &e.Category, &e.Subcategory, &e.Note)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense by id: %w", err)
	}
	return e, nil
}
