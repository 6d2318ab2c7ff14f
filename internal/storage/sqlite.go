package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finanse/internal/core"

	_ "modernc.org/sqlite"
)

const (
	listTransactionsSQL  = `SELECT id, type, category, amount, date FROM transactions`
	insertTransactionSQL = `INSERT INTO transactions (type, category, amount, date) VALUES (?, ?, ?, ?)`
	countTransactionsSQL = `SELECT COUNT(*) FROM transactions`
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ TransactionStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Concurrent writers wait for the lock instead of failing with SQLITE_BUSY.
	dsn := dbPath + "?_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunSQLiteMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListTransactions implements TransactionStore
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return queryTransactions(ctx, r.db, listTransactionsSQL)
}

// CreateTransaction implements TransactionStore
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.NewTransaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx, insertTransactionSQL, string(t.Type), t.Category, t.Amount, t.Date)
	if err != nil {
		return core.Transaction{}, core.NewStorageError("insert transaction", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, core.NewStorageError("read inserted id", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"type", t.Type,
		"category", t.Category,
		"amount", t.Amount,
		"date", t.Date)

	return t.WithID(id), nil
}

// CountTransactions returns the number of stored rows.
func (r *SQLiteRepository) CountTransactions(ctx context.Context) (int64, error) {
	return countTransactions(ctx, r.db)
}

func queryTransactions(ctx context.Context, db *sql.DB, query string) ([]core.Transaction, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, core.NewStorageError("list transactions", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		var (
			t   core.Transaction
			typ string
		)
		if err := rows.Scan(&t.ID, &typ, &t.Category, &t.Amount, &t.Date); err != nil {
			return nil, core.NewStorageError("scan transaction", err)
		}
		t.Type = core.Type(typ)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStorageError("iterate transactions", err)
	}

	return out, nil
}

func countTransactions(ctx context.Context, db *sql.DB) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, countTransactionsSQL).Scan(&n); err != nil {
		return 0, core.NewStorageError("count transactions", err)
	}
	return n, nil
}
