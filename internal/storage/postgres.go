package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"finanse/internal/core"

	_ "github.com/lib/pq"
)

const insertTransactionReturningSQL = `INSERT INTO transactions (type, category, amount, date) VALUES ($1, $2, $3, $4) RETURNING id`

// PostgresRepository stores transactions in a Postgres table with a BIGSERIAL id.
type PostgresRepository struct {
	db *sql.DB
}

var _ TransactionStore = (*PostgresRepository)(nil)

func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunPostgresMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListTransactions implements TransactionStore
func (r *PostgresRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return queryTransactions(ctx, r.db, listTransactionsSQL)
}

// CreateTransaction implements TransactionStore
func (r *PostgresRepository) CreateTransaction(ctx context.Context, t core.NewTransaction) (core.Transaction, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, insertTransactionReturningSQL, string(t.Type), t.Category, t.Amount, t.Date).Scan(&id)
	if err != nil {
		return core.Transaction{}, core.NewStorageError("insert transaction", err)
	}

	slog.InfoContext(ctx, "Transaction saved to Postgres",
		"id", id,
		"type", t.Type,
		"category", t.Category,
		"amount", t.Amount)

	return t.WithID(id), nil
}

// CountTransactions returns the number of stored rows.
func (r *PostgresRepository) CountTransactions(ctx context.Context) (int64, error) {
	return countTransactions(ctx, r.db)
}
