package storage

import (
	"context"

	"finanse/internal/core"
)

// TransactionStore is the persistence port of the transaction API. Records
// are never updated or deleted.
type TransactionStore interface {
	// ListTransactions returns every row in storage order.
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	// CreateTransaction inserts t and returns it with the id assigned by the engine.
	CreateTransaction(ctx context.Context, t core.NewTransaction) (core.Transaction, error)
	Ping(ctx context.Context) error
	Close() error
}
