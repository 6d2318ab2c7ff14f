package memory

import (
	"context"
	"sync"

	"finanse/internal/core"
)

// Store keeps transactions in process memory. Ids start at 1 and never repeat.
type Store struct {
	mu     sync.Mutex
	items  []core.Transaction
	lastID int64
}

func New() *Store {
	return &Store{}
}

// CreateTransaction stores t under the next id.
func (s *Store) CreateTransaction(_ context.Context, t core.NewTransaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	created := t.WithID(s.lastID)
	s.items = append(s.items, created)
	return created, nil
}

// ListTransactions returns a copy of all transactions in insertion order.
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(make([]core.Transaction, 0, len(s.items)), s.items...), nil
}

func (s *Store) CountTransactions(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
