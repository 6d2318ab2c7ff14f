package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finanse/internal/audit"
	"finanse/internal/core"
	"finanse/internal/events"
	applog "finanse/internal/log"
	"finanse/internal/storage"
)

// TransactionService orchestrates transaction operations across the store,
// the audit sink and the event publisher.
type TransactionService struct {
	store     storage.TransactionStore
	sink      audit.Sink
	publisher events.Publisher
	now       func() time.Time
	log       *applog.Logger
}

// NewTransactionService wires the collaborators. A nil sink or publisher
// disables that side effect.
func NewTransactionService(store storage.TransactionStore, sink audit.Sink, publisher events.Publisher) *TransactionService {
	if sink == nil {
		sink = audit.Discard{}
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &TransactionService{
		store:     store,
		sink:      sink,
		publisher: publisher,
		now:       time.Now,
		log:       applog.Default(applog.ComponentService),
	}
}

func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	ts, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return ts, nil
}

// Create validates and persists nt. The audit entry and the created event
// are best-effort: their failures are logged and never returned.
func (s *TransactionService) Create(ctx context.Context, nt core.NewTransaction) (core.Transaction, error) {
	if err := nt.Validate(); err != nil {
		return core.Transaction{}, err
	}

	t, err := s.store.CreateTransaction(ctx, nt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.logger(ctx, applog.ComponentService).LogTransactionCreated(ctx, t.ID, t.Type.String(), t.Category, t.Amount, t.Date)

	// The row is committed; a client hanging up must not drop its side effects.
	sideCtx := context.WithoutCancel(ctx)
	fields := func() applog.LogFields {
		return applog.NewFields().WithTransaction(t.ID, t.Type.String(), t.Category, t.Amount, t.Date)
	}

	entry := audit.NewEntry(audit.ActionTransactionAdded, t, s.now())
	if err := s.sink.Append(sideCtx, entry); err != nil {
		s.logger(ctx, applog.ComponentAudit).LogError(ctx, "Failed to append audit entry", err, applog.OpAppend, fields())
	}

	if err := s.publisher.PublishTransactionCreated(sideCtx, t); err != nil {
		s.logger(ctx, applog.ComponentEvents).LogError(ctx, "Failed to publish transaction created event", err, applog.OpPublish, fields())
	}

	return t, nil
}

// logger prefers the request-scoped logger so lines keep their request_id.
func (s *TransactionService) logger(ctx context.Context, component string) *applog.StructuredLogger {
	return applog.NewStructuredLogger(applog.FromContextOr(ctx, s.log).WithComponent(component))
}

// Summary computes the dashboard metrics over every stored transaction.
func (s *TransactionService) Summary(ctx context.Context) (core.Metrics, error) {
	ts, err := s.List(ctx)
	if err != nil {
		return core.Metrics{}, err
	}
	return core.ComputeMetrics(ts), nil
}

// SampleTransactions are inserted by SeedSampleData into an empty store.
var SampleTransactions = []core.NewTransaction{
	{Type: core.Expense, Category: "Food", Amount: 80, Date: "2025-05-01"},
	{Type: core.Expense, Category: "Transport", Amount: 50, Date: "2025-05-02"},
	{Type: core.Expense, Category: "Entertainment", Amount: 120, Date: "2025-05-03"},
	{Type: core.Income, Category: "Salary", Amount: 4500, Date: "2025-05-01"},
	{Type: core.Expense, Category: "Shopping", Amount: 230, Date: "2025-05-05"},
	{Type: core.Expense, Category: "Health", Amount: 90, Date: "2025-05-06"},
}

// SeedSampleData inserts SampleTransactions when the store is empty and
// reports how many rows were written. Seeding skips audit and events.
func (s *TransactionService) SeedSampleData(ctx context.Context) (int, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, nt := range SampleTransactions {
		if _, err := s.store.CreateTransaction(ctx, nt); err != nil {
			return i, fmt.Errorf("seed sample data: %w", err)
		}
	}

	applog.FromContextOr(ctx, s.log).InfoContext(ctx, "Seeded sample data",
		applog.FieldOperation, applog.OpSeed,
		applog.FieldCount, len(SampleTransactions))
	return len(SampleTransactions), nil
}

// Ready reports whether the store answers.
func (s *TransactionService) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close closes the publisher and the store.
func (s *TransactionService) Close() error {
	var errs []error

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %w", errors.Join(errs...))
	}

	return nil
}
