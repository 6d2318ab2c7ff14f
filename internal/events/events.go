// Package events defines the messages exchanged over the event bus.
package events

import (
	"context"
	"encoding/json"
	"time"

	"finanse/internal/core"
)

// TransactionCreated is published after a transaction has been persisted.
// It carries the full record so consumers never need to read the store.
type TransactionCreated struct {
	ID        int64     `json:"id"`
	Type      core.Type `json:"type"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher sends events to a broker.
type Publisher interface {
	PublishTransactionCreated(ctx context.Context, t core.Transaction) error
	Close() error
}

// Handler processes one received event. A non-nil error asks the broker to
// redeliver when it supports that.
type Handler func(ctx context.Context, msg *TransactionCreated) error

// NewTransactionCreated creates a message for t stamped with the current time.
func NewTransactionCreated(t core.Transaction) *TransactionCreated {
	return &TransactionCreated{
		ID:        t.ID,
		Type:      t.Type,
		Category:  t.Category,
		Amount:    t.Amount,
		Date:      t.Date,
		Timestamp: time.Now(),
	}
}

// Transaction returns the record carried by the message.
func (m *TransactionCreated) Transaction() core.Transaction {
	return core.Transaction{
		ID:       m.ID,
		Type:     m.Type,
		Category: m.Category,
		Amount:   m.Amount,
		Date:     m.Date,
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionCreated) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionCreatedFromJSON creates a message from JSON bytes
func TransactionCreatedFromJSON(data []byte) (*TransactionCreated, error) {
	var msg TransactionCreated
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) PublishTransactionCreated(context.Context, core.Transaction) error { return nil }

func (Noop) Close() error { return nil }
