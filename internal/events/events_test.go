package events

import (
	"context"
	"testing"

	"finanse/internal/core"
)

func TestTransactionCreatedCarriesRecord(t *testing.T) {
	tx := core.Transaction{ID: 9, Type: core.Expense, Category: "Shopping", Amount: 230, Date: "2025-05-05"}
	msg := NewTransactionCreated(tx)
	if msg.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := TransactionCreatedFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Transaction() != tx {
		t.Fatalf("got %+v, want %+v", back.Transaction(), tx)
	}
}

func TestTransactionCreatedFromJSONRejectsGarbage(t *testing.T) {
	if _, err := TransactionCreatedFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error")
	}
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = Noop{}
	if err := p.PublishTransactionCreated(context.Background(), core.Transaction{ID: 1}); err != nil {
		t.Fatalf("noop publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("noop close: %v", err)
	}
}
