package memory

import (
	"context"
	"testing"

	"finanse/internal/core"
)

func TestMemoryStoreCreateAndList(t *testing.T) {
	s := New()
	ctx := context.Background()

	got, err := s.ListTransactions(ctx)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("unexpected empty list: %v err=%v", got, err)
	}

	a, _ := s.CreateTransaction(ctx, core.NewTransaction{Type: core.Expense, Category: "Food", Amount: 80, Date: "2025-05-01"})
	b, _ := s.CreateTransaction(ctx, core.NewTransaction{Type: core.Income, Category: "Salary", Amount: 4500, Date: "2025-05-01"})
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("unexpected ids: %d, %d", a.ID, b.ID)
	}

	got, _ = s.ListTransactions(ctx)
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("unexpected list: %v", got)
	}

	// The returned slice is a copy.
	got[0].Category = "changed"
	again, _ := s.ListTransactions(ctx)
	if again[0].Category != "Food" {
		t.Fatal("list exposed internal storage")
	}

	if n, _ := s.CountTransactions(ctx); n != 2 {
		t.Fatalf("count=%d", n)
	}
}
