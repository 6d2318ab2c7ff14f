//go:build integration

package storage

import (
	"context"
	"os"
	"testing"

	"finanse/internal/core"
)

// Run with: POSTGRES_DSN=postgres://... go test -tags=integration ./internal/storage

func TestIntegration_PostgresRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set, skipping integration test")
	}

	repo, err := NewPostgresRepository(dsn)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	before, err := repo.CountTransactions(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}

	first, err := repo.CreateTransaction(ctx, core.NewTransaction{Type: core.Expense, Category: "Food", Amount: 80, Date: "2025-05-01"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := repo.CreateTransaction(ctx, core.NewTransaction{Type: core.Income, Category: "Salary", Amount: 4500, Date: "2025-05-01"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("ids not increasing: %d then %d", first.ID, second.ID)
	}

	list, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if int64(len(list)) != before+2 {
		t.Fatalf("got %d rows, want %d", len(list), before+2)
	}

	// Migrations are idempotent.
	if err := RunPostgresMigrations(dsn); err != nil {
		t.Fatalf("second migration run: %v", err)
	}
}
