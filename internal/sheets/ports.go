package sheets

import (
	"context"

	"finanse/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionWriter mirrors a stored transaction as one spreadsheet row.
	TransactionWriter interface {
		AppendTransaction(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}

	// MirrorReader reports which transaction ids already have a row.
	MirrorReader interface {
		MirroredIDs(ctx context.Context) (map[int64]struct{}, error)
	}
)
