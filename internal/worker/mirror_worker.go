// Package worker consumes transaction events and mirrors them to a spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"finanse/internal/core"
	"finanse/internal/events"
	applog "finanse/internal/log"
	"finanse/internal/sheets"
)

// ErrMirrorNotLoaded is returned by Reconcile until LoadMirrored has read the
// sheet's ids; reconciling blind would append every stored row again.
var ErrMirrorNotLoaded = errors.New("mirrored ids not loaded")

// TransactionLister is the read side of the transaction store.
type TransactionLister interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
}

// MirrorWorker appends one spreadsheet row per created transaction. Ids that
// already have a row are skipped, so redelivered messages do not duplicate rows.
type MirrorWorker struct {
	writer sheets.TransactionWriter
	reader sheets.MirrorReader
	log    *applog.Logger

	mu       sync.Mutex
	mirrored map[int64]struct{}
	loaded   bool
}

// NewMirrorWorker creates a worker. reader may be nil, in which case only ids
// mirrored by this process are remembered.
func NewMirrorWorker(writer sheets.TransactionWriter, reader sheets.MirrorReader) *MirrorWorker {
	return &MirrorWorker{
		writer:   writer,
		reader:   reader,
		log:      applog.Default(applog.ComponentWorker),
		mirrored: make(map[int64]struct{}),
	}
}

// LoadMirrored refreshes the set of ids that already have a row. Without a
// reader it is a no-op and Reconcile stays unavailable.
func (w *MirrorWorker) LoadMirrored(ctx context.Context) error {
	if w.reader == nil {
		return nil
	}
	ids, err := w.reader.MirroredIDs(ctx)
	if err != nil {
		return fmt.Errorf("load mirrored ids: %w", err)
	}

	w.mu.Lock()
	for id := range ids {
		w.mirrored[id] = struct{}{}
	}
	w.loaded = true
	n := len(w.mirrored)
	w.mu.Unlock()

	w.log.InfoContext(ctx, "Loaded mirrored transaction ids", applog.FieldCount, n)
	return nil
}

// HandleTransactionCreated is an events.Handler.
func (w *MirrorWorker) HandleTransactionCreated(ctx context.Context, msg *events.TransactionCreated) error {
	return w.mirror(ctx, msg.Transaction())
}

// Reconcile appends every stored transaction that has no row yet, in id order.
// It recovers rows missed while the worker or the broker was down.
func (w *MirrorWorker) Reconcile(ctx context.Context, source TransactionLister) (int, error) {
	w.mu.Lock()
	loaded := w.loaded
	w.mu.Unlock()
	if !loaded {
		return 0, ErrMirrorNotLoaded
	}

	all, err := source.ListTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list transactions: %w", err)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	appended, failed := 0, 0
	for _, t := range all {
		if w.isMirrored(t.ID) {
			continue
		}
		if err := w.mirror(ctx, t); err != nil {
			if ctx.Err() != nil {
				return appended, ctx.Err()
			}
			failed++
			continue
		}
		appended++
	}

	w.log.InfoContext(ctx, "Startup reconcile completed",
		"total", len(all),
		"appended", appended,
		"errors", failed)
	if failed > 0 {
		return appended, fmt.Errorf("reconcile: %d transactions failed to mirror", failed)
	}
	return appended, nil
}

// Mirrored reports how many ids are known to have a row.
func (w *MirrorWorker) Mirrored() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.mirrored)
}

func (w *MirrorWorker) isMirrored(id int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.mirrored[id]
	return ok
}

func (w *MirrorWorker) mirror(ctx context.Context, t core.Transaction) error {
	if w.isMirrored(t.ID) {
		w.log.DebugContext(ctx, "Transaction already mirrored, skipping", applog.FieldTransactionID, t.ID)
		return nil
	}

	ref, err := w.writer.AppendTransaction(ctx, t)
	if err != nil {
		w.log.ErrorContext(ctx, "Failed to mirror transaction",
			applog.FieldTransactionID, t.ID,
			"operation", applog.OpMirror,
			"error", err)
		return fmt.Errorf("append transaction %d: %w", t.ID, err)
	}

	w.mu.Lock()
	w.mirrored[t.ID] = struct{}{}
	w.mu.Unlock()

	w.log.InfoContext(ctx, "Mirrored transaction",
		applog.FieldTransactionID, t.ID,
		applog.FieldType, t.Type.String(),
		applog.FieldCategory, t.Category,
		applog.FieldAmount, t.Amount,
		"row_ref", ref)
	return nil
}
