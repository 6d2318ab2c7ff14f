// Package dashboard is the terminal client of the transaction API. It keeps
// the last fetched list, derives metrics from it and submits new records.
package dashboard

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"finanse/internal/core"
)

// API is the part of Client the dashboard depends on.
type API interface {
	List(ctx context.Context) ([]core.Transaction, error)
	Create(ctx context.Context, in CreateRequest) (core.Transaction, error)
}

// Draft is the entry form. AmountText is kept as typed.
type Draft struct {
	Type       core.Type
	Category   string
	AmountText string
	Date       string
}

func DefaultDraft() Draft {
	return Draft{Type: core.Expense}
}

type Dashboard struct {
	api API
	log *log.Logger

	mu           sync.RWMutex
	transactions []core.Transaction
	filter       core.Filter
	draft        Draft
}

func New(api API, logger *log.Logger) *Dashboard {
	if logger == nil {
		logger = log.Default()
	}
	return &Dashboard{
		api:          api,
		log:          logger,
		transactions: []core.Transaction{},
		filter:       core.FilterAll,
		draft:        DefaultDraft(),
	}
}

// Load replaces the local list with the server's. On failure the current
// state is kept and the error is only logged.
func (d *Dashboard) Load(ctx context.Context) {
	list, err := d.api.List(ctx)
	if err != nil {
		d.log.Error("failed to fetch transactions", "err", err)
		return
	}

	d.mu.Lock()
	d.transactions = list
	d.mu.Unlock()
	d.log.Debug("fetched transactions", "count", len(list))
}

// Submit posts the draft. On success the draft is reset and the list is
// fetched again; on failure nothing changes besides a log line.
func (d *Dashboard) Submit(ctx context.Context) {
	d.mu.RLock()
	draft := d.draft
	d.mu.RUnlock()

	if !draft.Type.Valid() {
		d.log.Error("failed to add transaction: unknown type", "type", draft.Type)
		return
	}

	created, err := d.api.Create(ctx, CreateRequest{
		Type:     draft.Type,
		Category: draft.Category,
		Amount:   parseAmount(draft.AmountText),
		Date:     draft.Date,
	})
	if err != nil {
		d.log.Error("failed to add transaction", "err", err)
		return
	}
	d.log.Info("transaction added", "id", created.ID, "category", created.Category)

	d.mu.Lock()
	d.draft = DefaultDraft()
	d.mu.Unlock()

	d.Load(ctx)
}

// SetFilter changes the visible list without touching the server.
func (d *Dashboard) SetFilter(f core.Filter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filter = f
}

func (d *Dashboard) Filter() core.Filter {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.filter
}

func (d *Dashboard) Draft() Draft {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.draft
}

func (d *Dashboard) SetDraft(draft Draft) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.draft = draft
}

// Transactions returns a copy of the full list.
func (d *Dashboard) Transactions() []core.Transaction {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]core.Transaction{}, d.transactions...)
}

// Filtered returns the list restricted to the active filter.
func (d *Dashboard) Filtered() []core.Transaction {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return core.FilterTransactions(d.transactions, d.filter)
}

// Metrics are always computed over the full list, whatever the filter.
func (d *Dashboard) Metrics() core.Metrics {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return core.ComputeMetrics(d.transactions)
}

// parseAmount returns nil for text that is not a finite number.
func parseAmount(text string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
