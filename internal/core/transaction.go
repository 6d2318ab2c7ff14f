package core

import (
	"errors"
	"math"
)

const (
	Expense Type = "Expense"
	Income  Type = "Income"
)

type (
	// Type is the kind of a transaction. Only the client restricts it to
	// Expense/Income; the store keeps whatever string it receives.
	Type string

	Transaction struct {
		ID       int64   `json:"id"`
		Type     Type    `json:"type"`
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
		Date     string  `json:"date"` // YYYY-MM-DD, not parsed
	}

	// NewTransaction is the create payload: a transaction without its id.
	NewTransaction struct {
		Type     Type    `json:"type"`
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
		Date     string  `json:"date"`
	}
)

// ErrMissingFields is returned when any of type, category, amount or date is
// absent, empty or zero.
var ErrMissingFields = errors.New("missing required fields")

// Types returns the transaction types offered by the client.
func Types() []Type {
	return []Type{Expense, Income}
}

// Valid reports whether t is one of the client-side types.
func (t Type) Valid() bool {
	switch t {
	case Expense, Income:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	return string(t)
}

// Validate rejects payloads with a falsy field. Negative amounts and
// malformed dates pass.
func (n NewTransaction) Validate() error {
	if n.Type == "" || n.Category == "" || n.Date == "" {
		return ErrMissingFields
	}
	if n.Amount == 0 || math.IsNaN(n.Amount) {
		return ErrMissingFields
	}
	return nil
}

// WithID returns the stored form of n under the given id.
func (n NewTransaction) WithID(id int64) Transaction {
	return Transaction{
		ID:       id,
		Type:     n.Type,
		Category: n.Category,
		Amount:   n.Amount,
		Date:     n.Date,
	}
}
