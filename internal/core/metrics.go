package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// SavingsGoal is the net savings target the progress bar measures against.
	SavingsGoal = 1000
	// ShoppingLimit is the budget for the shopping category.
	ShoppingLimit = 300
	// ShoppingCategory is matched case-insensitively.
	ShoppingCategory = "shopping"
)

const (
	FilterAll     Filter = "All"
	FilterExpense Filter = "Expense"
	FilterIncome  Filter = "Income"
)

// Filter restricts the visible transaction list. It never affects metrics.
type Filter string

// Filters returns the filters in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterExpense, FilterIncome}
}

// CategoryAmount is one chart entry: an expense category and its total.
type CategoryAmount struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// Metrics are derived from the full, unfiltered transaction list.
type Metrics struct {
	TotalIncome     decimal.Decimal  `json:"total_income"`
	TotalExpense    decimal.Decimal  `json:"total_expense"`
	Savings         decimal.Decimal  `json:"savings"`
	Progress        float64          `json:"progress"`
	ShoppingAlert   bool             `json:"shopping_alert"`
	ShoppingTotal   decimal.Decimal  `json:"shopping_total"`
	GroupedExpenses []CategoryAmount `json:"grouped_expenses"`
}

var (
	savingsGoal   = decimal.NewFromInt(SavingsGoal)
	shoppingLimit = decimal.NewFromInt(ShoppingLimit)
	hundred       = decimal.NewFromInt(100)
)

// ComputeMetrics recomputes every aggregate from scratch.
//
// Progress is capped at 100 but not floored: spending more than earned yields
// a negative percentage.
func ComputeMetrics(ts []Transaction) Metrics {
	m := Metrics{
		TotalIncome:     decimal.Zero,
		TotalExpense:    decimal.Zero,
		ShoppingTotal:   decimal.Zero,
		GroupedExpenses: []CategoryAmount{},
	}
	index := make(map[string]int)

	for _, t := range ts {
		amount := decimal.NewFromFloat(t.Amount)
		switch t.Type {
		case Income:
			m.TotalIncome = m.TotalIncome.Add(amount)
		case Expense:
			m.TotalExpense = m.TotalExpense.Add(amount)
			if strings.ToLower(t.Category) == ShoppingCategory {
				m.ShoppingTotal = m.ShoppingTotal.Add(amount)
			}
			i, ok := index[t.Category]
			if !ok {
				i = len(m.GroupedExpenses)
				index[t.Category] = i
				m.GroupedExpenses = append(m.GroupedExpenses, CategoryAmount{Name: t.Category, Value: decimal.Zero})
			}
			m.GroupedExpenses[i].Value = m.GroupedExpenses[i].Value.Add(amount)
		}
	}

	m.Savings = m.TotalIncome.Sub(m.TotalExpense)
	progress := m.Savings.Div(savingsGoal).Mul(hundred)
	if progress.GreaterThan(hundred) {
		progress = hundred
	}
	m.Progress = progress.InexactFloat64()
	m.ShoppingAlert = m.ShoppingTotal.GreaterThan(shoppingLimit)

	return m
}

// FilterTransactions returns the transactions visible under f. FilterAll (and
// the zero Filter) returns ts unchanged; any other value matches on type.
func FilterTransactions(ts []Transaction, f Filter) []Transaction {
	if f == FilterAll || f == "" {
		return ts
	}
	out := make([]Transaction, 0, len(ts))
	for _, t := range ts {
		if string(t.Type) == string(f) {
			out = append(out, t)
		}
	}
	return out
}
