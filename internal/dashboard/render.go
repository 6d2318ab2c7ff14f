package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"finanse/internal/core"
)

const (
	barWidth      = 30
	progressWidth = 30
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))
	sectionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387"))
	alertStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f38ba8")).
			Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#f38ba8")).Padding(0, 1)
	activeTab   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#89b4fa")).Padding(0, 1)
	inactiveTab = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c")).Padding(0, 1)
)

// Render draws the whole dashboard. Metrics use the full list, the table
// only the filtered one.
func (d *Dashboard) Render() string {
	m := d.Metrics()
	filter := d.Filter()
	visible := d.Filtered()

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Finance Dashboard"),
		renderTotals(m),
		sectionStyle.Render("Expense structure"),
		renderExpenseChart(m.GroupedExpenses),
		sectionStyle.Render("Savings goal"),
		renderProgress(m.Progress),
		renderShoppingAlert(m),
		sectionStyle.Render("Transactions"),
		renderTabs(filter),
		renderTable(visible),
	)
}

func renderTotals(m core.Metrics) string {
	return fmt.Sprintf("%s  %s  Savings: %s",
		incomeStyle.Render("Income: "+m.TotalIncome.StringFixed(2)),
		expenseStyle.Render("Expenses: "+m.TotalExpense.StringFixed(2)),
		m.Savings.StringFixed(2))
}

// renderExpenseChart draws one horizontal bar per category, scaled to the
// largest category.
func renderExpenseChart(groups []core.CategoryAmount) string {
	if len(groups) == 0 {
		return mutedStyle.Render("No expenses yet.")
	}

	labelWidth := 0
	largest := decimal.Zero
	for _, g := range groups {
		labelWidth = max(labelWidth, lipgloss.Width(g.Name))
		if g.Value.GreaterThan(largest) {
			largest = g.Value
		}
	}

	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		cells := 0
		if largest.IsPositive() && g.Value.IsPositive() {
			cells = int(g.Value.Div(largest).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
			cells = max(cells, 1)
		}
		lines = append(lines, fmt.Sprintf("%-*s %s %s",
			labelWidth, g.Name,
			barStyle.Render(strings.Repeat("█", cells)),
			g.Value.StringFixed(2)))
	}
	return strings.Join(lines, "\n")
}

// renderProgress fills the bar within [0, 100] but labels the real rounded
// percentage, which may be negative.
func renderProgress(progress float64) string {
	fill := math.Max(0, math.Min(progress, 100))
	cells := int(math.Round(fill / 100 * progressWidth))
	bar := incomeStyle.Render(strings.Repeat("█", cells)) +
		mutedStyle.Render(strings.Repeat("░", progressWidth-cells))
	return fmt.Sprintf("%s %d%% of %d", bar, int(math.Round(progress)), core.SavingsGoal)
}

func renderShoppingAlert(m core.Metrics) string {
	if !m.ShoppingAlert {
		return ""
	}
	return alertStyle.Render(fmt.Sprintf("Shopping budget exceeded: %s of %d",
		m.ShoppingTotal.StringFixed(2), core.ShoppingLimit))
}

func renderTabs(active core.Filter) string {
	tabs := make([]string, 0, len(core.Filters()))
	for _, f := range core.Filters() {
		if f == active {
			tabs = append(tabs, activeTab.Render(string(f)))
		} else {
			tabs = append(tabs, inactiveTab.Render(string(f)))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func renderTable(ts []core.Transaction) string {
	if len(ts) == 0 {
		return mutedStyle.Render("No transactions.")
	}

	rows := make([][]string, 0, len(ts))
	for _, t := range ts {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			t.Date,
			t.Type.String(),
			t.Category,
			strconv.FormatFloat(t.Amount, 'f', 2, 64),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("ID", "Date", "Type", "Category", "Amount").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return s.Bold(true)
			case col == 2 && rows[row][2] == string(core.Income):
				return s.Inherit(incomeStyle)
			case col == 2:
				return s.Inherit(expenseStyle)
			}
			return s
		}).
		String()
}
