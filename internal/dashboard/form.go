package dashboard

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"finanse/internal/core"
)

// Action is a main menu choice.
type Action string

const (
	ActionAdd     Action = "add"
	ActionFilter  Action = "filter"
	ActionRefresh Action = "refresh"
	ActionQuit    Action = "quit"
)

// RunMenu asks for the next action. An aborted prompt counts as quit.
func RunMenu(ctx context.Context) (Action, error) {
	action := ActionAdd
	err := runField(ctx, huh.NewSelect[Action]().
		Title("What next?").
		Options(
			huh.NewOption("Add transaction", ActionAdd),
			huh.NewOption("Change filter", ActionFilter),
			huh.NewOption("Refresh", ActionRefresh),
			huh.NewOption("Quit", ActionQuit),
		).
		Value(&action))
	if errors.Is(err, huh.ErrUserAborted) {
		return ActionQuit, nil
	}
	return action, err
}

// RunFilterSelect asks for a filter, starting from current.
func RunFilterSelect(ctx context.Context, current core.Filter) (core.Filter, error) {
	selected := current
	opts := make([]huh.Option[core.Filter], 0, len(core.Filters()))
	for _, f := range core.Filters() {
		opts = append(opts, huh.NewOption(string(f), f))
	}
	err := runField(ctx, huh.NewSelect[core.Filter]().
		Title("Show").
		Options(opts...).
		Value(&selected))
	if errors.Is(err, huh.ErrUserAborted) {
		return current, nil
	}
	return selected, err
}

// RunDraftForm edits draft in place and reports whether it was confirmed.
// Every field is required; the amount is not checked for being numeric.
func RunDraftForm(ctx context.Context, draft *Draft) (bool, error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[core.Type]().
				Title("Type").
				Options(
					huh.NewOption("Expense", core.Expense),
					huh.NewOption("Income", core.Income),
				).
				Value(&draft.Type),
			huh.NewInput().
				Title("Category").
				Value(&draft.Category).
				Validate(required("category")),
			huh.NewInput().
				Title("Amount").
				Value(&draft.AmountText).
				Validate(required("amount")),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&draft.Date).
				Validate(required("date")),
		),
	)
	err := form.RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return err == nil, err
}

func runField(ctx context.Context, f huh.Field) error {
	return huh.NewForm(huh.NewGroup(f)).RunWithContext(ctx)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}
