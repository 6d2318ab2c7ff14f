package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"

	"finanse/internal/cli"
	"finanse/internal/config"
	"finanse/internal/dashboard"
)

func main() {
	cli.LoadEnvFile()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "dashboard",
		Level:  log.InfoLevel,
	})
	if lvl, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}

	cfg := cli.LoadAndValidateConfig(slog.New(logger), (*config.Config).ValidateClient)

	ctx, cancel := cli.SignalContext(slog.New(logger))
	defer cancel()

	d := dashboard.New(dashboard.NewClient(cfg.APIBaseURL, nil), logger)
	d.Load(ctx)

	if err := run(ctx, d); err != nil && ctx.Err() == nil {
		logger.Error("dashboard stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, d *dashboard.Dashboard) error {
	for {
		fmt.Println(d.Render())

		action, err := dashboard.RunMenu(ctx)
		if err != nil {
			return err
		}

		switch action {
		case dashboard.ActionAdd:
			draft := d.Draft()
			ok, err := dashboard.RunDraftForm(ctx, &draft)
			if err != nil {
				return err
			}
			d.SetDraft(draft)
			if ok {
				d.Submit(ctx)
			}
		case dashboard.ActionFilter:
			f, err := dashboard.RunFilterSelect(ctx, d.Filter())
			if err != nil {
				return err
			}
			d.SetFilter(f)
		case dashboard.ActionRefresh:
			d.Load(ctx)
		case dashboard.ActionQuit:
			return nil
		}
	}
}
