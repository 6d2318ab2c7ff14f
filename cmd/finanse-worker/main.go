package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"finanse/internal/amqp"
	"finanse/internal/backend"
	"finanse/internal/cli"
	"finanse/internal/config"
	"finanse/internal/events"
	"finanse/internal/natsbus"
	gsheet "finanse/internal/sheets/google"
	"finanse/internal/worker"
)

type consumer interface {
	Close() error
}

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting finanse-worker")

	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	sheetsClient, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	if err := sheetsClient.EnsureHeader(ctx); err != nil {
		logger.Error("Failed to prepare sheet header", "error", err, "sheet", cfg.GoogleSheetName)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName)

	mirror := worker.NewMirrorWorker(sheetsClient, sheetsClient)
	if err := mirror.LoadMirrored(ctx); err != nil {
		// Without the id set redelivered messages may duplicate rows.
		logger.Error("Failed to load mirrored ids, skipping startup reconcile", "error", err)
	} else {
		reconcile(ctx, logger, cfg, mirror)
	}

	var (
		conn    consumer
		consume func(context.Context, events.Handler) error
	)
	switch cfg.EventsBroker {
	case config.BrokerAMQP:
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		conn, consume = client, client.ConsumeTransactionCreated
	case config.BrokerNATS:
		bus, err := natsbus.Connect(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		conn, consume = bus, bus.SubscribeTransactionCreated
	}
	defer conn.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := consume(gctx, mirror.HandleTransactionCreated)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Message consumption failed", "error", err, "broker", cfg.EventsBroker)
		os.Exit(1)
	}
	logger.Info("Worker stopped", "mirrored", mirror.Mirrored())
}

// reconcile mirrors rows missed while the worker was down. Only durable
// backends are shared with the API process, so memory is skipped.
func reconcile(ctx context.Context, logger *slog.Logger, cfg *config.Config, mirror *worker.MirrorWorker) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil || backendCfg.Type == backend.MemoryBackend {
		logger.Info("Skipping startup reconcile", "backend", cfg.DataBackend)
		return
	}

	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to open store for reconcile", "error", err, "backend", cfg.DataBackend)
		return
	}
	defer result.Cleanup()

	logger.Info("Performing startup reconcile...")
	if _, err := mirror.Reconcile(ctx, result.Store); err != nil {
		logger.Error("Startup reconcile failed", "error", err)
	}
}
