package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"finanse/internal/audit"
	"finanse/internal/backend"
	"finanse/internal/cli"
	"finanse/internal/config"
	apphttp "finanse/internal/http"
	applog "finanse/internal/log"
	"finanse/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	publisher, err := factory.CreatePublisher(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize events publisher", "error", err, "broker", cfg.EventsBroker)
		_ = result.Cleanup()
		os.Exit(1)
	}

	sink := audit.NewFileSink(cfg.AuditLogPath)
	svc := services.NewTransactionService(result.Store, sink, publisher)

	if cfg.SeedSampleData {
		n, err := svc.SeedSampleData(ctx)
		if err != nil {
			logger.Error("Failed to seed sample data", "error", err)
		} else if n > 0 {
			logger.Info("Seeded sample transactions", "count", n)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		AllowedOrigins:     cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
		Logger:             applog.New(applog.Config{Component: applog.ComponentHTTP, Handler: logger.Handler()}),
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting finanse server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"broker", cfg.EventsBroker,
			"audit_log", sink.Path(),
			"rate_limit_per_minute", cfg.RateLimitPerMinute)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		cli.RunCleanup(logger, cfg.ShutdownTimeout, func(ctx context.Context) error {
			return errors.Join(srv.Shutdown(ctx), svc.Close())
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	stats := srv.Stats()
	logger.Info("Server stopped gracefully",
		"total_requests", stats.TotalRequests,
		"server_errors", stats.ServerErrors,
		"rate_limited", stats.RateLimited)
}
