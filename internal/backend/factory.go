package backend

import (
	"context"
	"fmt"
	"log/slog"

	"finanse/internal/amqp"
	"finanse/internal/config"
	"finanse/internal/events"
	applog "finanse/internal/log"
	"finanse/internal/natsbus"
	"finanse/internal/storage"
	"finanse/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger.With(applog.FieldComponent, applog.ComponentBackend),
	}
}

// CreateBackend opens the transaction store selected by config.Type.
func (f *DefaultFactory) CreateBackend(_ context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case PostgresBackend:
		return f.createPostgresBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Store:   repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createPostgresBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewPostgresRepository(config.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
	}

	f.logger.Info("Initialized Postgres backend")

	return &BackendResult{
		Store:   repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	store := memory.New()

	f.logger.Info("Initialized memory backend")

	return &BackendResult{
		Store:   store,
		Cleanup: func() error { return nil },
	}, nil
}

// CreatePublisher connects the event publisher selected by config.Broker.
// A broker that cannot be reached degrades to events.Noop so the API keeps
// serving writes.
func (f *DefaultFactory) CreatePublisher(_ context.Context, cfg Config) (events.Publisher, error) {
	switch cfg.Broker {
	case "", config.BrokerNone:
		return events.Noop{}, nil
	case config.BrokerAMQP:
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
			return events.Noop{}, nil
		}
		f.logger.Info("Initialized AMQP client",
			"exchange", cfg.AMQPExchange,
			"queue", cfg.AMQPQueue)
		return client, nil
	case config.BrokerNATS:
		bus, err := natsbus.Connect(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			f.logger.Warn("Failed to initialize NATS connection, continuing without events", "error", err)
			return events.Noop{}, nil
		}
		f.logger.Info("Initialized NATS publisher", "subject", cfg.NATSSubject)
		return bus, nil
	default:
		return nil, fmt.Errorf("unsupported events broker: %s", cfg.Broker)
	}
}
