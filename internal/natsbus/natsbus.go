// Package natsbus publishes and consumes transaction events over NATS.
package natsbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"finanse/internal/core"
	"finanse/internal/events"
)

// QueueGroup load-balances messages between worker instances.
const QueueGroup = "finanse-worker"

type Bus struct {
	nc      *nats.Conn
	subject string
}

var _ events.Publisher = (*Bus)(nil)

// Connect dials the NATS server at url. The connection reconnects forever.
func Connect(url, subject string) (*Bus, error) {
	nc, err := nats.Connect(url,
		nats.Name("finanse"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect NATS: %w", err)
	}
	return New(nc, subject), nil
}

func New(nc *nats.Conn, subject string) *Bus {
	return &Bus{nc: nc, subject: subject}
}

// PublishTransactionCreated publishes t on the configured subject.
func (b *Bus) PublishTransactionCreated(ctx context.Context, t core.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := events.NewTransactionCreated(t).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := b.nc.Publish(b.subject, body); err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.InfoContext(ctx, "Published transaction created message", "id", t.ID, "subject", b.subject)
	return nil
}

// SubscribeTransactionCreated delivers messages to handler until ctx is done.
// NATS core has no redelivery, so handler errors are only logged.
func (b *Bus) SubscribeTransactionCreated(ctx context.Context, handler events.Handler) error {
	sub, err := b.nc.QueueSubscribe(b.subject, QueueGroup, func(m *nats.Msg) {
		if err := dispatch(ctx, m.Data, handler); err != nil {
			slog.ErrorContext(ctx, "Failed to handle NATS message", "error", err, "subject", m.Subject)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", b.subject, err)
	}

	slog.InfoContext(ctx, "Started consuming transaction messages", "subject", b.subject, "queue", QueueGroup)

	<-ctx.Done()
	if err := sub.Unsubscribe(); err != nil {
		slog.WarnContext(ctx, "NATS unsubscribe failed", "error", err)
	}
	return ctx.Err()
}

func dispatch(ctx context.Context, data []byte, handler events.Handler) error {
	msg, err := events.TransactionCreatedFromJSON(data)
	if err != nil {
		return fmt.Errorf("unmarshal message: %w", err)
	}
	return handler(ctx, msg)
}

func (b *Bus) Close() error {
	if b.nc == nil {
		return nil
	}
	if err := b.nc.Drain(); err != nil {
		b.nc.Close()
		return err
	}
	return nil
}
