// Package events publishes storefront activity for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/stride/internal"
	"github.com/nats-io/nats.go"
)

// Event names.
const (
	CartItemAdded      = "cart.item_added"
	CartCleared        = "cart.cleared"
	OrderPlaced        = "order.placed"
	OrderStatusUpdated = "order.status_updated"
	SessionLogin       = "session.login"
	SessionLogout      = "session.logout"
)

// Event is one published fact.
type Event struct {
	Name       string         `json:"event"`
	VisitorID  string         `json:"visitorId,omitempty"`
	CustomerID string         `json:"customerId,omitempty"`
	At         time.Time      `json:"at"`
	Data       map[string]any `json:"data,omitempty"`
}

// Publisher delivers events. Delivery failures are logged, never returned;
// storefront operations do not depend on it.
type Publisher interface {
	Publish(ctx context.Context, e Event)
	Close() error
}

// New connects to NATS when cfg.URL is set and falls back to logging otherwise.
func New(cfg internal.NATSConfig, logger *slog.Logger) (Publisher, error) {
	if cfg.URL == "" {
		logger.Info("NATS_URL not set, storefront events are logged only")
		return NewLogPublisher(logger), nil
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Name("stride"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("Connected to NATS", slog.String("url", nc.ConnectedUrl()))
	return newNATSPublisher(nc, cfg.SubjectPrefix, logger), nil
}

// conn is the part of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// NATSPublisher publishes each event as JSON on "<prefix>.<event>".
type NATSPublisher struct {
	conn   conn
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

func newNATSPublisher(c conn, prefix string, logger *slog.Logger) *NATSPublisher {
	if prefix == "" {
		prefix = "stride"
	}
	return &NATSPublisher{conn: c, prefix: prefix, logger: logger, now: time.Now}
}

func (p *NATSPublisher) Subject(name string) string {
	return p.prefix + "." + name
}

func (p *NATSPublisher) Publish(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = p.now().UTC()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to encode event", slog.String("event", e.Name), slog.String("error", err.Error()))
		return
	}
	if err := p.conn.Publish(p.Subject(e.Name), payload); err != nil {
		p.logger.WarnContext(ctx, "failed to publish event", slog.String("event", e.Name), slog.String("error", err.Error()))
	}
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// LogPublisher writes events to the log at debug level.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) {
	p.logger.DebugContext(ctx, "storefront event",
		slog.String("event", e.Name),
		slog.String("visitor_id", e.VisitorID),
		slog.Any("data", e.Data),
	)
}

func (p *LogPublisher) Close() error { return nil }
