package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nemt-billing/internal/config"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// billingEvent is the wire format for events published on the bus
type billingEvent struct {
	SubjectID uuid.UUID   `json:"subject_id"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NATSPublisher publishes billing events to NATS
type NATSPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewNATSPublisher connects to NATS and returns an event publisher
func NewNATSPublisher(cfg *config.NATSConfig, logger *zap.Logger) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ClientID),
		nats.Timeout(cfg.ConnectTimeout),
		nats.ReconnectWait(cfg.ReconnectDelay),
		nats.MaxReconnects(cfg.MaxReconnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS connection lost", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection restored", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("Connected to NATS",
		zap.String("url", cfg.URL),
		zap.String("client_id", cfg.ClientID),
	)

	return &NATSPublisher{
		conn:   conn,
		logger: logger,
	}, nil
}

// Close drains and closes the NATS connection
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// PublishBillingEvent publishes an event with the event type as subject
func (p *NATSPublisher) PublishBillingEvent(ctx context.Context, eventType string, subjectID uuid.UUID, data interface{}) error {
	event := billingEvent{
		SubjectID: subjectID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := p.conn.Publish(eventType, payload); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", eventType, err)
	}

	return nil
}

// NoopPublisher discards billing events. Used when the event bus is
// unavailable so billing operations keep working without it.
type NoopPublisher struct{}

// NewNoopPublisher returns a publisher that discards all events
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// PublishBillingEvent discards the event
func (p *NoopPublisher) PublishBillingEvent(_ context.Context, _ string, _ uuid.UUID, _ interface{}) error {
	return nil
}
