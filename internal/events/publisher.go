// Package events publishes check events to NATS so downstream consumers
// (analytics, dashboards) can observe a worker fleet without scraping it.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/divvun/divvun-worker-grammar/internal/logfields"
)

// CheckEvent is emitted once per completed grammar check.
type CheckEvent struct {
	ID         string    `json:"id"`
	Language   string    `json:"language"`
	TextLen    int       `json:"text_len"`
	ErrCount   int       `json:"err_count"`
	DurationMS float64   `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher publishes check events to a NATS subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to NATS. Connection failure is returned to the caller;
// events are an opt-in subsystem, so the caller decides whether that is fatal.
func NewPublisher(natsURL, subject string) (*Publisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("divvun-worker-grammar"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("NATS publisher initialized", "url", natsURL, "subject", subject)

	return &Publisher{conn: conn, subject: subject}, nil
}

// Publish sends one check event. Publish failures are logged, not returned:
// event delivery must never fail a check response.
func (p *Publisher) Publish(ev CheckEvent) {
	if p == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("Failed to marshal check event", logfields.Error(err))
		return
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		slog.Warn("Failed to publish check event", logfields.Error(err))
	}
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		slog.Warn("Failed to drain NATS connection", logfields.Error(err))
	}
}
