// Package audit captures the append-only record of every mutating call and
// every compliance verdict.
//
// The Publisher has fail-closed semantics: the ledger blocks until the
// append succeeds, and if it cannot be persisted the business operation
// must not proceed. A lost audit record is worse than a failed transfer.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence port the publisher appends through.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Mirror receives a copy of every persisted event. Mirrors are fail-open:
// a mirror error is logged, never propagated.
type Mirror interface {
	Publish(ctx context.Context, event Event)
}

// Publisher writes audit events synchronously and fans copies out to
// mirrors (e.g. the Kafka stream for log-export tooling).
type Publisher struct {
	store   Store
	mirrors []Mirror
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for mirror failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithMirror adds a fail-open event mirror.
func WithMirror(m Mirror) Option {
	return func(p *Publisher) {
		if m != nil {
			p.mirrors = append(p.mirrors, m)
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// NewPublisher creates a fail-closed audit publisher.
func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit synchronously persists an event. Returns an error if persistence
// fails, and the caller MUST abort its operation. Assigns ID and timestamp
// when unset so call sites stay small.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := p.store.Append(ctx, event); err != nil {
		p.metrics.ObserveAppendFailure()
		return fmt.Errorf("append audit event: %w", err)
	}
	p.metrics.ObserveAppend()

	for _, m := range p.mirrors {
		m.Publish(ctx, event)
	}
	return nil
}
