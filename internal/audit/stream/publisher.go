// Package stream mirrors persisted audit events to Kafka for downstream
// log-export tooling. The mirror is fail-open: the PostgreSQL store is the
// record; the stream is a copy. Events that cannot be produced are logged
// and dropped, never blocking a ledger operation.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"coinscious/internal/audit"
)

const defaultBufferSize = 1024

// Publisher produces audit events to one Kafka topic, keyed by actor so
// per-wallet ordering survives partitioning.
type Publisher struct {
	client *kgo.Client
	topic  string
	inbox  chan audit.Event
	logger *slog.Logger
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for produce failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// New connects to Kafka and ensures the topic exists.
func New(brokers []string, topic string, opts ...Option) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}

	adm := kadm.NewClient(client)
	ctx := context.Background()
	if _, err := adm.CreateTopic(ctx, 1, 1, nil, topic); err != nil {
		// Already-exists is fine; anything else surfaces at first produce.
		slog.Default().Debug("create audit topic", "topic", topic, "err", err)
	}

	p := &Publisher{
		client: client,
		topic:  topic,
		inbox:  make(chan audit.Event, defaultBufferSize),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Publish enqueues an event for the background producer. Drops with a log
// line when the buffer is full; the mirror never applies backpressure to
// the ledger.
func (p *Publisher) Publish(ctx context.Context, event audit.Event) {
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit stream buffer full, dropping event",
			"event_id", event.ID.String(),
		)
	}
}

// Run drains the inbox and produces until ctx is cancelled. Call in its own
// goroutine (cmd/server runs it under an errgroup).
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.client.Close()
			return ctx.Err()
		case event := <-p.inbox:
			p.produce(ctx, event)
		}
	}
}

func (p *Publisher) produce(ctx context.Context, event audit.Event) {
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "marshal audit event", "err", err)
		return
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.Actor.String()),
		Value: value,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.ErrorContext(ctx, "produce audit event",
				"event_id", event.ID.String(),
				"err", err,
			)
		}
	})
}
