// Package snapshot serves point-in-time ledger captures to the payout
// engine. Taking a snapshot is serialized with ledger mutations, so a
// capture is internally consistent; the latest capture is cached so
// repeated pro-rata reads don't hold the ledger guard.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"coinscious/internal/ledger"
)

// Taker is the ledger port producing consistent captures.
type Taker interface {
	TakeSnapshot(ctx context.Context) (*ledger.Snapshot, error)
}

const defaultTTL = 5 * time.Minute

// Service takes and caches ledger snapshots.
type Service struct {
	ledger Taker
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a logger for cache faults.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTTL overrides how long a capture is served before Latest falls
// through to a fresh Take.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewService wires the snapshot service.
func NewService(taker Taker, cache Cache, opts ...Option) *Service {
	s := &Service{
		ledger: taker,
		cache:  cache,
		ttl:    defaultTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Take captures a fresh snapshot and caches it.
func (s *Service) Take(ctx context.Context) (*ledger.Snapshot, error) {
	snap, err := s.ledger.TakeSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("take snapshot: %w", err)
	}
	value, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.cache.Set(ctx, value, s.ttl); err != nil {
		// Cache faults degrade to per-request captures; the snapshot
		// itself is still good.
		s.logger.WarnContext(ctx, "snapshot cache write failed", "err", err)
	}
	return snap, nil
}

// Latest returns the cached capture, taking a fresh one on a miss.
func (s *Service) Latest(ctx context.Context) (*ledger.Snapshot, error) {
	value, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "snapshot cache read failed", "err", err)
	}
	if value != nil {
		var snap ledger.Snapshot
		if err := json.Unmarshal(value, &snap); err == nil {
			return &snap, nil
		}
		s.logger.WarnContext(ctx, "snapshot cache entry corrupt, refreshing")
	}
	return s.Take(ctx)
}
