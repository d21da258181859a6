package compliance

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"coinscious/internal/registry"
	id "coinscious/pkg/domain"
	"coinscious/pkg/requestcontext"
)

// RegistryReader supplies claims snapshots. Implemented by the registry
// service; nil record means "no claims on file", not an error.
type RegistryReader interface {
	Record(ctx context.Context, wallet id.WalletAddress) (*registry.WalletRecord, error)
}

// ControlReader supplies the pause flag and per-wallet freezes. Implemented
// by the control service.
type ControlReader interface {
	IsPaused(ctx context.Context) (bool, error)
	IsFrozen(ctx context.Context, wallet id.WalletAddress) (bool, error)
}

// Checker loads the state the pure rule chain needs and evaluates it. The
// checks themselves are side-effect-free reads; the only observable output
// is the verdict.
type Checker struct {
	registry RegistryReader
	control  ControlReader
	metrics  *Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
}

// CheckerOption configures the Checker.
type CheckerOption func(*Checker)

// WithLogger sets a logger for verdict logging.
func WithLogger(logger *slog.Logger) CheckerOption {
	return func(c *Checker) {
		c.logger = logger
	}
}

// WithMetrics sets the verdict metrics collector.
func WithMetrics(m *Metrics) CheckerOption {
	return func(c *Checker) {
		c.metrics = m
	}
}

// NewChecker wires the compliance checker.
func NewChecker(reg RegistryReader, ctl ControlReader, opts ...CheckerOption) *Checker {
	c := &Checker{
		registry: reg,
		control:  ctl,
		logger:   slog.Default(),
		tracer:   otel.Tracer("coinscious/compliance"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsTransferAllowed is the central decision function: may `amount` move
// from `source` to `dest` within `partition`. The verdict carries a stable
// reason code and, for lockups, the blocking timestamp.
func (c *Checker) IsTransferAllowed(ctx context.Context, source id.Source, dest id.WalletAddress, partition id.Partition, amount int64) (Verdict, error) {
	ctx, span := c.tracer.Start(ctx, "compliance.IsTransferAllowed",
		trace.WithAttributes(
			attribute.String("partition", partition.String()),
			attribute.String("source", source.String()),
			attribute.String("destination", dest.String()),
		))
	defer span.End()

	in := Input{
		Source:    source,
		Partition: partition,
		Amount:    amount,
		Now:       requestcontext.Now(ctx),
	}

	var err error
	in.Paused, err = c.control.IsPaused(ctx)
	if err != nil {
		return Verdict{}, fmt.Errorf("load pause flag: %w", err)
	}

	if !source.IsExternal() {
		in.SourceParty, err = c.loadParty(ctx, source.Wallet())
		if err != nil {
			return Verdict{}, err
		}
	}
	in.Destination, err = c.loadParty(ctx, dest)
	if err != nil {
		return Verdict{}, err
	}

	verdict := Evaluate(in)

	span.SetAttributes(
		attribute.Bool("allowed", verdict.Allowed),
		attribute.String("reason", verdict.Reason.String()),
	)
	c.metrics.ObserveVerdict(partition, verdict.Reason)
	if !verdict.Allowed {
		c.logger.DebugContext(ctx, "transfer denied",
			"partition", partition.String(),
			"source", source.String(),
			"destination", dest.String(),
			"reason", verdict.Reason.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return verdict, nil
}

func (c *Checker) loadParty(ctx context.Context, wallet id.WalletAddress) (Party, error) {
	var p Party

	frozen, err := c.control.IsFrozen(ctx, wallet)
	if err != nil {
		return Party{}, fmt.Errorf("load freeze flag: %w", err)
	}
	p.Frozen = frozen

	if wallet.IsZero() {
		return p, nil
	}
	rec, err := c.registry.Record(ctx, wallet)
	if err != nil {
		return Party{}, fmt.Errorf("load claims: %w", err)
	}
	if rec == nil {
		return p, nil
	}
	p.Present = true
	p.Whitelisted = rec.Whitelisted
	p.Revoked = rec.Revoked
	p.Accredited = rec.Claims.Accredited
	p.USPerson = rec.Claims.IsUSPerson()
	p.LockupUntil = rec.Claims.LockupUntil
	p.ExpiresAt = rec.Claims.ExpiresAt
	return p, nil
}
