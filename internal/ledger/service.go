package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"coinscious/internal/audit"
	"coinscious/internal/compliance"
	"coinscious/internal/ledger/store"
	id "coinscious/pkg/domain"
	dErrors "coinscious/pkg/domain-errors"
	"coinscious/pkg/requestcontext"
)

// Checker is the rules-engine port. Implemented by the compliance checker.
type Checker interface {
	IsTransferAllowed(ctx context.Context, source id.Source, dest id.WalletAddress, partition id.Partition, amount int64) (compliance.Verdict, error)
}

// Control is the role/pause/freeze port. Implemented by the control
// service.
type Control interface {
	RequireRole(ctx context.Context, role id.Role) error
	IsPaused(ctx context.Context) (bool, error)
	IsFrozen(ctx context.Context, wallet id.WalletAddress) (bool, error)
}

// AuditSink receives the record of every operation, applied or denied.
// Emit failing aborts the operation: no unaudited balance ever moves.
type AuditSink interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the partitioned ledger. Every mutating call validates
// structure, checks the caller's role, consults the rules engine, emits an
// audit record carrying the verdict, and only then applies the balance
// change as one atomic unit.
type Service struct {
	store   store.Store
	checker Checker
	control Control
	audit   AuditSink
	guard   guard
	metrics *Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a logger for applied operations.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the operation metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService wires the ledger.
func NewService(st store.Store, checker Checker, control Control, sink AuditSink, opts ...Option) *Service {
	s := &Service{
		store:   st,
		checker: checker,
		control: control,
		audit:   sink,
		logger:  slog.Default(),
		tracer:  otel.Tracer("coinscious/ledger"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue mints amount into to's balance and the partition supply.
// Controller only; the rules engine sees an external source, so only the
// destination's compliance matters.
func (s *Service) Issue(ctx context.Context, partition id.Partition, to id.WalletAddress, amount int64) (*Result, error) {
	ctx, done, err := s.guard.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer done()
	ctx, span := s.tracer.Start(ctx, "ledger.Issue")
	defer span.End()

	if err := validateParty(partition, to, amount); err != nil {
		return nil, err
	}
	if err := s.control.RequireRole(ctx, id.RoleController); err != nil {
		return nil, err
	}

	verdict, err := s.checker.IsTransferAllowed(ctx, id.ExternalSource(), to, partition, amount)
	if err != nil {
		return nil, err
	}
	result, err := s.record(ctx, span, audit.Event{
		Action:      audit.ActionIssue,
		Role:        id.RoleController,
		Source:      id.ExternalSource().String(),
		Destination: to,
		Partition:   partition,
		Amount:      amount,
	}, verdict)
	if err != nil || !result.Allowed {
		return result, err
	}

	if err := s.store.ApplyIssue(ctx, partition, to, amount); err != nil {
		return nil, fmt.Errorf("apply issue: %w", err)
	}
	s.logApplied(ctx, audit.ActionIssue, partition, amount)
	return result, nil
}

// Redeem burns amount from from's balance and the partition supply.
// Controller only. Redemption reduces exposure, so it deliberately skips
// the whitelist and lockup rules so that a holder's compliance lapse can
// never trap supply, but the pause and freeze gates still apply.
func (s *Service) Redeem(ctx context.Context, partition id.Partition, from id.WalletAddress, amount int64) (*Result, error) {
	ctx, done, err := s.guard.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer done()
	ctx, span := s.tracer.Start(ctx, "ledger.Redeem")
	defer span.End()

	if err := validateParty(partition, from, amount); err != nil {
		return nil, err
	}
	if err := s.requireBalance(ctx, partition, from, amount); err != nil {
		return nil, err
	}
	if err := s.control.RequireRole(ctx, id.RoleController); err != nil {
		return nil, err
	}

	verdict, err := s.safetyGates(ctx, from)
	if err != nil {
		return nil, err
	}
	result, err := s.record(ctx, span, audit.Event{
		Action:    audit.ActionRedeem,
		Role:      id.RoleController,
		Source:    from.String(),
		Partition: partition,
		Amount:    amount,
	}, verdict)
	if err != nil || !result.Allowed {
		return result, err
	}

	if err := s.store.ApplyRedeem(ctx, partition, from, amount); err != nil {
		return nil, fmt.Errorf("apply redeem: %w", err)
	}
	s.logApplied(ctx, audit.ActionRedeem, partition, amount)
	return result, nil
}

// Transfer moves amount from the authenticated caller to to, within one
// partition. Supply is unchanged. The full rule chain applies to both
// sides.
func (s *Service) Transfer(ctx context.Context, partition id.Partition, to id.WalletAddress, amount int64) (*Result, error) {
	ctx, done, err := s.guard.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer done()
	ctx, span := s.tracer.Start(ctx, "ledger.Transfer")
	defer span.End()

	from := requestcontext.Actor(ctx)
	if from.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}
	if err := validateParty(partition, to, amount); err != nil {
		return nil, err
	}
	if err := s.requireBalance(ctx, partition, from, amount); err != nil {
		return nil, err
	}

	verdict, err := s.checker.IsTransferAllowed(ctx, id.WalletSource(from), to, partition, amount)
	if err != nil {
		return nil, err
	}
	result, err := s.record(ctx, span, audit.Event{
		Action:      audit.ActionTransfer,
		Source:      from.String(),
		Destination: to,
		Partition:   partition,
		Amount:      amount,
	}, verdict)
	if err != nil || !result.Allowed {
		return result, err
	}

	if err := s.store.ApplyTransfer(ctx, partition, from, to, amount); err != nil {
		return nil, fmt.Errorf("apply transfer: %w", err)
	}
	s.logApplied(ctx, audit.ActionTransfer, partition, amount)
	return result, nil
}

// ForceTransfer moves amount between two wallets on controller authority,
// for regulator-mandated or emergency moves. The source side's whitelist
// and lockup no longer matter (overriding a blocked holder is the point),
// but the destination leg still runs the rules engine, so forced funds can
// never land on a frozen destination or move while paused. A machine
// reason and a human note are required for the audit trail.
func (s *Service) ForceTransfer(ctx context.Context, partition id.Partition, from, to id.WalletAddress, amount int64, reason, note string) (*Result, error) {
	ctx, done, err := s.guard.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer done()
	ctx, span := s.tracer.Start(ctx, "ledger.ForceTransfer")
	defer span.End()

	if err := validateParty(partition, to, amount); err != nil {
		return nil, err
	}
	if from.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "source wallet address is required")
	}
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "a machine reason code is required for a forced transfer")
	}
	if note == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "a human note is required for a forced transfer")
	}
	if err := s.requireBalance(ctx, partition, from, amount); err != nil {
		return nil, err
	}
	if err := s.control.RequireRole(ctx, id.RoleController); err != nil {
		return nil, err
	}

	// Destination leg only: an external source skips every source-side rule.
	verdict, err := s.checker.IsTransferAllowed(ctx, id.ExternalSource(), to, partition, amount)
	if err != nil {
		return nil, err
	}
	result, err := s.record(ctx, span, audit.Event{
		Action:      audit.ActionForceTransfer,
		Role:        id.RoleController,
		Source:      from.String(),
		Destination: to,
		Partition:   partition,
		Amount:      amount,
		Note:        reason + ": " + note,
	}, verdict)
	if err != nil || !result.Allowed {
		return result, err
	}

	if err := s.store.ApplyTransfer(ctx, partition, from, to, amount); err != nil {
		return nil, fmt.Errorf("apply force transfer: %w", err)
	}
	s.logApplied(ctx, audit.ActionForceTransfer, partition, amount)
	return result, nil
}

// Balance returns one wallet's balance in one partition.
func (s *Service) Balance(ctx context.Context, wallet id.WalletAddress, partition id.Partition) (int64, error) {
	if !partition.Known() {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "unknown partition: "+partition.String())
	}
	return s.store.Balance(ctx, wallet, partition)
}

// Supply returns one partition's total supply.
func (s *Service) Supply(ctx context.Context, partition id.Partition) (int64, error) {
	if !partition.Known() {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "unknown partition: "+partition.String())
	}
	return s.store.Supply(ctx, partition)
}

// TotalSupply returns the aggregate supply across all partitions.
func (s *Service) TotalSupply(ctx context.Context) (int64, error) {
	var total int64
	for _, p := range id.KnownPartitions() {
		supply, err := s.store.Supply(ctx, p)
		if err != nil {
			return 0, err
		}
		total += supply
	}
	return total, nil
}

// TakeSnapshot captures every partition under the operation guard, so the
// result is consistent at a single observation instant: no transfer can
// commit between the partition reads.
func (s *Service) TakeSnapshot(ctx context.Context) (*Snapshot, error) {
	ctx, done, err := s.guard.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	snap := &Snapshot{
		TakenAt:    requestcontext.Now(ctx),
		Partitions: make(map[id.Partition]PartitionSnapshot),
	}
	for _, p := range id.KnownPartitions() {
		view, err := s.store.View(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", p, err)
		}
		snap.Partitions[p] = PartitionSnapshot{
			Supply:   view.Supply,
			Balances: view.Balances,
		}
	}
	return snap, nil
}

// safetyGates is the reduced check for redemption: global pause and the
// holder's freeze, nothing claims-based.
func (s *Service) safetyGates(ctx context.Context, from id.WalletAddress) (compliance.Verdict, error) {
	paused, err := s.control.IsPaused(ctx)
	if err != nil {
		return compliance.Verdict{}, err
	}
	if paused {
		return compliance.Verdict{Reason: id.ReasonCompliancePaused}, nil
	}
	frozen, err := s.control.IsFrozen(ctx, from)
	if err != nil {
		return compliance.Verdict{}, err
	}
	if frozen {
		return compliance.Verdict{Reason: id.ReasonFrozen}, nil
	}
	return compliance.Verdict{Allowed: true, Reason: id.ReasonOK}, nil
}

// record emits the audit event for a verdict, pass or fail, and shapes
// the operation result. An emit failure aborts the whole operation.
func (s *Service) record(ctx context.Context, span trace.Span, event audit.Event, verdict compliance.Verdict) (*Result, error) {
	event.ID = uuid.New()
	event.Actor = requestcontext.Actor(ctx)
	event.Timestamp = requestcontext.Now(ctx)
	event.Allowed = verdict.Allowed
	event.Reason = verdict.Reason
	event.RequestID = requestcontext.RequestID(ctx)

	if err := s.audit.Emit(ctx, event); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "audit append failed, operation aborted")
	}

	span.SetAttributes(
		attribute.Bool("allowed", verdict.Allowed),
		attribute.String("reason", verdict.Reason.String()),
	)
	s.metrics.ObserveOperation(event.Action, verdict.Allowed)

	return &Result{
		Allowed:      verdict.Allowed,
		Reason:       verdict.Reason,
		BlockedUntil: verdict.BlockedUntil,
		EventID:      event.ID,
	}, nil
}

func (s *Service) logApplied(ctx context.Context, action audit.Action, partition id.Partition, amount int64) {
	s.logger.InfoContext(ctx, "ledger operation applied",
		"action", string(action),
		"partition", partition.String(),
		"amount", amount,
		"request_id", requestcontext.RequestID(ctx),
	)
}

func validateParty(partition id.Partition, wallet id.WalletAddress, amount int64) error {
	if !partition.Known() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown partition: "+partition.String())
	}
	if wallet.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "wallet address is required")
	}
	if amount <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "amount must be positive")
	}
	return nil
}

func (s *Service) requireBalance(ctx context.Context, partition id.Partition, wallet id.WalletAddress, amount int64) error {
	balance, err := s.store.Balance(ctx, wallet, partition)
	if err != nil {
		return fmt.Errorf("check balance: %w", err)
	}
	if balance < amount {
		return store.ErrInsufficientBalance
	}
	return nil
}
