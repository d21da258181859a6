package control

import (
	"context"
	"fmt"
	"log/slog"

	id "coinscious/pkg/domain"
	dErrors "coinscious/pkg/domain-errors"
	"coinscious/pkg/requestcontext"
)

// Store is the persistence port for control state and the freeze set.
type Store interface {
	Get(ctx context.Context) (State, error)
	Update(ctx context.Context, fn func(*State) error) error
	IsFrozen(ctx context.Context, wallet id.WalletAddress) (bool, error)
	SetFrozen(ctx context.Context, wallet id.WalletAddress, frozen bool) error
}

// Service owns the global pause flag, per-wallet freezes, and role
// assignments. Every mutation is role-gated; role failures are
// authorization errors, never compliance denials.
type Service struct {
	store  Store
	logger *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a logger for administrative actions.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService wires the control service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequireRole fails with CodeUnauthorized unless the context actor holds
// the given role.
func (s *Service) RequireRole(ctx context.Context, role id.Role) error {
	actor := requestcontext.Actor(ctx)
	if actor.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}
	st, err := s.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("require role: %w", err)
	}
	held, ok := st.RoleOf(actor)
	if !ok || held != role {
		return dErrors.New(dErrors.CodeUnauthorized, "caller does not hold the "+role.String()+" role")
	}
	return nil
}

// IsPaused reports the system-wide pause flag.
func (s *Service) IsPaused(ctx context.Context) (bool, error) {
	st, err := s.store.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("is paused: %w", err)
	}
	return st.Paused, nil
}

// IsFrozen reports a wallet's administrative freeze flag.
func (s *Service) IsFrozen(ctx context.Context, wallet id.WalletAddress) (bool, error) {
	return s.store.IsFrozen(ctx, wallet)
}

// Pause blocks all transfers system-wide. Admin only. Idempotent.
func (s *Service) Pause(ctx context.Context) error {
	return s.setPaused(ctx, true)
}

// Unpause lifts the system-wide pause. Admin only. Idempotent.
func (s *Service) Unpause(ctx context.Context) error {
	return s.setPaused(ctx, false)
}

func (s *Service) setPaused(ctx context.Context, paused bool) error {
	if err := s.RequireRole(ctx, id.RoleAdmin); err != nil {
		return err
	}
	err := s.store.Update(ctx, func(st *State) error {
		st.Paused = paused
		return nil
	})
	if err != nil {
		return fmt.Errorf("set paused: %w", err)
	}
	s.logger.InfoContext(ctx, "pause flag changed",
		"paused", paused,
		"actor", requestcontext.Actor(ctx).String(),
	)
	return nil
}

// Freeze sets a wallet's administrative freeze. Admin only. Idempotent.
func (s *Service) Freeze(ctx context.Context, wallet id.WalletAddress) error {
	return s.setFrozen(ctx, wallet, true)
}

// Unfreeze clears a wallet's administrative freeze. Admin only. Idempotent.
func (s *Service) Unfreeze(ctx context.Context, wallet id.WalletAddress) error {
	return s.setFrozen(ctx, wallet, false)
}

func (s *Service) setFrozen(ctx context.Context, wallet id.WalletAddress, frozen bool) error {
	if err := s.RequireRole(ctx, id.RoleAdmin); err != nil {
		return err
	}
	if wallet.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "wallet address is required")
	}
	if err := s.store.SetFrozen(ctx, wallet, frozen); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "freeze flag changed",
		"wallet", wallet.String(),
		"frozen", frozen,
		"actor", requestcontext.Actor(ctx).String(),
	)
	return nil
}

// SetOracle replaces the oracle outright. Admin only; emergency path.
func (s *Service) SetOracle(ctx context.Context, wallet id.WalletAddress) error {
	if err := s.RequireRole(ctx, id.RoleAdmin); err != nil {
		return err
	}
	if wallet.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "wallet address is required")
	}
	return s.store.Update(ctx, func(st *State) error {
		st.Oracle = wallet
		return nil
	})
}

// ReplaceController replaces the controller outright, bypassing the
// two-step handover. Admin only; emergency path. Clears any pending
// handover.
func (s *Service) ReplaceController(ctx context.Context, wallet id.WalletAddress) error {
	if err := s.RequireRole(ctx, id.RoleAdmin); err != nil {
		return err
	}
	if wallet.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "wallet address is required")
	}
	return s.store.Update(ctx, func(st *State) error {
		st.Controller = wallet
		st.PendingController = ""
		return nil
	})
}

// ProposeController starts the two-step controller handover. Controller
// only. Proposing again overwrites an earlier unaccepted proposal.
func (s *Service) ProposeController(ctx context.Context, successor id.WalletAddress) error {
	if err := s.RequireRole(ctx, id.RoleController); err != nil {
		return err
	}
	if successor.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "successor address is required")
	}
	err := s.store.Update(ctx, func(st *State) error {
		st.PendingController = successor
		return nil
	})
	if err != nil {
		return fmt.Errorf("propose controller: %w", err)
	}
	s.logger.InfoContext(ctx, "controller handover proposed",
		"successor", successor.String(),
		"actor", requestcontext.Actor(ctx).String(),
	)
	return nil
}

// AcceptController completes the handover. Only the exact proposed address,
// calling for itself, may accept; the role rotates atomically and the old
// controller loses it in the same step.
func (s *Service) AcceptController(ctx context.Context) error {
	actor := requestcontext.Actor(ctx)
	if actor.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}
	err := s.store.Update(ctx, func(st *State) error {
		if st.PendingController.IsZero() {
			return dErrors.New(dErrors.CodeConflict, "no controller handover is pending")
		}
		if actor != st.PendingController {
			return dErrors.New(dErrors.CodeUnauthorized, "caller is not the proposed controller")
		}
		st.Controller = actor
		st.PendingController = ""
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "controller handover accepted",
		"controller", actor.String(),
	)
	return nil
}

// State returns the current control state for the console boundary.
func (s *Service) State(ctx context.Context) (State, error) {
	return s.store.Get(ctx)
}
