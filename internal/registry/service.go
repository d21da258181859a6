package registry

import (
	"context"
	"fmt"
	"log/slog"

	id "coinscious/pkg/domain"
	dErrors "coinscious/pkg/domain-errors"
	"coinscious/pkg/requestcontext"
)

// RoleChecker gates oracle writes. Implemented by the control service.
type RoleChecker interface {
	RequireRole(ctx context.Context, role id.Role) error
}

// Store is the persistence port the service writes through.
type Store interface {
	Get(ctx context.Context, wallet id.WalletAddress) (*WalletRecord, error)
	Put(ctx context.Context, rec *WalletRecord) error
	List(ctx context.Context) ([]*WalletRecord, error)
}

// NotFound reports whether a store error means "no record" as opposed to a
// real failure.
func NotFound(err error) bool {
	return dErrors.HasCode(err, dErrors.CodeNotFound)
}

// Service owns claims records and the derived whitelisted/revoked state.
// All writes are oracle-gated; reads are open.
type Service struct {
	store  Store
	roles  RoleChecker
	logger *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a logger for oracle write logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService wires the claims service.
func NewService(store Store, roles RoleChecker, opts ...Option) *Service {
	s := &Service{
		store:  store,
		roles:  roles,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetClaims replaces the wallet's claims record. On success the wallet is
// whitelisted and any prior revocation is cleared — filing fresh valid
// claims is the only way to un-revoke. Idempotent for identical claims.
func (s *Service) SetClaims(ctx context.Context, wallet id.WalletAddress, claims Claims) error {
	if err := s.roles.RequireRole(ctx, id.RoleOracle); err != nil {
		return err
	}
	if err := validateClaims(ctx, wallet, claims); err != nil {
		return err
	}

	rec := &WalletRecord{
		Wallet:      wallet,
		Claims:      claims,
		Whitelisted: true,
		Revoked:     false,
		UpdatedAt:   requestcontext.Now(ctx),
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("set claims: %w", err)
	}

	s.logger.InfoContext(ctx, "claims written",
		"wallet", wallet.String(),
		"country", claims.Country,
		"accredited", claims.Accredited,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// Revoke marks the wallet non-compliant until fresh claims are filed.
// Idempotent; revoking a wallet with no record is a no-op that still
// records the revocation so later claims writes start from revoked=false.
func (s *Service) Revoke(ctx context.Context, wallet id.WalletAddress) error {
	if err := s.roles.RequireRole(ctx, id.RoleOracle); err != nil {
		return err
	}
	if wallet.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "wallet address is required")
	}

	rec, err := s.store.Get(ctx, wallet)
	if err != nil {
		if !NotFound(err) {
			return fmt.Errorf("revoke: %w", err)
		}
		rec = &WalletRecord{Wallet: wallet}
	}
	rec.Revoked = true
	rec.Whitelisted = false
	rec.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("revoke: %w", err)
	}

	s.logger.InfoContext(ctx, "wallet revoked",
		"wallet", wallet.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// Whitelist re-flags a wallet that already has claims on file. Fails with
// CodeNotFound when no record exists — use SetClaims for first contact.
func (s *Service) Whitelist(ctx context.Context, wallet id.WalletAddress) error {
	if err := s.roles.RequireRole(ctx, id.RoleOracle); err != nil {
		return err
	}
	if wallet.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "wallet address is required")
	}

	rec, err := s.store.Get(ctx, wallet)
	if err != nil {
		if NotFound(err) {
			return dErrors.New(dErrors.CodeNotFound, "cannot whitelist a wallet with no claims on file")
		}
		return fmt.Errorf("whitelist: %w", err)
	}
	rec.Whitelisted = true
	rec.Revoked = false
	rec.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("whitelist: %w", err)
	}
	return nil
}

// IsWhitelisted combines the four compliance conditions at the request's
// evaluation clock: record present, not revoked, not expired, flag set.
// A wallet silently stops being whitelisted the instant its claims expire.
func (s *Service) IsWhitelisted(ctx context.Context, wallet id.WalletAddress) (bool, error) {
	if wallet.IsZero() {
		return false, nil
	}
	rec, err := s.store.Get(ctx, wallet)
	if err != nil {
		if NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("is whitelisted: %w", err)
	}
	return rec.CompliantAt(requestcontext.Now(ctx)), nil
}

// Record returns the raw stored record, or nil when none exists. The
// compliance checker reads through this.
func (s *Service) Record(ctx context.Context, wallet id.WalletAddress) (*WalletRecord, error) {
	rec, err := s.store.Get(ctx, wallet)
	if err != nil {
		if NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// Status derives the console view of one wallet.
func (s *Service) Status(ctx context.Context, wallet id.WalletAddress) (*Status, error) {
	st := &Status{Wallet: wallet}
	rec, err := s.Record(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return st, nil
	}
	now := requestcontext.Now(ctx)
	claims := rec.Claims
	st.HasClaims = true
	st.Revoked = rec.Revoked
	st.Expired = !claims.ExpiresAt.IsZero() && !now.Before(claims.ExpiresAt)
	st.Whitelisted = rec.CompliantAt(now)
	st.Claims = &claims
	return st, nil
}

func validateClaims(ctx context.Context, wallet id.WalletAddress, claims Claims) error {
	if wallet.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "wallet address is required")
	}
	if len(claims.Country) != 2 {
		return dErrors.New(dErrors.CodeInvalidInput, "country must be a 2-letter ISO code")
	}
	now := requestcontext.Now(ctx)
	if !claims.LockupUntil.IsZero() && !claims.LockupUntil.After(now) {
		return dErrors.New(dErrors.CodeInvalidInput, "lockup_until must be in the future")
	}
	if !claims.ExpiresAt.IsZero() && !claims.ExpiresAt.After(now) {
		return dErrors.New(dErrors.CodeInvalidInput, "expires_at must be in the future")
	}
	return nil
}
