package store

import (
	"context"

	"coinscious/internal/control"
	id "coinscious/pkg/domain"
)

// Store persists the control state and the per-wallet freeze set. Mutations
// go through Update so the read-modify-write is atomic in every
// implementation.
type Store interface {
	// Get returns the current control state.
	Get(ctx context.Context) (control.State, error)
	// Update applies fn to the current state and persists the result
	// atomically. fn returning an error aborts with no change.
	Update(ctx context.Context, fn func(*control.State) error) error

	// IsFrozen reports whether a wallet carries an administrative freeze.
	IsFrozen(ctx context.Context, wallet id.WalletAddress) (bool, error)
	// SetFrozen sets or clears a wallet's freeze flag. Idempotent.
	SetFrozen(ctx context.Context, wallet id.WalletAddress, frozen bool) error
}
