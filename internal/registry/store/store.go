package store

import (
	"context"

	"coinscious/internal/registry"
	id "coinscious/pkg/domain"
	dErrors "coinscious/pkg/domain-errors"
)

// ErrNotFound keeps store-specific misses consistent across the in-memory
// and PostgreSQL implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "wallet record not found")

// Store persists wallet records. Implementations must make Put replace the
// whole record atomically; partial claim updates are not possible.
type Store interface {
	// Get returns the record for a wallet, or ErrNotFound.
	Get(ctx context.Context, wallet id.WalletAddress) (*registry.WalletRecord, error)
	// Put inserts or replaces the record for rec.Wallet.
	Put(ctx context.Context, rec *registry.WalletRecord) error
	// List returns every record, for export tooling. Order is unspecified.
	List(ctx context.Context) ([]*registry.WalletRecord, error)
}
