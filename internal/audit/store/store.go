package store

import (
	"context"

	"coinscious/internal/audit"
	id "coinscious/pkg/domain"
)

// Filter narrows a List call. Zero values match everything.
type Filter struct {
	// Wallet matches events where the wallet is actor, source, or
	// destination.
	Wallet id.WalletAddress
	// Limit caps the number of returned events; 0 means no cap.
	Limit int
}

// Store is the append-only persistence port for audit events. There are no
// update or delete operations on purpose.
type Store interface {
	Append(ctx context.Context, event audit.Event) error
	// List returns events newest-first.
	List(ctx context.Context, filter Filter) ([]audit.Event, error)
}
