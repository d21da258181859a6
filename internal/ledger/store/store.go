package store

import (
	"context"

	id "coinscious/pkg/domain"
	dErrors "coinscious/pkg/domain-errors"
)

// ErrInsufficientBalance is returned when a debit would take a balance
// negative. The service checks first, but the store guards too so the
// invariant holds even if callers race.
var ErrInsufficientBalance = dErrors.New(dErrors.CodeInvalidInput, "insufficient balance")

// PartitionView is one partition's balances and supply captured in a single
// consistent read.
type PartitionView struct {
	Supply   int64                          `json:"supply"`
	Balances map[id.WalletAddress]int64 `json:"balances"`
}

// Store owns per-wallet, per-partition balances and per-partition supply.
// Each Apply* call is one atomic unit: balance and supply move together or
// not at all, which is what keeps supply == Σ balances an invariant rather
// than a hope.
type Store interface {
	Balance(ctx context.Context, wallet id.WalletAddress, partition id.Partition) (int64, error)
	Supply(ctx context.Context, partition id.Partition) (int64, error)
	// View returns one partition's balances and supply at a single instant.
	View(ctx context.Context, partition id.Partition) (PartitionView, error)

	// ApplyIssue credits to and grows supply by amount, atomically.
	ApplyIssue(ctx context.Context, partition id.Partition, to id.WalletAddress, amount int64) error
	// ApplyRedeem debits from and shrinks supply by amount, atomically.
	ApplyRedeem(ctx context.Context, partition id.Partition, from id.WalletAddress, amount int64) error
	// ApplyTransfer moves amount between two wallets in one partition;
	// supply is untouched.
	ApplyTransfer(ctx context.Context, partition id.Partition, from, to id.WalletAddress, amount int64) error
}
