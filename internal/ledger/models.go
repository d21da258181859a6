package ledger

import (
	"time"

	"github.com/google/uuid"

	id "coinscious/pkg/domain"
)

// Result is the outcome of one ledger operation. A denial is a routine
// outcome, not an error: the operation returns a Result with Allowed=false
// and a nil error, and the audit trail carries the same verdict.
type Result struct {
	Allowed      bool          `json:"allowed"`
	Reason       id.ReasonCode `json:"reason"`
	BlockedUntil time.Time     `json:"blocked_until,omitzero"`
	// EventID identifies the audit record emitted for this operation.
	EventID uuid.UUID `json:"event_id"`
}

// Snapshot is a point-in-time capture of every partition's balances and
// supply, internally consistent at a single observation instant. The payout
// engine reads these to compute pro-rata entitlements.
type Snapshot struct {
	TakenAt    time.Time                          `json:"taken_at"`
	Partitions map[id.Partition]PartitionSnapshot `json:"partitions"`
}

// PartitionSnapshot is one partition's view inside a Snapshot.
type PartitionSnapshot struct {
	Supply   int64                      `json:"supply"`
	Balances map[id.WalletAddress]int64 `json:"balances"`
}
