package audit

import (
	"time"

	"github.com/google/uuid"

	id "coinscious/pkg/domain"
)

// Action names the operation an event records.
type Action string

const (
	ActionIssue           Action = "issue"
	ActionRedeem          Action = "redeem"
	ActionTransfer        Action = "transfer"
	ActionForceTransfer   Action = "force_transfer"
	ActionComplianceCheck Action = "compliance_check"
)

// Event is one append-only audit record. Every mutating ledger call emits
// one whether or not it proceeds; the Allowed flag and Reason carry the
// verdict either way. Downstream export tooling reads these and never
// writes.
type Event struct {
	ID          uuid.UUID        `json:"id"`
	Timestamp   time.Time        `json:"timestamp"`
	Action      Action           `json:"action"`
	Actor       id.WalletAddress `json:"actor"`
	Role        id.Role          `json:"role,omitempty"`
	Source      string           `json:"source"`
	Destination id.WalletAddress `json:"destination,omitempty"`
	Partition   id.Partition     `json:"partition"`
	Amount      int64            `json:"amount"`
	Allowed     bool             `json:"allowed"`
	Reason      id.ReasonCode    `json:"reason"`
	Note        string           `json:"note,omitempty"`
	RequestID   string           `json:"request_id,omitempty"`
}
