package control

import (
	id "coinscious/pkg/domain"
)

// State is the small set of process-wide safety flags and role assignments.
// It is mutated only through role-gated service calls and read by the
// compliance checker and the ledger.
type State struct {
	// Paused blocks every transfer system-wide when set.
	Paused bool `json:"paused"`
	// Admin may pause, freeze, and replace the other roles.
	Admin id.WalletAddress `json:"admin"`
	// Oracle is the only wallet that may write claims.
	Oracle id.WalletAddress `json:"oracle"`
	// Controller is the only wallet that may issue, redeem, or force-move
	// balances.
	Controller id.WalletAddress `json:"controller"`
	// PendingController is the proposed successor in a two-step handover.
	// Zero when no handover is in flight.
	PendingController id.WalletAddress `json:"pending_controller,omitempty"`
}

// RoleOf returns the role a wallet currently holds, or "" for none.
func (s State) RoleOf(wallet id.WalletAddress) (id.Role, bool) {
	switch {
	case wallet.IsZero():
		return "", false
	case wallet == s.Admin:
		return id.RoleAdmin, true
	case wallet == s.Oracle:
		return id.RoleOracle, true
	case wallet == s.Controller:
		return id.RoleController, true
	}
	return "", false
}
