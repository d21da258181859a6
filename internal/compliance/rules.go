package compliance

import (
	"time"

	id "coinscious/pkg/domain"
)

// Party is the compliance-relevant snapshot of one side of a transfer.
// Built by the checker from the registry and control state; the rules never
// touch I/O.
type Party struct {
	// Present reports whether a claims record exists at all.
	Present bool
	// Whitelisted is the oracle-set flag (not the derived status).
	Whitelisted bool
	// Revoked is the independent revocation flag.
	Revoked bool
	// Accredited mirrors the accredited-investor claim.
	Accredited bool
	// USPerson is derived from the country code or the tax-residency flag.
	USPerson bool
	// Frozen is the administrative per-wallet freeze.
	Frozen bool
	// LockupUntil is zero when no lockup applies.
	LockupUntil time.Time
	// ExpiresAt is zero when the claims never expire.
	ExpiresAt time.Time
}

// compliantAt mirrors registry.WalletRecord.CompliantAt for the snapshot:
// present, flagged, not revoked, not expired at now.
func (p Party) compliantAt(now time.Time) bool {
	if !p.Present || p.Revoked || !p.Whitelisted {
		return false
	}
	if !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt) {
		return false
	}
	return true
}

// Input groups everything the rule chain considers for one proposed
// transfer.
type Input struct {
	Paused      bool
	Source      id.Source
	SourceParty Party
	Destination Party
	Partition   id.Partition
	Amount      int64
	Now         time.Time
}

// Verdict is the rules engine's decision. BlockedUntil is set only when a
// timestamp explains the denial (currently: active lockups).
type Verdict struct {
	Allowed      bool          `json:"allowed"`
	Reason       id.ReasonCode `json:"reason"`
	BlockedUntil time.Time     `json:"blocked_until,omitzero"`
}

func allow() Verdict {
	return Verdict{Allowed: true, Reason: id.ReasonOK}
}

func deny(reason id.ReasonCode) Verdict {
	return Verdict{Reason: reason}
}

// Evaluate walks the ordered rule chain and short-circuits on the first
// failure. Pure domain logic: no I/O, no side effects, deterministic for a
// given input.
//
// Rule order (fixed; callers and auditors rely on it):
//  1. Global pause
//  2. Either party frozen
//  3. Source whitelisted (skipped for issuance)
//  4. Destination whitelisted
//  5. Source lockup (skipped for issuance)
//  6. Partition-specific regime
func Evaluate(in Input) Verdict {
	if in.Paused {
		return deny(id.ReasonCompliancePaused)
	}
	if (!in.Source.IsExternal() && in.SourceParty.Frozen) || in.Destination.Frozen {
		return deny(id.ReasonFrozen)
	}
	if !in.Source.IsExternal() && !in.SourceParty.compliantAt(in.Now) {
		return deny(id.ReasonNotWhitelisted)
	}
	if !in.Destination.compliantAt(in.Now) {
		return deny(id.ReasonNotWhitelisted)
	}
	// Lockup boundary: denied strictly before LockupUntil, allowed at it.
	if !in.Source.IsExternal() && !in.SourceParty.LockupUntil.IsZero() && in.Now.Before(in.SourceParty.LockupUntil) {
		v := deny(id.ReasonLockupActive)
		v.BlockedUntil = in.SourceParty.LockupUntil
		return v
	}
	return evaluatePartition(in)
}

// evaluatePartition applies the legal regime of the named partition.
// Issuance is exempt from both regimes' holder restrictions on the source
// side; REG_S additionally exempts issuance on the destination side so an
// initial placement may target either population before distribution.
func evaluatePartition(in Input) Verdict {
	switch in.Partition {
	case id.PartitionRegD:
		if !in.Source.IsExternal() && !in.SourceParty.Accredited {
			return deny(id.ReasonSenderNotAccredited)
		}
		if !in.Destination.Accredited {
			return deny(id.ReasonReceiverNotAccredited)
		}
		return allow()
	case id.PartitionRegS:
		if !in.Source.IsExternal() && in.Destination.USPerson {
			return deny(id.ReasonUSPersonRestricted)
		}
		return allow()
	default:
		return deny(id.ReasonUnknownPartition)
	}
}
