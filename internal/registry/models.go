package registry

import (
	"time"

	id "coinscious/pkg/domain"
)

// Claims is the compliance record the oracle files for one wallet. Records
// are long-lived and replaced wholesale on every oracle write; they are
// never deleted.
type Claims struct {
	// Country is the 2-letter ISO jurisdiction code. Required.
	Country string `json:"country"`
	// Accredited asserts the holder meets the accredited-investor test.
	Accredited bool `json:"accredited"`
	// USTaxResident flags US tax residency independently of Country.
	USTaxResident bool `json:"us_tax_resident"`
	// LockupUntil, when non-zero, blocks the wallet from originating
	// transfers until the instant it names.
	LockupUntil time.Time `json:"lockup_until,omitzero"`
	// ExpiresAt, when non-zero, is the instant the whole record goes stale.
	// An expired record fails every compliance check until refreshed.
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// IsUSPerson reports whether the holder is treated as a US person for the
// REG_S restriction, by jurisdiction or by explicit tax-residency flag.
func (c Claims) IsUSPerson() bool {
	return c.Country == "US" || c.USTaxResident
}

// WalletRecord is the stored state for one wallet: the claims plus the two
// oracle-controlled flags. Whitelisted and Revoked are independent of the
// claims record on purpose: re-claiming is the only path that clears a
// revocation, and every claims write must keep the flags in step.
type WalletRecord struct {
	Wallet      id.WalletAddress `json:"wallet"`
	Claims      Claims           `json:"claims"`
	Whitelisted bool             `json:"whitelisted"`
	Revoked     bool             `json:"revoked"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// CompliantAt reports whether the record makes its wallet whitelisted at the
// given instant: present, flagged whitelisted, not revoked, and not expired.
func (r *WalletRecord) CompliantAt(now time.Time) bool {
	if r == nil {
		return false
	}
	if r.Revoked || !r.Whitelisted {
		return false
	}
	if !r.Claims.ExpiresAt.IsZero() && !now.Before(r.Claims.ExpiresAt) {
		return false
	}
	return true
}

// Status is the derived wallet view served to the operator console.
type Status struct {
	Wallet      id.WalletAddress `json:"wallet"`
	HasClaims   bool             `json:"has_claims"`
	Whitelisted bool             `json:"whitelisted"`
	Revoked     bool             `json:"revoked"`
	Expired     bool             `json:"expired"`
	Claims      *Claims          `json:"claims,omitempty"`
}
