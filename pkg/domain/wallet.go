package domain

import (
	"strings"

	dErrors "coinscious/pkg/domain-errors"
)

// WalletAddress is a 20-byte account identifier rendered as a 0x-prefixed
// hex string. This is a domain primitive that enforces validity at parse
// time.
//
// Usage: construct via ParseWalletAddress at trust boundaries; direct casting
// bypasses validation. The zero value is never a valid participant address —
// operations that accept "no wallet" say so with Source instead of a zero
// address.
type WalletAddress string

const walletHexLen = 40

// ParseWalletAddress validates and returns a WalletAddress.
// Accepts upper- or lower-case hex and normalizes to lower-case.
func ParseWalletAddress(s string) (WalletAddress, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "wallet address cannot be empty")
	}
	hex, ok := strings.CutPrefix(s, "0x")
	if !ok {
		hex, ok = strings.CutPrefix(s, "0X")
	}
	if !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "wallet address must start with 0x")
	}
	if len(hex) != walletHexLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "wallet address must be 20 bytes of hex")
	}
	for _, c := range hex {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return "", dErrors.New(dErrors.CodeInvalidInput, "wallet address contains non-hex characters")
		}
	}
	return WalletAddress("0x" + strings.ToLower(hex)), nil
}

// String returns the canonical lower-case form.
func (w WalletAddress) String() string {
	return string(w)
}

// IsZero reports whether no address is set.
func (w WalletAddress) IsZero() bool {
	return w == ""
}
