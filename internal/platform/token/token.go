// Package token signs and validates the HS256 bearer tokens that carry a
// caller's wallet identity. How many humans approved the call upstream is
// the console's business; this service only cares who the final caller is.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "coinscious/pkg/domain"
	dErrors "coinscious/pkg/domain-errors"
)

// Claims are the JWT claims this service issues and accepts.
type Claims struct {
	Wallet string `json:"wallet"`
	jwt.RegisteredClaims
}

// Signer issues and validates caller tokens with one HMAC key.
type Signer struct {
	key []byte
}

// NewSigner creates a Signer from the shared signing key.
func NewSigner(key string) *Signer {
	return &Signer{key: []byte(key)}
}

// Sign issues a token for a wallet, valid for ttl.
func (s *Signer) Sign(wallet id.WalletAddress, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Wallet: wallet.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Validate parses a token and returns the caller wallet.
func (s *Signer) Validate(tokenString string) (id.WalletAddress, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.key, nil
	})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid or expired token")
	}
	wallet, err := id.ParseWalletAddress(claims.Wallet)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnauthorized, "token carries no valid wallet")
	}
	return wallet, nil
}
