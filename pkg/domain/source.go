package domain

// Source identifies where tokens move from in a ledger operation. It is a
// tagged variant rather than a zero-address sentinel so issuance can never be
// confused with a transfer from an accidentally-empty wallet field.
type Source struct {
	wallet   WalletAddress
	external bool
}

// ExternalSource marks an issuance: tokens enter the ledger from outside, no
// source-side compliance checks apply.
func ExternalSource() Source {
	return Source{external: true}
}

// WalletSource marks a movement out of an existing holder's balance.
func WalletSource(w WalletAddress) Source {
	return Source{wallet: w}
}

// IsExternal reports whether the operation is an issuance.
func (s Source) IsExternal() bool {
	return s.external
}

// Wallet returns the source wallet. Only meaningful when !IsExternal().
func (s Source) Wallet() WalletAddress {
	return s.wallet
}

// String renders the source for audit records.
func (s Source) String() string {
	if s.external {
		return "external"
	}
	return s.wallet.String()
}
