package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"coinscious/internal/registry"
	id "coinscious/pkg/domain"
	dErrors "coinscious/pkg/domain-errors"
)

// decode parses a JSON request body into dst, rejecting unknown fields so
// misspelled keys fail loudly instead of silently defaulting.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid request body")
	}
	return nil
}

func walletParam(r *http.Request, name string) (id.WalletAddress, error) {
	return id.ParseWalletAddress(chi.URLParam(r, name))
}

func partitionParam(r *http.Request) (id.Partition, error) {
	return id.ParsePartition(chi.URLParam(r, "partition"))
}

type walletRequest struct {
	Wallet string `json:"wallet"`
}

type claimsRequest struct {
	Wallet string          `json:"wallet"`
	Claims registry.Claims `json:"claims"`
}

type checkRequest struct {
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination"`
	Partition   string `json:"partition"`
	Amount      int64  `json:"amount"`
}

type issueRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type redeemRequest struct {
	From   string `json:"from"`
	Amount int64  `json:"amount"`
}

type transferRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type forceTransferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
	Note   string `json:"note"`
}
