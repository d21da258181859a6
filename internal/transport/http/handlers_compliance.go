package httpapi

import (
	"net/http"

	id "coinscious/pkg/domain"
)

// check is the side-effect-free preflight. It always answers 200 on a
// well-formed request; the verdict body says whether the transfer would go
// through. An empty source means issuance from outside the ledger.
func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	source := id.ExternalSource()
	if req.Source != "" {
		wallet, err := id.ParseWalletAddress(req.Source)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		source = id.WalletSource(wallet)
	}
	dest, err := id.ParseWalletAddress(req.Destination)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	partition, err := id.ParsePartition(req.Partition)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	verdict, err := h.compliance.IsTransferAllowed(r.Context(), source, dest, partition, req.Amount)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}

type reasonEntry struct {
	Code        id.ReasonCode `json:"code"`
	Description string        `json:"description"`
}

func (h *Handler) reasons(w http.ResponseWriter, r *http.Request) {
	codes := id.KnownReasons()
	entries := make([]reasonEntry, 0, len(codes))
	for _, code := range codes {
		entries = append(entries, reasonEntry{Code: code, Description: id.DescribeReason(code)})
	}
	writeJSON(w, http.StatusOK, entries)
}
