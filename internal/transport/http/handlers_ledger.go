package httpapi

import (
	"net/http"

	"coinscious/internal/ledger"
	id "coinscious/pkg/domain"
)

// writeResult reports a ledger outcome. Applied operations answer 200 and
// denials 422, both with the same body shape, so clients switch on the
// `allowed` flag rather than parsing error strings.
func writeResult(w http.ResponseWriter, result *ledger.Result) {
	status := http.StatusOK
	if !result.Allowed {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

func (h *Handler) issue(w http.ResponseWriter, r *http.Request) {
	partition, err := partitionParam(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req issueRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	to, err := id.ParseWalletAddress(req.To)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	result, err := h.ledger.Issue(r.Context(), partition, to, req.Amount)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeResult(w, result)
}

func (h *Handler) redeem(w http.ResponseWriter, r *http.Request) {
	partition, err := partitionParam(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req redeemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	from, err := id.ParseWalletAddress(req.From)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	result, err := h.ledger.Redeem(r.Context(), partition, from, req.Amount)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeResult(w, result)
}

func (h *Handler) transfer(w http.ResponseWriter, r *http.Request) {
	partition, err := partitionParam(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req transferRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	to, err := id.ParseWalletAddress(req.To)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	result, err := h.ledger.Transfer(r.Context(), partition, to, req.Amount)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeResult(w, result)
}

func (h *Handler) forceTransfer(w http.ResponseWriter, r *http.Request) {
	partition, err := partitionParam(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req forceTransferRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	from, err := id.ParseWalletAddress(req.From)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	to, err := id.ParseWalletAddress(req.To)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	result, err := h.ledger.ForceTransfer(r.Context(), partition, from, to, req.Amount, req.Reason, req.Note)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeResult(w, result)
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	partition, err := partitionParam(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	wallet, err := walletParam(r, "address")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	balance, err := h.ledger.Balance(r.Context(), wallet, partition)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"wallet":    wallet,
		"partition": partition,
		"balance":   balance,
	})
}

func (h *Handler) partitionSupply(w http.ResponseWriter, r *http.Request) {
	partition, err := partitionParam(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	supply, err := h.ledger.Supply(r.Context(), partition)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"partition": partition,
		"supply":    supply,
	})
}

func (h *Handler) totalSupply(w http.ResponseWriter, r *http.Request) {
	supply, err := h.ledger.TotalSupply(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"supply": supply})
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshots.Latest(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
