package httpapi

import (
	"context"
	"net/http"

	id "coinscious/pkg/domain"
)

func (h *Handler) setClaims(w http.ResponseWriter, r *http.Request) {
	var req claimsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	wallet, err := id.ParseWalletAddress(req.Wallet)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.registry.SetClaims(r.Context(), wallet, req.Claims); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"wallet": wallet.String()})
}

func (h *Handler) revoke(w http.ResponseWriter, r *http.Request) {
	h.oracleWalletOp(w, r, h.registry.Revoke)
}

func (h *Handler) whitelist(w http.ResponseWriter, r *http.Request) {
	h.oracleWalletOp(w, r, h.registry.Whitelist)
}

func (h *Handler) oracleWalletOp(w http.ResponseWriter, r *http.Request, op func(context.Context, id.WalletAddress) error) {
	var req walletRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	wallet, err := id.ParseWalletAddress(req.Wallet)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := op(r.Context(), wallet); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"wallet": wallet.String()})
}

func (h *Handler) walletStatus(w http.ResponseWriter, r *http.Request) {
	wallet, err := walletParam(r, "address")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	status, err := h.registry.Status(r.Context(), wallet)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
