package httpapi

import (
	"context"
	"net/http"

	id "coinscious/pkg/domain"
)

func (h *Handler) pause(w http.ResponseWriter, r *http.Request) {
	if err := h.control.Pause(r.Context()); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": true})
}

func (h *Handler) unpause(w http.ResponseWriter, r *http.Request) {
	if err := h.control.Unpause(r.Context()); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": false})
}

func (h *Handler) freeze(w http.ResponseWriter, r *http.Request) {
	h.adminWalletOp(w, r, h.control.Freeze)
}

func (h *Handler) unfreeze(w http.ResponseWriter, r *http.Request) {
	h.adminWalletOp(w, r, h.control.Unfreeze)
}

func (h *Handler) setOracle(w http.ResponseWriter, r *http.Request) {
	h.adminWalletOp(w, r, h.control.SetOracle)
}

func (h *Handler) replaceController(w http.ResponseWriter, r *http.Request) {
	h.adminWalletOp(w, r, h.control.ReplaceController)
}

func (h *Handler) proposeController(w http.ResponseWriter, r *http.Request) {
	h.adminWalletOp(w, r, h.control.ProposeController)
}

func (h *Handler) acceptController(w http.ResponseWriter, r *http.Request) {
	if err := h.control.AcceptController(r.Context()); err != nil {
		writeError(w, h.logger, err)
		return
	}
	state, err := h.control.State(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) controlState(w http.ResponseWriter, r *http.Request) {
	state, err := h.control.State(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) adminWalletOp(w http.ResponseWriter, r *http.Request, op func(context.Context, id.WalletAddress) error) {
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
