package httpapi

import (
	"net/http"
	"strconv"

	auditstore "coinscious/internal/audit/store"
	id "coinscious/pkg/domain"
	dErrors "coinscious/pkg/domain-errors"
)

func (h *Handler) auditEvents(w http.ResponseWriter, r *http.Request) {
	var filter auditstore.Filter
	if raw := r.URL.Query().Get("wallet"); raw != "" {
		wallet, err := id.ParseWalletAddress(raw)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		filter.Wallet = wallet
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, h.logger, dErrors.New(dErrors.CodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		filter.Limit = limit
	}
	events, err := h.auditLog.List(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}
