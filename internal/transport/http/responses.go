package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "coinscious/pkg/domain-errors"
)

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"description"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps the error taxonomy onto HTTP statuses in one place.
// Authorization failures and structural errors land on distinct statuses
// so clients can tell "you may not" from "you asked wrong".
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var status int
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		status = http.StatusForbidden
	case dErrors.CodeNotFound:
		status = http.StatusNotFound
	case dErrors.CodeConflict:
		status = http.StatusConflict
	case dErrors.CodeTimeout:
		status = http.StatusGatewayTimeout
	default:
		status = http.StatusInternalServerError
		logger.Error("internal error", "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error:       string(dErrors.CodeOf(err)),
		Description: err.Error(),
	})
}
