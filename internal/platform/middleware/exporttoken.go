package middleware

import (
	"log/slog"
	"net/http"

	"coinscious/internal/platform/secrets"
)

const exportTokenHeader = "X-Export-Token"

// RequireExportToken gates the audit export endpoint on a shared secret
// whose bcrypt hash lives in config. Export tooling is not a wallet, so it
// does not ride the JWT path.
func RequireExportToken(tokenHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(exportTokenHeader)
			if tokenHash == "" || provided == "" {
				writeJSONError(w, http.StatusForbidden, "forbidden", "Export token required")
				return
			}
			if err := secrets.Verify(provided, tokenHash); err != nil {
				logger.WarnContext(r.Context(), "export token rejected")
				writeJSONError(w, http.StatusForbidden, "forbidden", "Export token rejected")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
