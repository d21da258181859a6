package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "coinscious/pkg/domain"
	"coinscious/pkg/requestcontext"
)

// TokenValidator validates a bearer token and returns the caller wallet.
type TokenValidator interface {
	Validate(tokenString string) (id.WalletAddress, error)
}

// writeJSONError writes a JSON error response with the given status code
// and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth authenticates the caller wallet from a Bearer token and puts
// it in the context as the actor. Role checks happen later, in the control
// service; this middleware only answers "who is calling".
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token")
				return
			}
			wallet, err := validator.Validate(token)
			if err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}
			ctx := requestcontext.WithActor(r.Context(), wallet)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
