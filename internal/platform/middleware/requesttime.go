// Package middleware carries the HTTP middleware chain: request time,
// request IDs, caller authentication, and the export-token gate.
package middleware

import (
	"net/http"
	"time"

	"coinscious/pkg/requestcontext"
)

// RequestTime captures the current time at the start of the request and
// stores it in the context. Every expiry and lockup comparison in the
// request then sees the same "now".
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
