package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"coinscious/pkg/requestcontext"
)

const requestIDHeader = "X-Request-ID"

// RequestID honors an incoming X-Request-ID or assigns one, stores it in
// the context, and echoes it on the response so audit records and client
// logs correlate.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(requestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
