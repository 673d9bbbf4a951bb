package daemon

import (
	"net/http"

	"github.com/google/uuid"

	"spyglass/internal/services"
)

const requestIDHeader = "X-Request-ID"

// requestIDMiddleware tags every request with an identifier so log lines and
// error responses can be correlated. Caller-provided IDs are preserved.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		ctx := services.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
