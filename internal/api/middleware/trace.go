package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/taskline/taskline-api/internal/platform/logger"
)

// Trace assigns each request an ID and stores a request-scoped logger in
// the context, so every log line emitted while serving the request
// carries the same request_id. Apply it before any middleware or handler
// that logs.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()

		log := logger.FromContext(r.Context()).With(
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path)
		ctx := logger.WithLogger(r.Context(), log)

		start := time.Now()
		log.DebugContext(ctx, "request started", "remote_addr", r.RemoteAddr)

		next.ServeHTTP(w, r.WithContext(ctx))

		log.DebugContext(ctx, "request completed", "duration_ms", time.Since(start).Milliseconds())
	})
}
