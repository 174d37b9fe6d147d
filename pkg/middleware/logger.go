package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// Logger logs one line per request with method, URI, status, and duration.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := NewStatusRecorder(w)

			next.ServeHTTP(rec, r)

			logger.Info(
				"request",
				"method", r.Method,
				"uri", r.URL.RequestURI(),
				"status", rec.Status,
				"addr", r.RemoteAddr,
				"duration", time.Since(start),
			)
		})
	}
}
