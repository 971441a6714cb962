package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// sensitiveParams are query parameters that must never reach the logs.
// Verification and reset links carry their secrets in the query string.
var sensitiveParams = []string{"token"}

// RequestLogger logs HTTP requests with sensitive query parameters redacted.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			requestID := middleware.GetReqID(r.Context())

			path := r.URL.Path
			if r.URL.RawQuery != "" {
				if containsSensitiveParam(r.URL.Query()) {
					path = path + "?[REDACTED]"
				} else {
					path = path + "?" + r.URL.RawQuery
				}
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", path),
				slog.Int("status", wrapped.Status()),
				slog.Int64("bytes", int64(wrapped.BytesWritten())),
				slog.String("duration", duration.String()),
				slog.String("request_id", requestID),
				slog.String("remote_addr", r.RemoteAddr),
			}

			logger.LogAttrs(context.Background(), slog.LevelInfo, "http_request", attrs...)
		})
	}
}

func containsSensitiveParam(query map[string][]string) bool {
	for _, param := range sensitiveParams {
		if _, ok := query[param]; ok {
			return true
		}
	}
	return false
}
