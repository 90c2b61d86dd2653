// internal/middleware/logger.go

package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/holaholu/url-shortener/internal/logger"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// IDSource mints request IDs for requests that arrive without one
type IDSource interface {
	Next() string
}

// Logger creates a middleware that injects a request-scoped logger into the
// request context and logs request details
func Logger(baseLogger *zap.Logger, ids IDSource) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = ids.Next()
			}
			w.Header().Set(RequestIDHeader, requestID)

			// Create a request-scoped logger with additional fields
			reqLogger := baseLogger.With(
				zap.String("requestID", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)

			startTime := time.Now()
			reqLogger.Debug("Processing request")

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r.WithContext(logger.WithContext(r.Context(), reqLogger)))

			fields := []zap.Field{
				zap.Int("status", rec.status),
				zap.Int("bytes", rec.bytes),
				zap.Duration("duration", time.Since(startTime)),
			}

			// Log completion with appropriate level based on status
			if rec.status >= http.StatusInternalServerError {
				reqLogger.Error("Request failed", fields...)
			} else {
				reqLogger.Info("Request completed", fields...)
			}
		})
	}
}
