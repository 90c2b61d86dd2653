// internal/middleware/recover.go

package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/holaholu/url-shortener/internal/logger"
)

// Recovery creates a middleware that recovers from panics and answers
// with 500 Internal Server Error
func Recovery(baseLogger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rv := recover()
				if rv == nil {
					return
				}
				if rv == http.ErrAbortHandler {
					panic(rv)
				}

				// Get the request-scoped logger if it exists
				log := logger.FromContext(r.Context())
				if log == nil {
					log = baseLogger
				}
				log.Error("Panic recovered in HTTP handler",
					zap.Any("panic", rv),
					zap.String("path", r.URL.Path),
					zap.String("stack", string(debug.Stack())),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"Internal server error"}` + "\n"))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
