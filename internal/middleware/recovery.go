package middleware

import (
	"net/http"
	"runtime/debug"

	"challengehub/internal/response"
	"challengehub/internal/services"

	"go.uber.org/zap"
)

// Recovery converts panics into 500 responses instead of dropped
// connections.
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					requestLogger := GetRequestLogger(r.Context())
					requestLogger.Error("panic recovered",
						zap.Any("panic", rec),
						zap.ByteString("stack", debug.Stack()),
					)

					response.QuickError(w, r,
						services.NewInternalError("unexpected server error", nil))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
