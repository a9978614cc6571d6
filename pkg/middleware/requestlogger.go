package middleware

import (
	"log/slog"
	"net/http"

	"github.com/CarterPerez-dev/my-portfolio/pkg/logger"
)

// RequestLogger installs a request-scoped logger, pre-enriched with
// correlation_id, user_id, trace_id, and span_id, retrievable downstream via
// logger.FromContext. Mount it after RequestLogging and Tracing so those
// fields exist, and before Auth-protected routes pick it up.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Prefer the authenticated principal; fall back to the header for
			// callers that authenticate out of band.
			userID := UserIDFromContext(ctx)
			if userID == "" {
				userID = r.Header.Get("X-User-ID")
			}
			if userID != "" {
				ctx = logger.WithUserID(ctx, userID)
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
