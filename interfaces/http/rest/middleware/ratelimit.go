package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"pawdopt-backend/pkg/auth"
)

// RateLimit enforces the per-user budget with the DynamoDB-backed limiter so
// the cap holds across concurrent Lambda instances. Must run after
// Authenticate; unauthenticated requests fall back to the client IP as the
// key.
func RateLimit(limiter *auth.DistributedRateLimiter, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if user, err := auth.GetUserFromContext(r.Context()); err == nil {
				key = user.UserID
			}

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("Rate limiter error, allowing request", zap.Error(err))
			}
			if !allowed {
				respondWithError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
