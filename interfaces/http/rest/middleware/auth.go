// Package middleware provides HTTP middleware for the REST surface.
package middleware

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"pawdopt-backend/infrastructure/config"
	"pawdopt-backend/pkg/auth"
	"pawdopt-backend/pkg/common"
)

// Authenticate creates the authentication middleware. In Lambda the API
// Gateway JWT authorizer has already validated the token, so we only lift the
// caller's identity out of the headers the entrypoint sets; everywhere else
// the token is validated locally.
func Authenticate(cfg *config.Config, logger *zap.Logger) func(next http.Handler) http.Handler {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return authenticateForLambda()
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret = "development-secret-change-in-production"
	}

	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
	})
	if err != nil {
		logger.Error("Failed to create token validator", zap.Error(err))
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				respondUnauthorized(w, "Authentication system error")
			})
		}
	}

	ipLimiter := auth.NewIPRateLimiter(100)
	userLimiter := auth.NewUserRateLimiter(200)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, _ := ipLimiter.Allow(r.Context(), clientIP(r))
			if !allowed {
				respondWithError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				respondUnauthorized(w, "Missing or malformed authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrExpiredToken):
					respondUnauthorized(w, "Token has expired")
				case errors.Is(err, auth.ErrInvalidSignature):
					respondUnauthorized(w, "Invalid token signature")
				default:
					respondUnauthorized(w, "Invalid token")
				}
				return
			}

			allowed, _ = userLimiter.Allow(r.Context(), claims.UserID)
			if !allowed {
				respondWithError(w, http.StatusTooManyRequests, "User rate limit exceeded")
				return
			}

			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				UserID: claims.UserID,
				Role:   claims.Role,
			})
			ctx = common.EnrichContext(ctx, claims.UserID, claims.Role, chimiddleware.GetReqID(ctx))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticateForLambda trusts the identity headers the Lambda entrypoint
// extracted from the API Gateway authorizer context.
func authenticateForLambda() func(next http.Handler) http.Handler {
	userLimiter := auth.NewUserRateLimiter(200)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-API-Gateway-Authorized") != "true" {
				respondUnauthorized(w, "Request not authorized by API Gateway")
				return
			}

			userID := r.Header.Get("X-User-ID")
			if userID == "" {
				respondUnauthorized(w, "Missing user context from API Gateway")
				return
			}

			allowed, _ := userLimiter.Allow(r.Context(), userID)
			if !allowed {
				respondWithError(w, http.StatusTooManyRequests, "User rate limit exceeded")
				return
			}

			role := r.Header.Get("X-User-Role")
			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				UserID: userID,
				Role:   role,
			})
			ctx = common.EnrichContext(ctx, userID, role, chimiddleware.GetReqID(ctx))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		header = r.Header.Get("authorization")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx > 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	respondWithError(w, http.StatusUnauthorized, message)
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
