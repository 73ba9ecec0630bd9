package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Roles recognized in identity tokens. The identity provider stores the role
// as a custom attribute on the user.
const (
	RoleAdopter = "adopter"
	RoleShelter = "shelter"
)

var (
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrInvalidToken     = errors.New("invalid token")
	ErrNoUserInContext  = errors.New("no user in context")
)

// Claims holds the identity claims the backend cares about.
type Claims struct {
	UserID string
	Role   string
}

// UserContext carries the authenticated caller through request handling.
type UserContext struct {
	UserID string
	Role   string
}

// IsAdopter reports whether the caller signed in as an adopter.
func (u *UserContext) IsAdopter() bool { return u.Role == RoleAdopter }

// IsShelter reports whether the caller signed in as a shelter.
func (u *UserContext) IsShelter() bool { return u.Role == RoleShelter }

// JWTConfig configures local token validation. In Lambda the API Gateway
// authorizer validates tokens before they reach us; this path covers the
// local dev server.
type JWTConfig struct {
	SecretKey string
	Issuer    string
}

// JWTValidator validates HS256 identity tokens and extracts claims.
type JWTValidator struct {
	cfg JWTConfig
}

// NewJWTValidator creates a validator from config
func NewJWTValidator(cfg JWTConfig) (*JWTValidator, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("jwt secret key is required")
	}
	return &JWTValidator{cfg: cfg}, nil
}

// ValidateToken checks signature and expiry and returns the caller's claims.
// The user id comes from the standard `sub` claim; the role from the
// identity provider's `custom:role` attribute.
func (v *JWTValidator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(v.cfg.SecretKey), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}
	role, _ := mapClaims["custom:role"].(string)

	return &Claims{UserID: sub, Role: role}, nil
}

type contextKey string

const userContextKey contextKey = "auth.user"

// SetUserInContext stores the authenticated user on the context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, ErrNoUserInContext
	}
	return user, nil
}
