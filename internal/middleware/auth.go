package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"challengehub/internal/contextutils"
	"challengehub/internal/models"
	"challengehub/internal/response"
	"challengehub/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// identityKey is the context key for the authenticated identity
const identityKey ContextKey = "identity"

// Identity is the authenticated caller extracted from the JWT
type Identity struct {
	UserID int64
	Role   string
}

// GetIdentity extracts the authenticated identity from context
func GetIdentity(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok
}

// Authenticate validates the bearer token and injects the caller's
// identity. Requests without a valid token are rejected.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				response.QuickError(w, r, services.NewUnauthorizedError("Authentication required"))
				return
			}

			identity, err := parseToken(token, secret)
			if err != nil {
				GetRequestLogger(r.Context()).Warn("rejected token", zap.Error(err))
				response.QuickError(w, r, services.NewUnauthorizedError("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			ctx = contextutils.WithUserID(ctx, identity.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a handler behind a minimum role tier. Must run
// after Authenticate.
func RequireRole(required string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r.Context())
			if !ok {
				response.QuickError(w, r, services.NewUnauthorizedError("Authentication required"))
				return
			}
			if !models.RoleAtLeast(identity.Role, required) {
				response.QuickError(w, r, services.NewForbiddenError("Access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken reads the JWT from the Authorization header or the
// X-Auth-Token fallback.
func extractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		}
	}
	return r.Header.Get("X-Auth-Token")
}

// parseToken verifies the signature and expiry and extracts the claims
func parseToken(tokenString, secret string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, fmt.Errorf("missing user_id claim")
	}
	role, ok := claims["role"].(string)
	if !ok || !models.ValidRole(role) {
		return nil, fmt.Errorf("missing or invalid role claim")
	}

	return &Identity{UserID: int64(userID), Role: role}, nil
}
