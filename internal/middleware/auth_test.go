package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"challengehub/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, userID int64, role string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func identityEcho(t *testing.T, captured **Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r.Context())
		require.True(t, ok)
		*captured = identity
		w.WriteHeader(http.StatusOK)
	})
}

// ===============================
// AUTHENTICATE
// ===============================

func TestAuthenticateValidToken(t *testing.T) {
	var got *Identity
	handler := Authenticate(testSecret)(identityEcho(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, 42, models.RoleAdmin, time.Hour))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, models.RoleAdmin, got.Role)
}

func TestAuthenticateXAuthTokenHeader(t *testing.T) {
	var got *Identity
	handler := Authenticate(testSecret)(identityEcho(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Auth-Token", signToken(t, testSecret, 7, models.RoleUser, time.Hour))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.UserID)
}

func TestAuthenticateRejections(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})
	handler := Authenticate(testSecret)(next)

	cases := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"wrong secret", signToken(t, "other-secret", 1, models.RoleUser, time.Hour)},
		{"expired token", signToken(t, testSecret, 1, models.RoleUser, -time.Minute)},
		{"unknown role", signToken(t, testSecret, 1, "superuser", time.Hour)},
		{"garbage", "not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthenticateRejectsUnsignedAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": float64(1),
		"role":    models.RoleOwner,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	handler := Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ===============================
// ROLE TIERS
// ===============================

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		role     string
		required string
		want     int
	}{
		{models.RoleUser, models.RoleUser, http.StatusOK},
		{models.RoleUser, models.RoleAdmin, http.StatusForbidden},
		{models.RoleUser, models.RoleOwner, http.StatusForbidden},
		{models.RoleAdmin, models.RoleAdmin, http.StatusOK},
		{models.RoleAdmin, models.RoleOwner, http.StatusForbidden},
		{models.RoleOwner, models.RoleUser, http.StatusOK},
		{models.RoleOwner, models.RoleAdmin, http.StatusOK},
		{models.RoleOwner, models.RoleOwner, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.role+" needs "+tc.required, func(t *testing.T) {
			handler := Chain(
				Authenticate(testSecret),
				RequireRole(tc.required),
			)(ok)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, 1, tc.role, time.Hour))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	handler := RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
