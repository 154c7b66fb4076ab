package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailglobe/trailglobe/internal/token"
)

func newTestMiddleware(t *testing.T) (*Middleware, *token.Codec) {
	t.Helper()
	codec, err := token.NewCodec([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return NewMiddleware(codec), codec
}

func doRequest(t *testing.T, m *Middleware, authHeader string) (*httptest.ResponseRecorder, *Principal) {
	t.Helper()

	var captured *Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := GetPrincipalFromContext(r.Context()); ok {
			captured = &p
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	m.RequireSession(next).ServeHTTP(rec, req)
	return rec, captured
}

func TestRequireSessionValidToken(t *testing.T) {
	t.Parallel()
	m, codec := newTestMiddleware(t)

	tok, err := codec.SignSession(token.SessionClaims{
		UserID:  "b4f9a8a2-5a3d-4c7e-9f1b-2d3c4e5f6a7b",
		Name:    "Ana",
		Email:   "ana@x.com",
		IsAdmin: true,
	}, time.Hour)
	require.NoError(t, err)

	rec, principal := doRequest(t, m, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
	assert.Equal(t, "Ana", principal.Name)
	assert.Equal(t, "ana@x.com", principal.Email)
	assert.True(t, principal.IsAdmin)
}

func TestRequireSessionMissingHeader(t *testing.T) {
	t.Parallel()
	m, _ := newTestMiddleware(t)

	rec, principal := doRequest(t, m, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, principal)
}

func TestRequireSessionMalformedHeader(t *testing.T) {
	t.Parallel()
	m, _ := newTestMiddleware(t)

	rec, _ := doRequest(t, m, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doRequest(t, m, "Bearer")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSessionGarbageToken(t *testing.T) {
	t.Parallel()
	m, _ := newTestMiddleware(t)

	rec, principal := doRequest(t, m, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, principal)
}

func TestRequireSessionExpiryBoundary(t *testing.T) {
	t.Parallel()
	m, codec := newTestMiddleware(t)

	tok, err := codec.SignSession(token.SessionClaims{
		UserID: "b4f9a8a2-5a3d-4c7e-9f1b-2d3c4e5f6a7b",
	}, 300*time.Millisecond)
	require.NoError(t, err)

	// Accepted before expiry, rejected after.
	rec, _ := doRequest(t, m, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)

	time.Sleep(500 * time.Millisecond)

	rec, _ = doRequest(t, m, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSessionRejectsNonSessionToken(t *testing.T) {
	t.Parallel()
	m, codec := newTestMiddleware(t)

	reset, err := codec.SignPasswordReset(token.ResetBySelf, "b4f9a8a2-5a3d-4c7e-9f1b-2d3c4e5f6a7b", time.Hour)
	require.NoError(t, err)

	rec, _ := doRequest(t, m, "Bearer "+reset)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
