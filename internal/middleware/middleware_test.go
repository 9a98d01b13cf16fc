package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-store-console/internal/platform/logger"
	"pet-store-console/internal/ports/auth"
	"pet-store-console/internal/ports/capabilities"

	"github.com/stretchr/testify/assert"
)

type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token != "good" {
		return auth.Claims{}, errors.New("bad token")
	}
	return auth.Claims{UserID: "7", RoleID: 2}, nil
}

type fakeResolver map[string]bool

func (f fakeResolver) HasFeature(_ context.Context, in capabilities.CapabilityCheck) (bool, error) {
	if in.Admin {
		return true, nil
	}
	return f[in.Capability], nil
}

func captureClaims(t *testing.T, mw func(http.Handler) http.Handler, req *http.Request) (auth.Claims, bool) {
	t.Helper()
	var got auth.Claims
	var ok bool
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetClaims(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), req)
	return got, ok
}

func TestAuthContext_BearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")

	c, ok := captureClaims(t, AuthContext(fakeVerifier{}, false), req)
	assert.True(t, ok)
	assert.Equal(t, "7", c.UserID)
	assert.Equal(t, 2, c.RoleID)

	req.Header.Set("Authorization", "Bearer bad")
	_, ok = captureClaims(t, AuthContext(fakeVerifier{}, false), req)
	assert.False(t, ok)
}

func TestAuthContext_DebugHeaderOnlyInDevMode(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-User-ID", "dev")

	_, ok := captureClaims(t, AuthContext(nil, false), req)
	assert.False(t, ok)

	c, ok := captureClaims(t, AuthContext(nil, true), req)
	assert.True(t, ok)
	assert.True(t, c.Admin)

	req.Header.Set("X-Debug-Role-ID", "3")
	c, _ = captureClaims(t, AuthContext(nil, true), req)
	assert.False(t, c.Admin)
	assert.Equal(t, 3, c.RoleID)
}

func TestRequirePermission(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := RequirePermission(fakeResolver{"Clientes": true}, logger.Nop(), "Clientes")(ok)
	denied := RequirePermission(fakeResolver{}, logger.Nop(), "Clientes")(ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = req.WithContext(WithClaims(req.Context(), auth.Claims{UserID: "1", RoleID: 2}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	denied.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireSession(t *testing.T) {
	h := RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
