package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-adoption-hub/internal/ports/auth"
)

type fakeVerifier struct {
	claims auth.Claims
	err    error
}

func (f fakeVerifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if token != "good" {
		return auth.Claims{}, errors.New("bad token")
	}
	return f.claims, f.err
}

func captureClaims(t *testing.T, h func(http.Handler) http.Handler, req *http.Request) (auth.Claims, bool) {
	t.Helper()

	var (
		got auth.Claims
		ok  bool
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetClaims(r.Context())
	})
	h(next).ServeHTTP(httptest.NewRecorder(), req)
	return got, ok
}

func TestAuthContext_DevMode_UsesDebugHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-User-ID", "u-1")
	req.Header.Set("X-Debug-Role", "Shelter")

	c, ok := captureClaims(t, AuthContext(nil), req)
	if !ok {
		t.Fatalf("expected claims in context")
	}
	if c.UserID != "u-1" || c.Role != auth.RoleShelter {
		t.Fatalf("unexpected claims %#v", c)
	}
}

func TestAuthContext_DevMode_DefaultsToUserRole(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-User-ID", "u-1")

	c, ok := captureClaims(t, AuthContext(nil), req)
	if !ok || c.Role != auth.RoleUser {
		t.Fatalf("expected user role, got %#v (ok=%v)", c, ok)
	}
}

func TestAuthContext_Verifier(t *testing.T) {
	v := fakeVerifier{claims: auth.Claims{UserID: "admin-1", Role: auth.RoleAdmin}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	c, ok := captureClaims(t, AuthContext(v), req)
	if !ok || c.UserID != "admin-1" {
		t.Fatalf("expected verified claims, got %#v (ok=%v)", c, ok)
	}

	// Debug headers se ignoran cuando hay verifier
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-User-ID", "sneaky")
	if _, ok := captureClaims(t, AuthContext(v), req); ok {
		t.Fatalf("debug header must not authenticate when verifier is configured")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	if _, ok := captureClaims(t, AuthContext(v), req); ok {
		t.Fatalf("invalid token must not set claims")
	}
}
