package jwtauth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption-hub/internal/ports/auth"
)

const testSecret = "test-secret-0123456789"

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	v := NewVerifier(Config{Secret: testSecret, Issuer: "pet-adoption-hub"})

	tok, err := v.Issue("shelter-1", "s@example.com", auth.RoleShelter)
	require.NoError(t, err)

	claims, err := v.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "shelter-1", claims.UserID)
	assert.Equal(t, "s@example.com", claims.Email)
	assert.Equal(t, auth.RoleShelter, claims.Role)
}

func TestVerify_Expired(t *testing.T) {
	v := NewVerifier(Config{Secret: testSecret, TTL: time.Minute})
	issued := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return issued }

	tok, err := v.Issue("u-1", "", auth.RoleUser)
	require.NoError(t, err)

	v.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = v.Verify(context.Background(), tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_RejectsOtherSecretAndAlg(t *testing.T) {
	v := NewVerifier(Config{Secret: testSecret})
	other := NewVerifier(Config{Secret: "another-secret-987654321"})

	tok, err := other.Issue("u-1", "", auth.RoleAdmin)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// alg none
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_UnknownRoleFallsBackToUser(t *testing.T) {
	v := NewVerifier(Config{Secret: testSecret})
	tok, err := v.Issue("u-1", "", auth.Role("superuser"))
	require.NoError(t, err)

	claims, err := v.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, claims.Role)
}

func TestVerify_NotConfigured(t *testing.T) {
	v := NewVerifier(Config{})
	_, err := v.Verify(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
