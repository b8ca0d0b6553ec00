package token

import (
	"context"
	"testing"
	"time"

	"smartmilk/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T, now time.Time) *Issuer {
	t.Helper()
	iss, err := NewIssuer(Config{Secret: "s3cret", TTL: time.Hour, Issuer: "smartmilk"})
	require.NoError(t, err)
	iss.now = func() time.Time { return now }
	return iss
}

func TestIssuer_RoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	iss := newTestIssuer(t, now)

	tok, err := iss.Issue("u1", "ana@farm.io")
	require.NoError(t, err)

	claims, err := iss.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ana@farm.io", claims.Email)
	assert.True(t, claims.ExpiresAt.Equal(now.Add(time.Hour)))
}

func TestIssuer_RejectsExpiredAndForeignTokens(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	iss := newTestIssuer(t, now)

	tok, err := iss.Issue("u1", "")
	require.NoError(t, err)

	iss.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = iss.Verify(context.Background(), tok)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	other, err := NewIssuer(Config{Secret: "other", Issuer: "smartmilk"})
	require.NoError(t, err)
	foreign, err := other.Issue("u1", "")
	require.NoError(t, err)
	iss.now = func() time.Time { return now }
	_, err = iss.Verify(context.Background(), foreign)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = iss.Verify(context.Background(), unsigned)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = iss.Verify(context.Background(), "  ")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	_, err := NewIssuer(Config{Secret: " "})
	assert.ErrorIs(t, err, ErrMissingSecret)
}
