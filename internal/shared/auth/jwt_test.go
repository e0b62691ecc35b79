package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENV", "dev")

	token, err := SignJWT(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}, Email: "a@example.com"})
	require.NoError(t, err)

	claims, err := VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Principal())
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestVerifyAcceptsUserIDClaim(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignJWT(Claims{UserID: "42"})
	require.NoError(t, err)
	claims, err := VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Principal())
}

func TestVerifyRejects(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	refresh, err := SignJWT(Claims{TokenType: "refresh", RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
	require.NoError(t, err)

	expired, err := SignJWT(Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}})
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{TokenType: TokenTypeAccess, UserID: "x"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	otherKey, err := SignJWT(Claims{UserID: "x"})
	require.NoError(t, err)
	t.Setenv("JWT_SECRET", "test-secret")

	for name, token := range map[string]string{
		"refresh token": refresh,
		"expired":       expired,
		"alg none":      noneAlg,
		"wrong key":     otherKey,
		"garbage":       "a.b.c",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := VerifyJWT(token)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}

func TestSecretRequiredInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := VerifyJWT("a.b.c")
	require.ErrorIs(t, err, errMissingSecret)
}
