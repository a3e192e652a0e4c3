package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-with-enough-length-for-hs256"

func newTestTokenService(t *testing.T) TokenService {
	t.Helper()
	svc, err := NewTokenService(15*time.Minute, 24*time.Hour, "lendwise-test", "lendwise-api", false, "", "", testSecret)
	require.NoError(t, err)
	return svc
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(time.Minute, time.Hour, "iss", "aud", false, "", "", "")
	assert.Error(t, err)
}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := newTestTokenService(t)

	accessToken, refreshToken, err := svc.GenerateTokens(42, "merchant")
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	claims, err := svc.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.MerchantID)
	assert.Equal(t, "merchant", claims.Role)
	assert.Equal(t, "access", claims.TokenType)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))

	refreshClaims, err := svc.ValidateToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.TokenType)
	assert.NotEqual(t, claims.TokenID, refreshClaims.TokenID)
}

func TestValidateTokenCarriesAdminRole(t *testing.T) {
	svc := newTestTokenService(t)

	accessToken, _, err := svc.GenerateTokens(1, "admin")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestTokenService(t)

	_, err := svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := newTestTokenService(t)
	other, err := NewTokenService(time.Minute, time.Hour, "lendwise-test", "lendwise-api", false, "", "", "a-completely-different-secret-key-material")
	require.NoError(t, err)

	accessToken, _, err := other.GenerateTokens(7, "merchant")
	require.NoError(t, err)

	_, err = svc.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenExpired(t *testing.T) {
	svc, err := NewTokenService(-time.Minute, time.Hour, "lendwise-test", "lendwise-api", false, "", "", testSecret)
	require.NoError(t, err)

	accessToken, _, err := svc.GenerateTokens(7, "merchant")
	require.NoError(t, err)

	_, err = svc.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshTokenIssuesNewPair(t *testing.T) {
	svc := newTestTokenService(t)

	_, refreshToken, err := svc.GenerateTokens(42, "merchant")
	require.NoError(t, err)

	newAccess, newRefresh, err := svc.RefreshToken(refreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.MerchantID)
	assert.Equal(t, "access", claims.TokenType)

	refreshClaims, err := svc.ValidateToken(newRefresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.TokenType)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc := newTestTokenService(t)

	accessToken, _, err := svc.GenerateTokens(42, "merchant")
	require.NoError(t, err)

	_, _, err = svc.RefreshToken(accessToken)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc := newTestTokenService(t)

	accessToken, refreshToken, err := svc.GenerateTokens(42, "merchant")
	require.NoError(t, err)

	require.NoError(t, svc.RevokeToken(accessToken))
	assert.True(t, svc.IsTokenRevoked(accessToken))

	_, err = svc.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// Revoking twice is a no-op.
	assert.NoError(t, svc.RevokeToken(accessToken))

	// The refresh token from the same pair stays valid.
	assert.False(t, svc.IsTokenRevoked(refreshToken))
	_, err = svc.ValidateToken(refreshToken)
	assert.NoError(t, err)
}
