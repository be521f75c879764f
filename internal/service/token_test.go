package service

import (
	"testing"
	"time"

	"github.com/cineview/movie-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestTokenService() *TokenService {
	return NewTokenService("test-secret", 24*time.Hour, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tokens := newTestTokenService()

	user := &model.User{
		Model:    gorm.Model{ID: 42},
		UserName: "alice",
		Email:    "alice@example.com",
		IsAdmin:  true,
	}

	tokenString, err := tokens.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := tokens.ValidateToken(tokenString)
	require.NoError(t, err)

	userID, ok := UserIDFromClaims(claims)
	require.True(t, ok)
	assert.Equal(t, uint(42), userID)
	assert.Equal(t, "alice", claims["user_name"])
	assert.Equal(t, "alice@example.com", claims["email"])
	assert.Equal(t, true, claims["is_admin"])
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	user := &model.User{Model: gorm.Model{ID: 1}, Email: "a@b.c"}

	tokenString, err := newTestTokenService().GenerateAccessToken(user)
	require.NoError(t, err)

	other := NewTokenService("different-secret", time.Hour, time.Hour)
	_, err = other.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := newTestTokenService().ValidateToken("not.a.jwt")
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	tokens := newTestTokenService()

	tokenString, err := tokens.GenerateRefreshToken(7)
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(tokenString)
	require.NoError(t, err)

	userID, ok := UserIDFromClaims(claims)
	require.True(t, ok)
	assert.Equal(t, uint(7), userID)
}

func TestGenerateResetTokenIsUniqueHex(t *testing.T) {
	tokens := newTestTokenService()

	first, err := tokens.GenerateResetToken()
	require.NoError(t, err)
	second, err := tokens.GenerateResetToken()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
}

func TestHashResetTokenIsDeterministic(t *testing.T) {
	tokens := newTestTokenService()

	hash := tokens.HashResetToken("raw-token")
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, tokens.HashResetToken("raw-token"))
	assert.NotEqual(t, hash, tokens.HashResetToken("other-token"))
	assert.NotEqual(t, "raw-token", hash)
}
