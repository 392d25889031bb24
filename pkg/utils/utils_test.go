package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	id := uuid.New()

	token, err := m.GenerateAccessToken(id, "agronorte")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "agronorte", claims.Username)
	assert.Equal(t, id.String(), claims.Subject)
}

func TestJWTManager_RejectsForeignAndExpiredTokens(t *testing.T) {
	issuer := NewJWTManager("secret", time.Hour)
	other := NewJWTManager("another-secret", time.Hour)
	expired := NewJWTManager("secret", -time.Minute)

	token, err := other.GenerateAccessToken(uuid.New(), "x")
	require.NoError(t, err)
	_, err = issuer.ValidateAccessToken(token)
	assert.Error(t, err)

	token, err = expired.GenerateAccessToken(uuid.New(), "x")
	require.NoError(t, err)
	_, err = issuer.ValidateAccessToken(token)
	assert.Error(t, err)

	_, err = issuer.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("agronorte123")
	require.NoError(t, err)

	assert.NotEqual(t, "agronorte123", hash)
	assert.True(t, CheckPasswordHash("agronorte123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
