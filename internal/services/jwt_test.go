package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret")

	token, err := svc.GenerateToken(42, "alice")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "42", claims.Subject)
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService("secret")
	token, err := svc.GenerateToken(1, "alice")
	require.NoError(t, err)

	_, err = NewTokenService("other").ValidateToken(token)
	assert.Error(t, err, "wrong secret")

	expired := &TokenService{jwtSecret: "secret", ttl: -time.Minute}
	old, err := expired.GenerateToken(1, "alice")
	require.NoError(t, err)
	_, err = svc.ValidateToken(old)
	assert.Error(t, err, "expired")

	_, err = svc.ValidateToken("garbage")
	assert.Error(t, err)
}
