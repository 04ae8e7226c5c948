package auth

import (
	"testing"
	"time"

	"character-merge-api/internal/config"

	"github.com/stretchr/testify/require"
)

func testManager() *Manager {
	return NewManager(config.JWTConfig{
		Secret:   "test-secret",
		Issuer:   "character-merge-api",
		Audience: "character-merge-clients",
		TTL:      time.Hour,
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := testManager()
	token, err := m.GenerateToken("u-1", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "u-1", claims.Subject)
}

func TestValidateToken_Invalid(t *testing.T) {
	_, err := testManager().ValidateToken("invalid.token")
	require.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	other := NewManager(config.JWTConfig{Secret: "other", Issuer: "character-merge-api", Audience: "character-merge-clients"})
	token, err := other.GenerateToken("u-1", "alice")
	require.NoError(t, err)

	_, err = testManager().ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_WrongAudience(t *testing.T) {
	other := NewManager(config.JWTConfig{Secret: "test-secret", Issuer: "character-merge-api", Audience: "someone-else"})
	token, err := other.GenerateToken("u-1", "alice")
	require.NoError(t, err)

	_, err = testManager().ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	m := testManager()
	base := time.Now()
	m.now = func() time.Time { return base }

	token, err := m.GenerateTokenWithTTL("u-1", "alice", time.Minute)
	require.NoError(t, err)

	base = base.Add(2 * time.Minute)
	_, err = m.ValidateToken(token)
	require.Error(t, err)
}
