package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kirana/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.GenerateToken("64f1a2b3c4d5e6f708192a3b")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64f1a2b3c4d5e6f708192a3b", claims.UserID)
}

func TestTokenExpiresInSevenDays(t *testing.T) {
	token, err := auth.GenerateToken("64f1a2b3c4d5e6f708192a3b")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)

	expected := time.Now().Add(auth.TokenTTL)
	assert.WithinDuration(t, expected, claims.ExpiresAt.Time, time.Minute)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	token, err := auth.GenerateToken("64f1a2b3c4d5e6f708192a3b")
	require.NoError(t, err)

	_, err = auth.ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := auth.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestHashPasswordSaltsPerCall(t *testing.T) {
	first, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	second, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	// Random salt per call; equal inputs must not produce equal digests.
	assert.NotEqual(t, first, second)
	assert.True(t, auth.CheckPassword(first, "secret123"))
	assert.True(t, auth.CheckPassword(second, "secret123"))
}

func TestCheckPasswordRejectsWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	assert.False(t, auth.CheckPassword(hash, "Secret123"))
	assert.False(t, auth.CheckPassword(hash, ""))
}
