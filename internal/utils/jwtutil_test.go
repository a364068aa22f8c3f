package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestdesk-system/internal/utils"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, expiresAt, err := utils.GenerateToken(7, "frontdesk", "admin", secret, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := utils.ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "frontdesk", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, _, err := utils.GenerateToken(7, "frontdesk", "admin", []byte("one"), time.Hour)
	require.NoError(t, err)

	_, err = utils.ParseToken(token, []byte("two"))
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, _, err := utils.GenerateToken(7, "frontdesk", "admin", secret, -time.Minute)
	require.NoError(t, err)

	_, err = utils.ParseToken(token, secret)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := utils.ParseToken("not-a-token", []byte("test-secret"))
	assert.Error(t, err)
}
