package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("unit-test-secret")

	token, err := GenerateToken(secret, 42, "ada")
	require.NoError(t, err)

	userID, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("right"), 1, "ada")
	require.NoError(t, err)

	_, err = ParseToken([]byte("wrong"), token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken([]byte("secret"), "not-a-token")
	assert.Error(t, err)
}
