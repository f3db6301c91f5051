package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCredentialsHashAndVerify(t *testing.T) {
	creds := NewCredentials(bcrypt.MinCost)

	hash, err := creds.HashPassword("password")
	require.NoError(t, err)
	assert.NotEqual(t, "password", hash)

	assert.True(t, creds.VerifyPassword("password", hash))
	assert.False(t, creds.VerifyPassword("Password", hash))
}

func TestCredentialsHashIsSalted(t *testing.T) {
	creds := NewCredentials(bcrypt.MinCost)

	first, err := creds.HashPassword("secret")
	require.NoError(t, err)
	second, err := creds.HashPassword("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Len(t, second, len(first))
}

func TestCredentialsMalformedHashNeverMatches(t *testing.T) {
	creds := NewCredentials(bcrypt.MinCost)

	assert.False(t, creds.VerifyPassword("password", ""))
	assert.False(t, creds.VerifyPassword("password", "not-a-bcrypt-hash"))
}

func TestNewCredentialsClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewCredentials(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewCredentials(99).cost)
	assert.Equal(t, 12, NewCredentials(12).cost)
}
