package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vagondeck/internal/config"
)

func newTestAuthService(t *testing.T, password string) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(config.Config{
		PasswordHash:  string(hash),
		SessionSecret: "test-session-secret",
	})
}

func TestAuthDisabledWithoutHash(t *testing.T) {
	auth := NewAuthService(config.Config{SessionSecret: "s"})
	assert.False(t, auth.Enabled())

	_, err := auth.Login("anything")
	assert.Error(t, err)
}

func TestLoginRoundTrip(t *testing.T) {
	auth := newTestAuthService(t, "hunter2")
	assert.True(t, auth.Enabled())

	token, err := auth.Login("hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, auth.ValidateToken(token))
}

func TestLoginWrongPassword(t *testing.T) {
	auth := newTestAuthService(t, "hunter2")

	_, err := auth.Login("wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	auth := newTestAuthService(t, "hunter2")
	other := NewAuthService(config.Config{
		PasswordHash:  string(auth.passwordHash),
		SessionSecret: "a-different-secret",
	})

	token, err := other.Login("hunter2")
	require.NoError(t, err)

	assert.Error(t, auth.ValidateToken(token))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	auth := newTestAuthService(t, "hunter2")
	assert.Error(t, auth.ValidateToken("not-a-jwt"))
	assert.Error(t, auth.ValidateToken(""))
}
