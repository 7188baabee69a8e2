package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserHashesPassword(t *testing.T) {
	user, err := CreateUser("alice@example.com", "correct-horse-battery")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "correct-horse-battery", user.Password)
	assert.True(t, user.CheckPassword("correct-horse-battery"))
	assert.False(t, user.CheckPassword("wrong-password"))
	assert.False(t, user.IsPremium)
}

func TestCreateUserRejectsInvalidEmail(t *testing.T) {
	_, err := CreateUser("not-an-email", "correct-horse-battery")
	assert.Error(t, err)
}

func TestSetPasswordReplacesHash(t *testing.T) {
	user, err := CreateUser("bob@example.com", "first-password-123")
	require.NoError(t, err)
	oldHash := user.Password

	require.NoError(t, user.SetPassword("second-password-456"))

	assert.NotEqual(t, oldHash, user.Password)
	assert.False(t, user.CheckPassword("first-password-123"))
	assert.True(t, user.CheckPassword("second-password-456"))
}
