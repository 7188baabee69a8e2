package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyAccessToken(t *testing.T) {
	tok, err := GenerateAccessToken(42)
	require.NoError(t, err)

	claims, err := Verify(tok, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, TypeAccess, claims.Type)
}

func TestVerifyRejectsWrongType(t *testing.T) {
	refresh, err := GenerateRefreshToken(42)
	require.NoError(t, err)

	_, err = Verify(refresh, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := Verify("not-a-token", TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = Verify("", TypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGeneratePair(t *testing.T) {
	access, refresh, err := GeneratePair(7)
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	_, err = Verify(access, TypeAccess)
	assert.NoError(t, err)
	_, err = Verify(refresh, TypeRefresh)
	assert.NoError(t, err)
}
