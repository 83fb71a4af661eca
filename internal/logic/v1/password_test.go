package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3nha-forte")
	require.NoError(t, err)
	assert.NotEqual(t, "s3nha-forte", hash)

	assert.NoError(t, h.Compare(hash, "s3nha-forte"))
	assert.ErrorIs(t, h.Compare(hash, "errada"), ErrInvalidCredentials)
	assert.ErrorIs(t, h.Compare("", "s3nha-forte"), ErrInvalidCredentials)
	assert.Error(t, h.Compare("not-a-bcrypt-hash", "x"))
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.MaxCost, NewPasswordHasher(99).cost)
	assert.Equal(t, 10, NewPasswordHasher(10).cost)
}
