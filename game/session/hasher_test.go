package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	t.Run("round trip", func(t *testing.T) {
		hash, err := hasher.Hash("secret")
		require.NoError(t, err)
		assert.NotEqual(t, "secret", hash)
		assert.True(t, hasher.Verify(hash, "secret"))
		assert.False(t, hasher.Verify(hash, "wrong"))
	})

	t.Run("passwords beyond 72 bytes", func(t *testing.T) {
		long := strings.Repeat("p", 100)
		hash, err := hasher.Hash(long)
		require.NoError(t, err)
		assert.True(t, hasher.Verify(hash, long))
		// bytes past the bcrypt limit still count
		assert.False(t, hasher.Verify(hash, strings.Repeat("p", 99)+"q"))
	})

	t.Run("out of range cost", func(t *testing.T) {
		assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).Cost)
		assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).Cost)
	})
}
