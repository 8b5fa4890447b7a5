package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Abcd123!")
	require.NoError(t, err)
	assert.NotEqual(t, "Abcd123!", hash)

	again, err := hasher.Hash("Abcd123!")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes should be salted")

	tests := []struct {
		name      string
		plaintext string
		hash      string
		want      bool
	}{
		{name: "matching password", plaintext: "Abcd123!", hash: hash, want: true},
		{name: "wrong password", plaintext: "wrong", hash: hash, want: false},
		{name: "empty hash", plaintext: "Abcd123!", hash: "", want: false},
		{name: "malformed hash", plaintext: "Abcd123!", hash: "not-a-bcrypt-hash", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasher.Verify(tt.plaintext, tt.hash))
		})
	}
}

func TestNewBcryptHasherClampsCost(t *testing.T) {
	assert.Equal(t, DefaultHashCost, NewBcryptHasher(0).cost)
	assert.Equal(t, DefaultHashCost, NewBcryptHasher(100).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}
