package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err := HashPassword("pw123456", 4)
	require.NoError(t, err)
	h2, err := HashPassword("pw123456", 4)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2, "salt must make repeated hashes differ")
	assert.True(t, CheckPassword("pw123456", h1))
	assert.True(t, CheckPassword("pw123456", h2))
}

func TestCheckPassword_Mismatch(t *testing.T) {
	h, err := HashPassword("correct-horse", 4)
	require.NoError(t, err)
	assert.False(t, CheckPassword("wrong-horse", h))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("anything", "not-a-bcrypt-hash"))
	assert.False(t, CheckPassword("anything", ""))
}

func TestHashPassword_CostOutOfRange(t *testing.T) {
	// 非法 cost 回落到默认值，而不是报错
	h, err := HashPassword("pw123456", 99)
	require.NoError(t, err)
	assert.True(t, CheckPassword("pw123456", h))
}

func TestNewID_Unique(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
}
