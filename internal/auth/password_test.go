package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("s3cret", 10)
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestPasswordHashesDiffer(t *testing.T) {
	first, err := HashPassword("same", 10)
	require.NoError(t, err)
	second, err := HashPassword("same", 10)
	require.NoError(t, err)

	// bcrypt salts every hash
	assert.NotEqual(t, first, second)
}
