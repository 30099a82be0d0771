package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong-pass", hash))
	assert.False(t, CheckPasswordHash("s3cret-pass", "not-a-bcrypt-hash"))
}

func TestGenerateUppercaseToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		tok := GenerateUppercaseToken(4)
		require.Len(t, tok, 4)
		for _, r := range tok {
			assert.True(t, strings.ContainsRune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", r),
				"unexpected rune %q in %q", r, tok)
		}
		seen[tok] = true
	}
	// 20 draws from a 36^4 space colliding every time would mean a broken RNG
	assert.Greater(t, len(seen), 1)
}
