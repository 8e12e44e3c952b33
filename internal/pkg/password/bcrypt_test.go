package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"employeehub/internal/pkg/password"
)

func newTestHasher() *password.Hasher {
	return password.NewHasher(bcrypt.MinCost)
}

func TestHash_RoundTrip(t *testing.T) {
	h := newTestHasher()

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)

	assert.True(t, h.Verify("correct horse", hash))
	assert.False(t, h.Verify("battery staple", hash))
}

func TestHash_IsSaltedAndNonDeterministic(t *testing.T) {
	h := newTestHasher()

	first, err := h.Hash("p")
	require.NoError(t, err)
	second, err := h.Hash("p")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("p", first))
	assert.True(t, h.Verify("p", second))
}

func TestVerify_MalformedHashReturnsFalse(t *testing.T) {
	h := newTestHasher()

	for _, bad := range []string{"", "not-a-hash", "$2a$10$short", strings.Repeat("x", 60)} {
		assert.False(t, h.Verify("p", bad), "hash %q", bad)
	}
}

func TestNewHasher_ClampsCost(t *testing.T) {
	low := password.NewHasher(0)
	hash, err := low.Hash("p")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestHash_RejectsOverlongSecret(t *testing.T) {
	h := newTestHasher()

	_, err := h.Hash(strings.Repeat("a", 73))

	assert.Error(t, err)
}
