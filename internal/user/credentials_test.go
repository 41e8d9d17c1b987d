package user

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewToken(t *testing.T) {
	token, err := NewToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// URL-safe base64 over 32 random bytes
	raw, err := base64.URLEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}

func TestNewTokenUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		token, err := NewToken()
		require.NoError(t, err)

		_, dup := seen[token]
		require.False(t, dup, "token generated twice: %s", token)
		seen[token] = struct{}{}
	}
}

func TestDigestAndVerify(t *testing.T) {
	digest, err := Digest("secret-password", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, digest)
	assert.NotEqual(t, "secret-password", digest)

	assert.True(t, Verify(digest, "secret-password"))
	assert.False(t, Verify(digest, "wrong-password"))
	assert.False(t, Verify(digest, ""))
}

func TestDigestSaltsEachHash(t *testing.T) {
	first, err := Digest("same-secret", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := Digest("same-secret", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, Verify(first, "same-secret"))
	assert.True(t, Verify(second, "same-secret"))
}

func TestVerifyEmptyDigest(t *testing.T) {
	assert.False(t, Verify("", "anything"))
	assert.False(t, Verify("", ""))
}

func TestAuthenticated(t *testing.T) {
	token, err := NewToken()
	require.NoError(t, err)
	digest, err := Digest(token, bcrypt.MinCost)
	require.NoError(t, err)

	u := &User{
		RememberDigest:   &digest,
		ActivationDigest: digest,
	}

	assert.True(t, u.Authenticated(DigestRemember, token))
	assert.True(t, u.Authenticated(DigestActivation, token))
	assert.False(t, u.Authenticated(DigestRemember, "not-the-token"))

	// no reset digest stored
	assert.False(t, u.Authenticated(DigestReset, token))

	u.RememberDigest = nil
	assert.False(t, u.Authenticated(DigestRemember, token))
}
