package user

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// NewToken creates a cryptographically secure, URL-safe random token.
// Uniqueness is probabilistic; where it must be enforced, the store's unique
// constraints are the authority.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Digest hashes a plaintext secret with bcrypt at the given cost. The hash
// embeds a fresh salt, so hashing the same secret twice yields different
// digests; only Verify can relate them.
func Digest(plain string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether candidate is the secret behind digest. An absent
// digest never authenticates anything; the comparison itself is delegated to
// bcrypt, which is constant-time over the hash output.
func Verify(digest, candidate string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(candidate)) == nil
}
