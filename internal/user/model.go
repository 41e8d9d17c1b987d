package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the domain model for an account. The three *Token fields are
// ephemeral: they hold the plaintext counterpart of a digest for the duration
// of the request that generated it and are never persisted.
type User struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Address          string     `json:"address"`
	Phone            string     `json:"phone"`
	Email            string     `json:"email"`
	PasswordDigest   string     `json:"-"`
	RememberDigest   *string    `json:"-"`
	ActivationDigest string     `json:"-"`
	ResetDigest      *string    `json:"-"`
	Activated        bool       `json:"activated"`
	ActivatedAt      *time.Time `json:"activated_at,omitempty"`
	ResetSentAt      *time.Time `json:"-"`
	Admin            bool       `json:"admin"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	RememberToken   string `json:"-"`
	ActivationToken string `json:"-"`
	ResetToken      string `json:"-"`
}

// DigestKind names one of the single-use token digests stored on a user.
type DigestKind string

const (
	DigestRemember   DigestKind = "remember"
	DigestActivation DigestKind = "activation"
	DigestReset      DigestKind = "reset"
)

// Authenticated reports whether token matches the digest of the given kind.
// A user who never set up the credential in question (nil or empty digest)
// is never authenticated by it.
func (u *User) Authenticated(kind DigestKind, token string) bool {
	var digest string
	switch kind {
	case DigestRemember:
		if u.RememberDigest != nil {
			digest = *u.RememberDigest
		}
	case DigestActivation:
		digest = u.ActivationDigest
	case DigestReset:
		if u.ResetDigest != nil {
			digest = *u.ResetDigest
		}
	default:
		return false
	}
	return Verify(digest, token)
}
