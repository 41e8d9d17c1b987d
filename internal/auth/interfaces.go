package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/quangdng/go-shop-api/internal/user"
)

// UserStore is the slice of user persistence the auth service needs.
// *user.Repository satisfies it; tests provide an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	UpdateRememberDigest(ctx context.Context, id uuid.UUID, digest *string) error
	MarkActivated(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateResetDigest(ctx context.Context, id uuid.UUID, digest *string, sentAt *time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, digest string) error
}

// EmailSender delivers account emails. Sends are fire-and-forget from the
// service's perspective; delivery failures are the sender's concern.
type EmailSender interface {
	SendActivationEmail(ctx context.Context, toEmail, token string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, token string) error
}

// TokenService defines the interface for access token creation and validation.
type TokenService interface {
	CreateToken(userID uuid.UUID, email string, admin bool, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}
