// Package requestctx carries the authenticated identity through the request
// context so handlers don't depend on the auth middleware directly.
package requestctx

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	userEmailKey contextKey = "user_email"
	adminKey     contextKey = "admin"
)

// WithIdentity attaches the authenticated user's ID, email and admin flag.
func WithIdentity(ctx context.Context, userID uuid.UUID, email string, admin bool) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, userEmailKey, email)
	return context.WithValue(ctx, adminKey, admin)
}

// UserID extracts the authenticated user ID from the request context.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

// UserEmail extracts the authenticated user email from the request context.
func UserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(userEmailKey).(string)
	return email, ok
}

// IsAdmin reports whether the authenticated user carries the admin flag.
// False for unauthenticated contexts.
func IsAdmin(ctx context.Context) bool {
	admin, ok := ctx.Value(adminKey).(bool)
	return ok && admin
}
