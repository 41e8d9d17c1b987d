package like

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/quangdng/go-shop-api/internal/database"
)

var (
	ErrNotFound  = errors.New("like not found")
	ErrDuplicate = errors.New("product already liked")
)

type Like struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository handles like persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create records that a user likes a product. Liking the same product twice
// trips the unique constraint and returns ErrDuplicate.
func (r *Repository) Create(ctx context.Context, l *Like) error {
	dbLike := &database.Like{
		UserID:    l.UserID,
		ProductID: l.ProductID,
	}

	_, err := r.db.NewInsert().
		Model(dbLike).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create like: %w", err)
	}

	l.ID = dbLike.ID
	l.CreatedAt = dbLike.CreatedAt
	return nil
}

// Delete removes a like, scoped to its owner so users can only unlike for
// themselves.
func (r *Repository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.Like)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// ListByUser returns everything a user has liked, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Like, error) {
	var dbLikes []*database.Like
	err := r.db.NewSelect().
		Model(&dbLikes).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}

	likes := make([]*Like, len(dbLikes))
	for i, dbl := range dbLikes {
		likes[i] = &Like{
			ID:        dbl.ID,
			UserID:    dbl.UserID,
			ProductID: dbl.ProductID,
			CreatedAt: dbl.CreatedAt,
		}
	}
	return likes, nil
}
