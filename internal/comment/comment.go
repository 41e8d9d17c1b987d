package comment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/quangdng/go-shop-api/internal/database"
)

var ErrNotFound = errors.New("comment not found")

type Comment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository handles comment persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new comment
func (r *Repository) Create(ctx context.Context, c *Comment) error {
	dbComment := &database.Comment{
		UserID:    c.UserID,
		ProductID: c.ProductID,
		Content:   c.Content,
	}

	_, err := r.db.NewInsert().
		Model(dbComment).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	c.ID = dbComment.ID
	c.CreatedAt = dbComment.CreatedAt
	return nil
}

// ListByProduct returns a product's comments, oldest first.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*Comment, error) {
	var dbComments []*database.Comment
	err := r.db.NewSelect().
		Model(&dbComments).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return mapDBComments(dbComments), nil
}

// ListAll returns every comment, newest first. Used by the admin moderation
// listing.
func (r *Repository) ListAll(ctx context.Context) ([]*Comment, error) {
	var dbComments []*database.Comment
	err := r.db.NewSelect().
		Model(&dbComments).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return mapDBComments(dbComments), nil
}

// Delete removes a comment regardless of owner. Admin moderation path.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.Comment)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
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

func mapDBComments(dbComments []*database.Comment) []*Comment {
	comments := make([]*Comment, len(dbComments))
	for i, dbc := range dbComments {
		comments[i] = &Comment{
			ID:        dbc.ID,
			UserID:    dbc.UserID,
			ProductID: dbc.ProductID,
			Content:   dbc.Content,
			CreatedAt: dbc.CreatedAt,
		}
	}
	return comments
}
