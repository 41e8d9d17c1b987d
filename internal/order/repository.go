package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/quangdng/go-shop-api/internal/database"
)

var ErrNotFound = errors.New("order not found")

// Repository handles order persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new order for a user
func (r *Repository) Create(ctx context.Context, o *Order) error {
	dbOrder := &database.Order{
		UserID:     o.UserID,
		Status:     o.Status,
		TotalCents: o.TotalCents,
		ShipTo:     o.ShipTo,
	}

	_, err := r.db.NewInsert().
		Model(dbOrder).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	o.ID = dbOrder.ID
	o.Status = dbOrder.Status
	o.CreatedAt = dbOrder.CreatedAt
	return nil
}

// GetByID retrieves an order
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	dbOrder := new(database.Order)
	err := r.db.NewSelect().
		Model(dbOrder).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return mapDBOrderToModel(dbOrder), nil
}

// ListByUser returns all orders placed by a user, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Order, error) {
	var dbOrders []*database.Order
	err := r.db.NewSelect().
		Model(&dbOrders).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]*Order, len(dbOrders))
	for i, dbo := range dbOrders {
		orders[i] = mapDBOrderToModel(dbo)
	}
	return orders, nil
}

func mapDBOrderToModel(dbo *database.Order) *Order {
	return &Order{
		ID:         dbo.ID,
		UserID:     dbo.UserID,
		Status:     dbo.Status,
		TotalCents: dbo.TotalCents,
		ShipTo:     dbo.ShipTo,
		CreatedAt:  dbo.CreatedAt,
	}
}
