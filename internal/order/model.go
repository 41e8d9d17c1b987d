package order

import (
	"time"

	"github.com/google/uuid"
)

// Status values an order moves through.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusShipped   = "shipped"
	StatusCancelled = "cancelled"
)

type Order struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	ShipTo     string    `json:"ship_to"`
	CreatedAt  time.Time `json:"created_at"`
}
