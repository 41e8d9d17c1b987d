package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persistence model for a user account. Plaintext tokens never
// appear here; only their digests are stored.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID               uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name             string     `bun:"name,notnull"`
	Address          string     `bun:"address,notnull"`
	Phone            string     `bun:"phone,notnull,unique"`
	Email            string     `bun:"email,notnull,unique"`
	PasswordDigest   string     `bun:"password_digest,notnull"`
	RememberDigest   *string    `bun:"remember_digest"`
	ActivationDigest string     `bun:"activation_digest,notnull"`
	ResetDigest      *string    `bun:"reset_digest"`
	Activated        bool       `bun:"activated,notnull,default:false"`
	ActivatedAt      *time.Time `bun:"activated_at"`
	ResetSentAt      *time.Time `bun:"reset_sent_at"`
	Admin            bool       `bun:"admin,notnull,default:false"`
	CreatedAt        time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID         uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	UserID     uuid.UUID `bun:"user_id,notnull,type:uuid"`
	Status     string    `bun:"status,notnull,default:'pending'"`
	TotalCents int64     `bun:"total_cents,notnull"`
	ShipTo     string    `bun:"ship_to,notnull"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type Like struct {
	bun.BaseModel `bun:"table:likes,alias:l"`

	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	UserID    uuid.UUID `bun:"user_id,notnull,type:uuid"`
	ProductID uuid.UUID `bun:"product_id,notnull,type:uuid"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:c"`

	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	UserID    uuid.UUID `bun:"user_id,notnull,type:uuid"`
	ProductID uuid.UUID `bun:"product_id,notnull,type:uuid"`
	Content   string    `bun:"content,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
