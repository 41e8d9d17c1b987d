package user

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
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrDuplicatePhone = errors.New("phone already exists")
)

// Repository handles user data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user. The caller is responsible for having normalized
// the email and filled in the password and activation digests.
func (r *Repository) Create(ctx context.Context, u *User) error {
	dbUser := mapModelToDBUser(u)

	_, err := r.db.NewInsert().
		Model(dbUser).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if dup := mapDuplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	applyDBUser(u, dbUser)
	return nil
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("lower(email) = ?", NormalizeEmail(email)).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// Search returns users whose name or address contains term as a substring,
// or every user when term is empty.
func (r *Repository) Search(ctx context.Context, term string) ([]*User, error) {
	var dbUsers []*database.User

	q := r.db.NewSelect().
		Model(&dbUsers).
		Order("created_at ASC")

	if term != "" {
		pattern := "%" + term + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("name ILIKE ?", pattern).
				WhereOr("address ILIKE ?", pattern)
		})
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	users := make([]*User, len(dbUsers))
	for i, dbu := range dbUsers {
		users[i] = mapDBUserToModel(dbu)
	}
	return users, nil
}

// UpdateProfile updates the caller-editable identity fields.
func (r *Repository) UpdateProfile(ctx context.Context, u *User) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("name = ?", u.Name).
		Set("address = ?", u.Address).
		Set("phone = ?", u.Phone).
		Set("email = ?", u.Email).
		Set("updated_at = NOW()").
		Where("id = ?", u.ID).
		Exec(ctx)

	if err != nil {
		if dup := mapDuplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return requireRowsAffected(result)
}

// UpdateRememberDigest sets or clears the remember digest. Clearing an
// already absent digest is a no-op, which keeps Forget idempotent.
func (r *Repository) UpdateRememberDigest(ctx context.Context, id uuid.UUID, digest *string) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("remember_digest = ?", digest).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update remember digest: %w", err)
	}

	return requireRowsAffected(result)
}

// MarkActivated flips the one-way activation flag and stamps the time.
func (r *Repository) MarkActivated(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("activated = ?", true).
		Set("activated_at = ?", at).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to mark user activated: %w", err)
	}

	return requireRowsAffected(result)
}

// UpdateResetDigest sets or clears the reset digest and its issuance time.
// Writing a new digest invalidates any previously issued reset token.
func (r *Repository) UpdateResetDigest(ctx context.Context, id uuid.UUID, digest *string, sentAt *time.Time) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("reset_digest = ?", digest).
		Set("reset_sent_at = ?", sentAt).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update reset digest: %w", err)
	}

	return requireRowsAffected(result)
}

// UpdatePassword updates a user's password digest.
func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, digest string) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("password_digest = ?", digest).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return requireRowsAffected(result)
}

// Delete removes a user and everything they own. The dependent deletes run as
// an explicit ordered sequence inside one transaction so a partial failure
// never strands orphaned rows.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*database.Order)(nil)).
			Where("user_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete orders: %w", err)
		}

		if _, err := tx.NewDelete().
			Model((*database.Like)(nil)).
			Where("user_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete likes: %w", err)
		}

		if _, err := tx.NewDelete().
			Model((*database.Comment)(nil)).
			Where("user_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}

		result, err := tx.NewDelete().
			Model((*database.User)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}

		return requireRowsAffected(result)
	})

	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

func requireRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func mapDuplicateError(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value violates unique constraint") {
		return nil
	}
	if strings.Contains(msg, "phone") {
		return ErrDuplicatePhone
	}
	return ErrDuplicateEmail
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:               dbu.ID,
		Name:             dbu.Name,
		Address:          dbu.Address,
		Phone:            dbu.Phone,
		Email:            dbu.Email,
		PasswordDigest:   dbu.PasswordDigest,
		RememberDigest:   dbu.RememberDigest,
		ActivationDigest: dbu.ActivationDigest,
		ResetDigest:      dbu.ResetDigest,
		Activated:        dbu.Activated,
		ActivatedAt:      dbu.ActivatedAt,
		ResetSentAt:      dbu.ResetSentAt,
		Admin:            dbu.Admin,
		CreatedAt:        dbu.CreatedAt,
		UpdatedAt:        dbu.UpdatedAt,
	}
}

func mapModelToDBUser(u *User) *database.User {
	return &database.User{
		ID:               u.ID,
		Name:             u.Name,
		Address:          u.Address,
		Phone:            u.Phone,
		Email:            u.Email,
		PasswordDigest:   u.PasswordDigest,
		RememberDigest:   u.RememberDigest,
		ActivationDigest: u.ActivationDigest,
		ResetDigest:      u.ResetDigest,
		Activated:        u.Activated,
		ActivatedAt:      u.ActivatedAt,
		ResetSentAt:      u.ResetSentAt,
		Admin:            u.Admin,
	}
}

func applyDBUser(u *User, dbu *database.User) {
	u.ID = dbu.ID
	u.Activated = dbu.Activated
	u.CreatedAt = dbu.CreatedAt
	u.UpdatedAt = dbu.UpdatedAt
}
