package repository

import (
	"context"
	"errors"

	"registration-backend/internal/features/user/models"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository is the storage contract for the users table. A single
// implementation covers postgres, mysql and sqlite3; the driver is chosen
// by configuration.
type UserRepository interface {
	// Create inserts the user and backfills ID and CreatedAt.
	Create(ctx context.Context, user *models.User) error
	// List returns all users, newest first.
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// Update overwrites name and phone unconditionally; updating an
	// unknown id is a reported success that affects zero rows.
	Update(ctx context.Context, id int64, name, phone string) error
	// Delete removes the row and returns it as it was, so callers can
	// clean up the stored picture.
	Delete(ctx context.Context, id int64) (*models.User, error)
}
