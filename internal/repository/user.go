package repository

import (
	"context"
	"time"

	"solemate/internal/model"
)

// UserRepository defines data access for user accounts.
type UserRepository interface {
	// Create inserts a new user. Returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByID returns a user by ID.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns a user by email, compared case-insensitively.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// UpdateLastLogin stamps the user's last successful token obtain.
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error

	// UpdateFlags sets the active and staff flags.
	UpdateFlags(ctx context.Context, id string, isActive, isStaff bool) error

	// List returns users ordered by join date, newest first.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.User], error)

	// Delete removes a user and, by cascade, their inventory, sales and log.
	Delete(ctx context.Context, id string) error
}
