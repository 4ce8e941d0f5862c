package repository

import (
	"context"

	"fleetride/internal/domain"
)

// UserRepository defines the persistence operations for users and the
// driver availability facet embedded on them.
type UserRepository interface {
	// Create adds a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetAll retrieves all users.
	GetAll(ctx context.Context) ([]*domain.User, error)

	// ListDrivers retrieves all users with the driver role.
	ListDrivers(ctx context.Context) ([]*domain.User, error)

	// UpdateDriverStatus moves a driver's availability status from one
	// state to another. The transition is conditional: it succeeds only
	// if the stored status still equals from (an empty from also matches
	// an unset status). Returns ErrConflict when the driver exists but
	// the precondition failed.
	UpdateDriverStatus(ctx context.Context, id string, from, to domain.DriverStatus) error
}
