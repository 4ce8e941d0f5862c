package repository

import (
	"context"

	"fleetride/internal/domain"
)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetAll retrieves recent rides, newest first.
	GetAll(ctx context.Context) ([]*domain.Ride, error)

	// UpdateWithStatus writes the ride's mutable fields, but only if the
	// stored status still equals from. Returns ErrConflict when the ride
	// exists and the precondition failed, ErrNotFound when it does not
	// exist. This is the conditional update every lifecycle transition
	// must go through.
	UpdateWithStatus(ctx context.Context, ride *domain.Ride, from domain.RideStatus) error
}
