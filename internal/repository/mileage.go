package repository

import (
	"context"

	"fleetride/internal/domain"
)

// MileageRepository defines the persistence operations for the monthly
// vehicle mileage ledger.
type MileageRepository interface {
	// Append adds a contribution to the (vehicleID, month, year) record,
	// creating the record if it does not exist yet and incrementing its
	// running total. The create-or-increment must be safe against
	// concurrent first contributions for the same key.
	Append(ctx context.Context, vehicleID string, month, year int, contribution domain.Contribution) error

	// Get retrieves one monthly record with its contributions.
	Get(ctx context.Context, vehicleID string, month, year int) (*domain.MonthlyMileage, error)

	// History retrieves up to limit records for a vehicle, ordered by
	// (year desc, month desc).
	History(ctx context.Context, vehicleID string, limit int) ([]*domain.MonthlyMileage, error)

	// ForMonth retrieves all vehicles' records for one calendar month.
	ForMonth(ctx context.Context, month, year int) ([]*domain.MonthlyMileage, error)
}

// DailyRideRepository defines the persistence operations for daily
// transport runs.
type DailyRideRepository interface {
	// Create persists a new daily ride.
	Create(ctx context.Context, ride *domain.DailyRide) error

	// GetByID retrieves a daily ride by ID.
	GetByID(ctx context.Context, id string) (*domain.DailyRide, error)

	// GetActiveByDriverID retrieves the driver's in-progress daily ride,
	// or nil if there is none.
	GetActiveByDriverID(ctx context.Context, driverID string) (*domain.DailyRide, error)

	// UpdateWithStatus writes the daily ride's mutable fields, but only
	// if the stored status still equals from.
	UpdateWithStatus(ctx context.Context, ride *domain.DailyRide, from domain.DailyRideStatus) error
}
