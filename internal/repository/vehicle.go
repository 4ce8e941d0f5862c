package repository

import (
	"context"
	"time"

	"fleetride/internal/domain"
)

// VehicleRepository defines the persistence operations for vehicles.
type VehicleRepository interface {
	// Create adds a new vehicle.
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID retrieves a vehicle by terminal ID.
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)

	// GetAll retrieves all vehicles.
	GetAll(ctx context.Context) ([]*domain.Vehicle, error)

	// UpdateStatus moves a vehicle's logical status from one state to
	// another. Conditional in the same way as driver status updates.
	UpdateStatus(ctx context.Context, id string, from, to domain.VehicleStatus) error

	// UpdateTelemetry mirrors the latest telemetry snapshot onto the
	// vehicle row. Never touches the logical status.
	UpdateTelemetry(ctx context.Context, id string, lat, lng, speedKph float64, online domain.OnlineStatus, seenAt time.Time) error
}
