package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleetride/internal/domain"
	"fleetride/internal/repository"
)

// DailyRideRepository is a PostgreSQL implementation of repository.DailyRideRepository.
type DailyRideRepository struct {
	q Querier
}

// NewDailyRideRepository creates a new PostgreSQL daily ride repository.
func NewDailyRideRepository(db *sql.DB) *DailyRideRepository {
	return &DailyRideRepository{q: db}
}

const dailyRideColumns = `id, driver_id, vehicle_id, destination, start_mileage,
		end_mileage, total_mileage, status, started_at, completed_at, created_at`

// Create persists a new daily ride.
func (r *DailyRideRepository) Create(ctx context.Context, ride *domain.DailyRide) error {
	query := `
		INSERT INTO daily_rides (` + dailyRideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.q.ExecContext(ctx, query,
		ride.ID, ride.DriverID, ride.VehicleID, ride.Destination,
		ride.StartMileage, nullFloat(ride.EndMileage), nullFloat(ride.TotalMileage),
		ride.Status, ride.StartedAt, nullTime(ride.CompletedAt), ride.CreatedAt,
	)
	return err
}

// GetByID retrieves a daily ride by ID.
func (r *DailyRideRepository) GetByID(ctx context.Context, id string) (*domain.DailyRide, error) {
	query := `SELECT ` + dailyRideColumns + ` FROM daily_rides WHERE id = $1`

	ride, err := scanDailyRide(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ride, nil
}

// GetActiveByDriverID retrieves the driver's in-progress daily ride, or
// nil if there is none.
func (r *DailyRideRepository) GetActiveByDriverID(ctx context.Context, driverID string) (*domain.DailyRide, error) {
	query := `
		SELECT ` + dailyRideColumns + ` FROM daily_rides
		WHERE driver_id = $1 AND status = $2
		ORDER BY started_at DESC LIMIT 1
	`

	ride, err := scanDailyRide(r.q.QueryRowContext(ctx, query, driverID, domain.DailyRideStatusInProgress))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ride, nil
}

// UpdateWithStatus writes the daily ride's mutable fields conditionally
// on the stored status still matching from.
func (r *DailyRideRepository) UpdateWithStatus(ctx context.Context, ride *domain.DailyRide, from domain.DailyRideStatus) error {
	query := `
		UPDATE daily_rides
		SET end_mileage = $1, total_mileage = $2, status = $3, completed_at = $4
		WHERE id = $5 AND status = $6
	`

	result, err := r.q.ExecContext(ctx, query,
		nullFloat(ride.EndMileage), nullFloat(ride.TotalMileage),
		ride.Status, nullTime(ride.CompletedAt), ride.ID, from,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		var exists bool
		checkErr := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM daily_rides WHERE id = $1)`, ride.ID).Scan(&exists)
		if checkErr != nil {
			return checkErr
		}
		if exists {
			return repository.ErrConflict
		}
		return repository.ErrNotFound
	}

	return nil
}

func scanDailyRide(row rowScanner) (*domain.DailyRide, error) {
	var ride domain.DailyRide
	var endMileage, totalMileage sql.NullFloat64
	var completedAt sql.NullTime

	err := row.Scan(
		&ride.ID,
		&ride.DriverID,
		&ride.VehicleID,
		&ride.Destination,
		&ride.StartMileage,
		&endMileage,
		&totalMileage,
		&ride.Status,
		&ride.StartedAt,
		&completedAt,
		&ride.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	ride.EndMileage = endMileage.Float64
	ride.TotalMileage = totalMileage.Float64
	ride.CompletedAt = completedAt.Time
	return &ride, nil
}
