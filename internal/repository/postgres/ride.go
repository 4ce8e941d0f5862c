package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fleetride/internal/domain"
	"fleetride/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `id, requester_id, driver_id, vehicle_id, trip_kind, status, distance_km,
		start_lat, start_lng, start_address, end_lat, end_lng, end_address,
		start_mileage, end_mileage, total_mileage,
		pm_approved, pm_approved_at, pm_approved_by,
		admin_approved, admin_approved_at, admin_approved_by,
		rejection_reason, created_at, assigned_at, started_at, completed_at`

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.RequesterID,
		nullString(ride.DriverID),
		nullString(ride.VehicleID),
		ride.Kind,
		ride.Status,
		ride.DistanceKm,
		ride.Start.Lat,
		ride.Start.Lng,
		nullString(ride.Start.Address),
		ride.End.Lat,
		ride.End.Lng,
		nullString(ride.End.Address),
		nullFloat(ride.StartMileage),
		nullFloat(ride.EndMileage),
		nullFloat(ride.TotalMileage),
		ride.Approval.ProjectManager.Approved,
		nullTime(ride.Approval.ProjectManager.ApprovedAt),
		nullString(ride.Approval.ProjectManager.ApprovedBy),
		ride.Approval.Admin.Approved,
		nullTime(ride.Approval.Admin.ApprovedAt),
		nullString(ride.Approval.Admin.ApprovedBy),
		nullString(ride.RejectionReason),
		ride.CreatedAt,
		nullTime(ride.AssignedAt),
		nullTime(ride.StartedAt),
		nullTime(ride.CompletedAt),
	)

	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ride, nil
}

// GetAll retrieves recent rides, newest first.
func (r *RideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides ORDER BY created_at DESC LIMIT 100`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// UpdateWithStatus writes the ride's mutable fields conditionally on the
// stored status still matching from.
func (r *RideRepository) UpdateWithStatus(ctx context.Context, ride *domain.Ride, from domain.RideStatus) error {
	query := `
		UPDATE rides
		SET driver_id = $1, vehicle_id = $2, status = $3,
			start_mileage = $4, end_mileage = $5, total_mileage = $6,
			pm_approved = $7, pm_approved_at = $8, pm_approved_by = $9,
			admin_approved = $10, admin_approved_at = $11, admin_approved_by = $12,
			rejection_reason = $13, assigned_at = $14, started_at = $15, completed_at = $16
		WHERE id = $17 AND status = $18
	`

	result, err := r.q.ExecContext(ctx, query,
		nullString(ride.DriverID),
		nullString(ride.VehicleID),
		ride.Status,
		nullFloat(ride.StartMileage),
		nullFloat(ride.EndMileage),
		nullFloat(ride.TotalMileage),
		ride.Approval.ProjectManager.Approved,
		nullTime(ride.Approval.ProjectManager.ApprovedAt),
		nullString(ride.Approval.ProjectManager.ApprovedBy),
		ride.Approval.Admin.Approved,
		nullTime(ride.Approval.Admin.ApprovedAt),
		nullString(ride.Approval.Admin.ApprovedBy),
		nullString(ride.RejectionReason),
		nullTime(ride.AssignedAt),
		nullTime(ride.StartedAt),
		nullTime(ride.CompletedAt),
		ride.ID,
		from,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		// Distinguish a lost race from a missing ride.
		var exists bool
		checkErr := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM rides WHERE id = $1)`, ride.ID).Scan(&exists)
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

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*domain.Ride, error) {
	var ride domain.Ride
	var driverID, vehicleID, startAddr, endAddr, pmBy, adminBy, reason sql.NullString
	var startMileage, endMileage, totalMileage sql.NullFloat64
	var pmAt, adminAt, assignedAt, startedAt, completedAt sql.NullTime

	err := row.Scan(
		&ride.ID,
		&ride.RequesterID,
		&driverID,
		&vehicleID,
		&ride.Kind,
		&ride.Status,
		&ride.DistanceKm,
		&ride.Start.Lat,
		&ride.Start.Lng,
		&startAddr,
		&ride.End.Lat,
		&ride.End.Lng,
		&endAddr,
		&startMileage,
		&endMileage,
		&totalMileage,
		&ride.Approval.ProjectManager.Approved,
		&pmAt,
		&pmBy,
		&ride.Approval.Admin.Approved,
		&adminAt,
		&adminBy,
		&reason,
		&ride.CreatedAt,
		&assignedAt,
		&startedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	ride.DriverID = driverID.String
	ride.VehicleID = vehicleID.String
	ride.Start.Address = startAddr.String
	ride.End.Address = endAddr.String
	ride.StartMileage = startMileage.Float64
	ride.EndMileage = endMileage.Float64
	ride.TotalMileage = totalMileage.Float64
	ride.Approval.ProjectManager.ApprovedAt = pmAt.Time
	ride.Approval.ProjectManager.ApprovedBy = pmBy.String
	ride.Approval.Admin.ApprovedAt = adminAt.Time
	ride.Approval.Admin.ApprovedBy = adminBy.String
	ride.RejectionReason = reason.String
	ride.AssignedAt = assignedAt.Time
	ride.StartedAt = startedAt.Time
	ride.CompletedAt = completedAt.Time

	return &ride, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullFloat(f float64) sql.NullFloat64 {
	if f == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
