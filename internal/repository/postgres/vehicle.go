package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fleetride/internal/domain"
	"fleetride/internal/repository"
)

// VehicleRepository is a PostgreSQL implementation of repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{q: db}
}

// NewVehicleRepositoryWithTx creates a vehicle repository using a transaction.
func NewVehicleRepositoryWithTx(tx *sql.Tx) *VehicleRepository {
	return &VehicleRepository{q: tx}
}

const vehicleColumns = `id, COALESCE(name, ''), COALESCE(type, ''), COALESCE(status, ''),
		COALESCE(online_status, 'offline'), COALESCE(lat, 0), COALESCE(lng, 0),
		COALESCE(speed_kph, 0), last_seen_at, created_at`

// Create adds a new vehicle.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, name, type, status, online_status, lat, lng, speed_kph, last_seen_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	online := vehicle.Online
	if online == "" {
		online = domain.OnlineStatusOffline
	}
	_, err := r.q.ExecContext(ctx, query,
		vehicle.ID, vehicle.Name, vehicle.Type,
		nullString(string(vehicle.Status)), online,
		vehicle.Lat, vehicle.Lng, vehicle.SpeedKph,
		nullTime(vehicle.LastSeenAt), vehicle.CreatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

// GetByID retrieves a vehicle by terminal ID.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`

	vehicle, err := scanVehicle(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

// GetAll retrieves all vehicles.
func (r *VehicleRepository) GetAll(ctx context.Context) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY id`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, rows.Err()
}

// UpdateStatus conditionally moves a vehicle's logical status. When from
// is available (or empty), an unset stored status also matches.
func (r *VehicleRepository) UpdateStatus(ctx context.Context, id string, from, to domain.VehicleStatus) error {
	var result sql.Result
	var err error

	if from == "" || from == domain.VehicleStatusAvailable {
		query := `
			UPDATE vehicles SET status = $1
			WHERE id = $2 AND (status IS NULL OR status = '' OR status = $3)
		`
		result, err = r.q.ExecContext(ctx, query, to, id, domain.VehicleStatusAvailable)
	} else {
		query := `UPDATE vehicles SET status = $1 WHERE id = $2 AND status = $3`
		result, err = r.q.ExecContext(ctx, query, to, id, from)
	}
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		var exists bool
		checkErr := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM vehicles WHERE id = $1)`, id).Scan(&exists)
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

// UpdateTelemetry mirrors a telemetry snapshot onto the vehicle row.
func (r *VehicleRepository) UpdateTelemetry(ctx context.Context, id string, lat, lng, speedKph float64, online domain.OnlineStatus, seenAt time.Time) error {
	query := `
		UPDATE vehicles
		SET lat = $1, lng = $2, speed_kph = $3, online_status = $4, last_seen_at = $5
		WHERE id = $6
	`

	result, err := r.q.ExecContext(ctx, query, lat, lng, speedKph, online, seenAt, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	var lastSeen sql.NullTime

	err := row.Scan(
		&vehicle.ID,
		&vehicle.Name,
		&vehicle.Type,
		&vehicle.Status,
		&vehicle.Online,
		&vehicle.Lat,
		&vehicle.Lng,
		&vehicle.SpeedKph,
		&lastSeen,
		&vehicle.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	vehicle.LastSeenAt = lastSeen.Time
	return &vehicle, nil
}
