package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"fleetride/internal/domain"
	"fleetride/internal/repository"
)

// MileageRepository is a PostgreSQL implementation of repository.MileageRepository.
//
// It holds the *sql.DB directly because Append spans two statements
// (monthly upsert + contribution insert) that must commit together.
type MileageRepository struct {
	db *sql.DB
}

// NewMileageRepository creates a new PostgreSQL mileage repository.
func NewMileageRepository(db *sql.DB) *MileageRepository {
	return &MileageRepository{db: db}
}

// Append adds a contribution to the (vehicleID, month, year) record.
// The monthly row is created on first contribution; the unique index on
// (vehicle_id, month, year) plus the single upsert statement make
// concurrent first contributions converge on one record.
func (r *MileageRepository) Append(ctx context.Context, vehicleID string, month, year int, contribution domain.Contribution) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	upsert := `
		INSERT INTO vehicle_mileage (id, vehicle_id, month, year, total_mileage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (vehicle_id, month, year)
		DO UPDATE SET total_mileage = vehicle_mileage.total_mileage + EXCLUDED.total_mileage,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	var recordID string
	err = tx.QueryRowContext(ctx, upsert,
		uuid.New().String(), vehicleID, month, year,
		contribution.Mileage, contribution.Date,
	).Scan(&recordID)
	if err != nil {
		return err
	}

	insert := `
		INSERT INTO mileage_contributions (id, record_id, source_id, source_type, mileage, date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err = tx.ExecContext(ctx, insert,
		contribution.ID, recordID, contribution.SourceID,
		contribution.SourceType, contribution.Mileage, contribution.Date,
	); err != nil {
		return err
	}

	return tx.Commit()
}

const mileageColumns = `id, vehicle_id, month, year, total_mileage, created_at, updated_at`

// Get retrieves one monthly record with its contributions.
func (r *MileageRepository) Get(ctx context.Context, vehicleID string, month, year int) (*domain.MonthlyMileage, error) {
	query := `SELECT ` + mileageColumns + ` FROM vehicle_mileage WHERE vehicle_id = $1 AND month = $2 AND year = $3`

	record, err := scanMileage(r.db.QueryRowContext(ctx, query, vehicleID, month, year))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if err := r.loadContributions(ctx, []*domain.MonthlyMileage{record}); err != nil {
		return nil, err
	}
	return record, nil
}

// History retrieves up to limit records for a vehicle, newest month first.
func (r *MileageRepository) History(ctx context.Context, vehicleID string, limit int) ([]*domain.MonthlyMileage, error) {
	query := `
		SELECT ` + mileageColumns + ` FROM vehicle_mileage
		WHERE vehicle_id = $1 ORDER BY year DESC, month DESC LIMIT $2
	`
	records, err := r.queryMileage(ctx, query, vehicleID, limit)
	if err != nil {
		return nil, err
	}
	if err := r.loadContributions(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// ForMonth retrieves all vehicles' records for one calendar month.
func (r *MileageRepository) ForMonth(ctx context.Context, month, year int) ([]*domain.MonthlyMileage, error) {
	query := `SELECT ` + mileageColumns + ` FROM vehicle_mileage WHERE month = $1 AND year = $2`
	records, err := r.queryMileage(ctx, query, month, year)
	if err != nil {
		return nil, err
	}
	if err := r.loadContributions(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *MileageRepository) queryMileage(ctx context.Context, query string, args ...any) ([]*domain.MonthlyMileage, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.MonthlyMileage
	for rows.Next() {
		record, err := scanMileage(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// loadContributions fills in the contribution lists for the given
// records with a single query.
func (r *MileageRepository) loadContributions(ctx context.Context, records []*domain.MonthlyMileage) error {
	if len(records) == 0 {
		return nil
	}

	byID := make(map[string]*domain.MonthlyMileage, len(records))
	ids := make([]string, 0, len(records))
	for _, record := range records {
		byID[record.ID] = record
		ids = append(ids, record.ID)
	}

	query := `
		SELECT id, record_id, source_id, source_type, mileage, date
		FROM mileage_contributions WHERE record_id = ANY($1) ORDER BY date
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Contribution
		var recordID string
		if err := rows.Scan(&c.ID, &recordID, &c.SourceID, &c.SourceType, &c.Mileage, &c.Date); err != nil {
			return err
		}
		if record, ok := byID[recordID]; ok {
			record.Contributions = append(record.Contributions, c)
		}
	}
	return rows.Err()
}

func scanMileage(row rowScanner) (*domain.MonthlyMileage, error) {
	var record domain.MonthlyMileage
	var updatedAt sql.NullTime

	err := row.Scan(
		&record.ID,
		&record.VehicleID,
		&record.Month,
		&record.Year,
		&record.TotalMileage,
		&record.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.UpdatedAt = updatedAt.Time
	return &record, nil
}
