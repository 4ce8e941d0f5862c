package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleetride/internal/domain"
	"fleetride/internal/repository"
)

// UserRepository is a PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// NewUserRepositoryWithTx creates a user repository using a transaction.
func NewUserRepositoryWithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{q: tx}
}

// Create adds a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, role, driver_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.q.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.Role,
		nullString(string(user.DriverStatus)), user.CreatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, COALESCE(name, ''), COALESCE(email, ''), role, COALESCE(driver_status, ''), created_at
		FROM users WHERE id = $1
	`

	var user domain.User
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Role, &user.DriverStatus, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

// GetByEmail retrieves a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, COALESCE(name, ''), COALESCE(email, ''), role, COALESCE(driver_status, ''), created_at
		FROM users WHERE email = $1
	`

	var user domain.User
	err := r.q.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Role, &user.DriverStatus, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

// GetAll retrieves all users.
func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, COALESCE(name, ''), COALESCE(email, ''), role, COALESCE(driver_status, ''), created_at
		FROM users ORDER BY created_at DESC
	`
	return r.queryUsers(ctx, query)
}

// ListDrivers retrieves all users with the driver role.
func (r *UserRepository) ListDrivers(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, COALESCE(name, ''), COALESCE(email, ''), role, COALESCE(driver_status, ''), created_at
		FROM users WHERE role = 'driver' ORDER BY name
	`
	return r.queryUsers(ctx, query)
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.DriverStatus, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

// UpdateDriverStatus conditionally moves a driver's availability status.
// When from is available (or empty), an unset stored status also matches,
// since drivers start out with no explicit status.
func (r *UserRepository) UpdateDriverStatus(ctx context.Context, id string, from, to domain.DriverStatus) error {
	var result sql.Result
	var err error

	if from == "" || from == domain.DriverStatusAvailable {
		query := `
			UPDATE users SET driver_status = $1
			WHERE id = $2 AND role = 'driver'
				AND (driver_status IS NULL OR driver_status = '' OR driver_status = $3)
		`
		result, err = r.q.ExecContext(ctx, query, to, id, domain.DriverStatusAvailable)
	} else {
		query := `
			UPDATE users SET driver_status = $1
			WHERE id = $2 AND role = 'driver' AND driver_status = $3
		`
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
		checkErr := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND role = 'driver')`, id).Scan(&exists)
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
