package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"fleetride/internal/repository"
)

// Querier is an interface satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

// TxRunner implements repository.TxRunner on a PostgreSQL database.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner creates a new TxRunner.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

var _ repository.TxRunner = (*TxRunner)(nil)

// WithinTx runs fn with transaction-scoped repositories, committing on
// success and rolling back on error.
func (t *TxRunner) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	repos := repository.Repositories{
		Rides:    NewRideRepositoryWithTx(tx),
		Users:    NewUserRepositoryWithTx(tx),
		Vehicles: NewVehicleRepositoryWithTx(tx),
	}

	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
