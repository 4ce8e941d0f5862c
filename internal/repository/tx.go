package repository

import "context"

// Repositories bundles the transaction-scoped repositories handed to a
// WithinTx callback.
type Repositories struct {
	Rides    RideRepository
	Users    UserRepository
	Vehicles VehicleRepository
}

// TxRunner executes a function within a single storage transaction so
// that all cross-entity mutations of one lifecycle transition commit or
// roll back as a unit.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(r Repositories) error) error
}
