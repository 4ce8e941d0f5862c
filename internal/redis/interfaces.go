package redis

import (
	"context"
	"time"
)

// TelemetryStoreInterface defines the interface for vehicle telemetry
// snapshot operations.
type TelemetryStoreInterface interface {
	Update(ctx context.Context, snapshot *Snapshot) error
	Get(ctx context.Context, vehicleID string) (*Snapshot, error)
	GetBatch(ctx context.Context, vehicleIDs []string) (map[string]*Snapshot, error)
	Remove(ctx context.Context, vehicleID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireDriverLock(ctx context.Context, driverID string, ttl time.Duration) (bool, error)
	ReleaseDriverLock(ctx context.Context, driverID string) error
	AcquireVehicleLock(ctx context.Context, vehicleID string, ttl time.Duration) (bool, error)
	ReleaseVehicleLock(ctx context.Context, vehicleID string) error
}

// AvailabilityCacheInterface defines the interface for the availability
// listing cache.
type AvailabilityCacheInterface interface {
	GetDrivers(ctx context.Context, dest any) (bool, error)
	SetDrivers(ctx context.Context, value any) error
	GetVehicles(ctx context.Context, dest any) (bool, error)
	SetVehicles(ctx context.Context, value any) error
	Invalidate(ctx context.Context) error
}

// Ensure concrete types implement interfaces.
var (
	_ TelemetryStoreInterface    = (*TelemetryStore)(nil)
	_ LockStoreInterface         = (*LockStore)(nil)
	_ AvailabilityCacheInterface = (*AvailabilityCache)(nil)
)
