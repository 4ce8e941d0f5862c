package service

import (
	"context"
	"time"

	"fleetride/internal/domain"
	"fleetride/internal/redis"
	"fleetride/internal/repository"
)

const resourceLockTTL = 10 * time.Second

// AssignmentService orchestrates the approved → assigned transition:
// role check, availability check, and the joint mutation of the ride
// plus both resource statuses as one transaction.
type AssignmentService struct {
	tx                  repository.TxRunner
	rideRepo            repository.RideRepository
	userRepo            repository.UserRepository
	vehicleRepo         repository.VehicleRepository
	registry            *RegistryService
	lockStore           redis.LockStoreInterface
	cache               redis.AvailabilityCacheInterface
	notificationService *NotificationService
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	tx repository.TxRunner,
	rideRepo repository.RideRepository,
	userRepo repository.UserRepository,
	vehicleRepo repository.VehicleRepository,
	registry *RegistryService,
	lockStore redis.LockStoreInterface,
	cache redis.AvailabilityCacheInterface,
	notificationService *NotificationService,
) *AssignmentService {
	return &AssignmentService{
		tx:                  tx,
		rideRepo:            rideRepo,
		userRepo:            userRepo,
		vehicleRepo:         vehicleRepo,
		registry:            registry,
		lockStore:           lockStore,
		cache:               cache,
		notificationService: notificationService,
	}
}

// AssignRequest contains the parameters for assigning a ride.
type AssignRequest struct {
	RideID    string
	DriverID  string
	VehicleID string
	Caller    Caller
}

// Assign binds one available driver and one available vehicle to an
// approved ride. Exactly one of two concurrent assignments targeting
// the same driver or vehicle can succeed: the per-resource locks
// serialize the check, and the conditional status updates inside the
// transaction reject any stale winner.
func (s *AssignmentService) Assign(ctx context.Context, req AssignRequest) (*domain.Ride, error) {
	if req.Caller.Role != domain.RoleAdmin {
		return nil, ErrAdminRequired
	}
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}
	if req.VehicleID == "" {
		return nil, ErrInvalidVehicleID
	}

	ride, err := s.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		return nil, err
	}
	if ride.Status != domain.RideStatusApproved {
		if ride.Status.Terminal() {
			return nil, ErrRideAlreadyFinal
		}
		return nil, ErrRideNotApproved
	}

	// Resolve both resources before taking any locks.
	if _, err := s.userRepo.GetByID(ctx, req.DriverID); err != nil {
		return nil, err
	}
	if _, err := s.vehicleRepo.GetByID(ctx, req.VehicleID); err != nil {
		return nil, err
	}

	locked, err := s.lockStore.AcquireDriverLock(ctx, req.DriverID, resourceLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		// Another assignment is racing for this driver.
		return nil, ErrDriverUnavailable
	}

	locked, err = s.lockStore.AcquireVehicleLock(ctx, req.VehicleID, resourceLockTTL)
	if err != nil {
		_ = s.lockStore.ReleaseDriverLock(ctx, req.DriverID)
		return nil, err
	}
	if !locked {
		_ = s.lockStore.ReleaseDriverLock(ctx, req.DriverID)
		return nil, ErrVehicleUnavailable
	}

	releaseLocks := func() {
		_ = s.lockStore.ReleaseDriverLock(ctx, req.DriverID)
		_ = s.lockStore.ReleaseVehicleLock(ctx, req.VehicleID)
	}

	// Re-read both resources inside the locks; the pre-lock reads may
	// be stale.
	driver, err := s.userRepo.GetByID(ctx, req.DriverID)
	if err != nil {
		releaseLocks()
		return nil, err
	}
	if driver.Role != domain.RoleDriver {
		releaseLocks()
		return nil, ErrDriverRoleRequired
	}
	if !driver.AvailableForAssignment() {
		releaseLocks()
		return nil, ErrDriverUnavailable
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		releaseLocks()
		return nil, err
	}
	if !vehicle.LogicallyAvailable() {
		releaseLocks()
		return nil, ErrVehicleUnavailable
	}
	if s.registry != nil && !s.registry.VehicleOnline(ctx, vehicle) {
		releaseLocks()
		return nil, ErrVehicleOffline
	}

	ride.DriverID = req.DriverID
	ride.VehicleID = req.VehicleID
	ride.Status = domain.RideStatusAssigned
	ride.AssignedAt = time.Now()

	err = s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Rides.UpdateWithStatus(ctx, ride, domain.RideStatusApproved); err != nil {
			return err
		}
		if err := r.Users.UpdateDriverStatus(ctx, req.DriverID, domain.DriverStatusAvailable, domain.DriverStatusPending); err != nil {
			return err
		}
		return r.Vehicles.UpdateStatus(ctx, req.VehicleID, domain.VehicleStatusAvailable, domain.VehicleStatusAssigned)
	})
	if err != nil {
		releaseLocks()
		return nil, err
	}

	// Success: the availability listings are stale now, and the locks
	// can expire on their own TTL.
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}

	if s.notificationService != nil {
		assigned := *ride
		assignedDriver := *driver
		assignedVehicle := *vehicle
		go func() {
			_ = s.notificationService.NotifyDriverAssigned(context.Background(), &assigned, &assignedDriver, &assignedVehicle)
		}()
	}

	return ride, nil
}
