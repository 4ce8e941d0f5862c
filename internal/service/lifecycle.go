package service

import (
	"context"
	"log"
	"math"
	"time"

	"fleetride/internal/domain"
	"fleetride/internal/redis"
	"fleetride/internal/repository"
)

// LifecycleService handles the driver-side transitions of a ride:
// assigned → in_progress and in_progress → completed, together with the
// resource status changes and the mileage ledger feed.
type LifecycleService struct {
	tx                  repository.TxRunner
	rideRepo            repository.RideRepository
	mileageService      *MileageService
	cache               redis.AvailabilityCacheInterface
	notificationService *NotificationService
}

// NewLifecycleService creates a new LifecycleService.
func NewLifecycleService(
	tx repository.TxRunner,
	rideRepo repository.RideRepository,
	mileageService *MileageService,
	cache redis.AvailabilityCacheInterface,
	notificationService *NotificationService,
) *LifecycleService {
	return &LifecycleService{
		tx:                  tx,
		rideRepo:            rideRepo,
		mileageService:      mileageService,
		cache:               cache,
		notificationService: notificationService,
	}
}

// StartRequest contains the parameters for starting a ride.
type StartRequest struct {
	RideID       string
	Caller       Caller
	StartMileage float64
}

// Start moves an assigned ride into progress. Only the assigned driver
// may start it, and the odometer reading must be positive. Driver and
// vehicle both become busy in the same transaction.
func (s *LifecycleService) Start(ctx context.Context, req StartRequest) (*domain.Ride, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if req.StartMileage <= 0 {
		return nil, ErrInvalidStartMileage
	}

	ride, err := s.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		return nil, err
	}

	if ride.DriverID == "" || ride.DriverID != req.Caller.ID {
		return nil, ErrNotAssignedDriver
	}
	if ride.Status != domain.RideStatusAssigned {
		if ride.Status.Terminal() {
			return nil, ErrRideAlreadyFinal
		}
		return nil, ErrRideNotAssigned
	}

	ride.Status = domain.RideStatusInProgress
	ride.StartMileage = req.StartMileage
	ride.StartedAt = time.Now()

	err = s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Rides.UpdateWithStatus(ctx, ride, domain.RideStatusAssigned); err != nil {
			return err
		}
		if err := r.Users.UpdateDriverStatus(ctx, ride.DriverID, domain.DriverStatusPending, domain.DriverStatusBusy); err != nil {
			return err
		}
		return r.Vehicles.UpdateStatus(ctx, ride.VehicleID, domain.VehicleStatusAssigned, domain.VehicleStatusBusy)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}

	if s.notificationService != nil {
		started := *ride
		go func() {
			_ = s.notificationService.NotifyRideStarted(context.Background(), &started)
		}()
	}

	return ride, nil
}

// CompleteRequest contains the parameters for completing a ride.
type CompleteRequest struct {
	RideID     string
	EndMileage float64
}

// Complete ends an in-progress ride: validates the end odometer reading,
// records the total mileage, releases driver and vehicle, and feeds the
// monthly mileage ledger.
func (s *LifecycleService) Complete(ctx context.Context, req CompleteRequest) (*domain.Ride, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if req.EndMileage <= 0 {
		return nil, ErrInvalidEndMileage
	}

	ride, err := s.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		return nil, err
	}

	if ride.Status != domain.RideStatusInProgress {
		if ride.Status.Terminal() {
			return nil, ErrRideAlreadyFinal
		}
		return nil, ErrRideNotInProgress
	}
	if req.EndMileage <= ride.StartMileage {
		return nil, ErrEndBeforeStartMileage
	}

	ride.Status = domain.RideStatusCompleted
	ride.EndMileage = req.EndMileage
	ride.TotalMileage = round2(req.EndMileage - ride.StartMileage)
	ride.CompletedAt = time.Now()

	err = s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Rides.UpdateWithStatus(ctx, ride, domain.RideStatusInProgress); err != nil {
			return err
		}
		if err := r.Users.UpdateDriverStatus(ctx, ride.DriverID, domain.DriverStatusBusy, domain.DriverStatusAvailable); err != nil {
			return err
		}
		return r.Vehicles.UpdateStatus(ctx, ride.VehicleID, domain.VehicleStatusBusy, domain.VehicleStatusAvailable)
	})
	if err != nil {
		return nil, err
	}

	// The completed transition is one-way, so this runs at most once per
	// ride. A ledger failure after the commit is logged for manual
	// reconciliation rather than failing the already-completed ride.
	if s.mileageService != nil && ride.VehicleID != "" && ride.TotalMileage > 0 {
		if err := s.mileageService.RecordContribution(ctx, ride.VehicleID, ride.TotalMileage,
			ride.ID, domain.ContributionSourceUserRide, ride.CompletedAt); err != nil {
			log.Printf("failed to record mileage for ride %s: %v", ride.ID, err)
		}
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}

	if s.notificationService != nil {
		completed := *ride
		go func() {
			_ = s.notificationService.NotifyRideCompleted(context.Background(), &completed)
		}()
	}

	return ride, nil
}

// round2 rounds to two decimal places, matching how odometer deltas are
// stored.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
