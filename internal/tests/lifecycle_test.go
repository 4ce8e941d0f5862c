package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fleetride/internal/domain"
	"fleetride/internal/service"
)

// lifecycleFixture wires a LifecycleService over mocks with one assigned
// ride bound to driver-1 and vehicle-1.
type lifecycleFixture struct {
	rideRepo    *MockRideRepository
	userRepo    *MockUserRepository
	vehicleRepo *MockVehicleRepository
	mileageRepo *MockMileageRepository
	cache       *MockAvailabilityCache
	service     *service.LifecycleService
}

func newLifecycleFixture() *lifecycleFixture {
	rideRepo := NewMockRideRepository()
	userRepo := NewMockUserRepository()
	vehicleRepo := NewMockVehicleRepository()
	mileageRepo := NewMockMileageRepository()
	dailyRideRepo := NewMockDailyRideRepository()
	cache := NewMockAvailabilityCache()
	txRunner := NewMockTxRunner(rideRepo, userRepo, vehicleRepo)

	mileageService := service.NewMileageService(mileageRepo, dailyRideRepo, vehicleRepo, userRepo, nil)
	lifecycleService := service.NewLifecycleService(txRunner, rideRepo, mileageService, cache, nil)

	rideRepo.AddRide(&domain.Ride{
		ID:        "ride-1",
		Status:    domain.RideStatusAssigned,
		DriverID:  "driver-1",
		VehicleID: "vehicle-1",
	})
	userRepo.AddUser(&domain.User{
		ID:           "driver-1",
		Role:         domain.RoleDriver,
		DriverStatus: domain.DriverStatusPending,
	})
	vehicleRepo.AddVehicle(&domain.Vehicle{
		ID:     "vehicle-1",
		Status: domain.VehicleStatusAssigned,
	})

	return &lifecycleFixture{
		rideRepo:    rideRepo,
		userRepo:    userRepo,
		vehicleRepo: vehicleRepo,
		mileageRepo: mileageRepo,
		cache:       cache,
		service:     lifecycleService,
	}
}

func driverStart(rideID string, mileage float64) service.StartRequest {
	return service.StartRequest{
		RideID:       rideID,
		Caller:       service.Caller{ID: "driver-1", Role: domain.RoleDriver},
		StartMileage: mileage,
	}
}

// ──────────────────────────────────────────────
// 1. START
// ──────────────────────────────────────────────

func TestStart_HappyPath_MovesEverythingToBusy(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()

	ride, err := f.service.Start(context.Background(), driverStart("ride-1", 120.5))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if ride.Status != domain.RideStatusInProgress {
		t.Errorf("expected status %s, got %s", domain.RideStatusInProgress, ride.Status)
	}
	if ride.StartMileage != 120.5 {
		t.Errorf("expected start mileage 120.5, got %v", ride.StartMileage)
	}
	if ride.StartedAt.IsZero() {
		t.Error("expected start timestamp to be set")
	}
	if got := f.userRepo.GetUser("driver-1").DriverStatus; got != domain.DriverStatusBusy {
		t.Errorf("expected driver busy, got %s", got)
	}
	if got := f.vehicleRepo.GetVehicle("vehicle-1").Status; got != domain.VehicleStatusBusy {
		t.Errorf("expected vehicle busy, got %s", got)
	}
}

func TestStart_NotAssignedDriver_Forbidden(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()

	_, err := f.service.Start(context.Background(), service.StartRequest{
		RideID:       "ride-1",
		Caller:       service.Caller{ID: "driver-2", Role: domain.RoleDriver},
		StartMileage: 100,
	})
	if !errors.Is(err, service.ErrNotAssignedDriver) {
		t.Errorf("expected %v, got: %v", service.ErrNotAssignedDriver, err)
	}

	if got := f.rideRepo.GetRide("ride-1").Status; got != domain.RideStatusAssigned {
		t.Errorf("expected ride still assigned, got %s", got)
	}
}

func TestStart_InvalidMileage_Fails(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()

	for _, mileage := range []float64{0, -10} {
		_, err := f.service.Start(context.Background(), driverStart("ride-1", mileage))
		if !errors.Is(err, service.ErrInvalidStartMileage) {
			t.Errorf("mileage %v: expected %v, got: %v", mileage, service.ErrInvalidStartMileage, err)
		}
	}
}

func TestStart_WrongState_Fails(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		status  domain.RideStatus
		wantErr error
	}{
		{domain.RideStatusApproved, service.ErrRideNotAssigned},
		{domain.RideStatusInProgress, service.ErrRideNotAssigned},
		{domain.RideStatusCompleted, service.ErrRideAlreadyFinal},
		{domain.RideStatusRejected, service.ErrRideAlreadyFinal},
	}

	for _, tc := range testCases {
		f := newLifecycleFixture()
		f.rideRepo.AddRide(&domain.Ride{
			ID:       "ride-2",
			Status:   tc.status,
			DriverID: "driver-1",
		})

		_, err := f.service.Start(context.Background(), driverStart("ride-2", 100))
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("status %s: expected %v, got: %v", tc.status, tc.wantErr, err)
		}
	}
}

func TestStart_ConcurrentStarts_ExactlyOneWins(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()

	var wg sync.WaitGroup
	var successCount int32
	start := make(chan struct{})

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := f.service.Start(context.Background(), driverStart("ride-1", 100)); err == nil {
				atomic.AddInt32(&successCount, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&successCount); got != 1 {
		t.Fatalf("expected exactly one start to win, got %d", got)
	}
	if got := f.userRepo.GetUser("driver-1").DriverStatus; got != domain.DriverStatusBusy {
		t.Errorf("expected driver busy after the single start, got %s", got)
	}
}

// ──────────────────────────────────────────────
// 2. COMPLETE
// ──────────────────────────────────────────────

func startRide(t *testing.T, f *lifecycleFixture, mileage float64) {
	t.Helper()
	if _, err := f.service.Start(context.Background(), driverStart("ride-1", mileage)); err != nil {
		t.Fatalf("failed to start ride: %v", err)
	}
}

func TestComplete_HappyPath_ReleasesResourcesAndFeedsLedger(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	startRide(t, f, 120.5)

	ride, err := f.service.Complete(context.Background(), service.CompleteRequest{
		RideID:     "ride-1",
		EndMileage: 150.0,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if ride.Status != domain.RideStatusCompleted {
		t.Errorf("expected status %s, got %s", domain.RideStatusCompleted, ride.Status)
	}
	if ride.TotalMileage != 29.5 {
		t.Errorf("expected total mileage 29.5, got %v", ride.TotalMileage)
	}
	if ride.CompletedAt.IsZero() {
		t.Error("expected completion timestamp to be set")
	}

	if got := f.userRepo.GetUser("driver-1").DriverStatus; got != domain.DriverStatusAvailable {
		t.Errorf("expected driver released to available, got %s", got)
	}
	if got := f.vehicleRepo.GetVehicle("vehicle-1").Status; got != domain.VehicleStatusAvailable {
		t.Errorf("expected vehicle released to available, got %s", got)
	}

	now := time.Now()
	record := f.mileageRepo.GetRecord("vehicle-1", int(now.Month()), now.Year())
	if record == nil {
		t.Fatal("expected a monthly mileage record")
	}
	if record.TotalMileage != 29.5 {
		t.Errorf("expected ledger total 29.5, got %v", record.TotalMileage)
	}
	if len(record.Contributions) != 1 {
		t.Fatalf("expected 1 contribution, got %d", len(record.Contributions))
	}
	contribution := record.Contributions[0]
	if contribution.SourceID != "ride-1" {
		t.Errorf("expected contribution source ride-1, got %s", contribution.SourceID)
	}
	if contribution.SourceType != domain.ContributionSourceUserRide {
		t.Errorf("expected source type %s, got %s", domain.ContributionSourceUserRide, contribution.SourceType)
	}
}

func TestComplete_EndNotAfterStart_FailsWithoutSideEffects(t *testing.T) {
	t.Parallel()

	for _, endMileage := range []float64{120.5, 100} {
		f := newLifecycleFixture()
		startRide(t, f, 120.5)

		_, err := f.service.Complete(context.Background(), service.CompleteRequest{
			RideID:     "ride-1",
			EndMileage: endMileage,
		})
		if !errors.Is(err, service.ErrEndBeforeStartMileage) {
			t.Errorf("end %v: expected %v, got: %v", endMileage, service.ErrEndBeforeStartMileage, err)
		}

		if got := f.rideRepo.GetRide("ride-1").Status; got != domain.RideStatusInProgress {
			t.Errorf("expected ride still in progress, got %s", got)
		}
		if got := f.userRepo.GetUser("driver-1").DriverStatus; got != domain.DriverStatusBusy {
			t.Errorf("expected driver still busy, got %s", got)
		}
		if f.mileageRepo.CountRecords() != 0 {
			t.Error("expected no ledger entry on validation failure")
		}
	}
}

func TestComplete_WrongState_Fails(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()

	// Still assigned, never started.
	_, err := f.service.Complete(context.Background(), service.CompleteRequest{
		RideID:     "ride-1",
		EndMileage: 150,
	})
	if !errors.Is(err, service.ErrRideNotInProgress) {
		t.Errorf("expected %v, got: %v", service.ErrRideNotInProgress, err)
	}
}

func TestComplete_DoubleCompletion_SecondFails(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	startRide(t, f, 100)

	if _, err := f.service.Complete(context.Background(), service.CompleteRequest{RideID: "ride-1", EndMileage: 130}); err != nil {
		t.Fatalf("first completion failed: %v", err)
	}

	_, err := f.service.Complete(context.Background(), service.CompleteRequest{RideID: "ride-1", EndMileage: 140})
	if !errors.Is(err, service.ErrRideAlreadyFinal) {
		t.Errorf("expected %v, got: %v", service.ErrRideAlreadyFinal, err)
	}

	// The ledger must hold exactly the first completion.
	now := time.Now()
	record := f.mileageRepo.GetRecord("vehicle-1", int(now.Month()), now.Year())
	if record == nil || record.TotalMileage != 30 {
		t.Errorf("expected ledger total 30 from the single completion, got %+v", record)
	}
}

func TestComplete_ConcurrentCompletions_LedgerFedOnce(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	startRide(t, f, 100)

	var wg sync.WaitGroup
	var successCount int32
	start := make(chan struct{})

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := f.service.Complete(context.Background(), service.CompleteRequest{RideID: "ride-1", EndMileage: 115}); err == nil {
				atomic.AddInt32(&successCount, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&successCount); got != 1 {
		t.Fatalf("expected exactly one completion to win, got %d", got)
	}

	now := time.Now()
	record := f.mileageRepo.GetRecord("vehicle-1", int(now.Month()), now.Year())
	if record == nil {
		t.Fatal("expected a monthly mileage record")
	}
	if len(record.Contributions) != 1 {
		t.Errorf("expected exactly one contribution, got %d", len(record.Contributions))
	}
	if record.TotalMileage != 15 {
		t.Errorf("expected ledger total 15, got %v", record.TotalMileage)
	}
}
