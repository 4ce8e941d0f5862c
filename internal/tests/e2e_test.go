package tests

import (
	"context"
	"testing"
	"time"

	"fleetride/internal/domain"
	"fleetride/internal/redis"
	"fleetride/internal/service"
)

// TestFullLifecycle_RequestToLedger walks one ride through the whole
// pipeline: request, admin approval, assignment, start, completion, and
// the resulting ledger entry.
func TestFullLifecycle_RequestToLedger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	rideRepo := NewMockRideRepository()
	userRepo := NewMockUserRepository()
	vehicleRepo := NewMockVehicleRepository()
	mileageRepo := NewMockMileageRepository()
	dailyRideRepo := NewMockDailyRideRepository()
	lockStore := NewMockLockStore()
	cache := NewMockAvailabilityCache()
	telemetry := NewMockTelemetryStore()
	txRunner := NewMockTxRunner(rideRepo, userRepo, vehicleRepo)

	registryService := service.NewRegistryService(userRepo, vehicleRepo, telemetry, cache, 10*time.Minute)
	rideService := service.NewRideService(rideRepo, nil, 25.0)
	mileageService := service.NewMileageService(mileageRepo, dailyRideRepo, vehicleRepo, userRepo, nil)
	assignmentService := service.NewAssignmentService(
		txRunner, rideRepo, userRepo, vehicleRepo, registryService, lockStore, cache, nil)
	lifecycleService := service.NewLifecycleService(txRunner, rideRepo, mileageService, cache, nil)

	userRepo.AddUser(&domain.User{ID: "employee-1", Role: domain.RoleUser})
	userRepo.AddUser(&domain.User{ID: "admin-1", Role: domain.RoleAdmin})
	userRepo.AddUser(&domain.User{ID: "driver-1", Role: domain.RoleDriver, DriverStatus: domain.DriverStatusAvailable})
	vehicleRepo.AddVehicle(&domain.Vehicle{ID: "vehicle-1", Status: domain.VehicleStatusAvailable})

	// The vehicle reports in.
	if err := registryService.UpdateTelemetry(ctx, &redis.Snapshot{
		VehicleID: "vehicle-1",
		Lat:       6.9271,
		Lng:       79.8612,
		Online:    true,
		SeenAt:    time.Now(),
	}); err != nil {
		t.Fatalf("telemetry ingest failed: %v", err)
	}

	// A short ride skips the PM stage.
	ride, err := rideService.CreateRide(ctx, service.CreateRideRequest{
		RequesterID: "employee-1",
		Start:       domain.GeoPoint{Lat: 6.9271, Lng: 79.8612},
		End:         domain.GeoPoint{Lat: 6.9934, Lng: 79.9000},
		DistanceKm:  10,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if ride.Status != domain.RideStatusAwaitingAdmin {
		t.Fatalf("expected awaiting_admin, got %s", ride.Status)
	}

	admin := service.Caller{ID: "admin-1", Role: domain.RoleAdmin}

	ride, err = rideService.Approve(ctx, service.ApprovalRequest{RideID: ride.ID, Caller: admin})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if ride.Status != domain.RideStatusApproved {
		t.Fatalf("expected approved, got %s", ride.Status)
	}

	// Both resources show up in the availability listings.
	drivers, err := registryService.AvailableDrivers(ctx)
	if err != nil || len(drivers) != 1 || drivers[0].ID != "driver-1" {
		t.Fatalf("expected driver-1 available, got %v (err=%v)", drivers, err)
	}
	vehicles, err := registryService.AvailableVehicles(ctx)
	if err != nil || len(vehicles) != 1 || vehicles[0].ID != "vehicle-1" {
		t.Fatalf("expected vehicle-1 available, got %v (err=%v)", vehicles, err)
	}

	ride, err = assignmentService.Assign(ctx, service.AssignRequest{
		RideID:    ride.ID,
		DriverID:  "driver-1",
		VehicleID: "vehicle-1",
		Caller:    admin,
	})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if ride.Status != domain.RideStatusAssigned {
		t.Fatalf("expected assigned, got %s", ride.Status)
	}
	if got := userRepo.GetUser("driver-1").DriverStatus; got != domain.DriverStatusPending {
		t.Errorf("expected driver pending, got %s", got)
	}
	if got := vehicleRepo.GetVehicle("vehicle-1").Status; got != domain.VehicleStatusAssigned {
		t.Errorf("expected vehicle assigned, got %s", got)
	}

	ride, err = lifecycleService.Start(ctx, service.StartRequest{
		RideID:       ride.ID,
		Caller:       service.Caller{ID: "driver-1", Role: domain.RoleDriver},
		StartMileage: 500,
	})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if got := userRepo.GetUser("driver-1").DriverStatus; got != domain.DriverStatusBusy {
		t.Errorf("expected driver busy, got %s", got)
	}
	if got := vehicleRepo.GetVehicle("vehicle-1").Status; got != domain.VehicleStatusBusy {
		t.Errorf("expected vehicle busy, got %s", got)
	}

	ride, err = lifecycleService.Complete(ctx, service.CompleteRequest{
		RideID:     ride.ID,
		EndMileage: 515,
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if ride.Status != domain.RideStatusCompleted {
		t.Fatalf("expected completed, got %s", ride.Status)
	}
	if ride.TotalMileage != 15 {
		t.Errorf("expected total mileage 15, got %v", ride.TotalMileage)
	}

	// Resources are released.
	if got := userRepo.GetUser("driver-1").DriverStatus; got != domain.DriverStatusAvailable {
		t.Errorf("expected driver available again, got %s", got)
	}
	if got := vehicleRepo.GetVehicle("vehicle-1").Status; got != domain.VehicleStatusAvailable {
		t.Errorf("expected vehicle available again, got %s", got)
	}

	// The month's ledger carries the ride's delta.
	record, err := mileageService.CurrentMonthMileage(ctx, "vehicle-1")
	if err != nil {
		t.Fatalf("ledger read failed: %v", err)
	}
	if record == nil {
		t.Fatal("expected a ledger record for the current month")
	}
	if record.TotalMileage != 15 {
		t.Errorf("expected ledger total 15, got %v", record.TotalMileage)
	}
	if len(record.Contributions) != 1 || record.Contributions[0].SourceID != ride.ID {
		t.Errorf("expected one contribution from the ride, got %+v", record.Contributions)
	}
}

// TestFullLifecycle_LongRideNeedsBothApprovals exercises the two-stage
// approval path for a ride at or beyond the distance threshold.
func TestFullLifecycle_LongRideNeedsBothApprovals(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rideRepo := NewMockRideRepository()
	rideService := service.NewRideService(rideRepo, nil, 25.0)

	ride, err := rideService.CreateRide(ctx, service.CreateRideRequest{
		RequesterID: "employee-1",
		DistanceKm:  40,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if ride.Status != domain.RideStatusAwaitingPM {
		t.Fatalf("expected awaiting_pm, got %s", ride.Status)
	}

	// Admin cannot jump the queue.
	if _, err := rideService.Approve(ctx, service.ApprovalRequest{
		RideID: ride.ID,
		Caller: service.Caller{ID: "admin-1", Role: domain.RoleAdmin},
	}); err == nil {
		t.Fatal("expected admin approval to fail before the PM stage")
	}

	ride, err = rideService.Approve(ctx, service.ApprovalRequest{
		RideID: ride.ID,
		Caller: service.Caller{ID: "pm-1", Role: domain.RoleProjectManager},
	})
	if err != nil {
		t.Fatalf("PM approval failed: %v", err)
	}
	if ride.Status != domain.RideStatusAwaitingAdmin {
		t.Fatalf("expected awaiting_admin, got %s", ride.Status)
	}

	ride, err = rideService.Approve(ctx, service.ApprovalRequest{
		RideID: ride.ID,
		Caller: service.Caller{ID: "admin-1", Role: domain.RoleAdmin},
	})
	if err != nil {
		t.Fatalf("admin approval failed: %v", err)
	}
	if ride.Status != domain.RideStatusApproved {
		t.Fatalf("expected approved, got %s", ride.Status)
	}

	if !ride.Approval.ProjectManager.Approved || !ride.Approval.Admin.Approved {
		t.Error("expected both approval records to be set")
	}
}
