package tests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fleetride/internal/domain"
	"fleetride/internal/service"
)

var testSites = []string{"Site-Gampaha", "Site-Kadana", "Site-Colombo"}

// mileageFixture wires a MileageService over mocks.
type mileageFixture struct {
	mileageRepo   *MockMileageRepository
	dailyRideRepo *MockDailyRideRepository
	vehicleRepo   *MockVehicleRepository
	userRepo      *MockUserRepository
	service       *service.MileageService
}

func newMileageFixture() *mileageFixture {
	mileageRepo := NewMockMileageRepository()
	dailyRideRepo := NewMockDailyRideRepository()
	vehicleRepo := NewMockVehicleRepository()
	userRepo := NewMockUserRepository()

	vehicleRepo.AddVehicle(&domain.Vehicle{ID: "vehicle-1", Name: "Hiace 01", Type: "van"})
	userRepo.AddUser(&domain.User{ID: "driver-1", Role: domain.RoleDriver})

	return &mileageFixture{
		mileageRepo:   mileageRepo,
		dailyRideRepo: dailyRideRepo,
		vehicleRepo:   vehicleRepo,
		userRepo:      userRepo,
		service:       service.NewMileageService(mileageRepo, dailyRideRepo, vehicleRepo, userRepo, testSites),
	}
}

// ──────────────────────────────────────────────
// 1. LEDGER ACCUMULATION
// ──────────────────────────────────────────────

func TestRecordContribution_SameMonth_AccumulatesOneRecord(t *testing.T) {
	t.Parallel()

	f := newMileageFixture()
	ctx := context.Background()
	march := time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)

	if err := f.service.RecordContribution(ctx, "vehicle-1", 12.5, "ride-1", domain.ContributionSourceUserRide, march); err != nil {
		t.Fatalf("first contribution failed: %v", err)
	}
	if err := f.service.RecordContribution(ctx, "vehicle-1", 7.5, "ride-2", domain.ContributionSourceUserRide, march.Add(48*time.Hour)); err != nil {
		t.Fatalf("second contribution failed: %v", err)
	}

	if f.mileageRepo.CountRecords() != 1 {
		t.Fatalf("expected a single monthly record, got %d", f.mileageRepo.CountRecords())
	}

	record := f.mileageRepo.GetRecord("vehicle-1", 3, 2025)
	if record == nil {
		t.Fatal("expected record for March 2025")
	}
	if record.TotalMileage != 20.0 {
		t.Errorf("expected total 20.0, got %v", record.TotalMileage)
	}
	if len(record.Contributions) != 2 {
		t.Errorf("expected 2 contributions, got %d", len(record.Contributions))
	}
}

func TestRecordContribution_MonthBoundary_OpensNewRecord(t *testing.T) {
	t.Parallel()

	f := newMileageFixture()
	ctx := context.Background()

	endOfMarch := time.Date(2025, time.March, 31, 23, 50, 0, 0, time.UTC)
	startOfApril := time.Date(2025, time.April, 1, 0, 10, 0, 0, time.UTC)

	if err := f.service.RecordContribution(ctx, "vehicle-1", 10, "ride-1", domain.ContributionSourceUserRide, endOfMarch); err != nil {
		t.Fatalf("March contribution failed: %v", err)
	}
	if err := f.service.RecordContribution(ctx, "vehicle-1", 5, "ride-2", domain.ContributionSourceUserRide, startOfApril); err != nil {
		t.Fatalf("April contribution failed: %v", err)
	}

	march := f.mileageRepo.GetRecord("vehicle-1", 3, 2025)
	april := f.mileageRepo.GetRecord("vehicle-1", 4, 2025)
	if march == nil || april == nil {
		t.Fatal("expected separate records for March and April")
	}
	if march.TotalMileage != 10 {
		t.Errorf("expected March total 10, got %v", march.TotalMileage)
	}
	if april.TotalMileage != 5 {
		t.Errorf("expected April total 5, got %v", april.TotalMileage)
	}
}

func TestRecordContribution_InvalidInput_Fails(t *testing.T) {
	t.Parallel()

	f := newMileageFixture()
	ctx := context.Background()
	now := time.Now()

	if err := f.service.RecordContribution(ctx, "", 10, "ride-1", domain.ContributionSourceUserRide, now); !errors.Is(err, service.ErrInvalidVehicleID) {
		t.Errorf("empty vehicle: expected %v, got: %v", service.ErrInvalidVehicleID, err)
	}
	if err := f.service.RecordContribution(ctx, "vehicle-1", 0, "ride-1", domain.ContributionSourceUserRide, now); err == nil {
		t.Error("expected error for zero mileage")
	}
	if err := f.service.RecordContribution(ctx, "vehicle-1", -3, "ride-1", domain.ContributionSourceUserRide, now); err == nil {
		t.Error("expected error for negative mileage")
	}
	if f.mileageRepo.CountRecords() != 0 {
		t.Error("expected no records after failed contributions")
	}
}

func TestRecordContribution_ConcurrentFirstWrites_SingleRecord(t *testing.T) {
	t.Parallel()

	f := newMileageFixture()
	when := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_ = f.service.RecordContribution(context.Background(), "vehicle-1", 1, "ride-x", domain.ContributionSourceUserRide, when)
		}()
	}
	close(start)
	wg.Wait()

	if f.mileageRepo.CountRecords() != 1 {
		t.Fatalf("expected one record for the month, got %d", f.mileageRepo.CountRecords())
	}
	record := f.mileageRepo.GetRecord("vehicle-1", 6, 2025)
	if record.TotalMileage != 8 {
		t.Errorf("expected total 8, got %v", record.TotalMileage)
	}
}

func TestHistory_NewestFirst(t *testing.T) {
	t.Parallel()

	f := newMileageFixture()
	ctx := context.Background()

	months := []time.Time{
		time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, when := range months {
		if err := f.service.RecordContribution(ctx, "vehicle-1", float64(i+1), "ride", domain.ContributionSourceUserRide, when); err != nil {
			t.Fatalf("contribution failed: %v", err)
		}
	}

	history, err := f.service.History(ctx, "vehicle-1", 0)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 months, got %d", len(history))
	}

	want := []struct{ month, year int }{{3, 2025}, {1, 2025}, {11, 2024}}
	for i, w := range want {
		if history[i].Month != w.month || history[i].Year != w.year {
			t.Errorf("position %d: expected %d/%d, got %d/%d", i, w.month, w.year, history[i].Month, history[i].Year)
		}
	}
}

func TestSummary_CountsPerSourceAndAvailability(t *testing.T) {
	t.Parallel()

	f := newMileageFixture()
	ctx := context.Background()

	f.vehicleRepo.AddVehicle(&domain.Vehicle{
		ID:     "vehicle-2",
		Name:   "Bolero 02",
		Type:   "pickup",
		Status: domain.VehicleStatusAvailable,
		Online: domain.OnlineStatusOnline,
	})

	when := time.Date(2025, time.May, 12, 8, 0, 0, 0, time.UTC)
	if err := f.service.RecordContribution(ctx, "vehicle-2", 20.25, "ride-1", domain.ContributionSourceUserRide, when); err != nil {
		t.Fatalf("contribution failed: %v", err)
	}
	if err := f.service.RecordContribution(ctx, "vehicle-2", 9.5, "daily-1", domain.ContributionSourceDailyRide, when); err != nil {
		t.Fatalf("contribution failed: %v", err)
	}

	summary, err := f.service.Summary(ctx, 5, 2025)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}

	if summary.TotalVehicles != 2 {
		t.Errorf("expected 2 vehicles, got %d", summary.TotalVehicles)
	}
	if summary.ActiveVehicles != 1 {
		t.Errorf("expected 1 active vehicle, got %d", summary.ActiveVehicles)
	}
	if summary.AvailableVehicles != 1 {
		t.Errorf("expected 1 available vehicle, got %d", summary.AvailableVehicles)
	}
	if summary.TotalMileage != 29.8 {
		t.Errorf("expected fleet total 29.8, got %v", summary.TotalMileage)
	}

	var row *service.VehicleMileageSummary
	for i := range summary.Vehicles {
		if summary.Vehicles[i].VehicleID == "vehicle-2" {
			row = &summary.Vehicles[i]
		}
	}
	if row == nil {
		t.Fatal("expected a row for vehicle-2")
	}
	if row.RideCount != 2 || row.UserRideCount != 1 || row.DailyRideCount != 1 {
		t.Errorf("unexpected counts: total=%d user=%d daily=%d", row.RideCount, row.UserRideCount, row.DailyRideCount)
	}
	if row.MonthlyMileage != 29.75 {
		t.Errorf("expected vehicle-2 mileage 29.75, got %v", row.MonthlyMileage)
	}
}

// ──────────────────────────────────────────────
// 2. DAILY TRANSPORT RUNS
// ──────────────────────────────────────────────

func TestStartDailyRide_ValidRun_Succeeds(t *testing.T) {
	t.Parallel()

	f := newMileageFixture()

	run, err := f.service.StartDailyRide(context.Background(), service.StartDailyRideRequest{
		DriverID:     "driver-1",
		VehicleID:    "vehicle-1",
		Destination:  "Site-Gampaha",
		StartMileage: 500,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if run.Status != domain.DailyRideStatusInProgress {
		t.Errorf("expected status %s, got %s", domain.DailyRideStatusInProgress, run.Status)
	}
	if run.Destination != "Site-Gampaha" {
		t.Errorf("unexpected destination: %s", run.Destination)
	}
}

func TestStartDailyRide_UnknownSite_Fails(t *testing.T) {
	t.Parallel()

	f := newMileageFixture()

	_, err := f.service.StartDailyRide(context.Background(), service.StartDailyRideRequest{
		DriverID:     "driver-1",
		VehicleID:    "vehicle-1",
		Destination:  "Site-Jaffna",
		StartMileage: 500,
	})
	if !errors.Is(err, service.ErrInvalidDestination) {
		t.Errorf("expected %v, got: %v", service.ErrInvalidDestination, err)
	}
}

func TestStartDailyRide_NonDriver_Fails(t *testing.T) {
	t.Parallel()

	f := newMileageFixture()
	f.userRepo.AddUser(&domain.User{ID: "user-1", Role: domain.RoleUser})

	_, err := f.service.StartDailyRide(context.Background(), service.StartDailyRideRequest{
		DriverID:     "user-1",
		VehicleID:    "vehicle-1",
		Destination:  "Site-Kadana",
		StartMileage: 500,
	})
	if !errors.Is(err, service.ErrDriverRoleRequired) {
		t.Errorf("expected %v, got: %v", service.ErrDriverRoleRequired, err)
	}
}

func TestStartDailyRide_ActiveRunExists_Fails(t *testing.T) {
	t.Parallel()

	f := newMileageFixture()
	f.dailyRideRepo.AddDailyRide(&domain.DailyRide{
		ID:       "daily-1",
		DriverID: "driver-1",
		Status:   domain.DailyRideStatusInProgress,
	})

	_, err := f.service.StartDailyRide(context.Background(), service.StartDailyRideRequest{
		DriverID:     "driver-1",
		VehicleID:    "vehicle-1",
		Destination:  "Site-Colombo",
		StartMileage: 500,
	})
	if !errors.Is(err, service.ErrDriverHasActiveDailyRide) {
		t.Errorf("expected %v, got: %v", service.ErrDriverHasActiveDailyRide, err)
	}
}

func TestCompleteDailyRide_FeedsLedgerWithDailyTag(t *testing.T) {
	t.Parallel()

	f := newMileageFixture()
	f.dailyRideRepo.AddDailyRide(&domain.DailyRide{
		ID:           "daily-1",
		DriverID:     "driver-1",
		VehicleID:    "vehicle-1",
		Destination:  "Site-Gampaha",
		StartMileage: 500,
		Status:       domain.DailyRideStatusInProgress,
	})

	run, err := f.service.CompleteDailyRide(context.Background(), "daily-1", 543.5)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if run.Status != domain.DailyRideStatusCompleted {
		t.Errorf("expected status %s, got %s", domain.DailyRideStatusCompleted, run.Status)
	}
	if run.TotalMileage != 43.5 {
		t.Errorf("expected total 43.5, got %v", run.TotalMileage)
	}

	record := f.mileageRepo.GetRecord("vehicle-1", int(run.CompletedAt.Month()), run.CompletedAt.Year())
	if record == nil {
		t.Fatal("expected a ledger record")
	}
	if len(record.Contributions) != 1 || record.Contributions[0].SourceType != domain.ContributionSourceDailyRide {
		t.Errorf("expected one daily-ride contribution, got %+v", record.Contributions)
	}
}

func TestCompleteDailyRide_AlreadyCompleted_Fails(t *testing.T) {
	t.Parallel()

	f := newMileageFixture()
	f.dailyRideRepo.AddDailyRide(&domain.DailyRide{
		ID:           "daily-1",
		DriverID:     "driver-1",
		VehicleID:    "vehicle-1",
		StartMileage: 500,
		Status:       domain.DailyRideStatusCompleted,
	})

	_, err := f.service.CompleteDailyRide(context.Background(), "daily-1", 550)
	if !errors.Is(err, service.ErrDailyRideAlreadyCompleted) {
		t.Errorf("expected %v, got: %v", service.ErrDailyRideAlreadyCompleted, err)
	}
	if f.mileageRepo.CountRecords() != 0 {
		t.Error("expected no ledger entry for a repeated completion")
	}
}

func TestCompleteDailyRide_EndNotAfterStart_Fails(t *testing.T) {
	t.Parallel()

	f := newMileageFixture()
	f.dailyRideRepo.AddDailyRide(&domain.DailyRide{
		ID:           "daily-1",
		DriverID:     "driver-1",
		VehicleID:    "vehicle-1",
		StartMileage: 500,
		Status:       domain.DailyRideStatusInProgress,
	})

	_, err := f.service.CompleteDailyRide(context.Background(), "daily-1", 499)
	if !errors.Is(err, service.ErrEndBeforeStartMileage) {
		t.Errorf("expected %v, got: %v", service.ErrEndBeforeStartMileage, err)
	}
}
