package tests

import (
	"context"
	"testing"
	"time"

	"fleetride/internal/domain"
	"fleetride/internal/redis"
	"fleetride/internal/service"
)

const testStaleAfter = 10 * time.Minute

// registryFixture wires a RegistryService over mocks.
type registryFixture struct {
	userRepo    *MockUserRepository
	vehicleRepo *MockVehicleRepository
	telemetry   *MockTelemetryStore
	cache       *MockAvailabilityCache
	service     *service.RegistryService
}

func newRegistryFixture() *registryFixture {
	userRepo := NewMockUserRepository()
	vehicleRepo := NewMockVehicleRepository()
	telemetry := NewMockTelemetryStore()
	cache := NewMockAvailabilityCache()

	return &registryFixture{
		userRepo:    userRepo,
		vehicleRepo: vehicleRepo,
		telemetry:   telemetry,
		cache:       cache,
		service:     service.NewRegistryService(userRepo, vehicleRepo, telemetry, cache, testStaleAfter),
	}
}

// ──────────────────────────────────────────────
// 1. DRIVER LISTING
// ──────────────────────────────────────────────

func TestAvailableDrivers_FiltersByRoleAndStatus(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture()
	f.userRepo.AddUser(&domain.User{ID: "driver-free", Role: domain.RoleDriver, DriverStatus: domain.DriverStatusAvailable})
	f.userRepo.AddUser(&domain.User{ID: "driver-unset", Role: domain.RoleDriver})
	f.userRepo.AddUser(&domain.User{ID: "driver-pending", Role: domain.RoleDriver, DriverStatus: domain.DriverStatusPending})
	f.userRepo.AddUser(&domain.User{ID: "driver-busy", Role: domain.RoleDriver, DriverStatus: domain.DriverStatusBusy})
	f.userRepo.AddUser(&domain.User{ID: "plain-user", Role: domain.RoleUser})
	f.userRepo.AddUser(&domain.User{ID: "admin-1", Role: domain.RoleAdmin})

	drivers, err := f.service.AvailableDrivers(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(drivers) != 2 {
		t.Fatalf("expected 2 available drivers, got %d", len(drivers))
	}
	seen := map[string]domain.DriverStatus{}
	for _, d := range drivers {
		seen[d.ID] = d.Status
	}
	if _, ok := seen["driver-free"]; !ok {
		t.Error("expected driver-free to be listed")
	}
	// An unset status surfaces as available.
	if status, ok := seen["driver-unset"]; !ok || status != domain.DriverStatusAvailable {
		t.Errorf("expected driver-unset listed as available, got %v", status)
	}
}

// ──────────────────────────────────────────────
// 2. VEHICLE LISTING (DUAL CHECK)
// ──────────────────────────────────────────────

func TestAvailableVehicles_RequiresLogicalAndTelemetryAvailability(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture()
	now := time.Now()

	// Available and online with a fresh snapshot: listed.
	f.vehicleRepo.AddVehicle(&domain.Vehicle{ID: "v-good", Status: domain.VehicleStatusAvailable})
	f.telemetry.SetSnapshot(&redis.Snapshot{VehicleID: "v-good", Online: true, SpeedKph: 42, SeenAt: now})

	// Logically assigned: excluded regardless of telemetry.
	f.vehicleRepo.AddVehicle(&domain.Vehicle{ID: "v-assigned", Status: domain.VehicleStatusAssigned})
	f.telemetry.SetSnapshot(&redis.Snapshot{VehicleID: "v-assigned", Online: true, SeenAt: now})

	// Busy: excluded.
	f.vehicleRepo.AddVehicle(&domain.Vehicle{ID: "v-busy", Status: domain.VehicleStatusBusy})

	// Snapshot reports offline: excluded.
	f.vehicleRepo.AddVehicle(&domain.Vehicle{ID: "v-offline", Status: domain.VehicleStatusAvailable})
	f.telemetry.SetSnapshot(&redis.Snapshot{VehicleID: "v-offline", Online: false, SeenAt: now})

	// Stale snapshot and stale row: excluded.
	f.vehicleRepo.AddVehicle(&domain.Vehicle{
		ID:         "v-stale",
		Status:     domain.VehicleStatusAvailable,
		Online:     domain.OnlineStatusOnline,
		LastSeenAt: now.Add(-time.Hour),
	})
	f.telemetry.SetSnapshot(&redis.Snapshot{VehicleID: "v-stale", Online: true, SeenAt: now.Add(-time.Hour)})

	// No snapshot at all, but a fresh online row mirror: listed.
	f.vehicleRepo.AddVehicle(&domain.Vehicle{
		ID:         "v-row-only",
		Status:     domain.VehicleStatusAvailable,
		Online:     domain.OnlineStatusOnline,
		LastSeenAt: now.Add(-time.Minute),
	})

	vehicles, err := f.service.AvailableVehicles(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	listed := map[string]service.VehicleAvailability{}
	for _, v := range vehicles {
		listed[v.ID] = v
	}

	if len(listed) != 2 {
		t.Fatalf("expected 2 available vehicles, got %d: %v", len(listed), vehicles)
	}
	good, ok := listed["v-good"]
	if !ok {
		t.Fatal("expected v-good to be listed")
	}
	if !good.Online || good.SpeedKph != 42 {
		t.Errorf("expected v-good online at 42 kph, got %+v", good)
	}
	if _, ok := listed["v-row-only"]; !ok {
		t.Error("expected v-row-only to be listed from the row mirror")
	}
}

func TestAvailableVehicles_FreshSnapshotOverridesStaleRow(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture()
	now := time.Now()

	// The row mirror says offline and hasn't been updated in a while, but
	// a fresh snapshot has arrived since.
	f.vehicleRepo.AddVehicle(&domain.Vehicle{
		ID:         "v-1",
		Status:     domain.VehicleStatusAvailable,
		Online:     domain.OnlineStatusOffline,
		LastSeenAt: now.Add(-time.Hour),
	})
	f.telemetry.SetSnapshot(&redis.Snapshot{VehicleID: "v-1", Online: true, SeenAt: now})

	vehicles, err := f.service.AvailableVehicles(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(vehicles) != 1 || vehicles[0].ID != "v-1" {
		t.Fatalf("expected v-1 listed via the fresh snapshot, got %v", vehicles)
	}
}

// ──────────────────────────────────────────────
// 3. TELEMETRY INGEST
// ──────────────────────────────────────────────

func TestUpdateTelemetry_MirrorsRowAndStore(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture()
	f.vehicleRepo.AddVehicle(&domain.Vehicle{ID: "v-1", Status: domain.VehicleStatusAvailable})

	seenAt := time.Now()
	err := f.service.UpdateTelemetry(context.Background(), &redis.Snapshot{
		VehicleID: "v-1",
		Lat:       6.9271,
		Lng:       79.8612,
		SpeedKph:  35,
		Online:    true,
		SeenAt:    seenAt,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	row := f.vehicleRepo.GetVehicle("v-1")
	if row.Online != domain.OnlineStatusOnline {
		t.Errorf("expected mirrored row online, got %s", row.Online)
	}
	if row.Lat != 6.9271 || row.Lng != 79.8612 || row.SpeedKph != 35 {
		t.Errorf("unexpected mirrored row values: %+v", row)
	}

	snapshot, err := f.telemetry.Get(context.Background(), "v-1")
	if err != nil || snapshot == nil {
		t.Fatalf("expected stored snapshot, got %v (err=%v)", snapshot, err)
	}
	if !snapshot.Online || snapshot.SpeedKph != 35 {
		t.Errorf("unexpected stored snapshot: %+v", snapshot)
	}
}

func TestUpdateTelemetry_UnknownVehicle_Fails(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture()

	err := f.service.UpdateTelemetry(context.Background(), &redis.Snapshot{
		VehicleID: "missing",
		Online:    true,
		SeenAt:    time.Now(),
	})
	if err == nil {
		t.Error("expected error for unknown vehicle")
	}
}

func TestUpdateTelemetry_OfflineReport_ExcludesVehicle(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture()
	f.vehicleRepo.AddVehicle(&domain.Vehicle{ID: "v-1", Status: domain.VehicleStatusAvailable})

	if err := f.service.UpdateTelemetry(context.Background(), &redis.Snapshot{
		VehicleID: "v-1", Online: true, SeenAt: time.Now(),
	}); err != nil {
		t.Fatalf("online report failed: %v", err)
	}
	if err := f.service.UpdateTelemetry(context.Background(), &redis.Snapshot{
		VehicleID: "v-1", Online: false, SeenAt: time.Now(),
	}); err != nil {
		t.Fatalf("offline report failed: %v", err)
	}

	vehicles, err := f.service.AvailableVehicles(context.Background())
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(vehicles) != 0 {
		t.Errorf("expected no available vehicles after the offline report, got %v", vehicles)
	}
}
