package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"fleetride/internal/domain"
	"fleetride/internal/redis"
	"fleetride/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *ride
	m.rides[ride.ID] = &stored
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0, len(m.rides))
	for _, r := range m.rides {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRideRepository) UpdateWithStatus(ctx context.Context, ride *domain.Ride, from domain.RideStatus) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.rides[ride.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Status != from {
		return repository.ErrConflict
	}
	updated := *ride
	m.rides[ride.ID] = &updated
	return nil
}

// GetRide returns the stored ride by ID (for test assertions).
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// CountRides returns the number of rides.
func (m *MockRideRepository) CountRides() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rides)
}

func (m *MockRideRepository) snapshot() map[string]*domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]*domain.Ride, len(m.rides))
	for id, r := range m.rides {
		copy := *r
		snap[id] = &copy
	}
	return snap
}

func (m *MockRideRepository) restore(snap map[string]*domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides = snap
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		copy := *u
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockUserRepository) ListDrivers(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		if u.Role == domain.RoleDriver {
			copy := *u
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockUserRepository) UpdateDriverStatus(ctx context.Context, id string, from, to domain.DriverStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	// An unset stored status counts as available.
	current := user.DriverStatus
	if current == "" {
		current = domain.DriverStatusAvailable
	}
	expected := from
	if expected == "" {
		expected = domain.DriverStatusAvailable
	}
	if current != expected {
		return repository.ErrConflict
	}
	user.DriverStatus = to
	return nil
}

// GetUser returns the stored user (for test assertions).
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

func (m *MockUserRepository) snapshot() map[string]*domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]*domain.User, len(m.users))
	for id, u := range m.users {
		copy := *u
		snap[id] = &copy
	}
	return snap
}

func (m *MockUserRepository) restore(snap map[string]*domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = snap
}

// ──────────────────────────────────────────────
// MOCK VEHICLE REPOSITORY
// ──────────────────────────────────────────────

// MockVehicleRepository is a mock implementation of VehicleRepository.
type MockVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]*domain.Vehicle

	// Counters for verification
	CreateCallCount          int32
	UpdateStatusCallCount    int32
	UpdateTelemetryCallCount int32

	// Error injection
	CreateError          error
	UpdateStatusError    error
	UpdateTelemetryError error
}

// NewMockVehicleRepository creates a new mock vehicle repository.
func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{
		vehicles: make(map[string]*domain.Vehicle),
	}
}

// AddVehicle adds a vehicle to the mock repository.
func (m *MockVehicleRepository) AddVehicle(vehicle *domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.ID] = vehicle
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *vehicle
	m.vehicles[vehicle.ID] = &stored
	return nil
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *vehicle
	return &copy, nil
}

func (m *MockVehicleRepository) GetAll(ctx context.Context) ([]*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		copy := *v
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockVehicleRepository) UpdateStatus(ctx context.Context, id string, from, to domain.VehicleStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return repository.ErrNotFound
	}
	current := vehicle.Status
	if current == "" {
		current = domain.VehicleStatusAvailable
	}
	expected := from
	if expected == "" {
		expected = domain.VehicleStatusAvailable
	}
	if current != expected {
		return repository.ErrConflict
	}
	vehicle.Status = to
	return nil
}

func (m *MockVehicleRepository) UpdateTelemetry(ctx context.Context, id string, lat, lng, speedKph float64, online domain.OnlineStatus, seenAt time.Time) error {
	atomic.AddInt32(&m.UpdateTelemetryCallCount, 1)
	if m.UpdateTelemetryError != nil {
		return m.UpdateTelemetryError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return repository.ErrNotFound
	}
	vehicle.Lat = lat
	vehicle.Lng = lng
	vehicle.SpeedKph = speedKph
	vehicle.Online = online
	vehicle.LastSeenAt = seenAt
	return nil
}

// GetVehicle returns the stored vehicle (for test assertions).
func (m *MockVehicleRepository) GetVehicle(id string) *domain.Vehicle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vehicles[id]
}

func (m *MockVehicleRepository) snapshot() map[string]*domain.Vehicle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]*domain.Vehicle, len(m.vehicles))
	for id, v := range m.vehicles {
		copy := *v
		snap[id] = &copy
	}
	return snap
}

func (m *MockVehicleRepository) restore(snap map[string]*domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles = snap
}

// ──────────────────────────────────────────────
// MOCK TX RUNNER
// ──────────────────────────────────────────────

// MockTxRunner is a mock implementation of TxRunner backed by the mock
// repositories. Transactions are serialized, and the repository state is
// snapshotted before fn runs so a failing fn rolls back cleanly.
type MockTxRunner struct {
	mu sync.Mutex

	Rides    *MockRideRepository
	Users    *MockUserRepository
	Vehicles *MockVehicleRepository

	// Counters
	WithinTxCallCount int32

	// Error injection: returned before fn runs.
	BeginError error
}

// NewMockTxRunner creates a new mock transaction runner.
func NewMockTxRunner(rides *MockRideRepository, users *MockUserRepository, vehicles *MockVehicleRepository) *MockTxRunner {
	return &MockTxRunner{
		Rides:    rides,
		Users:    users,
		Vehicles: vehicles,
	}
}

func (m *MockTxRunner) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	atomic.AddInt32(&m.WithinTxCallCount, 1)
	if m.BeginError != nil {
		return m.BeginError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rideSnap := m.Rides.snapshot()
	userSnap := m.Users.snapshot()
	vehicleSnap := m.Vehicles.snapshot()

	err := fn(repository.Repositories{
		Rides:    m.Rides,
		Users:    m.Users,
		Vehicles: m.Vehicles,
	})
	if err != nil {
		m.Rides.restore(rideSnap)
		m.Users.restore(userSnap)
		m.Vehicles.restore(vehicleSnap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK MILEAGE REPOSITORY
// ──────────────────────────────────────────────

type mileageKey struct {
	vehicleID string
	month     int
	year      int
}

// MockMileageRepository is a mock implementation of MileageRepository.
type MockMileageRepository struct {
	mu      sync.RWMutex
	records map[mileageKey]*domain.MonthlyMileage

	// Counters
	AppendCallCount int32

	// Error injection
	AppendError error
}

// NewMockMileageRepository creates a new mock mileage repository.
func NewMockMileageRepository() *MockMileageRepository {
	return &MockMileageRepository{
		records: make(map[mileageKey]*domain.MonthlyMileage),
	}
}

func (m *MockMileageRepository) Append(ctx context.Context, vehicleID string, month, year int, contribution domain.Contribution) error {
	atomic.AddInt32(&m.AppendCallCount, 1)
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := mileageKey{vehicleID: vehicleID, month: month, year: year}
	record, ok := m.records[key]
	if !ok {
		record = &domain.MonthlyMileage{
			ID:        vehicleID + "-record",
			VehicleID: vehicleID,
			Month:     month,
			Year:      year,
			CreatedAt: time.Now(),
		}
		m.records[key] = record
	}
	record.TotalMileage += contribution.Mileage
	record.Contributions = append(record.Contributions, contribution)
	record.UpdatedAt = time.Now()
	return nil
}

func (m *MockMileageRepository) Get(ctx context.Context, vehicleID string, month, year int) (*domain.MonthlyMileage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[mileageKey{vehicleID: vehicleID, month: month, year: year}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *record
	return &copy, nil
}

func (m *MockMileageRepository) History(ctx context.Context, vehicleID string, limit int) ([]*domain.MonthlyMileage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.MonthlyMileage, 0)
	for _, record := range m.records {
		if record.VehicleID == vehicleID {
			copy := *record
			result = append(result, &copy)
		}
	}
	// Newest first, per the interface contract.
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			a, b := result[i], result[j]
			if b.Year > a.Year || (b.Year == a.Year && b.Month > a.Month) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockMileageRepository) ForMonth(ctx context.Context, month, year int) ([]*domain.MonthlyMileage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.MonthlyMileage, 0)
	for _, record := range m.records {
		if record.Month == month && record.Year == year {
			copy := *record
			result = append(result, &copy)
		}
	}
	return result, nil
}

// GetRecord returns the stored monthly record (for test assertions).
func (m *MockMileageRepository) GetRecord(vehicleID string, month, year int) *domain.MonthlyMileage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records[mileageKey{vehicleID: vehicleID, month: month, year: year}]
}

// CountRecords returns the number of monthly records.
func (m *MockMileageRepository) CountRecords() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// ──────────────────────────────────────────────
// MOCK DAILY RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockDailyRideRepository is a mock implementation of DailyRideRepository.
type MockDailyRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.DailyRide

	// Counters
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockDailyRideRepository creates a new mock daily ride repository.
func NewMockDailyRideRepository() *MockDailyRideRepository {
	return &MockDailyRideRepository{
		rides: make(map[string]*domain.DailyRide),
	}
}

// AddDailyRide adds a daily ride to the mock repository.
func (m *MockDailyRideRepository) AddDailyRide(ride *domain.DailyRide) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

func (m *MockDailyRideRepository) Create(ctx context.Context, ride *domain.DailyRide) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *ride
	m.rides[ride.ID] = &stored
	return nil
}

func (m *MockDailyRideRepository) GetByID(ctx context.Context, id string) (*domain.DailyRide, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *ride
	return &copy, nil
}

func (m *MockDailyRideRepository) GetActiveByDriverID(ctx context.Context, driverID string) (*domain.DailyRide, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rides {
		if r.DriverID == driverID && r.Status == domain.DailyRideStatusInProgress {
			copy := *r
			return &copy, nil
		}
	}
	return nil, nil // No active run.
}

func (m *MockDailyRideRepository) UpdateWithStatus(ctx context.Context, ride *domain.DailyRide, from domain.DailyRideStatus) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.rides[ride.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Status != from {
		return repository.ErrConflict
	}
	updated := *ride
	m.rides[ride.ID] = &updated
	return nil
}

// GetDailyRide returns the stored daily ride (for test assertions).
func (m *MockDailyRideRepository) GetDailyRide(id string) *domain.DailyRide {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireDriverLock(ctx context.Context, driverID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:driver:"+driverID, ttl)
}

func (m *MockLockStore) ReleaseDriverLock(ctx context.Context, driverID string) error {
	return m.release("lock:driver:" + driverID)
}

func (m *MockLockStore) AcquireVehicleLock(ctx context.Context, vehicleID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:vehicle:"+vehicleID, ttl)
}

func (m *MockLockStore) ReleaseVehicleLock(ctx context.Context, vehicleID string) error {
	return m.release("lock:vehicle:" + vehicleID)
}

func (m *MockLockStore) acquire(key string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}
	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) release(key string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
	return nil
}

// DriverLocked checks if a driver lock is held (for test assertions).
func (m *MockLockStore) DriverLocked(driverID string) bool {
	return m.locked("lock:driver:" + driverID)
}

// VehicleLocked checks if a vehicle lock is held (for test assertions).
func (m *MockLockStore) VehicleLocked(vehicleID string) bool {
	return m.locked("lock:vehicle:" + vehicleID)
}

func (m *MockLockStore) locked(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks[key]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// MOCK TELEMETRY STORE
// ──────────────────────────────────────────────

// MockTelemetryStore is a mock implementation of TelemetryStore.
type MockTelemetryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*redis.Snapshot

	// Counters
	UpdateCallCount int32

	// Error injection
	UpdateError error
	GetError    error
}

// NewMockTelemetryStore creates a new mock telemetry store.
func NewMockTelemetryStore() *MockTelemetryStore {
	return &MockTelemetryStore{
		snapshots: make(map[string]*redis.Snapshot),
	}
}

// SetSnapshot seeds a snapshot (for test setup).
func (m *MockTelemetryStore) SetSnapshot(snapshot *redis.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snapshot.VehicleID] = snapshot
}

func (m *MockTelemetryStore) Update(ctx context.Context, snapshot *redis.Snapshot) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *snapshot
	m.snapshots[snapshot.VehicleID] = &copy
	return nil
}

func (m *MockTelemetryStore) Get(ctx context.Context, vehicleID string) (*redis.Snapshot, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshot, ok := m.snapshots[vehicleID]
	if !ok {
		return nil, nil
	}
	copy := *snapshot
	return &copy, nil
}

func (m *MockTelemetryStore) GetBatch(ctx context.Context, vehicleIDs []string) (map[string]*redis.Snapshot, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]*redis.Snapshot, len(vehicleIDs))
	for _, id := range vehicleIDs {
		if snapshot, ok := m.snapshots[id]; ok {
			copy := *snapshot
			result[id] = &copy
		}
	}
	return result, nil
}

func (m *MockTelemetryStore) Remove(ctx context.Context, vehicleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, vehicleID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK AVAILABILITY CACHE
// ──────────────────────────────────────────────

// MockAvailabilityCache is a mock implementation of AvailabilityCache.
// It always misses unless configured otherwise; listings then recompute.
type MockAvailabilityCache struct {
	mu sync.Mutex

	// Counters
	InvalidateCallCount int32
	SetCallCount        int32
}

// NewMockAvailabilityCache creates a new mock availability cache.
func NewMockAvailabilityCache() *MockAvailabilityCache {
	return &MockAvailabilityCache{}
}

func (m *MockAvailabilityCache) GetDrivers(ctx context.Context, dest any) (bool, error) {
	return false, nil
}

func (m *MockAvailabilityCache) SetDrivers(ctx context.Context, value any) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	return nil
}

func (m *MockAvailabilityCache) GetVehicles(ctx context.Context, dest any) (bool, error) {
	return false, nil
}

func (m *MockAvailabilityCache) SetVehicles(ctx context.Context, value any) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	return nil
}

func (m *MockAvailabilityCache) Invalidate(ctx context.Context) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	return nil
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
