package service

import (
	"context"
	"time"

	"fleetride/internal/domain"
	"fleetride/internal/redis"
	"fleetride/internal/repository"
)

// DriverAvailability is one entry in the available-driver listing.
type DriverAvailability struct {
	ID     string              `json:"id"`
	Name   string              `json:"name"`
	Email  string              `json:"email"`
	Status domain.DriverStatus `json:"status"`
}

// VehicleAvailability is one entry in the available-vehicle listing.
type VehicleAvailability struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Type     string               `json:"type"`
	Status   domain.VehicleStatus `json:"status"`
	Online   bool                 `json:"online"`
	SpeedKph float64              `json:"speed_kph"`
	LastSeen time.Time            `json:"last_seen"`
}

// RegistryService is the single source of truth for driver and vehicle
// availability. Listing reads go through a short-lived cache; the
// guarded status mutations live on the repositories and are invoked by
// the assignment and lifecycle services inside their transactions.
type RegistryService struct {
	userRepo    repository.UserRepository
	vehicleRepo repository.VehicleRepository
	telemetry   redis.TelemetryStoreInterface
	cache       redis.AvailabilityCacheInterface

	// staleAfter bounds how old a telemetry snapshot may be before the
	// vehicle is treated as offline.
	staleAfter time.Duration
}

// NewRegistryService creates a new RegistryService.
func NewRegistryService(
	userRepo repository.UserRepository,
	vehicleRepo repository.VehicleRepository,
	telemetry redis.TelemetryStoreInterface,
	cache redis.AvailabilityCacheInterface,
	staleAfter time.Duration,
) *RegistryService {
	return &RegistryService{
		userRepo:    userRepo,
		vehicleRepo: vehicleRepo,
		telemetry:   telemetry,
		cache:       cache,
		staleAfter:  staleAfter,
	}
}

// AvailableDrivers returns drivers that can be bound to a ride: driver
// role with an available (or unset) status. Pending and busy drivers
// are excluded.
func (s *RegistryService) AvailableDrivers(ctx context.Context) ([]DriverAvailability, error) {
	if s.cache != nil {
		var cached []DriverAvailability
		if hit, err := s.cache.GetDrivers(ctx, &cached); err == nil && hit {
			return cached, nil
		}
	}

	drivers, err := s.userRepo.ListDrivers(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]DriverAvailability, 0, len(drivers))
	for _, driver := range drivers {
		if !driver.AvailableForAssignment() {
			continue
		}
		status := driver.DriverStatus
		if status == "" {
			status = domain.DriverStatusAvailable
		}
		available = append(available, DriverAvailability{
			ID:     driver.ID,
			Name:   driver.Name,
			Email:  driver.Email,
			Status: status,
		})
	}

	if s.cache != nil {
		_ = s.cache.SetDrivers(ctx, available)
	}

	return available, nil
}

// AvailableVehicles returns vehicles that can be bound to a ride. The
// check is two-sided: the logical status must be available (or unset)
// AND the telemetry facet must report the vehicle online with a fresh
// snapshot. A redis snapshot, when present, takes precedence over the
// mirrored row because it is the more recent reading; a missing or
// stale snapshot falls back to the row, and a stale row means offline.
func (s *RegistryService) AvailableVehicles(ctx context.Context) ([]VehicleAvailability, error) {
	if s.cache != nil {
		var cached []VehicleAvailability
		if hit, err := s.cache.GetVehicles(ctx, &cached); err == nil && hit {
			return cached, nil
		}
	}

	vehicles, err := s.vehicleRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]*domain.Vehicle, 0, len(vehicles))
	ids := make([]string, 0, len(vehicles))
	for _, vehicle := range vehicles {
		if !vehicle.LogicallyAvailable() {
			continue
		}
		candidates = append(candidates, vehicle)
		ids = append(ids, vehicle.ID)
	}

	var snapshots map[string]*redis.Snapshot
	if s.telemetry != nil {
		snapshots, _ = s.telemetry.GetBatch(ctx, ids)
	}

	available := make([]VehicleAvailability, 0, len(candidates))
	for _, vehicle := range candidates {
		online, speed, seenAt := s.telemetryFacet(vehicle, snapshots[vehicle.ID])
		if !online {
			continue
		}
		available = append(available, VehicleAvailability{
			ID:       vehicle.ID,
			Name:     vehicle.Name,
			Type:     vehicle.Type,
			Status:   domain.VehicleStatusAvailable,
			Online:   true,
			SpeedKph: speed,
			LastSeen: seenAt,
		})
	}

	if s.cache != nil {
		_ = s.cache.SetVehicles(ctx, available)
	}

	return available, nil
}

// VehicleOnline reports whether a single vehicle passes the telemetry
// side of the availability check.
func (s *RegistryService) VehicleOnline(ctx context.Context, vehicle *domain.Vehicle) bool {
	var snapshot *redis.Snapshot
	if s.telemetry != nil {
		snapshot, _ = s.telemetry.Get(ctx, vehicle.ID)
	}
	online, _, _ := s.telemetryFacet(vehicle, snapshot)
	return online
}

// UpdateTelemetry ingests a telemetry snapshot: it is written to the
// redis store and mirrored onto the vehicle row so the dual
// availability check has both facets.
func (s *RegistryService) UpdateTelemetry(ctx context.Context, snapshot *redis.Snapshot) error {
	if snapshot.VehicleID == "" {
		return ErrInvalidVehicleID
	}
	if snapshot.SeenAt.IsZero() {
		snapshot.SeenAt = time.Now()
	}

	online := domain.OnlineStatusOffline
	if snapshot.Online {
		online = domain.OnlineStatusOnline
	}

	if err := s.vehicleRepo.UpdateTelemetry(ctx, snapshot.VehicleID,
		snapshot.Lat, snapshot.Lng, snapshot.SpeedKph, online, snapshot.SeenAt); err != nil {
		return err
	}

	if s.telemetry != nil {
		if err := s.telemetry.Update(ctx, snapshot); err != nil {
			return err
		}
	}

	return nil
}

// telemetryFacet resolves the online/speed/last-seen reading for a
// vehicle, preferring a fresh redis snapshot over the mirrored row.
func (s *RegistryService) telemetryFacet(vehicle *domain.Vehicle, snapshot *redis.Snapshot) (bool, float64, time.Time) {
	now := time.Now()

	if snapshot != nil && now.Sub(snapshot.SeenAt) <= s.staleAfter {
		return snapshot.Online, snapshot.SpeedKph, snapshot.SeenAt
	}

	fresh := !vehicle.LastSeenAt.IsZero() && now.Sub(vehicle.LastSeenAt) <= s.staleAfter
	online := fresh && vehicle.Online == domain.OnlineStatusOnline
	return online, vehicle.SpeedKph, vehicle.LastSeenAt
}
