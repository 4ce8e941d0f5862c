package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	vehiclePositionKey   = "vehicles:positions"
	telemetryPrefix      = "telemetry:vehicle:"
	telemetrySnapshotTTL = 30 * time.Minute
)

// Snapshot is the latest telemetry reading for one vehicle.
type Snapshot struct {
	VehicleID string    `json:"vehicle_id"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	SpeedKph  float64   `json:"speed_kph"`
	Online    bool      `json:"online"`
	SeenAt    time.Time `json:"seen_at"`
}

// TelemetryStore keeps the latest vehicle telemetry snapshots in Redis:
// a geo index of positions plus a JSON snapshot per vehicle.
type TelemetryStore struct {
	client *redis.Client
}

// NewTelemetryStore creates a new TelemetryStore.
func NewTelemetryStore(client *redis.Client) *TelemetryStore {
	return &TelemetryStore{client: client}
}

// Update stores a vehicle's snapshot and position.
func (s *TelemetryStore) Update(ctx context.Context, snapshot *Snapshot) error {
	if err := s.client.GeoAdd(ctx, vehiclePositionKey, &redis.GeoLocation{
		Name:      snapshot.VehicleID,
		Longitude: snapshot.Lng,
		Latitude:  snapshot.Lat,
	}).Err(); err != nil {
		return err
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, telemetryPrefix+snapshot.VehicleID, data, telemetrySnapshotTTL).Err()
}

// Get retrieves a vehicle's latest snapshot, or nil if none is stored.
func (s *TelemetryStore) Get(ctx context.Context, vehicleID string) (*Snapshot, error) {
	data, err := s.client.Get(ctx, telemetryPrefix+vehicleID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// GetBatch retrieves snapshots for multiple vehicles with a single MGET.
// Vehicles without a snapshot are absent from the result.
func (s *TelemetryStore) GetBatch(ctx context.Context, vehicleIDs []string) (map[string]*Snapshot, error) {
	result := make(map[string]*Snapshot, len(vehicleIDs))
	if len(vehicleIDs) == 0 {
		return result, nil
	}

	keys := make([]string, len(vehicleIDs))
	for i, id := range vehicleIDs {
		keys[i] = telemetryPrefix + id
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var snapshot Snapshot
		if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
			continue
		}
		result[vehicleIDs[i]] = &snapshot
	}
	return result, nil
}

// Remove deletes a vehicle's snapshot and position.
func (s *TelemetryStore) Remove(ctx context.Context, vehicleID string) error {
	if err := s.client.ZRem(ctx, vehiclePositionKey, vehicleID).Err(); err != nil {
		return err
	}
	return s.client.Del(ctx, telemetryPrefix+vehicleID).Err()
}
