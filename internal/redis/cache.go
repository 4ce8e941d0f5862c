package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Availability listings change with every assignment, so the cache TTL
// is short and every lifecycle transition invalidates it.
const availabilityCacheTTL = 15 * time.Second

const (
	availableDriversKey  = "cache:available:drivers"
	availableVehiclesKey = "cache:available:vehicles"
)

// AvailabilityCache caches the available-driver and available-vehicle
// listings in Redis.
type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache creates a new AvailabilityCache.
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// GetDrivers retrieves the cached driver listing into dest. Returns
// false on a cache miss.
func (c *AvailabilityCache) GetDrivers(ctx context.Context, dest any) (bool, error) {
	return c.get(ctx, availableDriversKey, dest)
}

// SetDrivers caches the driver listing.
func (c *AvailabilityCache) SetDrivers(ctx context.Context, value any) error {
	return c.set(ctx, availableDriversKey, value)
}

// GetVehicles retrieves the cached vehicle listing into dest. Returns
// false on a cache miss.
func (c *AvailabilityCache) GetVehicles(ctx context.Context, dest any) (bool, error) {
	return c.get(ctx, availableVehiclesKey, dest)
}

// SetVehicles caches the vehicle listing.
func (c *AvailabilityCache) SetVehicles(ctx context.Context, value any) error {
	return c.set(ctx, availableVehiclesKey, value)
}

// Invalidate drops both listings. Called after any transition that
// changes driver or vehicle availability.
func (c *AvailabilityCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, availableDriversKey, availableVehiclesKey).Err()
}

func (c *AvailabilityCache) get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *AvailabilityCache) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, availabilityCacheTTL).Err()
}
