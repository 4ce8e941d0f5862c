package domain

import "time"

// VehicleStatus represents a vehicle's logical availability state.
// An empty status is treated as available.
type VehicleStatus string

const (
	VehicleStatusAvailable VehicleStatus = "available"
	VehicleStatusAssigned  VehicleStatus = "assigned"
	VehicleStatusBusy      VehicleStatus = "busy"
)

// OnlineStatus represents the telemetry link state of a vehicle.
type OnlineStatus string

const (
	OnlineStatusOnline  OnlineStatus = "online"
	OnlineStatusOffline OnlineStatus = "offline"
)

// Vehicle represents a fleet vehicle, identified by its tracking
// terminal ID. The logical status and the telemetry facet are
// maintained independently and checked together for assignment.
type Vehicle struct {
	ID     string // terminal ID
	Name   string
	Type   string
	Status VehicleStatus

	// Telemetry facet, mirrored from the latest ingested snapshot.
	Online     OnlineStatus
	Lat        float64
	Lng        float64
	SpeedKph   float64
	LastSeenAt time.Time

	CreatedAt time.Time
}

// LogicallyAvailable reports whether the vehicle is not bound to a ride.
func (v *Vehicle) LogicallyAvailable() bool {
	return v.Status == "" || v.Status == VehicleStatusAvailable
}
