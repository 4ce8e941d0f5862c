package domain

import "time"

// Role represents a user's role in the system.
type Role string

const (
	RoleUser           Role = "user"
	RoleDriver         Role = "driver"
	RoleProjectManager Role = "project_manager"
	RoleAdmin          Role = "admin"
)

// DriverStatus represents a driver's availability state.
// An empty status is treated as available.
type DriverStatus string

const (
	DriverStatusAvailable DriverStatus = "available"
	DriverStatusPending   DriverStatus = "pending"
	DriverStatusBusy      DriverStatus = "busy"
)

// User represents any account in the system; drivers carry an
// availability status mutated only through guarded registry updates.
type User struct {
	ID           string
	Name         string
	Email        string
	Role         Role
	DriverStatus DriverStatus
	CreatedAt    time.Time
}

// AvailableForAssignment reports whether the driver can be bound to a ride.
func (u *User) AvailableForAssignment() bool {
	return u.Role == RoleDriver &&
		(u.DriverStatus == "" || u.DriverStatus == DriverStatusAvailable)
}
