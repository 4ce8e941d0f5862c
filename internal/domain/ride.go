package domain

import "time"

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusPending       RideStatus = "pending"
	RideStatusAwaitingPM    RideStatus = "awaiting_pm"
	RideStatusAwaitingAdmin RideStatus = "awaiting_admin"
	RideStatusApproved      RideStatus = "approved"
	RideStatusAssigned      RideStatus = "assigned"
	RideStatusInProgress    RideStatus = "in_progress"
	RideStatusCompleted     RideStatus = "completed"
	RideStatusRejected      RideStatus = "rejected"
)

// Terminal reports whether no further transitions are allowed from s.
func (s RideStatus) Terminal() bool {
	return s == RideStatusCompleted || s == RideStatusRejected
}

// TripKind represents the kind of trip requested.
type TripKind string

const (
	TripKindOneWay TripKind = "one-way"
	TripKindReturn TripKind = "return-trip"
)

// GeoPoint is a location with optional human-readable address text.
type GeoPoint struct {
	Lat     float64
	Lng     float64
	Address string
}

// ApprovalRecord captures a single approver's decision on a ride.
type ApprovalRecord struct {
	Approved   bool
	ApprovedAt time.Time
	ApprovedBy string
}

// Approval holds the two-tier approval state of a ride.
type Approval struct {
	ProjectManager ApprovalRecord
	Admin          ApprovalRecord
}

// Ride represents a requested trip in the system.
type Ride struct {
	ID              string
	RequesterID     string
	DriverID        string
	VehicleID       string
	Kind            TripKind
	Status          RideStatus
	DistanceKm      float64 // already doubled for return trips
	Start           GeoPoint
	End             GeoPoint
	StartMileage    float64
	EndMileage      float64
	TotalMileage    float64
	Approval        Approval
	RejectionReason string
	CreatedAt       time.Time
	AssignedAt      time.Time
	StartedAt       time.Time
	CompletedAt     time.Time
}
