package domain

import "time"

// DailyRideStatus represents the status of a daily transport run.
type DailyRideStatus string

const (
	DailyRideStatusInProgress DailyRideStatus = "in_progress"
	DailyRideStatusCompleted  DailyRideStatus = "completed"
)

// DailyRide is a recurring site transport run executed by a driver
// outside the request/approval flow. Completed runs feed the mileage
// ledger with the daily-ride source tag.
type DailyRide struct {
	ID           string
	DriverID     string
	VehicleID    string
	Destination  string
	StartMileage float64
	EndMileage   float64
	TotalMileage float64
	Status       DailyRideStatus
	StartedAt    time.Time
	CompletedAt  time.Time
	CreatedAt    time.Time
}
