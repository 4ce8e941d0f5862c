package domain

import "time"

// ContributionSource tags where a mileage contribution came from.
type ContributionSource string

const (
	ContributionSourceUserRide  ContributionSource = "user-ride"
	ContributionSourceDailyRide ContributionSource = "daily-ride"
)

// Contribution is a single distance delta attributed to one completed
// ride or daily transport run.
type Contribution struct {
	ID         string
	SourceID   string
	SourceType ContributionSource
	Mileage    float64
	Date       time.Time
}

// MonthlyMileage is the per-vehicle, per-calendar-month mileage record.
// Exactly one record exists per (VehicleID, Month, Year).
type MonthlyMileage struct {
	ID            string
	VehicleID     string
	Month         int // 1-12
	Year          int
	TotalMileage  float64
	Contributions []Contribution
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
