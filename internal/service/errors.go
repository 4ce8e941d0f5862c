package service

import "errors"

// Validation errors.
var (
	// ErrInvalidRequesterID is returned when the requester ID is empty.
	ErrInvalidRequesterID = errors.New("invalid requester id")

	// ErrInvalidRideID is returned when the ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidDriverID is returned when the driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidVehicleID is returned when the vehicle ID is empty.
	ErrInvalidVehicleID = errors.New("invalid vehicle id")

	// ErrInvalidApproverID is returned when the approver ID is empty.
	ErrInvalidApproverID = errors.New("invalid approver id")

	// ErrInvalidDistance is returned when the requested distance is not positive.
	ErrInvalidDistance = errors.New("distance must be positive")

	// ErrInvalidTripKind is returned when the trip kind is not recognised.
	ErrInvalidTripKind = errors.New("invalid trip kind")

	// ErrInvalidLocation is returned when location coordinates are invalid.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidStartMileage is returned when the start odometer reading
	// is missing or not positive.
	ErrInvalidStartMileage = errors.New("valid start mileage is required")

	// ErrInvalidEndMileage is returned when the end odometer reading is
	// missing or not positive.
	ErrInvalidEndMileage = errors.New("valid end mileage is required")

	// ErrEndBeforeStartMileage is returned when the end odometer reading
	// does not exceed the recorded start reading.
	ErrEndBeforeStartMileage = errors.New("end mileage must be greater than start mileage")

	// ErrInvalidDestination is returned when a daily ride destination is
	// not one of the configured sites.
	ErrInvalidDestination = errors.New("invalid destination site")
)

// Authorization errors.
var (
	// ErrAdminRequired is returned when a transition needs the admin role.
	ErrAdminRequired = errors.New("admin access required")

	// ErrApproverRoleRequired is returned when the caller's role cannot
	// approve or reject rides.
	ErrApproverRoleRequired = errors.New("approver role required")

	// ErrNotAssignedDriver is returned when a caller tries to act on a
	// ride assigned to a different driver.
	ErrNotAssignedDriver = errors.New("ride is not assigned to this driver")

	// ErrDriverRoleRequired is returned when the target user is not a driver.
	ErrDriverRoleRequired = errors.New("user is not a driver")
)

// State errors.
var (
	// ErrRideNotAwaitingPM is returned when a PM decision targets a ride
	// not awaiting project-manager approval.
	ErrRideNotAwaitingPM = errors.New("ride is not awaiting project manager approval")

	// ErrRideNotAwaitingAdmin is returned when an admin approval targets
	// a ride not awaiting admin approval.
	ErrRideNotAwaitingAdmin = errors.New("ride is not awaiting admin approval")

	// ErrRideNotApproved is returned when assignment targets a ride that
	// is not in the approved state.
	ErrRideNotApproved = errors.New("ride is not approved")

	// ErrRideNotAssigned is returned when a start targets a ride that is
	// not in the assigned state.
	ErrRideNotAssigned = errors.New("ride is not assigned")

	// ErrRideNotInProgress is returned when a completion targets a ride
	// that is not in progress.
	ErrRideNotInProgress = errors.New("ride is not in progress")

	// ErrRideAlreadyFinal is returned when a transition targets a
	// completed or rejected ride.
	ErrRideAlreadyFinal = errors.New("ride is already in a terminal state")

	// ErrDriverHasActiveDailyRide is returned when a driver starts a
	// daily ride while another is still in progress.
	ErrDriverHasActiveDailyRide = errors.New("driver already has an active daily ride")

	// ErrDailyRideAlreadyCompleted is returned when completing a daily
	// ride that has already been completed.
	ErrDailyRideAlreadyCompleted = errors.New("daily ride already completed")
)

// Resource availability errors.
var (
	// ErrDriverUnavailable is returned when the target driver is pending
	// or busy on another ride.
	ErrDriverUnavailable = errors.New("driver is not available")

	// ErrVehicleUnavailable is returned when the target vehicle is
	// assigned or busy on another ride.
	ErrVehicleUnavailable = errors.New("vehicle is not available")

	// ErrVehicleOffline is returned when the target vehicle's telemetry
	// link is offline or stale.
	ErrVehicleOffline = errors.New("vehicle is offline")
)
