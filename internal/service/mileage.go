package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"fleetride/internal/domain"
	"fleetride/internal/repository"
)

// MileageService maintains the per-vehicle monthly mileage ledger and
// the daily transport runs that feed it alongside user rides.
type MileageService struct {
	mileageRepo   repository.MileageRepository
	dailyRideRepo repository.DailyRideRepository
	vehicleRepo   repository.VehicleRepository
	userRepo      repository.UserRepository

	// sites are the destinations a daily transport run may target.
	sites []string
}

// NewMileageService creates a new MileageService.
func NewMileageService(
	mileageRepo repository.MileageRepository,
	dailyRideRepo repository.DailyRideRepository,
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	sites []string,
) *MileageService {
	return &MileageService{
		mileageRepo:   mileageRepo,
		dailyRideRepo: dailyRideRepo,
		vehicleRepo:   vehicleRepo,
		userRepo:      userRepo,
		sites:         sites,
	}
}

// RecordContribution appends a mileage delta to the vehicle's record for
// the calendar month of when. Callers must invoke it exactly once per
// completed source; the ledger itself does not deduplicate.
func (s *MileageService) RecordContribution(ctx context.Context, vehicleID string, mileage float64, sourceID string, sourceType domain.ContributionSource, when time.Time) error {
	if vehicleID == "" {
		return ErrInvalidVehicleID
	}
	if mileage <= 0 {
		return ErrInvalidEndMileage
	}
	if when.IsZero() {
		when = time.Now()
	}

	contribution := domain.Contribution{
		ID:         uuid.New().String(),
		SourceID:   sourceID,
		SourceType: sourceType,
		Mileage:    mileage,
		Date:       when,
	}

	return s.mileageRepo.Append(ctx, vehicleID, int(when.Month()), when.Year(), contribution)
}

// CurrentMonthMileage retrieves the vehicle's record for the current
// calendar month, or nil if the vehicle has not driven this month.
func (s *MileageService) CurrentMonthMileage(ctx context.Context, vehicleID string) (*domain.MonthlyMileage, error) {
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}

	now := time.Now()
	record, err := s.mileageRepo.Get(ctx, vehicleID, int(now.Month()), now.Year())
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// History retrieves up to limit monthly records for a vehicle, newest
// month first. A non-positive limit defaults to twelve months.
func (s *MileageService) History(ctx context.Context, vehicleID string, limit int) ([]*domain.MonthlyMileage, error) {
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}
	if limit <= 0 {
		limit = 12
	}
	return s.mileageRepo.History(ctx, vehicleID, limit)
}

// VehicleMileageSummary is one vehicle's row in the monthly summary.
type VehicleMileageSummary struct {
	VehicleID      string    `json:"vehicle_id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Online         bool      `json:"online"`
	MonthlyMileage float64   `json:"monthly_mileage"`
	RideCount      int       `json:"ride_count"`
	UserRideCount  int       `json:"user_ride_count"`
	DailyRideCount int       `json:"daily_ride_count"`
	LastUpdated    time.Time `json:"last_updated"`
}

// MonthlySummary is the fleet-wide mileage summary for one month.
type MonthlySummary struct {
	Vehicles          []VehicleMileageSummary `json:"vehicles"`
	Month             int                     `json:"month"`
	Year              int                     `json:"year"`
	TotalVehicles     int                     `json:"total_vehicles"`
	TotalMileage      float64                 `json:"total_mileage"`
	ActiveVehicles    int                     `json:"active_vehicles"`
	AvailableVehicles int                     `json:"available_vehicles"`
}

// Summary builds the fleet-wide mileage summary for the given month.
// Zero month/year default to the current calendar month.
func (s *MileageService) Summary(ctx context.Context, month, year int) (*MonthlySummary, error) {
	now := time.Now()
	if month < 1 || month > 12 {
		month = int(now.Month())
	}
	if year <= 0 {
		year = now.Year()
	}

	vehicles, err := s.vehicleRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.mileageRepo.ForMonth(ctx, month, year)
	if err != nil {
		return nil, err
	}

	byVehicle := make(map[string]*domain.MonthlyMileage, len(records))
	for _, record := range records {
		byVehicle[record.VehicleID] = record
	}

	summary := &MonthlySummary{
		Vehicles:      make([]VehicleMileageSummary, 0, len(vehicles)),
		Month:         month,
		Year:          year,
		TotalVehicles: len(vehicles),
	}

	for _, vehicle := range vehicles {
		row := VehicleMileageSummary{
			VehicleID: vehicle.ID,
			Name:      vehicle.Name,
			Type:      vehicle.Type,
			Online:    vehicle.Online == domain.OnlineStatusOnline,
		}

		if record, ok := byVehicle[vehicle.ID]; ok {
			row.MonthlyMileage = record.TotalMileage
			row.RideCount = len(record.Contributions)
			for _, c := range record.Contributions {
				switch c.SourceType {
				case domain.ContributionSourceUserRide:
					row.UserRideCount++
				case domain.ContributionSourceDailyRide:
					row.DailyRideCount++
				}
			}
			row.LastUpdated = record.UpdatedAt
		}

		summary.TotalMileage += row.MonthlyMileage
		if row.MonthlyMileage > 0 {
			summary.ActiveVehicles++
		}
		if vehicle.LogicallyAvailable() && row.Online {
			summary.AvailableVehicles++
		}

		summary.Vehicles = append(summary.Vehicles, row)
	}

	summary.TotalMileage = math.Round(summary.TotalMileage*10) / 10

	return summary, nil
}

// StartDailyRideRequest contains the parameters for starting a daily
// transport run.
type StartDailyRideRequest struct {
	DriverID     string
	VehicleID    string
	Destination  string
	StartMileage float64
}

// StartDailyRide opens a daily transport run for a driver and vehicle.
func (s *MileageService) StartDailyRide(ctx context.Context, req StartDailyRideRequest) (*domain.DailyRide, error) {
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}
	if req.VehicleID == "" {
		return nil, ErrInvalidVehicleID
	}
	if req.StartMileage <= 0 {
		return nil, ErrInvalidStartMileage
	}
	if !s.validSite(req.Destination) {
		return nil, ErrInvalidDestination
	}

	driver, err := s.userRepo.GetByID(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}
	if driver.Role != domain.RoleDriver {
		return nil, ErrDriverRoleRequired
	}

	if _, err := s.vehicleRepo.GetByID(ctx, req.VehicleID); err != nil {
		return nil, err
	}

	active, err := s.dailyRideRepo.GetActiveByDriverID(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrDriverHasActiveDailyRide
	}

	now := time.Now()
	ride := &domain.DailyRide{
		ID:           uuid.New().String(),
		DriverID:     req.DriverID,
		VehicleID:    req.VehicleID,
		Destination:  req.Destination,
		StartMileage: req.StartMileage,
		Status:       domain.DailyRideStatusInProgress,
		StartedAt:    now,
		CreatedAt:    now,
	}

	if err := s.dailyRideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	return ride, nil
}

// CompleteDailyRide closes a daily transport run and feeds the ledger
// with the daily-ride source tag.
func (s *MileageService) CompleteDailyRide(ctx context.Context, id string, endMileage float64) (*domain.DailyRide, error) {
	if id == "" {
		return nil, ErrInvalidRideID
	}
	if endMileage <= 0 {
		return nil, ErrInvalidEndMileage
	}

	ride, err := s.dailyRideRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if ride.Status == domain.DailyRideStatusCompleted {
		return nil, ErrDailyRideAlreadyCompleted
	}
	if endMileage <= ride.StartMileage {
		return nil, ErrEndBeforeStartMileage
	}

	ride.Status = domain.DailyRideStatusCompleted
	ride.EndMileage = endMileage
	ride.TotalMileage = math.Round((endMileage-ride.StartMileage)*100) / 100
	ride.CompletedAt = time.Now()

	if err := s.dailyRideRepo.UpdateWithStatus(ctx, ride, domain.DailyRideStatusInProgress); err != nil {
		return nil, err
	}

	if ride.TotalMileage > 0 {
		if err := s.RecordContribution(ctx, ride.VehicleID, ride.TotalMileage,
			ride.ID, domain.ContributionSourceDailyRide, ride.CompletedAt); err != nil {
			return nil, err
		}
	}

	return ride, nil
}

func (s *MileageService) validSite(destination string) bool {
	for _, site := range s.sites {
		if site == destination {
			return true
		}
	}
	return false
}
