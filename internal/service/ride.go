package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fleetride/internal/domain"
	"fleetride/internal/repository"
)

// RideService handles ride creation and the approval stages of the
// lifecycle.
type RideService struct {
	rideRepo            repository.RideRepository
	notificationService *NotificationService

	// pmThresholdKm is the distance at or above which a ride needs
	// project-manager approval before admin approval.
	pmThresholdKm float64
}

// NewRideService creates a new RideService.
func NewRideService(rideRepo repository.RideRepository, notificationService *NotificationService, pmThresholdKm float64) *RideService {
	return &RideService{
		rideRepo:            rideRepo,
		notificationService: notificationService,
		pmThresholdKm:       pmThresholdKm,
	}
}

// CreateRideRequest contains the parameters for creating a ride.
type CreateRideRequest struct {
	RequesterID string
	Start       domain.GeoPoint
	End         domain.GeoPoint
	Kind        domain.TripKind
	DistanceKm  float64 // one-way distance; doubled here for return trips
}

// CreateRide creates a new ride and routes it to the first approval
// stage based on its distance.
func (s *RideService) CreateRide(ctx context.Context, req CreateRideRequest) (*domain.Ride, error) {
	if err := s.validateCreateRequest(&req); err != nil {
		return nil, err
	}

	distance := req.DistanceKm
	if req.Kind == domain.TripKindReturn {
		distance *= 2
	}

	// Long rides need project-manager sign-off before the admin sees them.
	status := domain.RideStatusAwaitingAdmin
	if distance >= s.pmThresholdKm {
		status = domain.RideStatusAwaitingPM
	}

	ride := &domain.Ride{
		ID:          uuid.New().String(),
		RequesterID: req.RequesterID,
		Kind:        req.Kind,
		Status:      status,
		DistanceKm:  distance,
		Start:       req.Start,
		End:         req.End,
		CreatedAt:   time.Now(),
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		go func() {
			_ = s.notificationService.NotifyRideRequested(context.Background(), ride)
		}()
	}

	return ride, nil
}

// validateCreateRequest validates the create ride request and fills in
// the default trip kind.
func (s *RideService) validateCreateRequest(req *CreateRideRequest) error {
	if req.RequesterID == "" {
		return ErrInvalidRequesterID
	}

	if req.DistanceKm <= 0 {
		return ErrInvalidDistance
	}

	switch req.Kind {
	case domain.TripKindOneWay, domain.TripKindReturn:
	case "":
		req.Kind = domain.TripKindOneWay
	default:
		return ErrInvalidTripKind
	}

	for _, point := range []domain.GeoPoint{req.Start, req.End} {
		if point.Lat < -90 || point.Lat > 90 || point.Lng < -180 || point.Lng > 180 {
			return ErrInvalidLocation
		}
	}

	return nil
}

// ApprovalRequest contains the parameters for an approval decision.
type ApprovalRequest struct {
	RideID string
	Caller Caller
	Reason string // rejections only
}

// Approve advances a ride one approval stage: project managers move
// awaiting_pm rides to awaiting_admin, admins move awaiting_admin rides
// to approved.
func (s *RideService) Approve(ctx context.Context, req ApprovalRequest) (*domain.Ride, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if req.Caller.ID == "" {
		return nil, ErrInvalidApproverID
	}

	ride, err := s.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		return nil, err
	}

	var from domain.RideStatus
	record := domain.ApprovalRecord{Approved: true, ApprovedAt: time.Now(), ApprovedBy: req.Caller.ID}

	switch req.Caller.Role {
	case domain.RoleProjectManager:
		if ride.Status != domain.RideStatusAwaitingPM {
			return nil, ErrRideNotAwaitingPM
		}
		from = domain.RideStatusAwaitingPM
		ride.Status = domain.RideStatusAwaitingAdmin
		ride.Approval.ProjectManager = record
	case domain.RoleAdmin:
		if ride.Status != domain.RideStatusAwaitingAdmin {
			return nil, ErrRideNotAwaitingAdmin
		}
		from = domain.RideStatusAwaitingAdmin
		ride.Status = domain.RideStatusApproved
		ride.Approval.Admin = record
	default:
		return nil, ErrApproverRoleRequired
	}

	if err := s.rideRepo.UpdateWithStatus(ctx, ride, from); err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		approved := *ride
		go func() {
			_ = s.notificationService.NotifyRideApproved(context.Background(), &approved, req.Caller.ID)
		}()
	}

	return ride, nil
}

// Reject moves a ride to the rejected terminal state. Project managers
// may reject rides awaiting their approval; admins may reject rides
// awaiting admin approval and rides already approved but not yet
// assigned.
func (s *RideService) Reject(ctx context.Context, req ApprovalRequest) (*domain.Ride, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if req.Caller.ID == "" {
		return nil, ErrInvalidApproverID
	}

	ride, err := s.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		return nil, err
	}

	record := domain.ApprovalRecord{Approved: false, ApprovedAt: time.Now(), ApprovedBy: req.Caller.ID}

	var from domain.RideStatus
	switch req.Caller.Role {
	case domain.RoleProjectManager:
		if ride.Status != domain.RideStatusAwaitingPM {
			return nil, ErrRideNotAwaitingPM
		}
		from = ride.Status
		ride.Approval.ProjectManager = record
	case domain.RoleAdmin:
		if ride.Status != domain.RideStatusAwaitingAdmin && ride.Status != domain.RideStatusApproved {
			return nil, ErrRideNotAwaitingAdmin
		}
		from = ride.Status
		ride.Approval.Admin = record
	default:
		return nil, ErrApproverRoleRequired
	}

	ride.Status = domain.RideStatusRejected
	ride.RejectionReason = req.Reason

	if err := s.rideRepo.UpdateWithStatus(ctx, ride, from); err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		rejected := *ride
		go func() {
			_ = s.notificationService.NotifyRideRejected(context.Background(), &rejected, req.Caller.ID, req.Reason)
		}()
	}

	return ride, nil
}

// GetRide retrieves a ride by ID.
func (s *RideService) GetRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	return s.rideRepo.GetByID(ctx, rideID)
}

// GetAllRides retrieves recent rides.
func (s *RideService) GetAllRides(ctx context.Context) ([]*domain.Ride, error) {
	return s.rideRepo.GetAll(ctx)
}
