package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleetride/internal/domain"
	"fleetride/internal/middleware"
	"fleetride/internal/service"
)

// RideHandler handles HTTP requests for the ride lifecycle.
type RideHandler struct {
	rideService       *service.RideService
	assignmentService *service.AssignmentService
	lifecycleService  *service.LifecycleService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(
	rideService *service.RideService,
	assignmentService *service.AssignmentService,
	lifecycleService *service.LifecycleService,
) *RideHandler {
	return &RideHandler{
		rideService:       rideService,
		assignmentService: assignmentService,
		lifecycleService:  lifecycleService,
	}
}

// CreateRideRequest is the HTTP request body for requesting a ride.
type CreateRideRequest struct {
	StartLat     float64 `json:"start_lat"`
	StartLng     float64 `json:"start_lng"`
	StartAddress string  `json:"start_address,omitempty"`
	EndLat       float64 `json:"end_lat"`
	EndLng       float64 `json:"end_lng"`
	EndAddress   string  `json:"end_address,omitempty"`
	Kind         string  `json:"kind,omitempty"` // one-way (default) or return-trip
	DistanceKm   float64 `json:"distance_km"`    // one-way distance
}

// AssignRequest is the HTTP request body for binding a driver and
// vehicle to an approved ride.
type AssignRequest struct {
	DriverID  string `json:"driver_id"`
	VehicleID string `json:"vehicle_id"`
}

// RejectRequest is the HTTP request body for rejecting a ride.
type RejectRequest struct {
	Reason string `json:"reason,omitempty"`
}

// StartRideRequest is the HTTP request body for starting an assigned ride.
type StartRideRequest struct {
	StartMileage float64 `json:"start_mileage"`
}

// CompleteRideRequest is the HTTP request body for completing a ride.
type CompleteRideRequest struct {
	EndMileage float64 `json:"end_mileage"`
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID              string     `json:"id"`
	RequesterID     string     `json:"requester_id"`
	DriverID        string     `json:"driver_id,omitempty"`
	VehicleID       string     `json:"vehicle_id,omitempty"`
	Kind            string     `json:"kind"`
	Status          string     `json:"status"`
	DistanceKm      float64    `json:"distance_km"`
	StartLat        float64    `json:"start_lat"`
	StartLng        float64    `json:"start_lng"`
	StartAddress    string     `json:"start_address,omitempty"`
	EndLat          float64    `json:"end_lat"`
	EndLng          float64    `json:"end_lng"`
	EndAddress      string     `json:"end_address,omitempty"`
	StartMileage    float64    `json:"start_mileage,omitempty"`
	EndMileage      float64    `json:"end_mileage,omitempty"`
	TotalMileage    float64    `json:"total_mileage,omitempty"`
	PMApproved      bool       `json:"pm_approved"`
	AdminApproved   bool       `json:"admin_approved"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	AssignedAt      *time.Time `json:"assigned_at,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

func toRideResponse(ride *domain.Ride) RideResponse {
	resp := RideResponse{
		ID:              ride.ID,
		RequesterID:     ride.RequesterID,
		DriverID:        ride.DriverID,
		VehicleID:       ride.VehicleID,
		Kind:            string(ride.Kind),
		Status:          string(ride.Status),
		DistanceKm:      ride.DistanceKm,
		StartLat:        ride.Start.Lat,
		StartLng:        ride.Start.Lng,
		StartAddress:    ride.Start.Address,
		EndLat:          ride.End.Lat,
		EndLng:          ride.End.Lng,
		EndAddress:      ride.End.Address,
		StartMileage:    ride.StartMileage,
		EndMileage:      ride.EndMileage,
		TotalMileage:    ride.TotalMileage,
		PMApproved:      ride.Approval.ProjectManager.Approved,
		AdminApproved:   ride.Approval.Admin.Approved,
		RejectionReason: ride.RejectionReason,
		CreatedAt:       ride.CreatedAt,
	}
	if !ride.AssignedAt.IsZero() {
		t := ride.AssignedAt
		resp.AssignedAt = &t
	}
	if !ride.StartedAt.IsZero() {
		t := ride.StartedAt
		resp.StartedAt = &t
	}
	if !ride.CompletedAt.IsZero() {
		t := ride.CompletedAt
		resp.CompletedAt = &t
	}
	return resp
}

func callerFrom(c *gin.Context) service.Caller {
	return service.Caller{
		ID:   middleware.CallerID(c),
		Role: domain.Role(middleware.CallerRole(c)),
	}
}

// Create handles POST /v1/rides
func (h *RideHandler) Create(c *gin.Context) {
	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.CreateRide(c.Request.Context(), service.CreateRideRequest{
		RequesterID: middleware.CallerID(c),
		Start:       domain.GeoPoint{Lat: req.StartLat, Lng: req.StartLng, Address: req.StartAddress},
		End:         domain.GeoPoint{Lat: req.EndLat, Lng: req.EndLng, Address: req.EndAddress},
		Kind:        domain.TripKind(req.Kind),
		DistanceKm:  req.DistanceKm,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRideResponse(ride))
}

// Get handles GET /v1/rides/:id
func (h *RideHandler) Get(c *gin.Context) {
	ride, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideResponse(ride))
}

// GetAll handles GET /v1/rides
func (h *RideHandler) GetAll(c *gin.Context) {
	rides, err := h.rideService.GetAllRides(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RideResponse, 0, len(rides))
	for _, ride := range rides {
		response = append(response, toRideResponse(ride))
	}

	c.JSON(http.StatusOK, response)
}

// Approve handles POST /v1/rides/:id/approve
func (h *RideHandler) Approve(c *gin.Context) {
	ride, err := h.rideService.Approve(c.Request.Context(), service.ApprovalRequest{
		RideID: c.Param("id"),
		Caller: callerFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideResponse(ride))
}

// Reject handles POST /v1/rides/:id/reject
func (h *RideHandler) Reject(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.Reject(c.Request.Context(), service.ApprovalRequest{
		RideID: c.Param("id"),
		Caller: callerFrom(c),
		Reason: req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideResponse(ride))
}

// Assign handles POST /v1/rides/:id/assign
func (h *RideHandler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.assignmentService.Assign(c.Request.Context(), service.AssignRequest{
		RideID:    c.Param("id"),
		DriverID:  req.DriverID,
		VehicleID: req.VehicleID,
		Caller:    callerFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideResponse(ride))
}

// Start handles POST /v1/rides/:id/start
func (h *RideHandler) Start(c *gin.Context) {
	var req StartRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.lifecycleService.Start(c.Request.Context(), service.StartRequest{
		RideID:       c.Param("id"),
		Caller:       callerFrom(c),
		StartMileage: req.StartMileage,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideResponse(ride))
}

// Complete handles POST /v1/rides/:id/complete
func (h *RideHandler) Complete(c *gin.Context) {
	var req CompleteRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.lifecycleService.Complete(c.Request.Context(), service.CompleteRequest{
		RideID:     c.Param("id"),
		EndMileage: req.EndMileage,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideResponse(ride))
}
