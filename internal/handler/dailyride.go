package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleetride/internal/domain"
	"fleetride/internal/middleware"
	"fleetride/internal/service"
)

// DailyRideHandler handles HTTP requests for daily transport runs.
type DailyRideHandler struct {
	mileageService *service.MileageService
}

// NewDailyRideHandler creates a new DailyRideHandler.
func NewDailyRideHandler(mileageService *service.MileageService) *DailyRideHandler {
	return &DailyRideHandler{mileageService: mileageService}
}

// StartDailyRideRequest is the HTTP request body for opening a daily run.
type StartDailyRideRequest struct {
	VehicleID    string  `json:"vehicle_id"`
	Destination  string  `json:"destination"`
	StartMileage float64 `json:"start_mileage"`
}

// CompleteDailyRideRequest is the HTTP request body for closing a daily run.
type CompleteDailyRideRequest struct {
	EndMileage float64 `json:"end_mileage"`
}

// DailyRideResponse is the HTTP representation of a daily run.
type DailyRideResponse struct {
	ID           string     `json:"id"`
	DriverID     string     `json:"driver_id"`
	VehicleID    string     `json:"vehicle_id"`
	Destination  string     `json:"destination"`
	StartMileage float64    `json:"start_mileage"`
	EndMileage   float64    `json:"end_mileage,omitempty"`
	TotalMileage float64    `json:"total_mileage,omitempty"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func toDailyRideResponse(ride *domain.DailyRide) DailyRideResponse {
	resp := DailyRideResponse{
		ID:           ride.ID,
		DriverID:     ride.DriverID,
		VehicleID:    ride.VehicleID,
		Destination:  ride.Destination,
		StartMileage: ride.StartMileage,
		EndMileage:   ride.EndMileage,
		TotalMileage: ride.TotalMileage,
		Status:       string(ride.Status),
		StartedAt:    ride.StartedAt,
	}
	if !ride.CompletedAt.IsZero() {
		t := ride.CompletedAt
		resp.CompletedAt = &t
	}
	return resp
}

// Start handles POST /v1/daily-rides
func (h *DailyRideHandler) Start(c *gin.Context) {
	var req StartDailyRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.mileageService.StartDailyRide(c.Request.Context(), service.StartDailyRideRequest{
		DriverID:     middleware.CallerID(c),
		VehicleID:    req.VehicleID,
		Destination:  req.Destination,
		StartMileage: req.StartMileage,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toDailyRideResponse(ride))
}

// Complete handles POST /v1/daily-rides/:id/complete
func (h *DailyRideHandler) Complete(c *gin.Context) {
	var req CompleteDailyRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.mileageService.CompleteDailyRide(c.Request.Context(), c.Param("id"), req.EndMileage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDailyRideResponse(ride))
}
