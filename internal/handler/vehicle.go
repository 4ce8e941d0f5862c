package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleetride/internal/domain"
	"fleetride/internal/redis"
	"fleetride/internal/repository"
	"fleetride/internal/service"
)

// VehicleHandler handles HTTP requests for vehicles, telemetry ingest
// and the mileage ledger views.
type VehicleHandler struct {
	registryService *service.RegistryService
	mileageService  *service.MileageService
	vehicleRepo     repository.VehicleRepository
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(
	registryService *service.RegistryService,
	mileageService *service.MileageService,
	vehicleRepo repository.VehicleRepository,
) *VehicleHandler {
	return &VehicleHandler{
		registryService: registryService,
		mileageService:  mileageService,
		vehicleRepo:     vehicleRepo,
	}
}

// RegisterVehicleRequest is the HTTP request body for registering a vehicle.
type RegisterVehicleRequest struct {
	TerminalID string `json:"terminal_id,omitempty"`
	Name       string `json:"name"`
	Type       string `json:"type"`
}

// TelemetryRequest is the HTTP request body for a telemetry snapshot.
type TelemetryRequest struct {
	Lat      float64    `json:"lat"`
	Lng      float64    `json:"lng"`
	SpeedKph float64    `json:"speed_kph"`
	Online   *bool      `json:"online,omitempty"` // defaults to true
	SeenAt   *time.Time `json:"seen_at,omitempty"`
}

// VehicleResponse is the HTTP representation of a vehicle.
type VehicleResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
	Online string `json:"online,omitempty"`
}

// Register handles POST /v1/vehicles
func (h *VehicleHandler) Register(c *gin.Context) {
	var req RegisterVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name is required"})
		return
	}

	id := req.TerminalID
	if id == "" {
		id = uuid.New().String()
	}

	vehicle := &domain.Vehicle{
		ID:     id,
		Name:   req.Name,
		Type:   req.Type,
		Status: domain.VehicleStatusAvailable,
	}

	if err := h.vehicleRepo.Create(c.Request.Context(), vehicle); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, VehicleResponse{
		ID:     vehicle.ID,
		Name:   vehicle.Name,
		Type:   vehicle.Type,
		Status: string(vehicle.Status),
	})
}

// Available handles GET /v1/vehicles/available
func (h *VehicleHandler) Available(c *gin.Context) {
	vehicles, err := h.registryService.AvailableVehicles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicles": vehicles,
		"count":    len(vehicles),
	})
}

// Telemetry handles POST /v1/vehicles/:id/telemetry
func (h *VehicleHandler) Telemetry(c *gin.Context) {
	var req TelemetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	online := true
	if req.Online != nil {
		online = *req.Online
	}

	snapshot := &redis.Snapshot{
		VehicleID: c.Param("id"),
		Lat:       req.Lat,
		Lng:       req.Lng,
		SpeedKph:  req.SpeedKph,
		Online:    online,
	}
	if req.SeenAt != nil {
		snapshot.SeenAt = *req.SeenAt
	}

	if err := h.registryService.UpdateTelemetry(c.Request.Context(), snapshot); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MileageSummary handles GET /v1/vehicles/mileage-summary
func (h *VehicleHandler) MileageSummary(c *gin.Context) {
	month, _ := strconv.Atoi(c.Query("month"))
	year, _ := strconv.Atoi(c.Query("year"))

	summary, err := h.mileageService.Summary(c.Request.Context(), month, year)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ContributionResponse is the HTTP representation of one ledger entry.
type ContributionResponse struct {
	SourceID   string    `json:"source_id"`
	SourceType string    `json:"source_type"`
	Mileage    float64   `json:"mileage"`
	Date       time.Time `json:"date"`
}

// MonthlyMileageResponse is the HTTP representation of one month's record.
type MonthlyMileageResponse struct {
	Month         int                    `json:"month"`
	Year          int                    `json:"year"`
	TotalMileage  float64                `json:"total_mileage"`
	Contributions []ContributionResponse `json:"contributions"`
}

func toMonthlyMileageResponse(record *domain.MonthlyMileage) MonthlyMileageResponse {
	contributions := make([]ContributionResponse, 0, len(record.Contributions))
	for _, contribution := range record.Contributions {
		contributions = append(contributions, ContributionResponse{
			SourceID:   contribution.SourceID,
			SourceType: string(contribution.SourceType),
			Mileage:    contribution.Mileage,
			Date:       contribution.Date,
		})
	}
	return MonthlyMileageResponse{
		Month:         record.Month,
		Year:          record.Year,
		TotalMileage:  record.TotalMileage,
		Contributions: contributions,
	}
}

// MileageHistory handles GET /v1/vehicles/:id/mileage-history
func (h *VehicleHandler) MileageHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	history, err := h.mileageService.History(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	months := make([]MonthlyMileageResponse, 0, len(history))
	for _, record := range history {
		months = append(months, toMonthlyMileageResponse(record))
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicle_id": c.Param("id"),
		"months":     months,
	})
}
