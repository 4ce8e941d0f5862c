package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetride/internal/service"
)

// DriverHandler handles HTTP requests for driver availability.
type DriverHandler struct {
	registryService *service.RegistryService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(registryService *service.RegistryService) *DriverHandler {
	return &DriverHandler{registryService: registryService}
}

// Available handles GET /v1/drivers/available
func (h *DriverHandler) Available(c *gin.Context) {
	drivers, err := h.registryService.AvailableDrivers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"drivers": drivers,
		"count":   len(drivers),
	})
}
