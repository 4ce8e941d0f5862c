package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetride/internal/repository"
	"fleetride/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidRequesterID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidVehicleID),
		errors.Is(err, service.ErrInvalidApproverID),
		errors.Is(err, service.ErrInvalidDistance),
		errors.Is(err, service.ErrInvalidTripKind),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidStartMileage),
		errors.Is(err, service.ErrInvalidEndMileage),
		errors.Is(err, service.ErrEndBeforeStartMileage),
		errors.Is(err, service.ErrInvalidDestination):
		return http.StatusBadRequest

	// Forbidden - caller is not the required actor
	case errors.Is(err, service.ErrAdminRequired),
		errors.Is(err, service.ErrApproverRoleRequired),
		errors.Is(err, service.ErrNotAssignedDriver),
		errors.Is(err, service.ErrDriverRoleRequired):
		return http.StatusForbidden

	// Conflict - illegal state, unavailable resource, or a lost race
	case errors.Is(err, service.ErrRideNotAwaitingPM),
		errors.Is(err, service.ErrRideNotAwaitingAdmin),
		errors.Is(err, service.ErrRideNotApproved),
		errors.Is(err, service.ErrRideNotAssigned),
		errors.Is(err, service.ErrRideNotInProgress),
		errors.Is(err, service.ErrRideAlreadyFinal),
		errors.Is(err, service.ErrDriverHasActiveDailyRide),
		errors.Is(err, service.ErrDailyRideAlreadyCompleted),
		errors.Is(err, service.ErrDriverUnavailable),
		errors.Is(err, service.ErrVehicleUnavailable),
		errors.Is(err, service.ErrVehicleOffline),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
