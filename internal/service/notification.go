package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"fleetride/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationRideRequested  NotificationType = "RIDE_REQUESTED"
	NotificationRideApproved   NotificationType = "RIDE_APPROVED"
	NotificationRideRejected   NotificationType = "RIDE_REJECTED"
	NotificationDriverAssigned NotificationType = "DRIVER_ASSIGNED"
	NotificationRideStarted    NotificationType = "RIDE_STARTED"
	NotificationRideCompleted  NotificationType = "RIDE_COMPLETED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService dispatches domain events to interested parties.
// Delivery (email templates, transport) lives outside the core; dispatch
// is best-effort and never affects the primary state change.
type NotificationService struct{}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyRideRequested tells the first-tier approver a ride needs review.
func (s *NotificationService) NotifyRideRequested(ctx context.Context, ride *domain.Ride) error {
	tier := "admin"
	if ride.Status == domain.RideStatusAwaitingPM {
		tier = "project manager"
	}
	return s.send(ctx, Notification{
		Type:        NotificationRideRequested,
		RecipientID: ride.RequesterID,
		Title:       "Ride Requested",
		Message:     fmt.Sprintf("Ride request submitted (%.1f km, %s), awaiting %s approval", ride.DistanceKm, ride.Kind, tier),
		Data: map[string]interface{}{
			"ride_id":     ride.ID,
			"status":      ride.Status,
			"distance_km": ride.DistanceKm,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRideApproved tells the requester an approval stage passed.
func (s *NotificationService) NotifyRideApproved(ctx context.Context, ride *domain.Ride, approverID string) error {
	return s.send(ctx, Notification{
		Type:        NotificationRideApproved,
		RecipientID: ride.RequesterID,
		Title:       "Ride Approved",
		Message:     fmt.Sprintf("Your ride has been approved (now %s)", ride.Status),
		Data: map[string]interface{}{
			"ride_id":     ride.ID,
			"status":      ride.Status,
			"approved_by": approverID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRideRejected tells the requester the ride was rejected.
func (s *NotificationService) NotifyRideRejected(ctx context.Context, ride *domain.Ride, approverID, reason string) error {
	message := "Your ride request has been rejected"
	if reason != "" {
		message = fmt.Sprintf("Your ride request has been rejected: %s", reason)
	}
	return s.send(ctx, Notification{
		Type:        NotificationRideRejected,
		RecipientID: ride.RequesterID,
		Title:       "Ride Rejected",
		Message:     message,
		Data: map[string]interface{}{
			"ride_id":     ride.ID,
			"rejected_by": approverID,
			"reason":      reason,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyDriverAssigned tells the requester and the driver about an
// assignment.
func (s *NotificationService) NotifyDriverAssigned(ctx context.Context, ride *domain.Ride, driver *domain.User, vehicle *domain.Vehicle) error {
	requesterNote := Notification{
		Type:        NotificationDriverAssigned,
		RecipientID: ride.RequesterID,
		Title:       "Driver Assigned",
		Message:     fmt.Sprintf("Driver %s with vehicle %s has been assigned to your ride", driver.Name, vehicle.Name),
		Data: map[string]interface{}{
			"ride_id":    ride.ID,
			"driver_id":  driver.ID,
			"vehicle_id": vehicle.ID,
		},
		CreatedAt: time.Now(),
	}
	if err := s.send(ctx, requesterNote); err != nil {
		return err
	}

	driverNote := Notification{
		Type:        NotificationDriverAssigned,
		RecipientID: driver.ID,
		Title:       "New Ride Assignment",
		Message:     fmt.Sprintf("You have been assigned ride %s from %s to %s", ride.ID, ride.Start.Address, ride.End.Address),
		Data: map[string]interface{}{
			"ride_id":    ride.ID,
			"vehicle_id": vehicle.ID,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, driverNote)
}

// NotifyRideStarted tells the requester the trip is underway.
func (s *NotificationService) NotifyRideStarted(ctx context.Context, ride *domain.Ride) error {
	return s.send(ctx, Notification{
		Type:        NotificationRideStarted,
		RecipientID: ride.RequesterID,
		Title:       "Ride Started",
		Message:     "Your ride has started",
		Data: map[string]interface{}{
			"ride_id":       ride.ID,
			"started_at":    ride.StartedAt,
			"start_mileage": ride.StartMileage,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRideCompleted tells the requester the trip has finished.
func (s *NotificationService) NotifyRideCompleted(ctx context.Context, ride *domain.Ride) error {
	return s.send(ctx, Notification{
		Type:        NotificationRideCompleted,
		RecipientID: ride.RequesterID,
		Title:       "Ride Completed",
		Message:     fmt.Sprintf("Your ride has been completed (%.1f km driven)", ride.TotalMileage),
		Data: map[string]interface{}{
			"ride_id":       ride.ID,
			"total_mileage": ride.TotalMileage,
			"completed_at":  ride.CompletedAt,
		},
		CreatedAt: time.Now(),
	})
}

// send delivers a notification. Delivery is handed to the external
// notification sink; here it is logged.
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)
	return nil
}
