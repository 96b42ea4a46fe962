package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/senani-kuruwita/attendance-backend/internal/domain/attendance"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/auth"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/employee"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/notification"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, auth.ErrInvalidCredentials.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrUsernameExists):
		Conflict(w, "Username already taken")
	case errors.Is(err, employee.ErrAdminRemovalForbidden):
		Forbidden(w, "Administrator accounts cannot be removed")
	case errors.Is(err, employee.ErrNegativeDailyPay), errors.Is(err, employee.ErrInvalidRole):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrDuplicateCheckIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrNoOpenCheckIn):
		Conflict(w, "No open check-in found for today")
	case errors.Is(err, attendance.ErrGeofenceViolation):
		UnprocessableEntity(w, err.Error())
	case errors.Is(err, attendance.ErrGeolocationUnavailable):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrInvalidQRCode):
		UnprocessableEntity(w, "Invalid or expired QR code")
	case errors.Is(err, attendance.ErrQRDisabled):
		BadRequest(w, "QR check-in is not configured", nil)
	case errors.Is(err, attendance.ErrCheckOutBeforeCheckIn):
		BadRequest(w, "Check-out cannot be before check-in", nil)
	case errors.Is(err, attendance.ErrUnknownUser):
		NotFound(w, "Unknown user")

	// Notification errors
	case errors.Is(err, notification.ErrQueueFull), errors.Is(err, notification.ErrStopped):
		ServiceUnavailable(w, "Notification could not be queued, try again later")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
