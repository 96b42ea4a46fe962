package attendance

import (
	"errors"

	"github.com/senani-kuruwita/attendance-backend/internal/pkg/geo"
)

// Attendance domain errors
var (
	// Check-in errors
	ErrDuplicateCheckIn  = errors.New("already checked in today")
	ErrGeofenceViolation = errors.New("you are too far from the shop")
	ErrInvalidQRCode     = errors.New("invalid or expired QR code")
	ErrQRDisabled        = errors.New("QR check-in is not configured")

	// Location could not be read from the device
	ErrGeolocationUnavailable = geo.ErrGeolocationUnavailable

	// Check-out errors
	ErrNoOpenCheckIn         = errors.New("no open check-in found for today")
	ErrCheckOutBeforeCheckIn = errors.New("check-out cannot be before check-in")

	// General errors
	ErrUnknownUser = errors.New("unknown user")
)
