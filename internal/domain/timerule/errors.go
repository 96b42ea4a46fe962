package timerule

import "errors"

var (
	ErrInvalidClockTime       = errors.New("clock time must be HH:MM")
	ErrOvertimeWindowInverted = errors.New("overtime end must not be before overtime start")
	ErrNegativeRate           = errors.New("overtime rate must not be negative")
	ErrNegativeRadius         = errors.New("geofence radius must not be negative")
)
