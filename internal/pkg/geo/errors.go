package geo

import "errors"

var (
	ErrGeolocationUnavailable = errors.New("could not acquire location")
	ErrPermissionDenied       = errors.New("location permission denied")
	ErrTimeout                = errors.New("location request timed out")
	ErrInvalidCoordinate      = errors.New("invalid coordinate")
)
