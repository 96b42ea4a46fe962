package geo

import (
	"fmt"
	"math"
)

const earthRadiusMeters = 6371000

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Validate rejects NaN and out-of-range coordinates.
func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, p.Latitude)
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, p.Longitude)
	}
	return nil
}

// DistanceMeters returns the haversine great-circle distance between p1 and p2.
// NaN inputs yield NaN.
func DistanceMeters(p1, p2 Point) float64 {
	dLat := (p2.Latitude - p1.Latitude) * (math.Pi / 180.0)
	dLon := (p2.Longitude - p1.Longitude) * (math.Pi / 180.0)

	lat1Rad := p1.Latitude * (math.Pi / 180.0)
	lat2Rad := p2.Latitude * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// IsWithinGeofence reports whether point lies within radiusMeters of center.
// A NaN distance is never within range.
func IsWithinGeofence(point, center Point, radiusMeters float64) bool {
	d := DistanceMeters(point, center)
	if math.IsNaN(d) {
		return false
	}
	return d <= radiusMeters
}
