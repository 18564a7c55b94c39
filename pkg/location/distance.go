package location

import (
	"fmt"
	"math"
)

const earthRadiusMeters = 6371000

// Position is a device coordinate in decimal degrees.
type Position struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Valid reports whether the position lies within WGS84 bounds.
func (p Position) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}

func (p Position) String() string {
	return fmt.Sprintf("%.5f,%.5f", p.Latitude, p.Longitude)
}

// DistanceTo returns the great-circle distance in meters between two positions.
func (p Position) DistanceTo(other Position) float64 {
	return Haversine(p.Latitude, p.Longitude, other.Latitude, other.Longitude)
}

// Haversine calculates the distance in meters between two lat/lng points
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
