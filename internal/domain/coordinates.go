package domain

import (
	"math"

	"github.com/golang/geo/s2"
)

// Mean earth radius used for great-circle distances.
const EarthRadiusMeters = 6371000.0

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for GeoJSON compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Valid reports whether both components are finite and inside WGS84 bounds.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lon) || math.IsNaN(c.Lat) || math.IsInf(c.Lon, 0) || math.IsInf(c.Lat, 0) {
		return false
	}
	return c.Lon >= -180 && c.Lon <= 180 && c.Lat >= -90 && c.Lat <= 90
}

// DistanceMeters returns the great-circle distance between c and o.
func (c Coordinates) DistanceMeters(o Coordinates) float64 {
	p1 := s2.LatLngFromDegrees(c.Lat, c.Lon)
	p2 := s2.LatLngFromDegrees(o.Lat, o.Lon)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}
