package roster

import "math"

// =============================================================================
// GEOFENCE - Advisory radius check around the institution
// =============================================================================

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lng float64
}

// GeofenceCheck annotates a check-in/out attempt. Advisory only: the
// caller decides whether to enforce anything; this core never blocks an
// out-of-zone check-in.
type GeofenceCheck struct {
	DistanceMeters float64
	RadiusMeters   float64
	InZone         bool
}

const earthRadiusMeters = 6371000

// DistanceMeters computes the great-circle distance via the haversine
// formula.
func DistanceMeters(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// ValidateGeofence reports whether the candidate coordinate lies within
// radiusMeters of the reference institution coordinate.
func ValidateGeofence(reference, candidate Coordinate, radiusMeters float64) GeofenceCheck {
	d := DistanceMeters(reference, candidate)
	return GeofenceCheck{
		DistanceMeters: d,
		RadiusMeters:   radiusMeters,
		InZone:         d <= radiusMeters,
	}
}
