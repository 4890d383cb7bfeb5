package geo

import (
	"math"

	"github.com/globalconnect/backend/internal/domain"
)

// earthRadiusKm is the mean Earth radius. The haversine formula below models
// the Earth as a sphere, which is accurate to about 0.5% against the
// ellipsoid; good enough for proximity filtering, not for surveying.
const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points.
func DistanceKm(a, b domain.Coordinate) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}
