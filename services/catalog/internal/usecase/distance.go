package usecase

import (
	"fmt"
	"math"

	"hookr/services/catalog/internal/entity"
)

const earthRadiusMiles = 3958.8

const unknownDistance = "Unknown"

func haversineMiles(a, b entity.Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}

// distanceFrom reports ok=false when either side has no coordinates.
func distanceFrom(origin *entity.Point, m *entity.Model) (float64, bool) {
	if origin == nil || m.Latitude == nil || m.Longitude == nil {
		return 0, false
	}
	return haversineMiles(*origin, entity.Point{Lat: *m.Latitude, Lng: *m.Longitude}), true
}

func distanceLabel(miles float64, ok bool) string {
	if !ok {
		return unknownDistance
	}
	return fmt.Sprintf("%.1f miles", miles)
}
