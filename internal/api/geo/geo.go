// Package geo provides great-circle distance helpers used by the ranking
// pipeline and the suggestion services.
package geo

import (
	"math"

	"github.com/umahmood/haversine"

	"github.com/letsgo-app/go-place-suggestions/internal/types"
)

// DistanceKm returns the great-circle distance between a and b in
// kilometers (haversine, mean Earth radius 6371 km). The result is exact;
// rounding is left to the caller.
func DistanceKm(a, b types.Coordinate) float64 {
	if a == b {
		return 0
	}
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Lat, Lon: a.Lng},
		haversine.Coord{Lat: b.Lat, Lon: b.Lng},
	)
	return km
}

// RoundKm1 rounds a distance to one decimal place for presentation.
func RoundKm1(km float64) float64 {
	return math.Round(km*10) / 10
}
