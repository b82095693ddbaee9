package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/letsgo-app/go-place-suggestions/internal/types"
)

func TestDistanceKm_Zero(t *testing.T) {
	p := types.Coordinate{Lat: 24.7, Lng: 46.6}
	assert.Equal(t, 0.0, DistanceKm(p, p))
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := types.Coordinate{Lat: 38.7223, Lng: -9.1393}  // Lisbon
	b := types.Coordinate{Lat: 41.1579, Lng: -8.6291}  // Porto
	assert.Equal(t, DistanceKm(a, b), DistanceKm(b, a))
	assert.Greater(t, DistanceKm(a, b), 0.0)
}

func TestDistanceKm_KnownPair(t *testing.T) {
	// Lisbon -> Porto is roughly 274 km great-circle.
	a := types.Coordinate{Lat: 38.7223, Lng: -9.1393}
	b := types.Coordinate{Lat: 41.1579, Lng: -8.6291}
	assert.InDelta(t, 274, DistanceKm(a, b), 5)
}

func TestDistanceKm_ShortHop(t *testing.T) {
	// 1.502 km great-circle, so the one-decimal rounding used by the
	// ranking backfill yields 1.5.
	user := types.Coordinate{Lat: 24.7, Lng: 46.6}
	place := types.Coordinate{Lat: 24.71, Lng: 46.61}
	assert.Equal(t, 1.5, RoundKm1(DistanceKm(user, place)))
}

func TestRoundKm1(t *testing.T) {
	assert.Equal(t, 1.4, RoundKm1(1.44))
	assert.Equal(t, 1.5, RoundKm1(1.45))
	assert.Equal(t, 0.0, RoundKm1(0.04))
}
