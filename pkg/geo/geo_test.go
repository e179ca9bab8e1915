package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var bogotaCenter = Point{Latitude: 4.711, Longitude: -74.0721}

func TestDistanceSamePointIsZero(t *testing.T) {
	assert.Equal(t, 0.0, DistanceKm(bogotaCenter, bogotaCenter))
}

func TestDistanceTenKilometresNorth(t *testing.T) {
	// 10 km along a meridian is 10/R radians of latitude.
	north := Point{
		Latitude:  bogotaCenter.Latitude + (10/EarthRadiusKm)*180/math.Pi,
		Longitude: bogotaCenter.Longitude,
	}

	assert.InDelta(t, 10.0, DistanceKm(bogotaCenter, north), 0.01)
	assert.InDelta(t, DistanceKm(bogotaCenter, north), DistanceKm(north, bogotaCenter), 1e-9)
}

func TestDistanceKnownCities(t *testing.T) {
	medellin := Point{Latitude: 6.2442, Longitude: -75.5812}

	// Bogotá to Medellín is roughly 240 km as the crow flies.
	assert.InDelta(t, 240, DistanceKm(bogotaCenter, medellin), 10)
}

func TestDistanceAntipodalDoesNotNaN(t *testing.T) {
	a := Point{Latitude: 0, Longitude: 0}
	b := Point{Latitude: 0, Longitude: 180}

	d := DistanceKm(a, b)
	assert.False(t, math.IsNaN(d))
	assert.InDelta(t, math.Pi*EarthRadiusKm, d, 1e-6)
}

func TestDistanceNearlyIdenticalPoints(t *testing.T) {
	b := Point{Latitude: bogotaCenter.Latitude + 1e-12, Longitude: bogotaCenter.Longitude}

	d := DistanceKm(bogotaCenter, b)
	assert.False(t, math.IsNaN(d))
	assert.Less(t, d, 0.001)
}

func TestRoundKm(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{9.94, 9.9},
		{9.96, 10},
		{12.349, 12.3},
		{0.06, 0.1},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, RoundKm(tc.in), 1e-9, "RoundKm(%v)", tc.in)
	}
}

func TestPointValid(t *testing.T) {
	assert.True(t, bogotaCenter.Valid())
	assert.True(t, Point{Latitude: -90, Longitude: 180}.Valid())
	assert.False(t, Point{Latitude: 91, Longitude: 0}.Valid())
	assert.False(t, Point{Latitude: 0, Longitude: -180.5}.Valid())
}
