// Package geo holds great-circle distance helpers used by provider search.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for all distance computations.
const EarthRadiusKm = 6371.0

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// DistanceKm returns the great-circle distance between a and b in kilometres.
//
// The cosine argument is clamped to [-1, 1]; floating-point overshoot near identical or
// antipodal points would otherwise push acos out of its domain and yield NaN.
func DistanceKm(a, b Point) float64 {
	if a == b {
		return 0
	}

	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLon := toRadians(b.Longitude) - toRadians(a.Longitude)

	cosine := math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLon) + math.Sin(lat1)*math.Sin(lat2)
	return EarthRadiusKm * math.Acos(clamp(cosine, -1, 1))
}

// RoundKm rounds a distance to one decimal kilometre for display.
func RoundKm(km float64) float64 {
	return math.Round(km*10) / 10
}

// Valid reports whether p lies within the latitude/longitude bounds.
func (p Point) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
