package domain

import "math"

// Mean Earth radius in kilometers (IUGG).
const earthRadiusKm = 6371.0088

// Floor applied to speed inputs so travel times stay finite.
const minSpeedKmh = 1e-6

// Immutable geographic coordinates (latitude, longitude) in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// HaversineKm returns the great-circle distance to other in kilometers.
// Symmetric, and zero for identical points.
func (c Coordinates) HaversineKm(other Coordinates) float64 {
	phi1 := c.Lat * math.Pi / 180
	phi2 := other.Lat * math.Pi / 180
	dPhi := phi2 - phi1
	dLambda := (other.Lon - c.Lon) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// TravelMinutes returns the great-circle travel time to other at the given
// speed. Speeds at or below the floor are clamped so the result is always
// finite for non-negative input.
func (c Coordinates) TravelMinutes(other Coordinates, speedKmh float64) float64 {
	return c.HaversineKm(other) / math.Max(speedKmh, minSpeedKmh) * 60
}

// PlanarDistance returns the raw coordinate-difference distance to other in
// degree units. Demand distribution and cross-hub screening intentionally use
// this metric instead of the great-circle one; see DESIGN.md before changing.
func (c Coordinates) PlanarDistance(other Coordinates) float64 {
	dLat := c.Lat - other.Lat
	dLon := c.Lon - other.Lon
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

// SegmentDistance returns the planar distance from point p to the segment
// between a and b, in the same degree units as PlanarDistance.
func SegmentDistance(p, a, b Coordinates) float64 {
	dx := b.Lat - a.Lat
	dy := b.Lon - a.Lon

	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.PlanarDistance(a)
	}

	t := ((p.Lat-a.Lat)*dx + (p.Lon-a.Lon)*dy) / lenSq
	switch {
	case t < 0:
		return p.PlanarDistance(a)
	case t > 1:
		return p.PlanarDistance(b)
	}

	proj := Coordinates{Lat: a.Lat + t*dx, Lon: a.Lon + t*dy}
	return p.PlanarDistance(proj)
}
