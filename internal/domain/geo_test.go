package domain

import (
	"math"
	"testing"
)

func TestHaversineIdenticalPointsIsZero(t *testing.T) {
	points := []Coordinates{
		{Lat: 0, Lon: 0},
		{Lat: 33.779568, Lon: -84.404716},
		{Lat: -45.5, Lon: 170.2},
	}

	for _, p := range points {
		if d := p.HaversineKm(p); d != 0 {
			t.Errorf("HaversineKm(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestHaversineSymmetry(t *testing.T) {
	a := Coordinates{Lat: 33.779568, Lon: -84.404716}
	b := Coordinates{Lat: 33.77118, Lon: -84.390857}

	if ab, ba := a.HaversineKm(b), b.HaversineKm(a); ab != ba {
		t.Errorf("HaversineKm not symmetric: %v vs %v", ab, ba)
	}
}

func TestHaversineOneDegreeAtEquator(t *testing.T) {
	a := Coordinates{Lat: 0, Lon: 0}
	b := Coordinates{Lat: 0, Lon: 1}

	got := a.HaversineKm(b)
	if math.Abs(got-111.19) > 0.01 {
		t.Errorf("HaversineKm = %v, want ≈111.19", got)
	}
}

func TestTravelMinutes(t *testing.T) {
	a := Coordinates{Lat: 0, Lon: 0}
	b := Coordinates{Lat: 0, Lon: 1}

	got := a.TravelMinutes(b, 30)
	if math.Abs(got-222.4) > 0.1 {
		t.Errorf("TravelMinutes at 30 km/h = %v, want ≈222.4", got)
	}
}

func TestTravelMinutesZeroSpeedIsFinite(t *testing.T) {
	a := Coordinates{Lat: 0, Lon: 0}
	b := Coordinates{Lat: 0, Lon: 1}

	if got := a.TravelMinutes(b, 0); math.IsInf(got, 0) || math.IsNaN(got) {
		t.Errorf("TravelMinutes at 0 km/h = %v, want finite", got)
	}
}

func TestSegmentDistance(t *testing.T) {
	a := Coordinates{Lat: 0, Lon: 0}
	b := Coordinates{Lat: 0, Lon: 2}

	// Point above the segment midpoint projects onto the segment.
	if got := SegmentDistance(Coordinates{Lat: 1, Lon: 1}, a, b); math.Abs(got-1) > 1e-12 {
		t.Errorf("SegmentDistance above midpoint = %v, want 1", got)
	}

	// Point beyond the far endpoint measures to the endpoint.
	if got := SegmentDistance(Coordinates{Lat: 0, Lon: 3}, a, b); math.Abs(got-1) > 1e-12 {
		t.Errorf("SegmentDistance past endpoint = %v, want 1", got)
	}

	// Degenerate segment falls back to point distance.
	if got := SegmentDistance(Coordinates{Lat: 3, Lon: 4}, a, a); math.Abs(got-5) > 1e-12 {
		t.Errorf("SegmentDistance degenerate = %v, want 5", got)
	}
}
