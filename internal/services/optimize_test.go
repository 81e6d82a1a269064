package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"transit-network-service/internal/domain"
)

func optimizeRequest() Request {
	return Request{
		Buildings: []Building{
			{Name: "Clough Commons", Demand: 120, Coord: domain.Coordinates{Lat: 33.7749, Lon: -84.3964}},
			{Name: "CRC", Demand: 90, Coord: domain.Coordinates{Lat: 33.7756, Lon: -84.4033}},
		},
		Sources: []SourceInput{
			{Name: "West Dorms", Demand: 100, Coord: domain.Coordinates{Lat: 33.7796, Lon: -84.4047}},
			{Name: "East Dorms", Demand: 100, Coord: domain.Coordinates{Lat: 33.7712, Lon: -84.3909}},
		},
		Stops: []StopSite{
			{Name: "Student Center", Coord: domain.Coordinates{Lat: 33.7749, Lon: -84.3985}},
			{Name: "Library", Coord: domain.Coordinates{Lat: 33.7745, Lon: -84.3958}},
			{Name: "Rec Center", Coord: domain.Coordinates{Lat: 33.7756, Lon: -84.4033}},
			{Name: "Tech Square", Coord: domain.Coordinates{Lat: 33.7768, Lon: -84.3892}},
		},
		Params: Params{
			FleetSize:          4,
			TargetLines:        8,
			KTransfers:         1,
			TransferPenaltyMin: 5,
			SpeedKmh:           30,
			Algorithm:          AlgorithmDemandDriven,
		},
		Colors: []string{"#FF0000", "#00FF00"},
	}
}

func TestOptimizeEndToEnd(t *testing.T) {
	report, err := Optimize(context.Background(), optimizeRequest())
	require.NoError(t, err)

	require.NotEmpty(t, report.RunID)
	require.Equal(t, AlgorithmDemandDriven, report.Algorithm)
	require.NotEmpty(t, report.Lines)

	require.GreaterOrEqual(t, report.DemandCoverage, 0.0)
	require.LessOrEqual(t, report.DemandCoverage, 1.0)
	require.Greater(t, report.TotalCost, 0.0)
	require.Greater(t, report.HeadwayMinutes, 0.0)
	require.InDelta(t, report.HeadwayMinutes/2, report.MeanWaitMinutes, 1e-9)

	// Every source gets at least one line, and every reported stop carries
	// name and coordinates for the caller to render.
	for _, src := range []string{"West Dorms", "East Dorms"} {
		served := false
		for _, ln := range report.Lines {
			for _, s := range ln.Stops {
				if s.Name == src {
					served = true
				}
			}
		}
		require.True(t, served, "no line serves %s", src)
	}

	for _, ln := range report.Lines {
		require.Equal(t, len(ln.Stops), ln.StopCount)
		require.NotEmpty(t, ln.Color)
		require.Greater(t, ln.CycleMinutes, 0.0)
		for _, s := range ln.Stops {
			require.NotZero(t, s.Lat)
			require.NotZero(t, s.Lon)
		}
	}
}

func TestOptimizeDeterministicAcrossRuns(t *testing.T) {
	first, err := Optimize(context.Background(), optimizeRequest())
	require.NoError(t, err)
	second, err := Optimize(context.Background(), optimizeRequest())
	require.NoError(t, err)

	// Run IDs differ; everything derived from the inputs must not.
	require.Equal(t, first.Lines, second.Lines)
	require.Equal(t, first.TotalCost, second.TotalCost)
	require.Equal(t, first.DemandCoverage, second.DemandCoverage)
	require.Equal(t, first.Efficiency, second.Efficiency)
}

func TestOptimizeValidation(t *testing.T) {
	base := optimizeRequest()

	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"no stops", func(r *Request) { r.Stops = nil }, ErrNoStops},
		{"no sources", func(r *Request) { r.Sources = nil }, ErrNoSources},
		{"zero speed", func(r *Request) { r.Params.SpeedKmh = 0 }, ErrInvalidSpeed},
		{"negative speed", func(r *Request) { r.Params.SpeedKmh = -3 }, ErrInvalidSpeed},
		{"zero fleet", func(r *Request) { r.Params.FleetSize = 0 }, ErrInvalidFleetSize},
		{"zero target lines", func(r *Request) { r.Params.TargetLines = 0 }, ErrInvalidTargetLines},
		{"negative transfers", func(r *Request) { r.Params.KTransfers = -1 }, ErrInvalidTransfers},
		{"negative penalty", func(r *Request) { r.Params.TransferPenaltyMin = -1 }, ErrInvalidPenalty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			tc.mutate(&req)
			_, err := Optimize(context.Background(), req)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestOptimizeUnknownAlgorithm(t *testing.T) {
	req := optimizeRequest()
	req.Params.Algorithm = "genetic"

	_, err := Optimize(context.Background(), req)
	require.ErrorIs(t, err, ErrUnknownAlgorithm)
}
