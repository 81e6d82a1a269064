package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"transit-network-service/internal/domain"
)

// stopsOnLine lays n stops along the equator at 0.01-degree spacing.
func stopsOnLine(ids ...string) map[string]domain.Stop {
	stops := make(map[string]domain.Stop, len(ids))
	for i, id := range ids {
		stops[id] = domain.Stop{
			ID:    id,
			Name:  id,
			Coord: domain.Coordinates{Lat: 0, Lon: float64(i) * 0.01},
		}
	}
	return stops
}

func TestNearestNeighborOrder(t *testing.T) {
	stops := stopsOnLine("A", "B", "C", "D")

	// Starting from A, the greedy walk visits collinear stops in order even
	// when the input is shuffled behind the first element.
	got := SequenceStops(SequenceNearestNeighbor, []string{"A", "D", "B", "C"}, stops, 30)
	require.Equal(t, []string{"A", "B", "C", "D"}, got)
}

func TestNearestNeighborDeterministicTieBreak(t *testing.T) {
	stops := map[string]domain.Stop{
		"M": {ID: "M", Coord: domain.Coordinates{Lat: 0, Lon: 0}},
		"X": {ID: "X", Coord: domain.Coordinates{Lat: 0, Lon: 0.01}},
		"Y": {ID: "Y", Coord: domain.Coordinates{Lat: 0, Lon: -0.01}},
	}

	// X and Y are equidistant from M; the lexicographically smaller ID wins
	// regardless of input order.
	first := SequenceStops(SequenceNearestNeighbor, []string{"M", "Y", "X"}, stops, 30)
	second := SequenceStops(SequenceNearestNeighbor, []string{"M", "X", "Y"}, stops, 30)
	require.Equal(t, first, second)
	require.Equal(t, "X", first[1])
}

func TestTwoOptNeverWorse(t *testing.T) {
	stops := map[string]domain.Stop{
		"A": {ID: "A", Coord: domain.Coordinates{Lat: 0, Lon: 0}},
		"B": {ID: "B", Coord: domain.Coordinates{Lat: 0, Lon: 0.03}},
		"C": {ID: "C", Coord: domain.Coordinates{Lat: 0.01, Lon: 0.01}},
		"D": {ID: "D", Coord: domain.Coordinates{Lat: 0.01, Lon: 0.02}},
	}
	ids := []string{"A", "B", "C", "D"}

	nn := SequenceStops(SequenceNearestNeighbor, ids, stops, 30)
	improved := SequenceStops(SequenceTwoOpt, ids, stops, 30)

	nnCost := LoopMinutes(nn, stops, 30, 0)
	improvedCost := LoopMinutes(improved, stops, 30, 0)
	require.LessOrEqual(t, improvedCost, nnCost)
}

func TestLoopMinutesClosesLoopAndAppliesLayover(t *testing.T) {
	stops := stopsOnLine("A", "B", "C")
	order := []string{"A", "B", "C"}

	a := stops["A"].Coord
	b := stops["B"].Coord
	c := stops["C"].Coord
	raw := a.TravelMinutes(b, 30) + b.TravelMinutes(c, 30) + c.TravelMinutes(a, 30)

	require.InDelta(t, raw, LoopMinutes(order, stops, 30, 0), 1e-9)
	require.InDelta(t, raw*1.1, LoopMinutes(order, stops, 30, 0.1), 1e-9)
}

func TestSequenceEmptyAndSingle(t *testing.T) {
	stops := stopsOnLine("A")

	require.Nil(t, SequenceStops(SequenceNearestNeighbor, nil, stops, 30))
	require.Equal(t, []string{"A"}, SequenceStops(SequenceTwoOpt, []string{"A"}, stops, 30))
	require.InDelta(t, 0.0, LoopMinutes(nil, stops, 30, 0.1), 1e-12)
}
