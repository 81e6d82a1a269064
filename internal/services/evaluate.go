package services

import (
	"math"

	"transit-network-service/internal/domain"
)

// Sentinel cost reported for a configuration with no lines, so that a
// degenerate selection still compares worse than any real network.
const emptySolutionCost = 1e9

// EvaluatorConfig holds the routing parameters shared by every evaluation of
// one optimization run.
type EvaluatorConfig struct {
	FleetSize          int
	KTransfers         int
	TransferPenaltyMin float64
	SpeedKmh           float64

	// FreqFloor is the minimum service frequency (buses per hour) used when
	// deriving headways, keeping waits finite for large line counts.
	FreqFloor float64
}

// Evaluation scores one line set against the OD matrix.
//
// Efficiency here is the solution-level metric (covered demand / total cost);
// it is unrelated to the per-line EfficiencyScore computed at construction.
type Evaluation struct {
	TotalCost      float64
	DemandCoverage float64
	Efficiency     float64
}

// EvaluateSolution scores a set of lines against the network's OD matrix.
//
// Each OD pair is routed through the line set. Reachable pairs contribute
// demand-weighted travel time to the total cost and their demand to coverage.
// Unreachable pairs fall back to direct great-circle travel plus a flat
// transfer penalty: the cost stays finite and comparable across
// configurations, but the pair does not count as covered.
func EvaluateSolution(lines []domain.Line, net *Network, cfg EvaluatorConfig) Evaluation {
	if len(lines) == 0 {
		return Evaluation{TotalCost: emptySolutionCost, DemandCoverage: 0, Efficiency: 0}
	}

	router := NewTransitRouter(lines, net.Stops, cfg.SpeedKmh)
	waits := WaitByLine(lines, cfg.FleetSize, cfg.FreqFloor)

	var totalCost, totalDemand, coveredDemand float64
	for _, od := range net.OD {
		totalDemand += od.Demand

		best := router.ShortestTime(od.Origin, od.Destination, waits, cfg.TransferPenaltyMin, cfg.KTransfers)
		if !math.IsInf(best, 1) {
			totalCost += od.Demand * best
			coveredDemand += od.Demand
			continue
		}

		a := net.Stops[od.Origin].Coord
		b := net.Stops[od.Destination].Coord
		fallback := a.TravelMinutes(b, cfg.SpeedKmh) + cfg.TransferPenaltyMin
		totalCost += od.Demand * fallback
	}

	return Evaluation{
		TotalCost:      totalCost,
		DemandCoverage: coveredDemand / math.Max(totalDemand, 1),
		Efficiency:     coveredDemand / math.Max(totalCost, 1),
	}
}
