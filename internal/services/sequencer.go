package services

import (
	"transit-network-service/internal/domain"
)

// SequencePolicy selects how an unordered stop set is turned into a loop.
type SequencePolicy string

const (
	// SequenceNearestNeighbor greedily appends the closest unvisited stop.
	// Default policy for candidate generation.
	SequenceNearestNeighbor SequencePolicy = "nearest_neighbor"

	// SequenceTwoOpt refines the nearest-neighbor order with a
	// first-improvement 2-opt pass. Better loops at extra cost.
	SequenceTwoOpt SequencePolicy = "two_opt"
)

// SequenceStops orders a stop set into a travel-efficient visiting order
// under the given policy. The input slice is not modified.
func SequenceStops(policy SequencePolicy, stopIDs []string, stops map[string]domain.Stop, speedKmh float64) []string {
	order := nearestNeighborOrder(stopIDs, stops)
	if policy == SequenceTwoOpt {
		order = twoOptImprove(order, stops, speedKmh)
	}
	return order
}

// nearestNeighborOrder starts from the first stop in input order and
// repeatedly appends the unvisited stop closest (great-circle) to the current
// last stop. Ties break on stop ID for determinism.
func nearestNeighborOrder(stopIDs []string, stops map[string]domain.Stop) []string {
	if len(stopIDs) == 0 {
		return nil
	}

	remaining := make(map[string]struct{}, len(stopIDs))
	for _, id := range stopIDs {
		remaining[id] = struct{}{}
	}

	order := make([]string, 0, len(stopIDs))
	order = append(order, stopIDs[0])
	delete(remaining, stopIDs[0])

	for len(remaining) > 0 {
		cur := stops[order[len(order)-1]].Coord

		var best string
		bestDist := 0.0
		// Scan input order, not map order, so equal distances resolve the
		// same way on every run.
		for _, id := range stopIDs {
			if _, ok := remaining[id]; !ok {
				continue
			}
			d := cur.HaversineKm(stops[id].Coord)
			if best == "" || d < bestDist || (d == bestDist && id < best) {
				best = id
				bestDist = d
			}
		}

		order = append(order, best)
		delete(remaining, best)
	}

	return order
}

// twoOptImprove applies first-improvement pairwise segment reversal until no
// swap shortens the loop.
func twoOptImprove(order []string, stops map[string]domain.Stop, speedKmh float64) []string {
	if len(order) <= 2 {
		return order
	}

	cur := make([]string, len(order))
	copy(cur, order)
	bestCost := LoopMinutes(cur, stops, speedKmh, 0)

	improved := true
	for improved {
		improved = false
		for i := 1; i < len(cur)-1 && !improved; i++ {
			for j := i + 1; j < len(cur); j++ {
				next := make([]string, 0, len(cur))
				next = append(next, cur[:i]...)
				for k := j; k >= i; k-- {
					next = append(next, cur[k])
				}
				next = append(next, cur[j+1:]...)

				cost := LoopMinutes(next, stops, speedKmh, 0)
				if cost < bestCost {
					cur = next
					bestCost = cost
					improved = true
					break
				}
			}
		}
	}

	return cur
}

// LoopMinutes returns the travel time of the closed loop through order
// (including the leg from the last stop back to the first), inflated by the
// layover fraction.
func LoopMinutes(order []string, stops map[string]domain.Stop, speedKmh, layoverFrac float64) float64 {
	if len(order) == 0 {
		return 0
	}

	var total float64
	for i := 0; i < len(order)-1; i++ {
		total += stops[order[i]].Coord.TravelMinutes(stops[order[i+1]].Coord, speedKmh)
	}
	total += stops[order[len(order)-1]].Coord.TravelMinutes(stops[order[0]].Coord, speedKmh)

	return total * (1 + layoverFrac)
}
