package services

import (
	"fmt"
	"math"
	"slices"

	"transit-network-service/internal/domain"
)

// GeneratorConfig tunes hub-and-spoke candidate generation.
//
// CrossHubThresholdDeg is a planar screening threshold in raw coordinate
// degree units, while FeederRadiusKm is a true great-circle radius; the two
// deliberately use different units (see DESIGN.md).
type GeneratorConfig struct {
	TargetLines int
	SpeedKmh    float64
	Sequence    SequencePolicy

	HubCount              int
	TopDestinations       int
	CrossHubPairs         int
	CrossHubThresholdDeg  float64
	CrossHubIntermediates int
	FeederHubs            int
	FeederRadiusKm        float64
	FeederStops           int
	LayoverFrac           float64
}

// DefaultGeneratorConfig mirrors the tuning the heuristics were calibrated
// with on the campus dataset.
func DefaultGeneratorConfig(targetLines int, speedKmh float64) GeneratorConfig {
	return GeneratorConfig{
		TargetLines:           targetLines,
		SpeedKmh:              speedKmh,
		Sequence:              SequenceNearestNeighbor,
		HubCount:              6,
		TopDestinations:       8,
		CrossHubPairs:         3,
		CrossHubThresholdDeg:  0.01,
		CrossHubIntermediates: 4,
		FeederHubs:            3,
		FeederRadiusKm:        0.5,
		FeederStops:           5,
		LayoverFrac:           0.1,
	}
}

// GenerateCandidates builds the candidate line pool using a hub-and-spoke
// heuristic with three route families:
//
//  1. direct routes from each source to its highest-demand destinations,
//  2. cross-hub routes between adjacent hub pairs picking up intermediate
//     stops near the connecting segment,
//  3. feeder loops around the top hubs.
//
// Candidates are ranked by line efficiency and truncated to TargetLines.
// That cap bounds the pool handed to selection, not the final line count.
func GenerateCandidates(net *Network, cfg GeneratorConfig) []domain.Line {
	demandByStop := make(map[string]float64, len(net.DestinationIDs))
	for _, od := range net.OD {
		demandByStop[od.Destination] += od.Demand
	}

	hubs := topDemandStops(demandByStop, net.DestinationIDs, cfg.HubCount)

	var lines []domain.Line
	nextID := 0

	appendLine := func(prefix string, stopIDs []string) {
		order := SequenceStops(cfg.Sequence, stopIDs, net.Stops, cfg.SpeedKmh)
		cycle := LoopMinutes(order, net.Stops, cfg.SpeedKmh, cfg.LayoverFrac)

		var coverage float64
		for _, id := range order {
			coverage += demandByStop[id]
		}

		lines = append(lines, domain.Line{
			ID:              fmt.Sprintf("%s_%d", prefix, nextID),
			StopIDs:         order,
			CycleMinutes:    cycle,
			DemandCoverage:  coverage,
			EfficiencyScore: coverage / math.Max(cycle, 1),
		})
		nextID++
	}

	// Family 1: direct routes, one per source.
	for _, src := range net.SourceIDs {
		dests := topDestinationsFor(net, src, cfg.TopDestinations)
		if len(dests) == 0 {
			continue
		}
		appendLine("H", append([]string{src}, dests...))
	}

	// Family 2: cross-hub routes between adjacent hub pairs.
	if len(hubs) >= 2 {
		pairs := min(cfg.CrossHubPairs, len(hubs)-1)
		for i := 0; i < pairs; i++ {
			start := hubs[i]
			end := hubs[(i+1)%len(hubs)]

			intermediates := intermediateStops(net, demandByStop, start, end, cfg)
			route := append([]string{start}, intermediates...)
			route = append(route, end)
			if len(route) >= 3 {
				appendLine("C", route)
			}
		}
	}

	// Family 3: feeder loops around the top hubs.
	for _, hub := range hubs[:min(cfg.FeederHubs, len(hubs))] {
		nearby := feederStops(net, demandByStop, hub, cfg)
		if len(nearby) > 0 {
			appendLine("F", append([]string{hub}, nearby...))
		}
	}

	slices.SortStableFunc(lines, func(a, b domain.Line) int {
		if a.EfficiencyScore > b.EfficiencyScore {
			return -1
		}
		if a.EfficiencyScore < b.EfficiencyScore {
			return 1
		}
		return 0
	})

	if len(lines) > cfg.TargetLines {
		lines = lines[:cfg.TargetLines]
	}
	return lines
}

// topDemandStops returns up to n positive-demand stop IDs ranked by demand
// descending, name ascending on ties.
func topDemandStops(demandByStop map[string]float64, ordered []string, n int) []string {
	ranked := make([]string, 0, len(ordered))
	for _, id := range ordered {
		if demandByStop[id] > 0 {
			ranked = append(ranked, id)
		}
	}

	slices.SortStableFunc(ranked, func(a, b string) int {
		if demandByStop[a] > demandByStop[b] {
			return -1
		}
		if demandByStop[a] < demandByStop[b] {
			return 1
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// topDestinationsFor ranks the OD rows of one source by demand and returns up
// to n destination IDs.
func topDestinationsFor(net *Network, source string, n int) []string {
	type row struct {
		dest   string
		demand float64
	}

	rows := make([]row, 0, len(net.DestinationIDs))
	for _, od := range net.OD {
		if od.Origin == source {
			rows = append(rows, row{dest: od.Destination, demand: od.Demand})
		}
	}

	slices.SortStableFunc(rows, func(a, b row) int {
		if a.demand > b.demand {
			return -1
		}
		if a.demand < b.demand {
			return 1
		}
		if a.dest < b.dest {
			return -1
		}
		if a.dest > b.dest {
			return 1
		}
		return 0
	})

	if len(rows) > n {
		rows = rows[:n]
	}

	dests := make([]string, len(rows))
	for i, r := range rows {
		dests[i] = r.dest
	}
	return dests
}

// intermediateStops picks positive-demand stops lying close to the planar
// segment between two hubs, highest demand first.
func intermediateStops(net *Network, demandByStop map[string]float64, start, end string, cfg GeneratorConfig) []string {
	a := net.Stops[start].Coord
	b := net.Stops[end].Coord

	candidates := topDemandStops(demandByStop, net.DestinationIDs, len(net.DestinationIDs))

	picked := make([]string, 0, cfg.CrossHubIntermediates)
	for _, id := range candidates {
		if id == start || id == end {
			continue
		}
		if domain.SegmentDistance(net.Stops[id].Coord, a, b) < cfg.CrossHubThresholdDeg {
			picked = append(picked, id)
			if len(picked) == cfg.CrossHubIntermediates {
				break
			}
		}
	}
	return picked
}

// feederStops picks positive-demand stops within the feeder radius of a hub,
// ranked by (demand, distance) descending so closer stops win equal demand.
func feederStops(net *Network, demandByStop map[string]float64, hub string, cfg GeneratorConfig) []string {
	hubCoord := net.Stops[hub].Coord

	type nearby struct {
		id     string
		demand float64
		dist   float64
	}

	var found []nearby
	for _, id := range net.DestinationIDs {
		if id == hub || demandByStop[id] <= 0 {
			continue
		}
		d := hubCoord.HaversineKm(net.Stops[id].Coord)
		if d < cfg.FeederRadiusKm {
			found = append(found, nearby{id: id, demand: demandByStop[id], dist: d})
		}
	}

	slices.SortStableFunc(found, func(a, b nearby) int {
		if a.demand > b.demand {
			return -1
		}
		if a.demand < b.demand {
			return 1
		}
		if a.dist < b.dist {
			return -1
		}
		if a.dist > b.dist {
			return 1
		}
		if a.id < b.id {
			return -1
		}
		if a.id > b.id {
			return 1
		}
		return 0
	})

	if len(found) > cfg.FeederStops {
		found = found[:cfg.FeederStops]
	}

	ids := make([]string, len(found))
	for i, f := range found {
		ids[i] = f.id
	}
	return ids
}
