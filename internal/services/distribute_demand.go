package services

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"transit-network-service/internal/domain"
)

// Number of nearest stops a building's demand is split across.
const nearestStopCount = 3

// Minimum demand assigned to any stop after distribution.
const demandFloor = 10

// A campus building generating rider demand at its location.
type Building struct {
	Name   string
	Demand float64
	Coord  domain.Coordinates
}

// A candidate stop location before any demand has been assigned to it.
type StopSite struct {
	Name  string
	Coord domain.Coordinates
}

var ErrNoStops = errors.New("distribute demand: stop list must not be empty")

// DistributeDemand allocates building-level demand onto nearby stops.
//
// For each building the demand is split evenly across its three nearest stops
// measured in raw coordinate space (planar, not great-circle). Accumulated
// totals are rounded half-to-even and clipped to a floor of 10, so every stop
// ends up with usable destination demand even in low-density areas.
//
// When fewer than three stops exist, the split degrades to the available
// count so no demand is lost.
func DistributeDemand(buildings []Building, sites []StopSite) (map[string]int, error) {
	if len(sites) == 0 {
		return nil, ErrNoStops
	}

	accumulated := make(map[string]float64, len(sites))
	for _, s := range sites {
		accumulated[s.Name] = 0
	}

	share := min(nearestStopCount, len(sites))

	for _, b := range buildings {
		if b.Demand < 0 {
			return nil, fmt.Errorf("distribute demand: building %q has negative demand %v", b.Name, b.Demand)
		}

		nearest := nearestSites(b.Coord, sites, share)
		for _, s := range nearest {
			accumulated[s.Name] += b.Demand / float64(share)
		}
	}

	result := make(map[string]int, len(sites))
	for name, total := range accumulated {
		// Half-to-even rounding, then the floor clip.
		rounded := int(math.RoundToEven(total))
		if rounded < demandFloor {
			rounded = demandFloor
		}
		result[name] = rounded
	}

	return result, nil
}

// nearestSites returns the n sites closest to coord by planar distance.
// Ties break on site name so distribution is deterministic.
func nearestSites(coord domain.Coordinates, sites []StopSite, n int) []StopSite {
	ranked := make([]StopSite, len(sites))
	copy(ranked, sites)

	slices.SortStableFunc(ranked, func(a, b StopSite) int {
		da := coord.PlanarDistance(a.Coord)
		db := coord.PlanarDistance(b.Coord)
		if da < db {
			return -1
		}
		if da > db {
			return 1
		}
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})

	return ranked[:n]
}
