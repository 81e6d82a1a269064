package services

import (
	"errors"
	"fmt"

	"transit-network-service/internal/domain"
)

// A demand source supplied by the caller: a stop that generates its own
// declared demand (dorms, rail interchanges).
type SourceInput struct {
	Name   string
	Demand float64
	Coord  domain.Coordinates
}

var ErrNoSources = errors.New("build network: source list must not be empty")

// The stop registry and OD demand matrix for one optimization run.
// Built once per run and read-only thereafter.
type Network struct {
	// Stops maps stop ID to its immutable record.
	Stops map[string]domain.Stop

	// SourceIDs and DestinationIDs preserve caller input order so every
	// downstream iteration is deterministic.
	SourceIDs      []string
	DestinationIDs []string

	// OD holds the dense equal-split demand matrix, one record per
	// (source, destination) pair, sources outermost.
	OD []domain.ODPair
}

// TotalDemand returns the sum of demand over all OD records.
func (n *Network) TotalDemand() float64 {
	var total float64
	for _, od := range n.OD {
		total += od.Demand
	}
	return total
}

// BuildNetwork assembles the stop registry and the equal-split OD matrix.
//
// Source stops carry their declared demand; destination stops carry the
// distributed demand from DistributeDemand. Each source's demand is divided
// evenly across every destination, so the matrix is a dense cross-product:
// the caller must bound |sources|×|destinations| accordingly.
func BuildNetwork(sources []SourceInput, sites []StopSite, siteDemand map[string]int) (*Network, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	if len(sites) == 0 {
		return nil, ErrNoStops
	}

	net := &Network{
		Stops:          make(map[string]domain.Stop, len(sources)+len(sites)),
		SourceIDs:      make([]string, 0, len(sources)),
		DestinationIDs: make([]string, 0, len(sites)),
	}

	for _, s := range sources {
		if s.Demand < 0 {
			return nil, fmt.Errorf("build network: source %q has negative demand %v", s.Name, s.Demand)
		}
		if _, dup := net.Stops[s.Name]; dup {
			return nil, fmt.Errorf("build network: duplicate stop name %q", s.Name)
		}

		net.Stops[s.Name] = domain.Stop{
			ID:     s.Name,
			Name:   s.Name,
			Coord:  s.Coord,
			Kind:   domain.StopKindSource,
			Demand: s.Demand,
		}
		net.SourceIDs = append(net.SourceIDs, s.Name)
	}

	for _, s := range sites {
		if _, dup := net.Stops[s.Name]; dup {
			return nil, fmt.Errorf("build network: duplicate stop name %q", s.Name)
		}

		net.Stops[s.Name] = domain.Stop{
			ID:     s.Name,
			Name:   s.Name,
			Coord:  s.Coord,
			Kind:   domain.StopKindDestination,
			Demand: float64(siteDemand[s.Name]),
		}
		net.DestinationIDs = append(net.DestinationIDs, s.Name)
	}

	// Equal split: for a fixed source, demand over all destinations must sum
	// back to the source total (pre-rounding).
	net.OD = make([]domain.ODPair, 0, len(net.SourceIDs)*len(net.DestinationIDs))
	share := 1.0 / float64(len(net.DestinationIDs))
	for _, src := range net.SourceIDs {
		total := net.Stops[src].Demand
		for _, dst := range net.DestinationIDs {
			net.OD = append(net.OD, domain.ODPair{
				Origin:      src,
				Destination: dst,
				Demand:      total * share,
			})
		}
	}

	return net, nil
}
