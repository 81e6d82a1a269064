package domain

// StopKind distinguishes demand origins from demand sinks in the network.
type StopKind string

const (
	// StopKindSource marks a stop that generates rider demand (e.g. dorms,
	// rail interchanges).
	StopKindSource StopKind = "source"

	// StopKindDestination marks a stop that receives distributed building
	// demand.
	StopKindDestination StopKind = "destination"
)

// Represents a single stop in the transit network.
// Stops are immutable once the network is built for a run; lines and OD
// records reference them by ID and never own them.
type Stop struct {
	ID     string
	Name   string
	Coord  Coordinates
	Kind   StopKind
	Demand float64
}

// An origin-destination demand record: riders per planning period wanting to
// travel from Origin to Destination.
type ODPair struct {
	Origin      string
	Destination string
	Demand      float64
}
