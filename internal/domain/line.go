package domain

// Represents a candidate or selected bus line: a closed loop of stops where
// the last stop connects back to the first.
//
// EfficiencyScore is the construction-time heuristic (demand coverage divided
// by cycle minutes) used to rank candidates. It is distinct from the
// solution-level efficiency in Solution, which divides covered demand by the
// demand-weighted travel cost of the whole network.
type Line struct {
	ID              string
	StopIDs         []string
	CycleMinutes    float64
	DemandCoverage  float64
	EfficiencyScore float64
}

// Serves reports whether the line visits the given stop.
func (l Line) Serves(stopID string) bool {
	for _, id := range l.StopIDs {
		if id == stopID {
			return true
		}
	}
	return false
}

// Represents an evaluated set of selected lines for a fleet.
// A Solution is the output of line selection and is recomputed per selection
// attempt; it is immutable planning data and contains no side effects.
type Solution struct {
	Lines     []Line
	FleetSize int

	// TotalCost is the demand-weighted travel time in minutes·riders.
	TotalCost float64

	// DemandCoverage is the fraction of total demand reachable within the
	// transfer limit, in [0,1].
	DemandCoverage float64

	// Efficiency is covered demand divided by TotalCost.
	Efficiency float64
}
