package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"transit-network-service/internal/domain"
)

// Algorithm names a line-selection policy. All policies are deterministic
// given a fixed candidate ordering; none uses randomized search.
type Algorithm string

const (
	// AlgorithmDemandDriven picks one line per source by destinations served,
	// then fills remaining slots with high-efficiency low-overlap candidates.
	AlgorithmDemandDriven Algorithm = "demand_driven"

	// AlgorithmIterativeGreedy adds the candidate with the best marginal
	// coverage/cost gain until no candidate improves the solution.
	AlgorithmIterativeGreedy Algorithm = "iterative_greedy"

	// AlgorithmFallbackGreedy adds whichever candidate most reduces total
	// OD-weighted cost, ignoring coverage.
	AlgorithmFallbackGreedy Algorithm = "fallback_greedy"
)

var ErrUnknownAlgorithm = errors.New("select lines: unknown algorithm")

// Number of top destinations per source considered by the demand-driven
// policy, and how many relevant lines it shortlists per source.
const (
	demandDrivenTopDestinations = 10
	demandDrivenLinesPerSource  = 3
	overlapFraction             = 0.7
)

// SelectLines chooses a subset of the candidate pool under the fleet budget
// using the requested policy. Selection dominates the run time (one router
// search per OD pair per evaluated configuration), so the loops observe ctx:
// a deadline or cancellation aborts the search.
func SelectLines(ctx context.Context, alg Algorithm, candidates []domain.Line, net *Network, cfg EvaluatorConfig) ([]domain.Line, error) {
	switch alg {
	case AlgorithmDemandDriven:
		return selectDemandDriven(ctx, candidates, net, cfg)
	case AlgorithmIterativeGreedy:
		return selectIterativeGreedy(ctx, candidates, net, cfg)
	case AlgorithmFallbackGreedy:
		return selectFallbackGreedy(ctx, candidates, net, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
}

// selectIterativeGreedy repeatedly evaluates adding each remaining candidate
// and keeps the one maximizing Δcoverage×1000 − Δcost/1000, stopping when no
// candidate yields a positive improvement.
func selectIterativeGreedy(ctx context.Context, candidates []domain.Line, net *Network, cfg EvaluatorConfig) ([]domain.Line, error) {
	remaining := sortByEfficiency(candidates)
	var selected []domain.Line

	for len(remaining) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("select lines (iterative greedy): %w", err)
		}

		base := EvaluateSolution(selected, net, cfg)

		bestIdx := -1
		bestImprovement := 0.0
		for i, cand := range remaining {
			trial := EvaluateSolution(append(slices.Clone(selected), cand), net, cfg)

			var improvement float64
			if len(selected) == 0 {
				improvement = trial.DemandCoverage*1000 - trial.TotalCost/1000
			} else {
				improvement = (trial.DemandCoverage-base.DemandCoverage)*1000 - (trial.TotalCost-base.TotalCost)/1000
			}

			if bestIdx == -1 || improvement > bestImprovement {
				bestIdx = i
				bestImprovement = improvement
			}
		}

		if bestIdx == -1 || bestImprovement <= 0 {
			break
		}

		selected = append(selected, remaining[bestIdx])
		remaining = slices.Delete(remaining, bestIdx, bestIdx+1)
	}

	return selected, nil
}

// selectDemandDriven groups OD rows by source and gives each source its best
// unused line, ranked by how many of the source's top destinations it serves
// and by line efficiency. Remaining slots, capped at fleet/2, are filled with
// the most efficient unused candidates whose cumulative stop overlap with the
// current selection stays below 70% of their own stop count.
func selectDemandDriven(ctx context.Context, candidates []domain.Line, net *Network, cfg EvaluatorConfig) ([]domain.Line, error) {
	var selected []domain.Line
	used := make(map[string]bool, len(candidates))

	for _, src := range net.SourceIDs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("select lines (demand driven): %w", err)
		}

		for _, ln := range rankLinesForSource(candidates, net, src) {
			if !used[ln.ID] {
				selected = append(selected, ln)
				used[ln.ID] = true
				break
			}
		}
	}

	remaining := make([]domain.Line, 0, len(candidates))
	for _, cand := range candidates {
		if !used[cand.ID] {
			remaining = append(remaining, cand)
		}
	}
	remaining = sortByEfficiency(remaining)

	for _, cand := range remaining {
		if len(selected) >= cfg.FleetSize/2 {
			break
		}

		overlap := 0
		for _, sel := range selected {
			for _, sid := range cand.StopIDs {
				if sel.Serves(sid) {
					overlap++
				}
			}
		}

		if float64(overlap) < float64(len(cand.StopIDs))*overlapFraction {
			selected = append(selected, cand)
			used[cand.ID] = true
		}
	}

	return selected, nil
}

// rankLinesForSource shortlists candidate lines serving src, ordered by the
// count of the source's top destinations served, then line efficiency.
func rankLinesForSource(candidates []domain.Line, net *Network, src string) []domain.Line {
	topDests := topDestinationsFor(net, src, demandDrivenTopDestinations)

	type ranked struct {
		line   domain.Line
		served int
	}

	var relevant []ranked
	for _, cand := range candidates {
		if !cand.Serves(src) {
			continue
		}
		served := 0
		for _, d := range topDests {
			if cand.Serves(d) {
				served++
			}
		}
		if served > 0 {
			relevant = append(relevant, ranked{line: cand, served: served})
		}
	}

	slices.SortStableFunc(relevant, func(a, b ranked) int {
		if a.served != b.served {
			return b.served - a.served
		}
		if a.line.EfficiencyScore > b.line.EfficiencyScore {
			return -1
		}
		if a.line.EfficiencyScore < b.line.EfficiencyScore {
			return 1
		}
		return 0
	})

	if len(relevant) > demandDrivenLinesPerSource {
		relevant = relevant[:demandDrivenLinesPerSource]
	}

	lines := make([]domain.Line, len(relevant))
	for i, r := range relevant {
		lines[i] = r.line
	}
	return lines
}

// selectFallbackGreedy repeatedly adds whichever remaining candidate most
// reduces the total OD-weighted cost, stopping when no candidate reduces it.
func selectFallbackGreedy(ctx context.Context, candidates []domain.Line, net *Network, cfg EvaluatorConfig) ([]domain.Line, error) {
	remaining := slices.Clone(candidates)
	var selected []domain.Line

	for len(remaining) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("select lines (fallback greedy): %w", err)
		}

		baseCost := EvaluateSolution(selected, net, cfg).TotalCost

		bestIdx := -1
		bestCost := baseCost
		for i, cand := range remaining {
			cost := EvaluateSolution(append(slices.Clone(selected), cand), net, cfg).TotalCost
			if cost < bestCost {
				bestIdx = i
				bestCost = cost
			}
		}

		if bestIdx == -1 {
			break
		}

		selected = append(selected, remaining[bestIdx])
		remaining = slices.Delete(remaining, bestIdx, bestIdx+1)
	}

	return selected, nil
}

// sortByEfficiency returns a copy of lines ordered by construction-time
// efficiency descending, preserving input order on ties.
func sortByEfficiency(lines []domain.Line) []domain.Line {
	sorted := slices.Clone(lines)
	slices.SortStableFunc(sorted, func(a, b domain.Line) int {
		if a.EfficiencyScore > b.EfficiencyScore {
			return -1
		}
		if a.EfficiencyScore < b.EfficiencyScore {
			return 1
		}
		return 0
	})
	return sorted
}
