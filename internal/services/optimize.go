package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"transit-network-service/internal/domain"
	"transit-network-service/internal/platform/obs"
)

var (
	ErrInvalidSpeed       = errors.New("optimize: speed must be positive")
	ErrInvalidFleetSize   = errors.New("optimize: fleet size must be at least 1")
	ErrInvalidTargetLines = errors.New("optimize: target lines must be at least 1")
	ErrInvalidTransfers   = errors.New("optimize: transfer count must be non-negative")
	ErrInvalidPenalty     = errors.New("optimize: transfer penalty must be non-negative")
)

// Params are the caller-supplied knobs for one optimization run.
type Params struct {
	FleetSize          int
	TargetLines        int
	KTransfers         int
	TransferPenaltyMin float64
	SpeedKmh           float64
	Algorithm          Algorithm

	// FreqFloor is the minimum buses-per-hour frequency for headway
	// derivation. Zero means the default of 1.
	FreqFloor float64
}

// Request carries all inputs for one optimization run. Inputs are fully
// materialized before the pipeline starts; runs share no state and are safe
// to execute concurrently.
type Request struct {
	Buildings []Building
	Sources   []SourceInput
	Stops     []StopSite
	Params    Params

	// Colors is the palette cycled across selected lines for rendering.
	// Optional; lines get no color when empty.
	Colors []string

	// Generator overrides candidate-generation tuning when non-nil.
	Generator *GeneratorConfig
}

// A stop in a reported line, with coordinates for rendering.
type ReportStop struct {
	Name string
	Lat  float64
	Lon  float64
}

// A selected line as exposed to the caller.
type ReportLine struct {
	ID             string
	Color          string
	Stops          []ReportStop
	StopCount      int
	CycleMinutes   float64
	DemandCoverage float64

	// EfficiencyScore is the line's construction-time ranking score
	// (coverage / cycle minutes), not the solution-level efficiency.
	EfficiencyScore float64
}

// Report is the structured result of an optimization run: the ordered
// selected lines plus solution-level metrics. The caller owns it; the engine
// persists nothing.
type Report struct {
	RunID     string
	Algorithm Algorithm
	Lines     []ReportLine

	TotalCost      float64
	DemandCoverage float64
	Efficiency     float64

	// Service characteristics under an equal split of the fleet.
	HeadwayMinutes  float64
	MeanWaitMinutes float64
}

// Optimize runs the full pipeline: demand distribution, network and OD matrix
// construction, hub-and-spoke candidate generation, line selection, and final
// evaluation.
//
// Invalid inputs fail fast before any search begins. A degenerate run that
// yields no candidate lines returns an empty selection with zero coverage and
// the sentinel cost rather than an error, so callers can distinguish "no
// viable network" from a rejected request.
func Optimize(ctx context.Context, req Request) (report *Report, err error) {
	defer obs.Time(ctx, "optimize")(&err)

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	params := req.Params
	if params.FreqFloor == 0 {
		params.FreqFloor = 1
	}

	siteDemand, err := DistributeDemand(req.Buildings, req.Stops)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	net, err := BuildNetwork(req.Sources, req.Stops, siteDemand)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	genCfg := DefaultGeneratorConfig(params.TargetLines, params.SpeedKmh)
	if req.Generator != nil {
		genCfg = *req.Generator
	}
	candidates := GenerateCandidates(net, genCfg)

	evalCfg := EvaluatorConfig{
		FleetSize:          params.FleetSize,
		KTransfers:         params.KTransfers,
		TransferPenaltyMin: params.TransferPenaltyMin,
		SpeedKmh:           params.SpeedKmh,
		FreqFloor:          params.FreqFloor,
	}

	selected, err := SelectLines(ctx, params.Algorithm, candidates, net, evalCfg)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	evaluation := EvaluateSolution(selected, net, evalCfg)

	return buildReport(net, selected, evaluation, params, req.Colors), nil
}

func validateRequest(req Request) error {
	if len(req.Stops) == 0 {
		return ErrNoStops
	}
	if len(req.Sources) == 0 {
		return ErrNoSources
	}
	if req.Params.SpeedKmh <= 0 {
		return ErrInvalidSpeed
	}
	if req.Params.FleetSize < 1 {
		return ErrInvalidFleetSize
	}
	if req.Params.TargetLines < 1 {
		return ErrInvalidTargetLines
	}
	if req.Params.KTransfers < 0 {
		return ErrInvalidTransfers
	}
	if req.Params.TransferPenaltyMin < 0 {
		return ErrInvalidPenalty
	}
	return nil
}

func buildReport(net *Network, selected []domain.Line, evaluation Evaluation, params Params, colors []string) *Report {
	report := &Report{
		RunID:          uuid.NewString(),
		Algorithm:      params.Algorithm,
		Lines:          make([]ReportLine, 0, len(selected)),
		TotalCost:      evaluation.TotalCost,
		DemandCoverage: evaluation.DemandCoverage,
		Efficiency:     evaluation.Efficiency,
	}

	if len(selected) > 0 {
		freq := math.Max(params.FreqFloor, float64(params.FleetSize)/float64(len(selected)))
		report.HeadwayMinutes = 60 / freq
		report.MeanWaitMinutes = 30 / freq
	}

	for i, ln := range selected {
		rl := ReportLine{
			ID:              ln.ID,
			Stops:           make([]ReportStop, 0, len(ln.StopIDs)),
			StopCount:       len(ln.StopIDs),
			CycleMinutes:    ln.CycleMinutes,
			DemandCoverage:  ln.DemandCoverage,
			EfficiencyScore: ln.EfficiencyScore,
		}
		if len(colors) > 0 {
			rl.Color = colors[i%len(colors)]
		}
		for _, sid := range ln.StopIDs {
			stop := net.Stops[sid]
			rl.Stops = append(rl.Stops, ReportStop{Name: stop.Name, Lat: stop.Coord.Lat, Lon: stop.Coord.Lon})
		}
		report.Lines = append(report.Lines, rl)
	}

	return report
}
