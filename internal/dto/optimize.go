// Package dto defines the JSON request and response shapes of the planner
// binary. The application layer owns upload validation; these types only
// enforce the engine's numeric contracts.
package dto

import (
	"transit-network-service/internal/config"
	"transit-network-service/internal/domain"
	"transit-network-service/internal/services"
)

type BuildingRequest struct {
	Name      string  `json:"name" validate:"required"`
	Demand    float64 `json:"demand" validate:"gte=0"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

type SourceRequest struct {
	Name      string  `json:"name" validate:"required"`
	Demand    float64 `json:"demand" validate:"gte=0"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

type StopRequest struct {
	Name      string  `json:"name" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

type OptimizeRequest struct {
	Buildings []BuildingRequest `json:"buildings" validate:"dive"`
	Sources   []SourceRequest   `json:"sources" validate:"dive"`
	Stops     []StopRequest     `json:"stops" validate:"required,min=1,dive"`

	FleetSize              int     `json:"fleet_size" validate:"gte=1"`
	TargetLines            int     `json:"target_lines" validate:"gte=1"`
	KTransfers             int     `json:"k_transfers" validate:"gte=0"`
	TransferPenaltyMinutes float64 `json:"transfer_penalty_minutes" validate:"gte=0"`
	SpeedKmh               float64 `json:"speed_kmh" validate:"gt=0"`
	Algorithm              string  `json:"algorithm" validate:"oneof=demand_driven iterative_greedy fallback_greedy"`
}

type StopResponse struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type LineResponse struct {
	ID              string         `json:"id"`
	Color           string         `json:"color,omitempty"`
	Stops           []StopResponse `json:"stops"`
	StopCount       int            `json:"stop_count"`
	CycleMinutes    float64        `json:"cycle_minutes"`
	DemandCoverage  float64        `json:"demand_coverage"`
	EfficiencyScore float64        `json:"efficiency_score"`
}

type OptimizeResponse struct {
	RunID           string         `json:"run_id"`
	Algorithm       string         `json:"algorithm"`
	Lines           []LineResponse `json:"lines"`
	TotalCost       float64        `json:"total_cost"`
	DemandCoverage  float64        `json:"demand_coverage"`
	Efficiency      float64        `json:"efficiency"`
	HeadwayMinutes  float64        `json:"headway_minutes,omitempty"`
	MeanWaitMinutes float64        `json:"mean_wait_minutes,omitempty"`
}

// ToServiceRequest maps the wire request onto an engine request, applying the
// configured default sources when the caller supplies none.
func (r OptimizeRequest) ToServiceRequest(cfg config.Config) services.Request {
	req := services.Request{
		Buildings: make([]services.Building, 0, len(r.Buildings)),
		Sources:   make([]services.SourceInput, 0, len(r.Sources)),
		Stops:     make([]services.StopSite, 0, len(r.Stops)),
		Params: services.Params{
			FleetSize:          r.FleetSize,
			TargetLines:        r.TargetLines,
			KTransfers:         r.KTransfers,
			TransferPenaltyMin: r.TransferPenaltyMinutes,
			SpeedKmh:           r.SpeedKmh,
			Algorithm:          services.Algorithm(r.Algorithm),
			FreqFloor:          cfg.Engine.FreqFloor,
		},
		Colors: cfg.RouteColors,
	}

	for _, b := range r.Buildings {
		req.Buildings = append(req.Buildings, services.Building{
			Name:   b.Name,
			Demand: b.Demand,
			Coord:  domain.Coordinates{Lat: b.Latitude, Lon: b.Longitude},
		})
	}
	for _, s := range r.Sources {
		req.Sources = append(req.Sources, services.SourceInput{
			Name:   s.Name,
			Demand: s.Demand,
			Coord:  domain.Coordinates{Lat: s.Latitude, Lon: s.Longitude},
		})
	}
	if len(req.Sources) == 0 {
		for _, s := range cfg.DefaultSources {
			req.Sources = append(req.Sources, services.SourceInput{
				Name:   s.Name,
				Demand: s.Demand,
				Coord:  domain.Coordinates{Lat: s.Latitude, Lon: s.Longitude},
			})
		}
	}
	for _, s := range r.Stops {
		req.Stops = append(req.Stops, services.StopSite{
			Name:  s.Name,
			Coord: domain.Coordinates{Lat: s.Latitude, Lon: s.Longitude},
		})
	}

	gen := services.GeneratorConfig{
		TargetLines:           r.TargetLines,
		SpeedKmh:              r.SpeedKmh,
		Sequence:              services.SequenceNearestNeighbor,
		HubCount:              cfg.Engine.HubCount,
		TopDestinations:       cfg.Engine.TopDestinations,
		CrossHubPairs:         cfg.Engine.CrossHubPairs,
		CrossHubThresholdDeg:  cfg.Engine.CrossHubThresholdDeg,
		CrossHubIntermediates: cfg.Engine.CrossHubIntermediates,
		FeederHubs:            cfg.Engine.FeederHubs,
		FeederRadiusKm:        cfg.Engine.FeederRadiusKm,
		FeederStops:           cfg.Engine.FeederStops,
		LayoverFrac:           cfg.Engine.LayoverFrac,
	}
	req.Generator = &gen

	return req
}

// NewOptimizeResponse maps an engine report onto the wire response.
func NewOptimizeResponse(report *services.Report) OptimizeResponse {
	resp := OptimizeResponse{
		RunID:           report.RunID,
		Algorithm:       string(report.Algorithm),
		Lines:           make([]LineResponse, 0, len(report.Lines)),
		TotalCost:       report.TotalCost,
		DemandCoverage:  report.DemandCoverage,
		Efficiency:      report.Efficiency,
		HeadwayMinutes:  report.HeadwayMinutes,
		MeanWaitMinutes: report.MeanWaitMinutes,
	}

	for _, ln := range report.Lines {
		lr := LineResponse{
			ID:              ln.ID,
			Color:           ln.Color,
			Stops:           make([]StopResponse, 0, len(ln.Stops)),
			StopCount:       ln.StopCount,
			CycleMinutes:    ln.CycleMinutes,
			DemandCoverage:  ln.DemandCoverage,
			EfficiencyScore: ln.EfficiencyScore,
		}
		for _, s := range ln.Stops {
			lr.Stops = append(lr.Stops, StopResponse{Name: s.Name, Latitude: s.Lat, Longitude: s.Lon})
		}
		resp.Lines = append(resp.Lines, lr)
	}

	return resp
}
