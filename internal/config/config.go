package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds deployment-level defaults for the planner: the fallback source
// list used when a request carries none, the rendering palette, and engine
// tuning knobs. All of it can be overridden from a YAML file.
type Config struct {
	DefaultSources []SourceConfig `yaml:"default_sources" validate:"dive"`
	RouteColors    []string       `yaml:"route_colors" validate:"dive,hexcolor"`
	Engine         EngineConfig   `yaml:"engine"`
}

// SourceConfig describes one fallback demand source.
type SourceConfig struct {
	Name      string  `yaml:"name" validate:"required"`
	Latitude  float64 `yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `yaml:"longitude" validate:"gte=-180,lte=180"`
	Demand    float64 `yaml:"demand" validate:"gte=0"`
}

// EngineConfig tunes candidate generation and headway derivation.
// CrossHubThresholdDeg is in raw coordinate-degree units; FeederRadiusKm is a
// great-circle distance.
type EngineConfig struct {
	HubCount              int     `yaml:"hub_count" validate:"gte=1"`
	TopDestinations       int     `yaml:"top_destinations" validate:"gte=1"`
	CrossHubPairs         int     `yaml:"cross_hub_pairs" validate:"gte=0"`
	CrossHubThresholdDeg  float64 `yaml:"cross_hub_threshold_deg" validate:"gt=0"`
	CrossHubIntermediates int     `yaml:"cross_hub_intermediates" validate:"gte=0"`
	FeederHubs            int     `yaml:"feeder_hubs" validate:"gte=0"`
	FeederRadiusKm        float64 `yaml:"feeder_radius_km" validate:"gt=0"`
	FeederStops           int     `yaml:"feeder_stops" validate:"gte=0"`
	LayoverFrac           float64 `yaml:"layover_frac" validate:"gte=0,lt=1"`
	FreqFloor             float64 `yaml:"freq_floor" validate:"gt=0"`
}

// Default returns the compiled-in configuration: the campus source list and
// color palette the planner shipped with, and the tuning the heuristics were
// calibrated against.
func Default() Config {
	return Config{
		DefaultSources: []SourceConfig{
			{Name: "West Village Dorms (West Campus)", Latitude: 33.779568, Longitude: -84.404716, Demand: 2052},
			{Name: "North Avenue Dorms (East Campus)", Latitude: 33.77118, Longitude: -84.390857, Demand: 4256},
			{Name: "MARTA Midtown Station", Latitude: 33.781262, Longitude: -84.386494, Demand: 500},
		},
		RouteColors: []string{
			"#FF0000", "#00FF00", "#0000FF", "#FFFF00",
			"#FF00FF", "#00FFFF", "#FFA500", "#800080",
			"#FFC0CB", "#A52A2A", "#808080", "#000000",
		},
		Engine: EngineConfig{
			HubCount:              6,
			TopDestinations:       8,
			CrossHubPairs:         3,
			CrossHubThresholdDeg:  0.01,
			CrossHubIntermediates: 4,
			FeederHubs:            3,
			FeederRadiusKm:        0.5,
			FeederStops:           5,
			LayoverFrac:           0.1,
			FreqFloor:             1,
		},
	}
}

// Load reads and validates configuration from path, layered over Default.
// A missing file is not an error: the defaults apply unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("load config: validate %q: %w", path, err)
	}

	return cfg, nil
}
