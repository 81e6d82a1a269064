package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"transit-network-service/internal/config"
	"transit-network-service/internal/dto"
	"transit-network-service/internal/platform/obs"
	"transit-network-service/internal/services"
)

// main is the planner composition root. It reads a JSON optimization request,
// runs the engine once, and writes a JSON report. The surrounding application
// layer owns upload parsing, persistence, and transport.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	configPath := flag.String("config", getEnv("CONFIG_PATH", "config.yml"), "path to YAML defaults")
	requestPath := flag.String("request", getEnv("REQUEST_PATH", ""), "path to JSON request ('-' for stdin)")
	outPath := flag.String("out", getEnv("OUT_PATH", ""), "path for the JSON report (stdout when empty)")
	timeout := flag.Duration("timeout", getDurationEnv("OPTIMIZE_TIMEOUT", 5*time.Minute), "selection wall-clock cap")
	flag.Parse()

	if *requestPath == "" {
		log.Fatal("request path is required (-request or REQUEST_PATH)")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	req, err := readRequest(*requestPath)
	if err != nil {
		log.Fatal(err)
	}

	if err := validator.New().Struct(req); err != nil {
		log.Fatalf("invalid request: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = obs.WithRunID(ctx, fmt.Sprintf("planner-%d", os.Getpid()))

	report, err := services.Optimize(ctx, req.ToServiceRequest(cfg))
	if err != nil {
		log.Fatal(err)
	}

	if err := writeResponse(*outPath, dto.NewOptimizeResponse(report)); err != nil {
		log.Fatal(err)
	}

	log.Printf(
		"run_id=%s lines=%d coverage=%.4f cost=%.2f efficiency=%.4f",
		report.RunID, len(report.Lines), report.DemandCoverage, report.TotalCost, report.Efficiency,
	)
}

func readRequest(path string) (dto.OptimizeRequest, error) {
	var req dto.OptimizeRequest

	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return req, fmt.Errorf("read request: %w", err)
		}
		defer f.Close()
		in = f
	}

	dec := json.NewDecoder(in)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("read request: decode %q: %w", path, err)
	}
	return req, nil
}

func writeResponse(path string, resp dto.OptimizeResponse) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("write report: encode: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
