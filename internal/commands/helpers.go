// Package commands implements the CLI subcommands for the driftwatch binary.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/driftwatch-systems/driftwatch/internal/alert"
	"github.com/driftwatch-systems/driftwatch/internal/drift"
	"github.com/driftwatch-systems/driftwatch/internal/ingest"
	"github.com/driftwatch-systems/driftwatch/internal/report"
	"github.com/driftwatch-systems/driftwatch/internal/store"
	"github.com/driftwatch-systems/driftwatch/internal/store/memory"
	pgstore "github.com/driftwatch-systems/driftwatch/internal/store/postgres"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// newStore creates the configured persistence backend.
func newStore(ctx context.Context, cfg *types.ProjectConfig) (store.Store, error) {
	switch cfg.Store {
	case "", "memory":
		return memory.New(), nil
	case "postgres":
		pc, ok := cfg.Postgres.(*pgstore.Config)
		if !ok || pc == nil {
			return nil, fmt.Errorf("postgres config is required when store is postgres")
		}
		return pgstore.New(ctx, pc)
	default:
		return nil, fmt.Errorf("unsupported store: %s", cfg.Store)
	}
}

// components bundles the monitoring stack built from a project config. The
// pipeline is nil when no forecast source is configured.
type components struct {
	detector *drift.Detector
	alerts   *alert.Manager
	reporter *report.Reporter
	pipeline *ingest.Pipeline
}

func buildComponents(cfg *types.ProjectConfig, st store.Store, logger *slog.Logger) (*components, error) {
	detector, err := drift.New(cfg.Detector)
	if err != nil {
		return nil, fmt.Errorf("creating detector: %w", err)
	}

	alerts, err := alert.NewManager(st, cfg.Alerts, logger)
	if err != nil {
		return nil, fmt.Errorf("creating alert manager: %w", err)
	}

	reporter := report.New(st, alerts, detector, logger)

	var producer, fallback ingest.Source
	if cfg.Producer != nil {
		if cfg.Producer.URL != "" {
			client, err := ingest.NewClient(cfg.Producer, logger)
			if err != nil {
				return nil, fmt.Errorf("creating producer client: %w", err)
			}
			producer = client
		}
		if cfg.Producer.Fallback {
			fallback = ingest.NewFallbackSource()
		}
	}
	// With no upstream URL the synthetic source becomes the primary.
	if producer == nil {
		producer = fallback
		fallback = nil
	}

	var pipeline *ingest.Pipeline
	if producer != nil {
		pipeline = ingest.NewPipeline(st, detector, alerts, producer, fallback, driftWindow(cfg), logger)
	}

	return &components{
		detector: detector,
		alerts:   alerts,
		reporter: reporter,
		pipeline: pipeline,
	}, nil
}

// driftWindow returns the configured drift window size, or the default.
func driftWindow(cfg *types.ProjectConfig) int {
	if cfg.Detector != nil && cfg.Detector.DriftWindowSize > 0 {
		return cfg.Detector.DriftWindowSize
	}
	return ingest.DefaultWindowSize
}
