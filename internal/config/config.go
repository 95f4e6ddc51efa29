// Package config handles loading and validation of driftwatch.yaml project
// configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	pgstore "github.com/driftwatch-systems/driftwatch/internal/store/postgres"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// FileName is the project configuration file looked up in the config dir.
const FileName = "driftwatch.yaml"

// backendConfigs is a helper struct used for a second YAML unmarshal pass to
// decode backend-specific config sections into their concrete types.
type backendConfigs struct {
	Postgres *pgstore.Config `yaml:"postgres,omitempty"`
}

// Load reads and parses driftwatch.yaml from the given directory.
func Load(dir string) (*types.ProjectConfig, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg types.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Second pass: decode backend-specific sections into concrete types.
	var raw backendConfigs
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing backend config: %w", err)
	}
	if raw.Postgres != nil {
		cfg.Postgres = raw.Postgres
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func validate(cfg *types.ProjectConfig) error {
	switch cfg.Store {
	case "", "memory":
	case "postgres":
		pc, _ := cfg.Postgres.(*pgstore.Config)
		if pc == nil {
			return fmt.Errorf("postgres config is required when store is postgres")
		}
		if pc.DSN == "" {
			return fmt.Errorf("postgres.dsn is required")
		}
	default:
		return fmt.Errorf("unknown store %q", cfg.Store)
	}

	if d := cfg.Detector; d != nil {
		if d.ZScoreThreshold < 0 {
			return fmt.Errorf("detector.zScoreThreshold must not be negative")
		}
		if d.KSPValueThreshold < 0 || d.KSPValueThreshold >= 1 {
			return fmt.Errorf("detector.ksPValueThreshold must be in (0, 1)")
		}
		if d.TrendChangePct < 0 {
			return fmt.Errorf("detector.trendChangePct must not be negative")
		}
	}

	if a := cfg.Alerts; a != nil {
		if a.MinAnomalyCount < 0 {
			return fmt.Errorf("alerts.minAnomalyCount must not be negative")
		}
		for i, sink := range a.Sinks {
			switch sink.Type {
			case types.SinkConsole:
			case types.SinkFile:
				if sink.Path == "" {
					return fmt.Errorf("alerts.sinks[%d]: file sink requires a path", i)
				}
			default:
				return fmt.Errorf("alerts.sinks[%d]: unknown sink type %q", i, sink.Type)
			}
		}
	}

	if p := cfg.Producer; p != nil && p.Timeout != "" {
		if d, err := time.ParseDuration(p.Timeout); err != nil || d <= 0 {
			return fmt.Errorf("producer.timeout must be a positive duration")
		}
	}

	if in := cfg.Ingest; in != nil {
		if in.Interval != "" {
			if d, err := time.ParseDuration(in.Interval); err != nil || d <= 0 {
				return fmt.Errorf("ingest.interval must be a positive duration")
			}
		}
		if in.Enabled {
			hasURL := cfg.Producer != nil && cfg.Producer.URL != ""
			hasFallback := cfg.Producer != nil && cfg.Producer.Fallback
			if !hasURL && !hasFallback {
				return fmt.Errorf("ingest requires producer.url or producer.fallback")
			}
		}
	}

	return nil
}
