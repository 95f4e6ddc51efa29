package types

// ProjectConfig is the top-level driftwatch.yaml configuration.
// Backend-specific sections (postgres) are decoded in a second pass by
// internal/config so this package stays free of driver imports.
type ProjectConfig struct {
	// Store selects the persistence backend: "memory" or "postgres".
	Store string `yaml:"store" json:"store"`

	Detector *DetectorConfig `yaml:"detector,omitempty" json:"detector,omitempty"`
	Alerts   *AlertsConfig   `yaml:"alerts,omitempty" json:"alerts,omitempty"`
	Producer *ProducerConfig `yaml:"producer,omitempty" json:"producer,omitempty"`
	Ingest   *IngestConfig   `yaml:"ingest,omitempty" json:"ingest,omitempty"`
	Server   *ServerConfig   `yaml:"server,omitempty" json:"server,omitempty"`

	// Postgres holds the backend-specific config, decoded by internal/config.
	Postgres interface{} `yaml:"-" json:"-"`
}

// DetectorConfig holds the runtime-tunable drift detection thresholds.
type DetectorConfig struct {
	ZScoreThreshold   float64 `yaml:"zScoreThreshold,omitempty" json:"zScoreThreshold,omitempty"`     // default 2.0
	KSPValueThreshold float64 `yaml:"ksPValueThreshold,omitempty" json:"ksPValueThreshold,omitempty"` // default 0.05
	TrendChangePct    float64 `yaml:"trendChangePct,omitempty" json:"trendChangePct,omitempty"`       // default 10.0
	MinSamples        int     `yaml:"minSamples,omitempty" json:"minSamples,omitempty"`               // default 10
	DriftWindowSize   int     `yaml:"driftWindowSize,omitempty" json:"driftWindowSize,omitempty"`     // default 30
}

// EscalationConfig holds the secondary thresholds that promote a
// single-signal alert from warning to critical. These are operator-tunable
// defaults, not invariants.
type EscalationConfig struct {
	MaxZScore      float64 `yaml:"maxZScore,omitempty" json:"maxZScore,omitempty"`           // default 3.0
	PValue         float64 `yaml:"pValue,omitempty" json:"pValue,omitempty"`                 // default 0.01
	TrendChangePct float64 `yaml:"trendChangePct,omitempty" json:"trendChangePct,omitempty"` // default 15.0
}

// SinkConfig configures one alert notification sink.
type SinkConfig struct {
	Type SinkType `yaml:"type" json:"type"`
	Path string   `yaml:"path,omitempty" json:"path,omitempty"` // file sink only
}

// AlertsConfig configures classification and notification.
type AlertsConfig struct {
	// MinAnomalyCount is how many flagged points the anomaly detector must
	// report before the anomaly signal counts toward an alert. Default 2.
	MinAnomalyCount int               `yaml:"minAnomalyCount,omitempty" json:"minAnomalyCount,omitempty"`
	Escalation      *EscalationConfig `yaml:"escalation,omitempty" json:"escalation,omitempty"`
	Sinks           []SinkConfig      `yaml:"sinks,omitempty" json:"sinks,omitempty"`
}

// ProducerConfig configures the upstream forecast producer client.
type ProducerConfig struct {
	URL         string `yaml:"url,omitempty" json:"url,omitempty"`
	Timeout     string `yaml:"timeout,omitempty" json:"timeout,omitempty"`         // e.g. "10s"
	MaxRetries  int    `yaml:"maxRetries,omitempty" json:"maxRetries,omitempty"`   // default 3
	BreakerName string `yaml:"breakerName,omitempty" json:"breakerName,omitempty"` // default "producer"
	// Fallback enables the synthetic data source when the producer is
	// unavailable. Fallback records are tagged source=fallback downstream.
	Fallback bool `yaml:"fallback" json:"fallback"`
}

// IngestConfig configures the periodic ingestion loop.
type IngestConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Interval string `yaml:"interval,omitempty" json:"interval,omitempty"` // default "24h"
}

// ServerConfig configures the HTTP query API.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty" json:"addr,omitempty"` // default ":3000"
	// APIKey, when set, is required in the X-API-Key header for every
	// endpoint except the health check.
	APIKey string `yaml:"apiKey,omitempty" json:"-"`
}
