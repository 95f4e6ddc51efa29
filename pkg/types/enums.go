// Package types defines the public domain types for the driftwatch forecast
// monitoring subsystem.
package types

// DateFormat is the canonical day-granularity date layout used throughout
// the store and the HTTP API.
const DateFormat = "2006-01-02"

// Severity is the ordered classification attached to monitoring events and
// alerts: info < warning < critical.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Rank returns the ordering position of a severity, higher is more severe.
// Unknown severities rank below info.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is one of the defined severity levels.
func (s Severity) Valid() bool {
	return s == SeverityInfo || s == SeverityWarning || s == SeverityCritical
}

// AlertCategory identifies which detector signal (or combination) raised an alert.
type AlertCategory string

const (
	AlertAnomaly           AlertCategory = "anomaly"
	AlertDistributionDrift AlertCategory = "distribution_drift"
	AlertTrendDrift        AlertCategory = "trend_drift"
	AlertMultiSignal       AlertCategory = "multi_signal"
)

// EventKind classifies a monitoring event row.
type EventKind string

// EventKind values enumerate the recorded event categories. The set is open:
// the store accepts any non-empty kind, these are the ones the pipeline writes.
const (
	EventAlert          EventKind = "alert"
	EventDriftDetected  EventKind = "drift_detected"
	EventDriftChecked   EventKind = "drift_check_completed"
	EventPredictionSave EventKind = "prediction_saved"
	EventPredictionErr  EventKind = "prediction_error"
	EventFallbackUsed   EventKind = "fallback_activated"
)

// BaselineMode records which reference a detector compared against.
type BaselineMode string

const (
	// BaselineStored means the detector compared against an explicitly
	// captured baseline sequence.
	BaselineStored BaselineMode = "stored"
	// BaselineSelf means no baseline was set and the input sequence served
	// as its own reference. This is a degraded mode, not an error.
	BaselineSelf BaselineMode = "self"
)

// TrendDirection describes the sign of a detected trend.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// SinkType defines the alert notification sink backend.
type SinkType string

const (
	SinkConsole SinkType = "console"
	SinkFile    SinkType = "file"
)

// DataSource tags where a forecast record came from, so fallback data is
// never silently indistinguishable from real producer output.
type DataSource string

const (
	SourceLive     DataSource = "live"
	SourceFallback DataSource = "fallback"
)
