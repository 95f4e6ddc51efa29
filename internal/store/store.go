// Package store defines the persistence interface for predictions, monitoring
// events, and model metrics. Backends live in subpackages; everything else in
// the system is computed on top of this interface's reads.
package store

import (
	"context"
	"time"

	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// Store is the persistence backend interface. The memory backend is the POC
// default; postgres is the durable backend. All write operations are
// serialized by the backend so concurrent ingestion pipelines cannot lose
// updates.
type Store interface {
	// SavePrediction inserts or replaces the prediction row for date
	// (YYYY-MM-DD) and returns its row id. Negative predicted values or an
	// unparseable date fail with a ValidationError.
	SavePrediction(ctx context.Context, date string, archivedGB, savingsGB float64) (int64, error)

	// SavePredictionFrom is SavePrediction with an explicit source tag, used
	// by the ingestion pipeline to mark fallback data.
	SavePredictionFrom(ctx context.Context, date string, archivedGB, savingsGB float64, source types.DataSource) (int64, error)

	// UpdateActual fills in observed values for an existing prediction.
	// Returns false (not an error) when no row exists for date. Nil pointers
	// leave the corresponding column untouched.
	UpdateActual(ctx context.Context, date string, archivedGB, savingsGB *float64) (bool, error)

	// GetPredictions returns predictions created in the last windowDays,
	// ordered by date descending. Empty slice when none exist.
	GetPredictions(ctx context.Context, windowDays int) ([]types.Prediction, error)

	// GetLatestPrediction returns the most recent prediction by date, or
	// nil when the store is empty.
	GetLatestPrediction(ctx context.Context) (*types.Prediction, error)

	// GetRecentForDrift returns the predicted archived-GB values of the most
	// recent windowSize predictions, oldest first, as a flat series for the
	// drift detector.
	GetRecentForDrift(ctx context.Context, windowSize int) ([]float64, error)

	// SaveEvent appends an immutable monitoring event and returns its id.
	// Metadata is stored as an opaque JSON document and round-trips
	// losslessly through GetEvents.
	SaveEvent(ctx context.Context, kind types.EventKind, severity types.Severity, message string, metadata map[string]interface{}) (int64, error)

	// GetEvents returns events from the last windowDays, newest first,
	// optionally narrowed by kind and/or severity.
	GetEvents(ctx context.Context, windowDays int, filter types.EventFilter) ([]types.MonitoringEvent, error)

	// SaveModelMetric upserts a model quality snapshot keyed by metric date.
	SaveModelMetric(ctx context.Context, metric types.ModelMetric) (int64, error)

	// GetModelMetrics returns metric snapshots from the last windowDays,
	// newest first.
	GetModelMetrics(ctx context.Context, windowDays int) ([]types.ModelMetric, error)

	// GetSummaryStatistics aggregates the prediction and event windows. An
	// empty store yields zero counts, not an error.
	GetSummaryStatistics(ctx context.Context, windowDays int) (types.SummaryStatistics, error)

	// Lifecycle
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Ping(ctx context.Context) error
}

// ParseDate validates a YYYY-MM-DD date string.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(types.DateFormat, date)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD: " + date}
	}
	return t, nil
}

// DefaultWindowDays is the window applied when a caller passes a
// non-positive windowDays. Every backend uses it so queries behave the same
// regardless of which store is configured.
const DefaultWindowDays = 30

// WindowCutoff returns the inclusive lower bound for a windowDays query.
func WindowCutoff(now time.Time, windowDays int) time.Time {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return now.AddDate(0, 0, -windowDays)
}
