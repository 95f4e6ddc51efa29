package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/driftwatch-systems/driftwatch/internal/alert"
	"github.com/driftwatch-systems/driftwatch/internal/drift"
	"github.com/driftwatch-systems/driftwatch/internal/metrics"
	"github.com/driftwatch-systems/driftwatch/internal/store"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// DefaultWindowSize is the drift-check window when config leaves it unset.
const DefaultWindowSize = 30

// Pipeline runs one ingestion cycle: fetch a forecast, persist it, run the
// drift check over the stored window, and raise an alert when signals fire.
// Every cycle gets a ULID so its events correlate in the log.
type Pipeline struct {
	store      store.Store
	detector   *drift.Detector
	alerts     *alert.Manager
	producer   Source
	fallback   Source // nil disables the synthetic fallback
	windowSize int
	logger     *slog.Logger
}

// NewPipeline wires the ingestion cycle. producer is required; fallback may
// be nil, in which case producer failures fail the cycle.
func NewPipeline(st store.Store, detector *drift.Detector, alerts *alert.Manager, producer, fallback Source, windowSize int, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &Pipeline{
		store:      st,
		detector:   detector,
		alerts:     alerts,
		producer:   producer,
		fallback:   fallback,
		windowSize: windowSize,
		logger:     logger,
	}
}

// CycleResult summarizes one completed ingestion cycle.
type CycleResult struct {
	CycleID      string            `json:"cycleId"`
	Date         string            `json:"date"`
	Source       types.DataSource  `json:"source"`
	PredictionID int64             `json:"predictionId"`
	Drift        types.DriftResult `json:"drift"`
	Alert        *types.Alert      `json:"alert,omitempty"`
	AlertEventID int64             `json:"alertEventId,omitempty"`
}

// RunCycle executes one ingestion cycle for date. The prediction write is
// the only fatal step; instrumentation events that fail to persist are
// logged and skipped so a flaky event log cannot stall ingestion.
func (p *Pipeline) RunCycle(ctx context.Context, date string) (CycleResult, error) {
	cycleID := ulid.Make().String()
	result := CycleResult{CycleID: cycleID, Date: date}
	logger := p.logger.With("cycle", cycleID, "date", date)

	metrics.IngestCyclesTotal.Add(1)
	started := time.Now()

	forecast, source, err := p.fetchForecast(ctx, date, logger)
	if err != nil {
		metrics.IngestCycleErrors.Add(1)
		p.recordEvent(ctx, logger, types.EventPredictionErr, types.SeverityWarning,
			fmt.Sprintf("Forecast fetch failed for %s", date),
			map[string]interface{}{"cycleId": cycleID, "error": err.Error()})
		return result, err
	}
	result.Source = source

	predictionID, err := p.store.SavePredictionFrom(ctx, forecast.Date, forecast.ArchivedGB, forecast.SavingsGB, source)
	if err != nil {
		metrics.IngestCycleErrors.Add(1)
		p.recordEvent(ctx, logger, types.EventPredictionErr, types.SeverityWarning,
			fmt.Sprintf("Failed to save prediction for %s", forecast.Date),
			map[string]interface{}{"cycleId": cycleID, "error": err.Error()})
		return result, fmt.Errorf("saving prediction: %w", err)
	}
	result.PredictionID = predictionID
	metrics.PredictionsSaved.Add(1)
	p.recordEvent(ctx, logger, types.EventPredictionSave, types.SeverityInfo,
		fmt.Sprintf("Prediction saved for %s", forecast.Date),
		map[string]interface{}{
			"cycleId":             cycleID,
			"predictionId":        predictionID,
			"source":              string(source),
			"archivedGbPredicted": forecast.ArchivedGB,
			"savingsGbPredicted":  forecast.SavingsGB,
		})

	values, err := p.store.GetRecentForDrift(ctx, p.windowSize)
	if err != nil {
		metrics.IngestCycleErrors.Add(1)
		return result, fmt.Errorf("loading drift window: %w", err)
	}

	driftResult := p.detector.CheckAllDrifts(values)
	result.Drift = driftResult
	metrics.DriftChecksTotal.Add(1)
	p.recordEvent(ctx, logger, types.EventDriftChecked, types.SeverityInfo,
		fmt.Sprintf("Drift check completed for %s", forecast.Date),
		map[string]interface{}{
			"cycleId":              cycleID,
			"sampleSize":           driftResult.SampleSize,
			"overallDriftDetected": driftResult.OverallDriftDetected,
		})

	if driftResult.OverallDriftDetected {
		metrics.DriftDetectedTotal.Add(1)
		p.recordEvent(ctx, logger, types.EventDriftDetected, types.SeverityWarning,
			fmt.Sprintf("Drift detected in window ending %s", forecast.Date),
			map[string]interface{}{"cycleId": cycleID, "driftDetails": driftResult})
	}

	if a := p.alerts.CreateAlertFromDrift(driftResult, forecast.Date); a != nil {
		eventID, err := p.alerts.SaveAlert(ctx, a)
		if err != nil {
			// The drift_detected event above already captured the signal.
			logger.Error("failed to save alert", "error", err)
		} else {
			result.Alert = a
			result.AlertEventID = eventID
			metrics.AlertsRaised.Add(1)
			p.alerts.Notify(*a)
		}
	}

	logger.Info("ingest cycle completed",
		"source", source,
		"driftDetected", driftResult.OverallDriftDetected,
		"alertRaised", result.Alert != nil,
		"elapsed", time.Since(started))
	return result, nil
}

// fetchForecast tries the producer, then the synthetic fallback. Fallback
// activation is recorded as an event so dashboards can surface that the
// stored values are not live data.
func (p *Pipeline) fetchForecast(ctx context.Context, date string, logger *slog.Logger) (Forecast, types.DataSource, error) {
	forecast, err := p.producer.Fetch(ctx, date)
	if err == nil {
		return forecast, p.producer.Tag(), nil
	}

	if p.fallback == nil {
		return Forecast{}, "", fmt.Errorf("producer fetch failed: %w", err)
	}

	logger.Warn("producer unavailable, using fallback source", "error", err)
	metrics.FallbackActivations.Add(1)
	p.recordEvent(ctx, logger, types.EventFallbackUsed, types.SeverityWarning,
		fmt.Sprintf("Producer unavailable for %s, synthetic fallback activated", date),
		map[string]interface{}{"error": err.Error()})

	forecast, fbErr := p.fallback.Fetch(ctx, date)
	if fbErr != nil {
		return Forecast{}, "", fmt.Errorf("fallback fetch failed: %w", fbErr)
	}
	return forecast, p.fallback.Tag(), nil
}

// recordEvent persists an instrumentation event, logging failures instead of
// propagating them.
func (p *Pipeline) recordEvent(ctx context.Context, logger *slog.Logger, kind types.EventKind, severity types.Severity, message string, metadata map[string]interface{}) {
	if _, err := p.store.SaveEvent(ctx, kind, severity, message, metadata); err != nil {
		logger.Error("failed to record event", "kind", kind, "error", err)
	}
}
