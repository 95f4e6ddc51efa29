// Package report composes the store, alert manager, and drift detector into
// the read-only shapes served by the HTTP API and CLI status output.
package report

import (
	"context"
	"log/slog"

	"github.com/driftwatch-systems/driftwatch/internal/alert"
	"github.com/driftwatch-systems/driftwatch/internal/drift"
	"github.com/driftwatch-systems/driftwatch/internal/store"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// Reporter answers read queries. It never writes; an empty store yields
// well-formed zero-valued reports, not errors.
type Reporter struct {
	store    store.Store
	alerts   *alert.Manager
	detector *drift.Detector
	logger   *slog.Logger
}

// New creates a reporter over the given components.
func New(st store.Store, alerts *alert.Manager, detector *drift.Detector, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{store: st, alerts: alerts, detector: detector, logger: logger}
}

// ActiveAlertsReport bundles recent alerts with their aggregate counts.
type ActiveAlertsReport struct {
	WindowDays int                 `json:"windowDays"`
	Alerts     []types.AlertRecord `json:"alerts"`
	Summary    types.AlertSummary  `json:"summary"`
}

// HistoryPoint is one prediction row shaped for charting: predictions and
// actuals side by side, oldest first.
type HistoryPoint struct {
	Date                string           `json:"date"`
	ArchivedGBPredicted float64          `json:"archivedGbPredicted"`
	SavingsGBPredicted  float64          `json:"savingsGbPredicted"`
	ArchivedGBActual    *float64         `json:"archivedGbActual,omitempty"`
	SavingsGBActual     *float64         `json:"savingsGbActual,omitempty"`
	Source              types.DataSource `json:"source"`
}

// DriftStatus is a point-in-time drift snapshot over the recent window.
type DriftStatus struct {
	WindowSize int                `json:"windowSize"`
	SampleSize int                `json:"sampleSize"`
	Baseline   types.BaselineMode `json:"baseline"`
	Result     *types.DriftResult `json:"result,omitempty"`
}

// RollingMetricsReport bundles model quality snapshots with the prediction
// and event window aggregates.
type RollingMetricsReport struct {
	WindowDays int                     `json:"windowDays"`
	Metrics    []types.ModelMetric     `json:"metrics"`
	Summary    types.SummaryStatistics `json:"summary"`
}

// ActiveAlerts returns recent alerts, newest first, with summary counts.
func (r *Reporter) ActiveAlerts(ctx context.Context, windowDays int) (ActiveAlertsReport, error) {
	report := ActiveAlertsReport{WindowDays: windowDays}

	records, err := r.alerts.GetActiveAlerts(ctx, windowDays)
	if err != nil {
		return report, err
	}
	summary, err := r.alerts.GetAlertSummary(ctx, windowDays)
	if err != nil {
		return report, err
	}

	report.Alerts = records
	report.Summary = summary
	return report, nil
}

// PredictionHistory returns the recent prediction window as chart rows,
// oldest first.
func (r *Reporter) PredictionHistory(ctx context.Context, windowDays int) ([]HistoryPoint, error) {
	predictions, err := r.store.GetPredictions(ctx, windowDays)
	if err != nil {
		return nil, err
	}

	// Store order is newest first; charts want time flowing left to right.
	points := make([]HistoryPoint, 0, len(predictions))
	for i := len(predictions) - 1; i >= 0; i-- {
		p := predictions[i]
		points = append(points, HistoryPoint{
			Date:                p.Date,
			ArchivedGBPredicted: p.ArchivedGBPredicted,
			SavingsGBPredicted:  p.SavingsGBPredicted,
			ArchivedGBActual:    p.ArchivedGBActual,
			SavingsGBActual:     p.SavingsGBActual,
			Source:              p.Source,
		})
	}
	return points, nil
}

// DriftStatus runs the full drift check over the last windowSize predicted
// values. With no stored predictions the result is omitted rather than run
// against an empty series.
func (r *Reporter) DriftStatus(ctx context.Context, windowSize int) (DriftStatus, error) {
	status := DriftStatus{
		WindowSize: windowSize,
		Baseline:   r.detector.Mode(),
	}

	values, err := r.store.GetRecentForDrift(ctx, windowSize)
	if err != nil {
		return status, err
	}
	status.SampleSize = len(values)
	if len(values) == 0 {
		return status, nil
	}

	result := r.detector.CheckAllDrifts(values)
	status.Result = &result
	return status, nil
}

// RollingMetrics returns model quality snapshots plus window aggregates.
func (r *Reporter) RollingMetrics(ctx context.Context, windowDays int) (RollingMetricsReport, error) {
	report := RollingMetricsReport{WindowDays: windowDays}

	metrics, err := r.store.GetModelMetrics(ctx, windowDays)
	if err != nil {
		return report, err
	}
	summary, err := r.store.GetSummaryStatistics(ctx, windowDays)
	if err != nil {
		return report, err
	}

	report.Metrics = metrics
	report.Summary = summary
	return report, nil
}
