package alert

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/driftwatch-systems/driftwatch/internal/store"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// Classification defaults, overridable via AlertsConfig.
const (
	DefaultMinAnomalyCount = 2

	DefaultEscalationMaxZScore = 3.0
	DefaultEscalationPValue    = 0.01
	DefaultEscalationTrendPct  = 15.0
)

// Fixed recommendations per alert category.
const (
	recAnomaly      = "Check data quality and input features for the anomalous prediction"
	recDistribution = "Consider model retraining with updated data distribution"
	recRetrain      = "Retrain the model: the data distribution has shifted significantly"
	recTrend        = "Monitor upcoming predictions closely for further degradation"
	recMultiSignal  = "Immediate action required - review model performance and input data"
)

// Manager classifies drift results into alerts, persists them to the event
// log, and notifies sinks. Persistence and notification are separate steps:
// an alert is saved first, then dispatched, so a sink outage never loses the
// record.
type Manager struct {
	store      store.Store
	dispatcher *Dispatcher
	logger     *slog.Logger

	minAnomalyCount int
	escMaxZScore    float64
	escPValue       float64
	escTrendPct     float64
}

// NewManager creates an alert manager over the given store. Nil config uses
// the defaults with a console-only dispatcher.
func NewManager(st store.Store, cfg *types.AlertsConfig, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		store:           st,
		logger:          logger,
		minAnomalyCount: DefaultMinAnomalyCount,
		escMaxZScore:    DefaultEscalationMaxZScore,
		escPValue:       DefaultEscalationPValue,
		escTrendPct:     DefaultEscalationTrendPct,
	}

	var sinks []types.SinkConfig
	if cfg != nil {
		if cfg.MinAnomalyCount < 0 {
			return nil, &store.ValidationError{Field: "minAnomalyCount", Reason: "must not be negative"}
		}
		if cfg.MinAnomalyCount > 0 {
			m.minAnomalyCount = cfg.MinAnomalyCount
		}
		if esc := cfg.Escalation; esc != nil {
			if esc.MaxZScore > 0 {
				m.escMaxZScore = esc.MaxZScore
			}
			if esc.PValue > 0 {
				m.escPValue = esc.PValue
			}
			if esc.TrendChangePct > 0 {
				m.escTrendPct = esc.TrendChangePct
			}
		}
		sinks = cfg.Sinks
	}

	dispatcher, err := NewDispatcher(sinks, logger)
	if err != nil {
		return nil, err
	}
	m.dispatcher = dispatcher
	return m, nil
}

// CreateAlertFromDrift classifies a drift result. It returns nil when no
// signal fires: the anomaly signal only counts once the flagged-point count
// reaches the configured minimum, so a single outlier never pages anyone.
func (m *Manager) CreateAlertFromDrift(result types.DriftResult, predictionDate string) *types.Alert {
	var fired []types.AlertCategory
	if result.Anomalies.HasAnomalies && result.Anomalies.Count >= m.minAnomalyCount {
		fired = append(fired, types.AlertAnomaly)
	}
	if result.DistributionDrift.HasDrift {
		fired = append(fired, types.AlertDistributionDrift)
	}
	if result.TrendDrift.HasTrendDrift {
		fired = append(fired, types.AlertTrendDrift)
	}
	if len(fired) == 0 {
		return nil
	}

	category := fired[0]
	severity := types.SeverityWarning
	if len(fired) >= 2 {
		category = types.AlertMultiSignal
		severity = types.SeverityCritical
	} else if m.shouldEscalate(result) {
		severity = types.SeverityCritical
	}

	return &types.Alert{
		Category:       category,
		Severity:       severity,
		Message:        buildMessage(category, result),
		Recommendation: recommendationFor(category, severity),
		PredictionDate: predictionDate,
		Drift:          result,
		CreatedAt:      time.Now().UTC(),
	}
}

// shouldEscalate promotes a single-signal warning to critical when any
// secondary threshold is breached.
func (m *Manager) shouldEscalate(result types.DriftResult) bool {
	if result.Anomalies.MaxZScore > m.escMaxZScore {
		return true
	}
	if result.DistributionDrift.PValue < m.escPValue {
		return true
	}
	if math.Abs(result.TrendDrift.ChangePct) > m.escTrendPct {
		return true
	}
	return false
}

func buildMessage(category types.AlertCategory, result types.DriftResult) string {
	switch category {
	case types.AlertAnomaly:
		return fmt.Sprintf("Anomaly detected: %d outlier(s) found (max z-score: %.2f)",
			result.Anomalies.Count, result.Anomalies.MaxZScore)
	case types.AlertDistributionDrift:
		return fmt.Sprintf("Distribution shift detected (p=%.4f, mean change: %+.1f%%)",
			result.DistributionDrift.PValue, result.DistributionDrift.MeanChangePct)
	case types.AlertTrendDrift:
		return fmt.Sprintf("Trend change detected: %s (%+.1f%%)",
			strings.ToUpper(string(result.TrendDrift.Direction)), result.TrendDrift.ChangePct)
	case types.AlertMultiSignal:
		var signals []string
		if result.Anomalies.HasAnomalies {
			signals = append(signals, fmt.Sprintf("%d anomalies", result.Anomalies.Count))
		}
		if result.DistributionDrift.HasDrift {
			signals = append(signals, "distribution shift")
		}
		if result.TrendDrift.HasTrendDrift {
			signals = append(signals, "trend change")
		}
		return "Multiple drift signals: " + strings.Join(signals, ", ")
	}
	return "Drift detected"
}

func recommendationFor(category types.AlertCategory, severity types.Severity) string {
	switch category {
	case types.AlertAnomaly:
		return recAnomaly
	case types.AlertDistributionDrift:
		if severity == types.SeverityCritical {
			return recRetrain
		}
		return recDistribution
	case types.AlertTrendDrift:
		return recTrend
	case types.AlertMultiSignal:
		return recMultiSignal
	}
	return "Review model performance"
}

// SaveAlert persists an alert as a monitoring event with the full drift
// result embedded in metadata, and returns the event id.
func (m *Manager) SaveAlert(ctx context.Context, alert *types.Alert) (int64, error) {
	if alert == nil {
		return 0, &store.ValidationError{Field: "alert", Reason: "must not be nil"}
	}
	metadata := map[string]interface{}{
		"category":       string(alert.Category),
		"recommendation": alert.Recommendation,
		"predictionDate": alert.PredictionDate,
		"driftDetails":   alert.Drift,
	}
	return m.store.SaveEvent(ctx, types.EventAlert, alert.Severity, alert.Message, metadata)
}

// Notify dispatches an alert to all sinks. Call after SaveAlert; sink
// failures are logged by the dispatcher and never returned.
func (m *Manager) Notify(alert types.Alert) {
	m.dispatcher.Dispatch(alert)
}

// GetActiveAlerts returns alerts raised within the last windowDays, newest
// first. Events with unreadable metadata still surface with their message
// and severity intact.
func (m *Manager) GetActiveAlerts(ctx context.Context, windowDays int) ([]types.AlertRecord, error) {
	return m.GetAlertHistory(ctx, windowDays, "")
}

// GetAlertHistory returns alerts from the last windowDays optionally
// filtered by severity, newest first.
func (m *Manager) GetAlertHistory(ctx context.Context, windowDays int, severity types.Severity) ([]types.AlertRecord, error) {
	if severity != "" && !severity.Valid() {
		return nil, &store.ValidationError{Field: "severity", Reason: "unknown severity"}
	}
	events, err := m.store.GetEvents(ctx, windowDays, types.EventFilter{
		Kind:     types.EventAlert,
		Severity: severity,
	})
	if err != nil {
		return nil, err
	}

	records := make([]types.AlertRecord, 0, len(events))
	for _, ev := range events {
		records = append(records, recordFromEvent(ev))
	}
	return records, nil
}

// GetAlertSummary aggregates recent alerts by severity and category.
func (m *Manager) GetAlertSummary(ctx context.Context, windowDays int) (types.AlertSummary, error) {
	summary := types.AlertSummary{
		BySeverity: make(map[types.Severity]int),
		ByCategory: make(map[types.AlertCategory]int),
	}

	records, err := m.GetActiveAlerts(ctx, windowDays)
	if err != nil {
		return summary, err
	}

	summary.Total = len(records)
	for _, r := range records {
		summary.BySeverity[r.Severity]++
		summary.ByCategory[r.Category]++
	}
	return summary, nil
}

func recordFromEvent(ev types.MonitoringEvent) types.AlertRecord {
	rec := types.AlertRecord{
		EventID:   ev.ID,
		Severity:  ev.Severity,
		Message:   ev.Message,
		CreatedAt: ev.CreatedAt,
	}
	if v, ok := ev.Metadata["category"].(string); ok {
		rec.Category = types.AlertCategory(v)
	}
	if v, ok := ev.Metadata["recommendation"].(string); ok {
		rec.Recommendation = v
	}
	if v, ok := ev.Metadata["predictionDate"].(string); ok {
		rec.PredictionDate = v
	}
	return rec
}
