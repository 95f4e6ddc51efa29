package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwatch-systems/driftwatch/internal/alert"
	"github.com/driftwatch-systems/driftwatch/internal/drift"
	"github.com/driftwatch-systems/driftwatch/internal/store/memory"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

func newTestReporter(t *testing.T) (*Reporter, *memory.Store) {
	t.Helper()
	st := memory.New()
	st.SetClock(func() time.Time {
		return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	})
	manager, err := alert.NewManager(st, nil, nil)
	require.NoError(t, err)
	detector, err := drift.New(nil)
	require.NoError(t, err)
	return New(st, manager, detector, nil), st
}

func TestActiveAlerts_EmptyStore(t *testing.T) {
	r, _ := newTestReporter(t)

	report, err := r.ActiveAlerts(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, report.WindowDays)
	assert.Empty(t, report.Alerts)
	assert.Zero(t, report.Summary.Total)
}

func TestActiveAlerts_IncludesSavedAlerts(t *testing.T) {
	r, st := newTestReporter(t)
	ctx := context.Background()

	_, err := st.SaveEvent(ctx, types.EventAlert, types.SeverityWarning, "Anomaly detected", map[string]interface{}{
		"category":       "anomaly",
		"recommendation": "Check data quality and input features for the anomalous prediction",
		"predictionDate": "2026-08-29",
	})
	require.NoError(t, err)

	report, err := r.ActiveAlerts(ctx, 7)
	require.NoError(t, err)
	require.Len(t, report.Alerts, 1)
	assert.Equal(t, types.AlertAnomaly, report.Alerts[0].Category)
	assert.Equal(t, 1, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.BySeverity[types.SeverityWarning])
}

func TestPredictionHistory_OldestFirstWithActuals(t *testing.T) {
	r, st := newTestReporter(t)
	ctx := context.Background()

	_, err := st.SavePrediction(ctx, "2026-08-27", 240, 48)
	require.NoError(t, err)
	_, err = st.SavePrediction(ctx, "2026-08-28", 250, 50)
	require.NoError(t, err)

	archived := 245.0
	updated, err := st.UpdateActual(ctx, "2026-08-27", &archived, nil)
	require.NoError(t, err)
	require.True(t, updated)

	points, err := r.PredictionHistory(ctx, 30)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, "2026-08-27", points[0].Date)
	assert.Equal(t, "2026-08-28", points[1].Date)
	require.NotNil(t, points[0].ArchivedGBActual)
	assert.Equal(t, 245.0, *points[0].ArchivedGBActual)
	assert.Nil(t, points[0].SavingsGBActual)
	assert.Nil(t, points[1].ArchivedGBActual)
	assert.Equal(t, types.SourceLive, points[1].Source)
}

func TestPredictionHistory_EmptyStore(t *testing.T) {
	r, _ := newTestReporter(t)

	points, err := r.PredictionHistory(context.Background(), 30)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestDriftStatus_EmptyStoreOmitsResult(t *testing.T) {
	r, _ := newTestReporter(t)

	status, err := r.DriftStatus(context.Background(), 30)
	require.NoError(t, err)
	assert.Zero(t, status.SampleSize)
	assert.Nil(t, status.Result)
	assert.Equal(t, types.BaselineSelf, status.Baseline)
}

func TestDriftStatus_RunsCheckOverRecentWindow(t *testing.T) {
	r, st := newTestReporter(t)
	ctx := context.Background()

	dates := []string{
		"2026-08-20", "2026-08-21", "2026-08-22", "2026-08-23", "2026-08-24",
		"2026-08-25", "2026-08-26", "2026-08-27", "2026-08-28", "2026-08-29",
	}
	for i, date := range dates {
		_, err := st.SavePrediction(ctx, date, 250+float64(i%2), 50)
		require.NoError(t, err)
	}

	status, err := r.DriftStatus(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 10, status.SampleSize)
	require.NotNil(t, status.Result)
	assert.False(t, status.Result.OverallDriftDetected)
	assert.Equal(t, 10, status.Result.SampleSize)
}

func TestRollingMetrics_EmptyStore(t *testing.T) {
	r, _ := newTestReporter(t)

	report, err := r.RollingMetrics(context.Background(), 30)
	require.NoError(t, err)
	assert.Empty(t, report.Metrics)
	assert.Zero(t, report.Summary.TotalPredictions)
}

func TestRollingMetrics_CombinesMetricsAndSummary(t *testing.T) {
	r, st := newTestReporter(t)
	ctx := context.Background()

	_, err := st.SavePrediction(ctx, "2026-08-28", 250, 50)
	require.NoError(t, err)
	_, err = st.SaveModelMetric(ctx, types.ModelMetric{
		Date:    "2026-08-28",
		R2Score: 0.91,
		RMSE:    12.4,
		MAE:     9.8,
	})
	require.NoError(t, err)

	report, err := r.RollingMetrics(ctx, 30)
	require.NoError(t, err)
	require.Len(t, report.Metrics, 1)
	assert.Equal(t, 0.91, report.Metrics[0].R2Score)
	assert.Equal(t, 1, report.Summary.TotalPredictions)
	assert.Equal(t, "2026-08-28", report.Summary.LatestPredictionDate)
}
