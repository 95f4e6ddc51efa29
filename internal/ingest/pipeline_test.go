package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwatch-systems/driftwatch/internal/alert"
	"github.com/driftwatch-systems/driftwatch/internal/drift"
	"github.com/driftwatch-systems/driftwatch/internal/ingest"
	"github.com/driftwatch-systems/driftwatch/internal/store"
	"github.com/driftwatch-systems/driftwatch/internal/store/memory"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

type stubSource struct {
	forecast ingest.Forecast
	err      error
	calls    int
}

func (s *stubSource) Fetch(_ context.Context, date string) (ingest.Forecast, error) {
	s.calls++
	if s.err != nil {
		return ingest.Forecast{}, s.err
	}
	f := s.forecast
	if f.Date == "" {
		f.Date = date
	}
	return f, nil
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Tag() types.DataSource { return types.SourceLive }

// flakyEventStore fails SaveEvent while leaving every other operation intact.
type flakyEventStore struct {
	*memory.Store
	failEvents bool
}

func (s *flakyEventStore) SaveEvent(ctx context.Context, kind types.EventKind, severity types.Severity, message string, metadata map[string]interface{}) (int64, error) {
	if s.failEvents {
		return 0, &store.StorageError{Op: "save_event", Err: errors.New("event log down")}
	}
	return s.Store.SaveEvent(ctx, kind, severity, message, metadata)
}

func newPipeline(t *testing.T, st store.Store, producer, fallback ingest.Source, alertsCfg *types.AlertsConfig) *ingest.Pipeline {
	t.Helper()
	detector, err := drift.New(nil)
	require.NoError(t, err)
	manager, err := alert.NewManager(st, alertsCfg, nil)
	require.NoError(t, err)
	return ingest.NewPipeline(st, detector, manager, producer, fallback, 30, nil)
}

func seedSteadyHistory(t *testing.T, st store.Store, days int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < days; i++ {
		date := fmt.Sprintf("2026-07-%02d", i+1)
		value := 245.0
		if i%2 == 1 {
			value = 255.0
		}
		_, err := st.SavePrediction(ctx, date, value, value*0.49)
		require.NoError(t, err)
	}
}

func TestRunCycle_LiveForecastSavedWithEvents(t *testing.T) {
	st := memory.New()
	producer := &stubSource{forecast: ingest.Forecast{ArchivedGB: 250, SavingsGB: 50}}
	p := newPipeline(t, st, producer, ingest.NewFallbackSource(), nil)
	ctx := context.Background()

	seedSteadyHistory(t, st, 20)

	result, err := p.RunCycle(ctx, "2026-08-30")
	require.NoError(t, err)

	assert.NotEmpty(t, result.CycleID)
	assert.Equal(t, types.SourceLive, result.Source)
	assert.Positive(t, result.PredictionID)
	assert.Nil(t, result.Alert)
	assert.False(t, result.Drift.OverallDriftDetected)

	latest, err := st.GetLatestPrediction(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "2026-08-30", latest.Date)
	assert.Equal(t, types.SourceLive, latest.Source)

	saved, err := st.GetEvents(ctx, 7, types.EventFilter{Kind: types.EventPredictionSave})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, result.CycleID, saved[0].Metadata["cycleId"])

	checked, err := st.GetEvents(ctx, 7, types.EventFilter{Kind: types.EventDriftChecked})
	require.NoError(t, err)
	assert.Len(t, checked, 1)
}

func TestRunCycle_FallbackWhenProducerFails(t *testing.T) {
	st := memory.New()
	producer := &stubSource{err: errors.New("connection refused")}
	p := newPipeline(t, st, producer, ingest.NewFallbackSource(), nil)
	ctx := context.Background()

	result, err := p.RunCycle(ctx, "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, types.SourceFallback, result.Source)

	latest, err := st.GetLatestPrediction(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, types.SourceFallback, latest.Source)

	activated, err := st.GetEvents(ctx, 7, types.EventFilter{Kind: types.EventFallbackUsed})
	require.NoError(t, err)
	require.Len(t, activated, 1)
	assert.Equal(t, types.SeverityWarning, activated[0].Severity)
}

func TestRunCycle_FallbackAsPrimaryKeepsFallbackTag(t *testing.T) {
	// Synthetic-only wiring, as configured when no producer URL is set.
	st := memory.New()
	p := newPipeline(t, st, ingest.NewFallbackSource(), nil, nil)
	ctx := context.Background()

	result, err := p.RunCycle(ctx, "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, types.SourceFallback, result.Source)

	latest, err := st.GetLatestPrediction(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, types.SourceFallback, latest.Source)
}

func TestRunCycle_NoFallbackPropagatesFailure(t *testing.T) {
	st := memory.New()
	producer := &stubSource{err: errors.New("connection refused")}
	p := newPipeline(t, st, producer, nil, nil)
	ctx := context.Background()

	_, err := p.RunCycle(ctx, "2026-08-30")
	require.Error(t, err)

	latest, err := st.GetLatestPrediction(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	failed, err := st.GetEvents(ctx, 7, types.EventFilter{Kind: types.EventPredictionErr})
	require.NoError(t, err)
	assert.Len(t, failed, 1)
}

func TestRunCycle_OutlierForecastRaisesAlert(t *testing.T) {
	st := memory.New()
	producer := &stubSource{forecast: ingest.Forecast{ArchivedGB: 600, SavingsGB: 120}}
	p := newPipeline(t, st, producer, nil, &types.AlertsConfig{MinAnomalyCount: 1})
	ctx := context.Background()

	seedSteadyHistory(t, st, 20)

	result, err := p.RunCycle(ctx, "2026-08-30")
	require.NoError(t, err)

	assert.True(t, result.Drift.OverallDriftDetected)
	require.NotNil(t, result.Alert)
	assert.Equal(t, types.AlertAnomaly, result.Alert.Category)
	assert.Equal(t, types.SeverityCritical, result.Alert.Severity)
	assert.Positive(t, result.AlertEventID)

	alerts, err := st.GetEvents(ctx, 7, types.EventFilter{Kind: types.EventAlert})
	require.NoError(t, err)
	assert.Len(t, alerts, 1)

	detected, err := st.GetEvents(ctx, 7, types.EventFilter{Kind: types.EventDriftDetected})
	require.NoError(t, err)
	assert.Len(t, detected, 1)
}

func TestRunCycle_EventLogOutageDoesNotStallIngestion(t *testing.T) {
	st := &flakyEventStore{Store: memory.New(), failEvents: true}
	producer := &stubSource{forecast: ingest.Forecast{ArchivedGB: 250, SavingsGB: 50}}
	p := newPipeline(t, st, producer, nil, nil)
	ctx := context.Background()

	result, err := p.RunCycle(ctx, "2026-08-30")
	require.NoError(t, err)
	assert.Positive(t, result.PredictionID)

	latest, err := st.GetLatestPrediction(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "2026-08-30", latest.Date)
}

func TestRunCycle_ResavingSameDateUpserts(t *testing.T) {
	st := memory.New()
	st.SetClock(func() time.Time {
		return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	})
	producer := &stubSource{forecast: ingest.Forecast{ArchivedGB: 250, SavingsGB: 50}}
	p := newPipeline(t, st, producer, nil, nil)
	ctx := context.Background()

	first, err := p.RunCycle(ctx, "2026-08-30")
	require.NoError(t, err)

	producer.forecast.ArchivedGB = 260
	second, err := p.RunCycle(ctx, "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, first.PredictionID, second.PredictionID)

	predictions, err := st.GetPredictions(ctx, 30)
	require.NoError(t, err)
	require.Len(t, predictions, 1)
	assert.Equal(t, 260.0, predictions[0].ArchivedGBPredicted)
}

func TestFallbackSource_DeterministicPerDate(t *testing.T) {
	fb := ingest.NewFallbackSource()
	ctx := context.Background()

	first, err := fb.Fetch(ctx, "2026-08-30")
	require.NoError(t, err)
	second, err := fb.Fetch(ctx, "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := fb.Fetch(ctx, "2026-08-31")
	require.NoError(t, err)
	assert.NotEqual(t, first.ArchivedGB, other.ArchivedGB)

	assert.Positive(t, first.ArchivedGB)
	assert.Positive(t, first.SavingsGB)
	assert.Less(t, first.SavingsGB, first.ArchivedGB)
}

func TestFallbackSource_RejectsBadDate(t *testing.T) {
	fb := ingest.NewFallbackSource()

	_, err := fb.Fetch(context.Background(), "30/08/2026")
	require.Error(t, err)
	assert.True(t, store.IsValidation(err))
}
