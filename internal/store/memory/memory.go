// Package memory implements the store interface in process memory. It is the
// POC default backend and the test double for everything built on the store.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/driftwatch-systems/driftwatch/internal/store"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// Compile-time interface satisfaction check.
var _ store.Store = (*Store)(nil)

// Store is a mutex-guarded in-memory store. The single lock serializes all
// writes, which is the concurrency contract the interface requires.
type Store struct {
	mu          sync.Mutex
	predictions map[string]types.Prediction // key: date
	events      []types.MonitoringEvent
	metrics     map[string]types.ModelMetric // key: date
	nextID      int64
	now         func() time.Time
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		predictions: make(map[string]types.Prediction),
		metrics:     make(map[string]types.ModelMetric),
		nextID:      1,
		now:         time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// SavePrediction upserts the row for date.
func (s *Store) SavePrediction(ctx context.Context, date string, archivedGB, savingsGB float64) (int64, error) {
	return s.SavePredictionFrom(ctx, date, archivedGB, savingsGB, types.SourceLive)
}

// SavePredictionFrom upserts the row for date with an explicit source tag.
func (s *Store) SavePredictionFrom(_ context.Context, date string, archivedGB, savingsGB float64, source types.DataSource) (int64, error) {
	if _, err := store.ParseDate(date); err != nil {
		return 0, err
	}
	if err := store.ValidatePredicted("archivedGbPredicted", archivedGB); err != nil {
		return 0, err
	}
	if err := store.ValidatePredicted("savingsGbPredicted", savingsGB); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.predictions[date]; ok {
		existing.ArchivedGBPredicted = archivedGB
		existing.SavingsGBPredicted = savingsGB
		existing.Source = source
		existing.UpdatedAt = now
		s.predictions[date] = existing
		return existing.ID, nil
	}

	p := types.Prediction{
		ID:                  s.allocID(),
		Date:                date,
		ArchivedGBPredicted: archivedGB,
		SavingsGBPredicted:  savingsGB,
		Source:              source,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	s.predictions[date] = p
	return p.ID, nil
}

// UpdateActual fills in observed values for an existing prediction.
func (s *Store) UpdateActual(_ context.Context, date string, archivedGB, savingsGB *float64) (bool, error) {
	if _, err := store.ParseDate(date); err != nil {
		return false, err
	}
	if archivedGB != nil {
		if err := store.ValidatePredicted("archivedGbActual", *archivedGB); err != nil {
			return false, err
		}
	}
	if savingsGB != nil {
		if err := store.ValidatePredicted("savingsGbActual", *savingsGB); err != nil {
			return false, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.predictions[date]
	if !ok {
		return false, nil
	}
	if archivedGB != nil {
		v := *archivedGB
		p.ArchivedGBActual = &v
	}
	if savingsGB != nil {
		v := *savingsGB
		p.SavingsGBActual = &v
	}
	p.UpdatedAt = s.now()
	s.predictions[date] = p
	return true, nil
}

// GetPredictions returns the window ordered by date descending.
func (s *Store) GetPredictions(_ context.Context, windowDays int) ([]types.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := store.WindowCutoff(s.now(), windowDays).Format(types.DateFormat)
	result := make([]types.Prediction, 0, len(s.predictions))
	for _, p := range s.predictions {
		if p.Date >= cutoff {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date > result[j].Date })
	return result, nil
}

// GetLatestPrediction returns the most recent prediction by date, nil if none.
func (s *Store) GetLatestPrediction(_ context.Context) (*types.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *types.Prediction
	for date := range s.predictions {
		if latest == nil || date > latest.Date {
			p := s.predictions[date]
			latest = &p
		}
	}
	return latest, nil
}

// GetRecentForDrift returns the last windowSize archived-GB predictions,
// oldest first.
func (s *Store) GetRecentForDrift(_ context.Context, windowSize int) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dates := make([]string, 0, len(s.predictions))
	for date := range s.predictions {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	if windowSize > 0 && len(dates) > windowSize {
		dates = dates[len(dates)-windowSize:]
	}

	values := make([]float64, 0, len(dates))
	for _, date := range dates {
		values = append(values, s.predictions[date].ArchivedGBPredicted)
	}
	return values, nil
}

// SaveEvent appends an immutable event row. Metadata is round-tripped through
// JSON so stored documents are decoupled from caller-held maps, matching the
// opaque-blob semantics of the durable backend.
func (s *Store) SaveEvent(_ context.Context, kind types.EventKind, severity types.Severity, message string, metadata map[string]interface{}) (int64, error) {
	if kind == "" {
		return 0, &store.ValidationError{Field: "kind", Reason: "must not be empty"}
	}
	if !severity.Valid() {
		return 0, &store.ValidationError{Field: "severity", Reason: "must be info, warning, or critical"}
	}

	var stored map[string]interface{}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return 0, &store.ValidationError{Field: "metadata", Reason: err.Error()}
		}
		if err := json.Unmarshal(raw, &stored); err != nil {
			return 0, &store.StorageError{Op: "save_event", Err: err}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev := types.MonitoringEvent{
		ID:        s.allocID(),
		Kind:      kind,
		Severity:  severity,
		Message:   message,
		Metadata:  stored,
		CreatedAt: s.now(),
	}
	s.events = append(s.events, ev)
	return ev.ID, nil
}

// GetEvents returns the window newest first, optionally filtered.
func (s *Store) GetEvents(_ context.Context, windowDays int, filter types.EventFilter) ([]types.MonitoringEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := store.WindowCutoff(s.now(), windowDays)
	result := make([]types.MonitoringEvent, 0)
	for i := len(s.events) - 1; i >= 0; i-- {
		ev := s.events[i]
		if ev.CreatedAt.Before(cutoff) {
			continue
		}
		if filter.Kind != "" && ev.Kind != filter.Kind {
			continue
		}
		if filter.Severity != "" && ev.Severity != filter.Severity {
			continue
		}
		result = append(result, ev)
	}
	return result, nil
}

// SaveModelMetric upserts the snapshot for the metric date.
func (s *Store) SaveModelMetric(_ context.Context, metric types.ModelMetric) (int64, error) {
	if _, err := store.ParseDate(metric.Date); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.metrics[metric.Date]; ok {
		metric.ID = existing.ID
		metric.CreatedAt = existing.CreatedAt
	} else {
		metric.ID = s.allocID()
		metric.CreatedAt = now
	}
	s.metrics[metric.Date] = metric
	return metric.ID, nil
}

// GetModelMetrics returns the window newest first.
func (s *Store) GetModelMetrics(_ context.Context, windowDays int) ([]types.ModelMetric, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := store.WindowCutoff(s.now(), windowDays).Format(types.DateFormat)
	result := make([]types.ModelMetric, 0, len(s.metrics))
	for _, m := range s.metrics {
		if m.Date >= cutoff {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date > result[j].Date })
	return result, nil
}

// GetSummaryStatistics aggregates the window. Missing actuals are treated as
// absent, never as zero.
func (s *Store) GetSummaryStatistics(ctx context.Context, windowDays int) (types.SummaryStatistics, error) {
	predictions, err := s.GetPredictions(ctx, windowDays)
	if err != nil {
		return types.SummaryStatistics{}, err
	}
	events, err := s.GetEvents(ctx, windowDays, types.EventFilter{})
	if err != nil {
		return types.SummaryStatistics{}, err
	}

	stats := types.SummaryStatistics{
		EventsBySeverity: make(map[types.Severity]int),
	}
	for _, ev := range events {
		stats.EventsBySeverity[ev.Severity]++
	}
	if len(predictions) == 0 {
		return stats, nil
	}

	stats.TotalPredictions = len(predictions)
	stats.LatestPredictionDate = predictions[0].Date
	var sumArchived, sumSavings float64
	for _, p := range predictions {
		sumArchived += p.ArchivedGBPredicted
		sumSavings += p.SavingsGBPredicted
		if p.HasActuals() {
			stats.PredictionsWithActuals++
		}
	}
	stats.AvgArchivedGBPredicted = sumArchived / float64(len(predictions))
	stats.AvgSavingsGBPredicted = sumSavings / float64(len(predictions))
	return stats, nil
}

// Start is a no-op for the memory backend.
func (s *Store) Start(_ context.Context) error { return nil }

// Stop is a no-op for the memory backend.
func (s *Store) Stop(_ context.Context) error { return nil }

// Ping always succeeds for the memory backend.
func (s *Store) Ping(_ context.Context) error { return nil }
