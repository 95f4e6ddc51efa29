package postgres

import (
	"context"

	"github.com/driftwatch-systems/driftwatch/internal/store"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// SaveModelMetric upserts the snapshot for the metric date.
func (s *Store) SaveModelMetric(ctx context.Context, metric types.ModelMetric) (int64, error) {
	if _, err := store.ParseDate(metric.Date); err != nil {
		return 0, err
	}

	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO model_metrics (metric_date, r2_score, rmse, mae)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (metric_date) DO UPDATE SET
			r2_score = EXCLUDED.r2_score,
			rmse     = EXCLUDED.rmse,
			mae      = EXCLUDED.mae
		RETURNING id
	`, metric.Date, metric.R2Score, metric.RMSE, metric.MAE).Scan(&id)
	if err != nil {
		return 0, &store.StorageError{Op: "save_model_metric", Err: err}
	}
	return id, nil
}

// GetModelMetrics returns the window newest first.
func (s *Store) GetModelMetrics(ctx context.Context, windowDays int) ([]types.ModelMetric, error) {
	if windowDays <= 0 {
		windowDays = store.DefaultWindowDays
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, to_char(metric_date, 'YYYY-MM-DD'), r2_score, rmse, mae, created_at
		FROM model_metrics
		WHERE metric_date >= CURRENT_DATE - $1::int
		ORDER BY metric_date DESC
	`, windowDays)
	if err != nil {
		return nil, &store.StorageError{Op: "get_model_metrics", Err: err}
	}
	defer rows.Close()

	metrics := make([]types.ModelMetric, 0)
	for rows.Next() {
		var m types.ModelMetric
		if err := rows.Scan(&m.ID, &m.Date, &m.R2Score, &m.RMSE, &m.MAE, &m.CreatedAt); err != nil {
			return nil, &store.StorageError{Op: "get_model_metrics", Err: err}
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, &store.StorageError{Op: "get_model_metrics", Err: err}
	}
	return metrics, nil
}

// GetSummaryStatistics aggregates the prediction and event windows in SQL.
// Missing actuals are NULL, so averages and counts never coerce them to zero.
func (s *Store) GetSummaryStatistics(ctx context.Context, windowDays int) (types.SummaryStatistics, error) {
	if windowDays <= 0 {
		windowDays = store.DefaultWindowDays
	}
	stats := types.SummaryStatistics{
		EventsBySeverity: make(map[types.Severity]int),
	}

	var latest *string
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(archived_gb_actual),
		       COALESCE(AVG(archived_gb_predicted), 0),
		       COALESCE(AVG(savings_gb_predicted), 0),
		       to_char(MAX(prediction_date), 'YYYY-MM-DD')
		FROM predictions
		WHERE prediction_date >= CURRENT_DATE - $1::int
	`, windowDays).Scan(&stats.TotalPredictions, &stats.PredictionsWithActuals,
		&stats.AvgArchivedGBPredicted, &stats.AvgSavingsGBPredicted, &latest)
	if err != nil {
		return types.SummaryStatistics{}, &store.StorageError{Op: "get_summary_statistics", Err: err}
	}
	if latest != nil {
		stats.LatestPredictionDate = *latest
	}

	rows, err := s.pool.Query(ctx, `
		SELECT event_severity, COUNT(*)
		FROM monitoring_events
		WHERE created_at >= NOW() - ($1::int * INTERVAL '1 day')
		GROUP BY event_severity
	`, windowDays)
	if err != nil {
		return types.SummaryStatistics{}, &store.StorageError{Op: "get_summary_statistics", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var severity string
		var count int
		if err := rows.Scan(&severity, &count); err != nil {
			return types.SummaryStatistics{}, &store.StorageError{Op: "get_summary_statistics", Err: err}
		}
		stats.EventsBySeverity[types.Severity(severity)] = count
	}
	if err := rows.Err(); err != nil {
		return types.SummaryStatistics{}, &store.StorageError{Op: "get_summary_statistics", Err: err}
	}
	return stats, nil
}
