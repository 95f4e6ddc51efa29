package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/driftwatch-systems/driftwatch/internal/store"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// SavePrediction upserts the row for date.
func (s *Store) SavePrediction(ctx context.Context, date string, archivedGB, savingsGB float64) (int64, error) {
	return s.SavePredictionFrom(ctx, date, archivedGB, savingsGB, types.SourceLive)
}

// SavePredictionFrom upserts the row for date with an explicit source tag.
func (s *Store) SavePredictionFrom(ctx context.Context, date string, archivedGB, savingsGB float64, source types.DataSource) (int64, error) {
	if _, err := store.ParseDate(date); err != nil {
		return 0, err
	}
	if err := store.ValidatePredicted("archivedGbPredicted", archivedGB); err != nil {
		return 0, err
	}
	if err := store.ValidatePredicted("savingsGbPredicted", savingsGB); err != nil {
		return 0, err
	}

	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO predictions (prediction_date, archived_gb_predicted, savings_gb_predicted, source)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (prediction_date) DO UPDATE SET
			archived_gb_predicted = EXCLUDED.archived_gb_predicted,
			savings_gb_predicted  = EXCLUDED.savings_gb_predicted,
			source                = EXCLUDED.source,
			updated_at            = NOW()
		RETURNING id
	`, date, archivedGB, savingsGB, string(source)).Scan(&id)
	if err != nil {
		return 0, &store.StorageError{Op: "save_prediction", Err: err}
	}
	return id, nil
}

// UpdateActual fills in observed values. COALESCE keeps untouched columns,
// so a nil pointer never overwrites a previously recorded actual.
func (s *Store) UpdateActual(ctx context.Context, date string, archivedGB, savingsGB *float64) (bool, error) {
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

	tag, err := s.pool.Exec(ctx, `
		UPDATE predictions
		SET archived_gb_actual = COALESCE($1, archived_gb_actual),
		    savings_gb_actual  = COALESCE($2, savings_gb_actual),
		    updated_at         = NOW()
		WHERE prediction_date = $3
	`, archivedGB, savingsGB, date)
	if err != nil {
		return false, &store.StorageError{Op: "update_actual", Err: err}
	}
	return tag.RowsAffected() > 0, nil
}

const predictionColumns = `
	id, to_char(prediction_date, 'YYYY-MM-DD'),
	archived_gb_predicted, savings_gb_predicted,
	archived_gb_actual, savings_gb_actual,
	source, created_at, updated_at
`

func scanPrediction(row pgx.Row) (types.Prediction, error) {
	var p types.Prediction
	var source string
	err := row.Scan(&p.ID, &p.Date, &p.ArchivedGBPredicted, &p.SavingsGBPredicted,
		&p.ArchivedGBActual, &p.SavingsGBActual, &source, &p.CreatedAt, &p.UpdatedAt)
	p.Source = types.DataSource(source)
	return p, err
}

// GetPredictions returns the window ordered by date descending.
func (s *Store) GetPredictions(ctx context.Context, windowDays int) ([]types.Prediction, error) {
	if windowDays <= 0 {
		windowDays = store.DefaultWindowDays
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+predictionColumns+`
		FROM predictions
		WHERE prediction_date >= CURRENT_DATE - $1::int
		ORDER BY prediction_date DESC
	`, windowDays)
	if err != nil {
		return nil, &store.StorageError{Op: "get_predictions", Err: err}
	}
	defer rows.Close()

	predictions := make([]types.Prediction, 0)
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, &store.StorageError{Op: "get_predictions", Err: err}
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &store.StorageError{Op: "get_predictions", Err: err}
	}
	return predictions, nil
}

// GetLatestPrediction returns the most recent prediction by date, nil if none.
func (s *Store) GetLatestPrediction(ctx context.Context) (*types.Prediction, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+predictionColumns+`
		FROM predictions
		ORDER BY prediction_date DESC
		LIMIT 1
	`)
	p, err := scanPrediction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &store.StorageError{Op: "get_latest_prediction", Err: err}
	}
	return &p, nil
}

// GetRecentForDrift returns the last windowSize archived-GB predictions,
// oldest first.
func (s *Store) GetRecentForDrift(ctx context.Context, windowSize int) ([]float64, error) {
	if windowSize <= 0 {
		windowSize = 30
	}
	rows, err := s.pool.Query(ctx, `
		SELECT archived_gb_predicted FROM (
			SELECT archived_gb_predicted, prediction_date
			FROM predictions
			ORDER BY prediction_date DESC
			LIMIT $1
		) recent
		ORDER BY prediction_date ASC
	`, windowSize)
	if err != nil {
		return nil, &store.StorageError{Op: "get_recent_for_drift", Err: err}
	}
	defer rows.Close()

	values := make([]float64, 0, windowSize)
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, &store.StorageError{Op: "get_recent_for_drift", Err: err}
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &store.StorageError{Op: "get_recent_for_drift", Err: err}
	}
	return values, nil
}
