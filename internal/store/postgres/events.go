package postgres

import (
	"context"
	"encoding/json"

	"github.com/driftwatch-systems/driftwatch/internal/store"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// SaveEvent appends an immutable event row with JSONB metadata.
func (s *Store) SaveEvent(ctx context.Context, kind types.EventKind, severity types.Severity, message string, metadata map[string]interface{}) (int64, error) {
	if kind == "" {
		return 0, &store.ValidationError{Field: "kind", Reason: "must not be empty"}
	}
	if !severity.Valid() {
		return 0, &store.ValidationError{Field: "severity", Reason: "must be info, warning, or critical"}
	}

	var metaJSON []byte
	if metadata != nil {
		var err error
		metaJSON, err = json.Marshal(metadata)
		if err != nil {
			return 0, &store.ValidationError{Field: "metadata", Reason: err.Error()}
		}
	}

	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO monitoring_events (event_type, event_severity, message, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, string(kind), string(severity), message, metaJSON).Scan(&id)
	if err != nil {
		return 0, &store.StorageError{Op: "save_event", Err: err}
	}
	return id, nil
}

// GetEvents returns the window newest first, optionally filtered by kind
// and/or severity. Filtering never parses the metadata payload.
func (s *Store) GetEvents(ctx context.Context, windowDays int, filter types.EventFilter) ([]types.MonitoringEvent, error) {
	if windowDays <= 0 {
		windowDays = store.DefaultWindowDays
	}

	query := `
		SELECT id, event_type, event_severity, message, metadata, created_at
		FROM monitoring_events
		WHERE created_at >= NOW() - ($1::int * INTERVAL '1 day')
	`
	args := []interface{}{windowDays}
	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		query += ` AND event_type = $2`
	}
	if filter.Severity != "" {
		args = append(args, string(filter.Severity))
		if filter.Kind != "" {
			query += ` AND event_severity = $3`
		} else {
			query += ` AND event_severity = $2`
		}
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &store.StorageError{Op: "get_events", Err: err}
	}
	defer rows.Close()

	events := make([]types.MonitoringEvent, 0)
	for rows.Next() {
		var ev types.MonitoringEvent
		var kind, severity string
		var metaJSON []byte
		if err := rows.Scan(&ev.ID, &kind, &severity, &ev.Message, &metaJSON, &ev.CreatedAt); err != nil {
			return nil, &store.StorageError{Op: "get_events", Err: err}
		}
		ev.Kind = types.EventKind(kind)
		ev.Severity = types.Severity(severity)
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &ev.Metadata); err != nil {
				s.logger.Warn("skipping corrupt event metadata", "eventId", ev.ID, "error", err)
			}
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, &store.StorageError{Op: "get_events", Err: err}
	}
	return events, nil
}
