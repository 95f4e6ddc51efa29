// Package postgres implements the durable Postgres store backend.
package postgres

const schemaDDL = `
CREATE TABLE IF NOT EXISTS predictions (
    id                    BIGSERIAL PRIMARY KEY,
    prediction_date       DATE NOT NULL UNIQUE,
    archived_gb_predicted DOUBLE PRECISION NOT NULL,
    savings_gb_predicted  DOUBLE PRECISION NOT NULL,
    archived_gb_actual    DOUBLE PRECISION,
    savings_gb_actual     DOUBLE PRECISION,
    source                TEXT NOT NULL DEFAULT 'live',
    created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_predictions_date ON predictions (prediction_date);

CREATE TABLE IF NOT EXISTS monitoring_events (
    id             BIGSERIAL PRIMARY KEY,
    event_type     TEXT NOT NULL,
    event_severity TEXT NOT NULL,
    message        TEXT NOT NULL,
    metadata       JSONB,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_events_type ON monitoring_events (event_type);
CREATE INDEX IF NOT EXISTS idx_events_created_at ON monitoring_events (created_at);

CREATE TABLE IF NOT EXISTS model_metrics (
    id          BIGSERIAL PRIMARY KEY,
    metric_date DATE NOT NULL UNIQUE,
    r2_score    DOUBLE PRECISION,
    rmse        DOUBLE PRECISION,
    mae         DOUBLE PRECISION,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_metrics_date ON model_metrics (metric_date);
`
