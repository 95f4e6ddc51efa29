package types

import "time"

// Prediction is one forecast event: two predicted quantities for a date,
// with actual observations filled in later when they arrive.
type Prediction struct {
	ID                  int64      `json:"id"`
	Date                string     `json:"date"` // YYYY-MM-DD, unique per store
	ArchivedGBPredicted float64    `json:"archivedGbPredicted"`
	SavingsGBPredicted  float64    `json:"savingsGbPredicted"`
	ArchivedGBActual    *float64   `json:"archivedGbActual,omitempty"`
	SavingsGBActual     *float64   `json:"savingsGbActual,omitempty"`
	Source              DataSource `json:"source,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// HasActuals reports whether observed values have arrived for this prediction.
func (p Prediction) HasActuals() bool {
	return p.ArchivedGBActual != nil || p.SavingsGBActual != nil
}

// MonitoringEvent is an append-only log entry. Immutable once written.
type MonitoringEvent struct {
	ID        int64                  `json:"id"`
	Kind      EventKind              `json:"kind"`
	Severity  Severity               `json:"severity"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// EventFilter narrows a GetEvents query. Zero values mean "no filter".
type EventFilter struct {
	Kind     EventKind
	Severity Severity
}

// ModelMetric is a periodic snapshot of model quality, written by an
// external evaluation process and read-only from this subsystem.
type ModelMetric struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"` // YYYY-MM-DD, unique per store
	R2Score   float64   `json:"r2Score"`
	RMSE      float64   `json:"rmse"`
	MAE       float64   `json:"mae"`
	CreatedAt time.Time `json:"createdAt"`
}

// SummaryStatistics aggregates a prediction window for the dashboard.
// An empty store yields the zero value, never an error.
type SummaryStatistics struct {
	TotalPredictions       int              `json:"totalPredictions"`
	PredictionsWithActuals int              `json:"predictionsWithActuals"`
	AvgArchivedGBPredicted float64          `json:"avgArchivedGbPredicted"`
	AvgSavingsGBPredicted  float64          `json:"avgSavingsGbPredicted"`
	EventsBySeverity       map[Severity]int `json:"eventsBySeverity"`
	LatestPredictionDate   string           `json:"latestPredictionDate,omitempty"`
}

// AnomalyResult is the z-score detector output.
type AnomalyResult struct {
	HasAnomalies bool         `json:"hasAnomalies"`
	Count        int          `json:"anomalyCount"`
	Indices      []int        `json:"anomalyIndices,omitempty"`
	MaxZScore    float64      `json:"maxZScore"`
	Mean         float64      `json:"mean"`
	StdDev       float64      `json:"stdDev"`
	Threshold    float64      `json:"threshold"`
	Baseline     BaselineMode `json:"baseline"`
	Degraded     bool         `json:"degraded,omitempty"`
}

// DistributionResult is the two-sample distribution-equality test output.
type DistributionResult struct {
	HasDrift      bool         `json:"hasDrift"`
	Statistic     float64      `json:"ksStatistic"`
	PValue        float64      `json:"pValue"`
	Threshold     float64      `json:"threshold"`
	CurrentMean   float64      `json:"currentMean"`
	BaselineMean  float64      `json:"baselineMean"`
	MeanChangePct float64      `json:"meanChangePct"`
	Baseline      BaselineMode `json:"baseline"`
	Degraded      bool         `json:"degraded,omitempty"`
}

// TrendResult is the trend drift detector output.
type TrendResult struct {
	HasTrendDrift bool           `json:"hasTrendDrift"`
	Direction     TrendDirection `json:"direction"`
	Slope         float64        `json:"slope"`
	ChangePct     float64        `json:"changePct"`
	OlderMean     float64        `json:"olderMean"`
	RecentMean    float64        `json:"recentMean"`
	Threshold     float64        `json:"threshold"`
	Degraded      bool           `json:"degraded,omitempty"`
}

// DriftResult is the combined output of one detector run. It lives only in
// memory: the alert derived from it is what gets persisted, with the full
// result embedded as event metadata for traceability.
type DriftResult struct {
	Anomalies            AnomalyResult      `json:"anomalies"`
	DistributionDrift    DistributionResult `json:"distributionDrift"`
	TrendDrift           TrendResult        `json:"trendDrift"`
	OverallDriftDetected bool               `json:"overallDriftDetected"`
	CheckedAt            time.Time          `json:"checkedAt"`
	SampleSize           int                `json:"sampleSize"`
}

// Alert is the classified outcome of a drift result. Persisted as a
// MonitoringEvent with kind "alert".
type Alert struct {
	Category       AlertCategory `json:"category"`
	Severity       Severity      `json:"severity"`
	Message        string        `json:"message"`
	Recommendation string        `json:"recommendation"`
	PredictionDate string        `json:"predictionDate"`
	Drift          DriftResult   `json:"drift"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// AlertRecord is a persisted alert read back from the event log.
type AlertRecord struct {
	EventID        int64         `json:"eventId"`
	Category       AlertCategory `json:"category"`
	Severity       Severity      `json:"severity"`
	Message        string        `json:"message"`
	Recommendation string        `json:"recommendation"`
	PredictionDate string        `json:"predictionDate,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// AlertSummary aggregates recent alerts for the dashboard.
type AlertSummary struct {
	Total      int                   `json:"total"`
	BySeverity map[Severity]int      `json:"bySeverity"`
	ByCategory map[AlertCategory]int `json:"byCategory"`
}
