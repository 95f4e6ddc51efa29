// Package metrics exposes runtime counters via expvar.
package metrics

import "expvar"

var (
	IngestCyclesTotal   = expvar.NewInt("ingest_cycles_total")
	IngestCycleErrors   = expvar.NewInt("ingest_cycle_errors")
	FallbackActivations = expvar.NewInt("fallback_activations")
	PredictionsSaved    = expvar.NewInt("predictions_saved")
	DriftChecksTotal    = expvar.NewInt("drift_checks_total")
	DriftDetectedTotal  = expvar.NewInt("drift_detected_total")
	AlertsRaised        = expvar.NewInt("alerts_raised")
	ActualsUpdated      = expvar.NewInt("actuals_updated")
)
