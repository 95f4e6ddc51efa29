package server

import (
	"expvar"

	"github.com/go-chi/chi/v5"

	"github.com/driftwatch-systems/driftwatch/internal/server/handlers"
)

func (s *Server) registerRoutes(r chi.Router) {
	h := handlers.New(s.store, s.reporter, s.alerts, s.pipeline)
	h.SetLogger(s.logger)

	r.Route("/api", func(r chi.Router) {
		// Health
		r.Get("/health", h.Health)

		// Predictions
		r.Get("/predictions", h.PredictionHistory)
		r.Post("/predictions", h.SavePrediction)
		r.Get("/predictions/latest", h.LatestPrediction)
		r.Post("/predictions/{date}/actuals", h.UpdateActuals)

		// Alerts
		r.Get("/alerts", h.ActiveAlerts)
		r.Get("/alerts/history", h.AlertHistory)

		// Drift
		r.Get("/drift", h.DriftStatus)

		// Model metrics
		r.Get("/metrics", h.RollingMetrics)
		r.Post("/metrics", h.SaveModelMetric)

		// Events
		r.Get("/events", h.ListEvents)

		// Ingestion
		r.Post("/ingest/run", h.RunIngestCycle)
	})

	// Runtime counters
	r.Method("GET", "/debug/vars", expvar.Handler())
}
