package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/driftwatch-systems/driftwatch/internal/metrics"
)

type savePredictionRequest struct {
	Date                string  `json:"date"`
	ArchivedGBPredicted float64 `json:"archivedGbPredicted"`
	SavingsGBPredicted  float64 `json:"savingsGbPredicted"`
}

// SavePrediction upserts the prediction row for a date.
func (h *Handlers) SavePrediction(w http.ResponseWriter, r *http.Request) {
	var req savePredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	id, err := h.store.SavePrediction(r.Context(), req.Date, req.ArchivedGBPredicted, req.SavingsGBPredicted)
	if err != nil {
		h.fail(w, "failed to save prediction", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": id, "date": req.Date})
}

// PredictionHistory returns the recent prediction window as chart rows.
func (h *Handlers) PredictionHistory(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30)

	points, err := h.reporter.PredictionHistory(r.Context(), days)
	if err != nil {
		h.fail(w, "failed to load prediction history", err)
		return
	}
	_ = json.NewEncoder(w).Encode(points)
}

// LatestPrediction returns the most recent prediction, 404 when the store
// is empty.
func (h *Handlers) LatestPrediction(w http.ResponseWriter, r *http.Request) {
	latest, err := h.store.GetLatestPrediction(r.Context())
	if err != nil {
		h.fail(w, "failed to load latest prediction", err)
		return
	}
	if latest == nil {
		h.writeError(w, http.StatusNotFound, "no predictions recorded", nil)
		return
	}
	_ = json.NewEncoder(w).Encode(latest)
}

type updateActualsRequest struct {
	ArchivedGBActual *float64 `json:"archivedGbActual"`
	SavingsGBActual  *float64 `json:"savingsGbActual"`
}

// UpdateActuals fills in observed values for an existing prediction. Absent
// fields leave the corresponding column untouched.
func (h *Handlers) UpdateActuals(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	var req updateActualsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.ArchivedGBActual == nil && req.SavingsGBActual == nil {
		h.writeError(w, http.StatusBadRequest, "at least one actual value is required", nil)
		return
	}

	updated, err := h.store.UpdateActual(r.Context(), date, req.ArchivedGBActual, req.SavingsGBActual)
	if err != nil {
		h.fail(w, "failed to update actuals", err)
		return
	}
	if !updated {
		h.writeError(w, http.StatusNotFound, "no prediction for date", nil)
		return
	}
	metrics.ActualsUpdated.Add(1)

	_ = json.NewEncoder(w).Encode(map[string]interface{}{"date": date, "updated": true})
}
