package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// RollingMetrics returns model quality snapshots plus window aggregates.
func (h *Handlers) RollingMetrics(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30)

	report, err := h.reporter.RollingMetrics(r.Context(), days)
	if err != nil {
		h.fail(w, "failed to load metrics", err)
		return
	}
	_ = json.NewEncoder(w).Encode(report)
}

// SaveModelMetric upserts a model quality snapshot, written by the external
// evaluation process.
func (h *Handlers) SaveModelMetric(w http.ResponseWriter, r *http.Request) {
	var metric types.ModelMetric
	if err := json.NewDecoder(r.Body).Decode(&metric); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	id, err := h.store.SaveModelMetric(r.Context(), metric)
	if err != nil {
		h.fail(w, "failed to save model metric", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": id, "date": metric.Date})
}
