package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// RunIngestCycle triggers one ingestion cycle on demand. The date query
// parameter defaults to today.
func (h *Handlers) RunIngestCycle(w http.ResponseWriter, r *http.Request) {
	if h.pipeline == nil {
		h.writeError(w, http.StatusServiceUnavailable, "ingestion is not configured", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format(types.DateFormat)
	}

	result, err := h.pipeline.RunCycle(r.Context(), date)
	if err != nil {
		h.fail(w, "ingest cycle failed", err)
		return
	}
	_ = json.NewEncoder(w).Encode(result)
}
