package handlers

import (
	"encoding/json"
	"net/http"
)

// DriftStatus runs the drift check over the recent window and returns the
// snapshot.
func (h *Handlers) DriftStatus(w http.ResponseWriter, r *http.Request) {
	window := queryInt(r, "window", 30)

	status, err := h.reporter.DriftStatus(r.Context(), window)
	if err != nil {
		h.fail(w, "failed to compute drift status", err)
		return
	}
	_ = json.NewEncoder(w).Encode(status)
}
