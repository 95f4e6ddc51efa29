package handlers

import (
	"encoding/json"
	"net/http"
)

// Health returns the server health status. The store ping degrades rather
// than fails the check: a read-only dashboard still works on cached state.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if err := h.store.Ping(r.Context()); err != nil {
		status = "degraded"
	}

	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": status,
	}); err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
}
