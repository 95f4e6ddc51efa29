package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// ListEvents returns recent monitoring events, optionally narrowed by kind
// and severity.
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)
	filter := types.EventFilter{
		Kind:     types.EventKind(r.URL.Query().Get("kind")),
		Severity: types.Severity(r.URL.Query().Get("severity")),
	}

	events, err := h.store.GetEvents(r.Context(), days, filter)
	if err != nil {
		h.fail(w, "failed to list events", err)
		return
	}
	if events == nil {
		events = []types.MonitoringEvent{}
	}
	_ = json.NewEncoder(w).Encode(events)
}
