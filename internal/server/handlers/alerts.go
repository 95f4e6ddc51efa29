package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// ActiveAlerts returns recent alerts with summary counts.
func (h *Handlers) ActiveAlerts(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)

	report, err := h.reporter.ActiveAlerts(r.Context(), days)
	if err != nil {
		h.fail(w, "failed to load alerts", err)
		return
	}
	_ = json.NewEncoder(w).Encode(report)
}

// AlertHistory returns historical alerts, optionally filtered by severity.
func (h *Handlers) AlertHistory(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30)
	severity := types.Severity(r.URL.Query().Get("severity"))

	records, err := h.alerts.GetAlertHistory(r.Context(), days, severity)
	if err != nil {
		h.fail(w, "failed to load alert history", err)
		return
	}
	if records == nil {
		records = []types.AlertRecord{}
	}
	_ = json.NewEncoder(w).Encode(records)
}
