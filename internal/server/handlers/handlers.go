// Package handlers implements HTTP request handlers for the driftwatch API.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/driftwatch-systems/driftwatch/internal/alert"
	"github.com/driftwatch-systems/driftwatch/internal/ingest"
	"github.com/driftwatch-systems/driftwatch/internal/report"
	"github.com/driftwatch-systems/driftwatch/internal/store"
)

// Handlers contains all HTTP handler dependencies.
type Handlers struct {
	store    store.Store
	reporter *report.Reporter
	alerts   *alert.Manager
	pipeline *ingest.Pipeline
	logger   *slog.Logger
}

// New creates a new Handlers instance. pipeline may be nil.
func New(st store.Store, reporter *report.Reporter, alerts *alert.Manager, pipeline *ingest.Pipeline) *Handlers {
	return &Handlers{
		store:    st,
		reporter: reporter,
		alerts:   alerts,
		pipeline: pipeline,
		logger:   slog.Default(),
	}
}

// SetLogger overrides the default logger.
func (h *Handlers) SetLogger(l *slog.Logger) {
	if l != nil {
		h.logger = l
	}
}

// writeError logs the internal error and returns a sanitized JSON error to
// the client.
func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string, err error) {
	if err != nil {
		h.logger.Error(msg, "error", err, "status", status)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// fail maps an error to 400 for validation failures, 500 otherwise.
func (h *Handlers) fail(w http.ResponseWriter, msg string, err error) {
	if store.IsValidation(err) {
		h.writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	h.writeError(w, http.StatusInternalServerError, msg, err)
}

// queryInt reads a positive integer query parameter, falling back to def.
func queryInt(r *http.Request, name string, def int) int {
	if q := r.URL.Query().Get(name); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			return n
		}
	}
	return def
}
