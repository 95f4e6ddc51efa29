// Package server implements the driftwatch HTTP API server.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/driftwatch-systems/driftwatch/internal/alert"
	"github.com/driftwatch-systems/driftwatch/internal/ingest"
	"github.com/driftwatch-systems/driftwatch/internal/report"
	"github.com/driftwatch-systems/driftwatch/internal/store"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

const maxRequestBody = 1 << 20 // 1 MiB

// Server is the driftwatch HTTP API server.
type Server struct {
	store    store.Store
	reporter *report.Reporter
	alerts   *alert.Manager
	pipeline *ingest.Pipeline // nil disables /api/ingest/run
	router   chi.Router
	addr     string
	srv      *http.Server
	logger   *slog.Logger
}

// New creates an HTTP server. pipeline may be nil when ingestion is not
// configured; the manual-trigger endpoint then returns 503.
func New(cfg *types.ServerConfig, st store.Store, reporter *report.Reporter, alerts *alert.Manager, pipeline *ingest.Pipeline, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	addr := ":3000"
	var apiKey string
	if cfg != nil {
		if cfg.Addr != "" {
			addr = cfg.Addr
		}
		apiKey = cfg.APIKey
	}

	s := &Server{
		store:    st,
		reporter: reporter,
		alerts:   alerts,
		pipeline: pipeline,
		addr:     addr,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(APIKeyMiddleware(apiKey))
	r.Use(MaxBodyMiddleware(maxRequestBody))
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	s.router = r
	s.registerRoutes(r)
	return s
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start begins serving HTTP requests. It blocks until the listener fails or
// Stop is called.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.logger.Info("http server listening", "addr", s.addr)
	return s.srv.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}
