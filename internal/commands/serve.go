package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/driftwatch-systems/driftwatch/internal/config"
	"github.com/driftwatch-systems/driftwatch/internal/ingest"
	"github.com/driftwatch-systems/driftwatch/internal/server"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the driftwatch HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.Default()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Store
	st, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	if err := st.Start(ctx); err != nil {
		return fmt.Errorf("connecting to store: %w", err)
	}

	// Monitoring stack
	comps, err := buildComponents(cfg, st, logger)
	if err != nil {
		return err
	}

	// Ingest loop
	var loop *ingest.Loop
	if cfg.Ingest != nil && cfg.Ingest.Enabled && comps.pipeline != nil {
		loop = ingest.NewLoop(comps.pipeline, cfg.Ingest, logger)
		loop.Start(ctx)
	}

	// Server
	srv := server.New(cfg.Server, st, comps.reporter, comps.alerts, comps.pipeline, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		color.Yellow("\nShutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if loop != nil {
			loop.Stop(shutdownCtx)
		}
		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		_ = st.Stop(shutdownCtx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	color.Green("Server stopped gracefully")
	return nil
}
