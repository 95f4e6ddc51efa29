package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// DefaultInterval is the cycle cadence when config leaves it unset.
const DefaultInterval = 24 * time.Hour

// Loop drives the pipeline on a fixed interval, one cycle per tick for the
// current date. Cycle errors are logged and the loop keeps ticking.
type Loop struct {
	pipeline *Pipeline
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLoop creates a loop from config. A missing or invalid interval falls
// back to the daily default.
func NewLoop(pipeline *Pipeline, cfg *types.IngestConfig, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	interval := DefaultInterval
	if cfg != nil && cfg.Interval != "" {
		if d, err := time.ParseDuration(cfg.Interval); err == nil && d > 0 {
			interval = d
		}
	}
	return &Loop{
		pipeline: pipeline,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start begins the ingestion loop. The first cycle runs immediately.
func (l *Loop) Start(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.logger.Info("ingest loop started", "interval", l.interval)

		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		l.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				l.logger.Info("ingest loop stopping")
				return
			case <-ticker.C:
				l.runOnce(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for the in-flight cycle to finish, bounded
// by ctx.
func (l *Loop) Stop(ctx context.Context) {
	if l.cancel != nil {
		l.cancel()
	}

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		l.logger.Info("ingest loop stopped")
	case <-ctx.Done():
		l.logger.Warn("ingest loop stop timed out")
	}
}

func (l *Loop) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	date := l.now().UTC().Format(types.DateFormat)
	if _, err := l.pipeline.RunCycle(ctx, date); err != nil {
		l.logger.Error("ingest cycle failed", "date", date, "error", err)
	}
}
