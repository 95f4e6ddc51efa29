// Package ingest pulls forecasts from the upstream producer, persists them,
// and runs the drift-check/alert cycle over the stored window.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/driftwatch-systems/driftwatch/internal/store"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// Forecast is one record from the upstream prediction service.
type Forecast struct {
	Date       string  `json:"date"`
	ArchivedGB float64 `json:"archivedGbPredicted"`
	SavingsGB  float64 `json:"savingsGbPredicted"`
}

// Source produces one forecast per cycle. The producer client and the
// synthetic fallback both satisfy it. Tag reports the provenance stored on
// every prediction built from this source, so synthetic data stays
// distinguishable from live data even when the fallback runs as the primary.
type Source interface {
	Fetch(ctx context.Context, date string) (Forecast, error)
	Name() string
	Tag() types.DataSource
}

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 3
)

// Client fetches forecasts from the producer HTTP API. Calls go through a
// circuit breaker; an open breaker fails fast so the pipeline can fall back
// without waiting out retries against a dead service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	maxRetries uint64
	logger     *slog.Logger
}

// NewClient creates a producer client from config. The URL is required.
func NewClient(cfg *types.ProducerConfig, logger *slog.Logger) (*Client, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, &store.ValidationError{Field: "producer.url", Reason: "must not be empty"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	timeout := defaultTimeout
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil || d <= 0 {
			return nil, &store.ValidationError{Field: "producer.timeout", Reason: "must be a positive duration"}
		}
		timeout = d
	}

	maxRetries := uint64(defaultMaxRetries)
	if cfg.MaxRetries > 0 {
		maxRetries = uint64(cfg.MaxRetries)
	}

	name := cfg.BreakerName
	if name == "" {
		name = "producer"
	}

	c := &Client{
		baseURL:    cfg.URL,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		logger:     logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: name,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("producer breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return c, nil
}

// Name returns the source identifier.
func (c *Client) Name() string { return "producer" }

// Tag marks predictions from this client as live data.
func (c *Client) Tag() types.DataSource { return types.SourceLive }

// Fetch retrieves the forecast for date, retrying transient failures with
// exponential backoff. An open circuit aborts immediately.
func (c *Client) Fetch(ctx context.Context, date string) (Forecast, error) {
	var out Forecast
	operation := func() error {
		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.fetchOnce(ctx, date)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(err)
			}
			return err
		}
		out = result.(Forecast)
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return Forecast{}, fmt.Errorf("fetching forecast for %s: %w", date, err)
	}
	return out, nil
}

func (c *Client) fetchOnce(ctx context.Context, date string) (Forecast, error) {
	url := fmt.Sprintf("%s/forecast?date=%s", c.baseURL, date)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Forecast{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Forecast{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Forecast{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Forecast{}, fmt.Errorf("producer returned status %d", resp.StatusCode)
	}

	var f Forecast
	if err := json.Unmarshal(body, &f); err != nil {
		return Forecast{}, fmt.Errorf("decoding forecast: %w", err)
	}
	if f.Date == "" {
		f.Date = date
	}
	if f.ArchivedGB < 0 || f.SavingsGB < 0 {
		return Forecast{}, &store.ValidationError{Field: "forecast", Reason: "predicted values must be non-negative"}
	}
	return f, nil
}
