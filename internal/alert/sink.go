// Package alert classifies drift detection results into alerts, persists
// them to the monitoring event log, and notifies configured sinks.
package alert

import (
	"fmt"
	"log/slog"

	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// Sink is an alert notification destination.
type Sink interface {
	Send(alert types.Alert) error
	Name() string
}

// Dispatcher routes alerts to configured sinks. Sink failures are logged,
// never propagated: notification is best-effort once the alert is persisted.
type Dispatcher struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher from sink configs. An empty config
// yields a console-only dispatcher.
func NewDispatcher(configs []types.SinkConfig, logger *slog.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{logger: logger}
	if len(configs) == 0 {
		d.sinks = append(d.sinks, NewConsoleSink())
		return d, nil
	}
	for _, cfg := range configs {
		sink, err := newSink(cfg)
		if err != nil {
			return nil, fmt.Errorf("creating %s sink: %w", cfg.Type, err)
		}
		d.sinks = append(d.sinks, sink)
	}
	return d, nil
}

// Dispatch sends an alert to all configured sinks.
func (d *Dispatcher) Dispatch(alert types.Alert) {
	for _, sink := range d.sinks {
		if err := sink.Send(alert); err != nil {
			d.logger.Error("alert sink send failed",
				"sink", sink.Name(),
				"category", alert.Category,
				"error", err)
		}
	}
}

func newSink(cfg types.SinkConfig) (Sink, error) {
	switch cfg.Type {
	case types.SinkConsole:
		return NewConsoleSink(), nil
	case types.SinkFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file path required")
		}
		return NewFileSink(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown sink type %q", cfg.Type)
	}
}
