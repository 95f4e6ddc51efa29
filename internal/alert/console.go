package alert

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// ConsoleSink writes alerts to the terminal with color-coded severity.
type ConsoleSink struct {
	out io.Writer
}

// NewConsoleSink creates a console alert sink writing to stdout.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{out: os.Stdout}
}

// Name returns the sink identifier.
func (s *ConsoleSink) Name() string { return "console" }

// Send writes an alert to the terminal with a severity prefix.
func (s *ConsoleSink) Send(alert types.Alert) error {
	var prefix string
	switch alert.Severity {
	case types.SeverityCritical:
		prefix = color.RedString("[CRITICAL]")
	case types.SeverityWarning:
		prefix = color.YellowString("[WARN]")
	default:
		prefix = color.CyanString("[INFO]")
	}

	fmt.Fprintf(s.out, "%s [%s] %s\n", prefix, alert.Category, alert.Message)
	if alert.Recommendation != "" {
		fmt.Fprintf(s.out, "  action: %s\n", alert.Recommendation)
	}
	return nil
}
