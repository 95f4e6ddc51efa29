package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/driftwatch-systems/driftwatch/internal/config"
	"github.com/driftwatch-systems/driftwatch/internal/drift"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	var window int

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run drift detection over recent predictions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(window)
		},
	}

	cmd.Flags().IntVar(&window, "window", 0, "Number of recent predictions to analyze (default from config)")
	return cmd
}

func runCheck(window int) error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if window <= 0 {
		window = driftWindow(cfg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	if err := st.Start(ctx); err != nil {
		return fmt.Errorf("connecting to store: %w", err)
	}
	defer func() { _ = st.Stop(ctx) }()

	detector, err := drift.New(cfg.Detector)
	if err != nil {
		return fmt.Errorf("creating detector: %w", err)
	}

	values, err := st.GetRecentForDrift(ctx, window)
	if err != nil {
		return fmt.Errorf("loading predictions: %w", err)
	}
	if len(values) == 0 {
		fmt.Println("No predictions stored yet. Run 'driftwatch ingest' first.")
		return nil
	}

	result := detector.CheckAllDrifts(values)

	bold := color.New(color.Bold)
	_, _ = bold.Printf("Drift check over %d prediction(s)\n\n", result.SampleSize)
	fmt.Println(drift.Summary(result))

	if result.OverallDriftDetected {
		color.Red("\nDrift detected ✗")
	} else {
		color.Green("\nNo drift ✓")
	}
	return nil
}
