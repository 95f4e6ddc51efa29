package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/driftwatch-systems/driftwatch/internal/config"
	"github.com/driftwatch-systems/driftwatch/internal/drift"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

const ingestTimeout = 60 * time.Second

// NewIngestCmd creates the ingest command.
func NewIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [date]",
		Short: "Run one ingestion cycle",
		Long:  "Fetches a forecast for the given date (default today), stores it, and runs drift checks.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := time.Now().UTC().Format(types.DateFormat)
			if len(args) > 0 {
				date = args[0]
			}
			return runIngest(date)
		},
	}
}

func runIngest(date string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	st, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	if err := st.Start(ctx); err != nil {
		return fmt.Errorf("connecting to store: %w", err)
	}
	defer func() { _ = st.Stop(ctx) }()

	comps, err := buildComponents(cfg, st, nil)
	if err != nil {
		return err
	}
	if comps.pipeline == nil {
		return fmt.Errorf("no forecast source configured: set producer.url or producer.fallback")
	}

	result, err := comps.pipeline.RunCycle(ctx, date)
	if err != nil {
		return fmt.Errorf("ingestion cycle: %w", err)
	}

	bold := color.New(color.Bold)
	_, _ = bold.Printf("Ingestion cycle %s\n", result.CycleID)
	fmt.Printf("  Date:   %s\n", result.Date)
	if result.Source == types.SourceFallback {
		fmt.Printf("  Source: %s\n", color.YellowString(string(result.Source)))
	} else {
		fmt.Printf("  Source: %s\n", string(result.Source))
	}
	fmt.Printf("  Stored: prediction #%d\n", result.PredictionID)
	fmt.Println()

	fmt.Println(drift.Summary(result.Drift))

	if result.Alert != nil {
		fmt.Println()
		if result.Alert.Severity == types.SeverityCritical {
			color.Red("Alert [%s/%s]: %s", result.Alert.Category, result.Alert.Severity, result.Alert.Message)
		} else {
			color.Yellow("Alert [%s/%s]: %s", result.Alert.Category, result.Alert.Severity, result.Alert.Message)
		}
		fmt.Printf("  action: %s\n", result.Alert.Recommendation)
	}

	return nil
}
