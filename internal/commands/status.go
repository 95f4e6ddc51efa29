package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/driftwatch-systems/driftwatch/internal/config"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	var windowDays int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show prediction store and alert status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(windowDays)
		},
	}

	cmd.Flags().IntVar(&windowDays, "days", 30, "Summary window in days")
	return cmd
}

func runStatus(windowDays int) error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
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

	comps, err := buildComponents(cfg, st, nil)
	if err != nil {
		return err
	}

	stats, err := st.GetSummaryStatistics(ctx, windowDays)
	if err != nil {
		return fmt.Errorf("loading summary: %w", err)
	}

	bold := color.New(color.Bold)
	_, _ = bold.Printf("Driftwatch status (last %d days)\n", windowDays)
	fmt.Println()
	fmt.Printf("  Predictions:  %d (%d with actuals)\n", stats.TotalPredictions, stats.PredictionsWithActuals)
	if stats.TotalPredictions > 0 {
		fmt.Printf("  Avg archived: %.1f GB predicted\n", stats.AvgArchivedGBPredicted)
		fmt.Printf("  Avg savings:  %.1f GB predicted\n", stats.AvgSavingsGBPredicted)
	}

	latest, err := st.GetLatestPrediction(ctx)
	if err != nil {
		return fmt.Errorf("loading latest prediction: %w", err)
	}
	if latest != nil {
		fmt.Println()
		_, _ = bold.Println("  Latest prediction:")
		fmt.Printf("    %s  archived=%.1fGB savings=%.1fGB", latest.Date,
			latest.ArchivedGBPredicted, latest.SavingsGBPredicted)
		if latest.Source == types.SourceFallback {
			fmt.Printf("  %s", color.YellowString("(fallback)"))
		}
		fmt.Println()
		if latest.HasActuals() {
			color.Green("    actuals recorded ✓")
		}
	}

	showAlerts(ctx, comps, windowDays)

	fmt.Println()
	return nil
}

func showAlerts(ctx context.Context, comps *components, windowDays int) {
	alerts, err := comps.alerts.GetActiveAlerts(ctx, windowDays)
	if err != nil {
		color.Yellow("  alerts unavailable: %v", err)
		return
	}

	fmt.Println()
	if len(alerts) == 0 {
		color.Green("  No alerts ✓")
		return
	}

	bold := color.New(color.Bold)
	_, _ = bold.Printf("  Alerts (%d):\n", len(alerts))
	for _, a := range alerts {
		sevStr := color.YellowString(string(a.Severity))
		if a.Severity == types.SeverityCritical {
			sevStr = color.RedString(string(a.Severity))
		}
		fmt.Printf("    %s  [%s] %s\n", a.CreatedAt.Format(time.RFC3339), sevStr, a.Message)
	}
}
