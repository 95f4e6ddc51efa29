package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/driftwatch-systems/driftwatch/internal/commands"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "driftwatch",
		Short: "Prediction monitoring and drift detection for forecasting pipelines",
		Long: `Driftwatch records model forecasts as they are produced, compares incoming
predictions against recent history, and raises classified alerts when the
prediction stream drifts: point anomalies, distribution shifts, or sustained
trend changes. It serves the stored history, drift status, and alert log over
an HTTP API.`,
		Version: version,
	}

	root.AddCommand(
		commands.NewInitCmd(),
		commands.NewIngestCmd(),
		commands.NewCheckCmd(),
		commands.NewStatusCmd(),
		commands.NewServeCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
