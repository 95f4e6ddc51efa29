package drift

import (
	"fmt"
	"strings"

	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// Summary renders a multi-line human-readable digest of a drift result for
// CLI output and log lines.
func Summary(r types.DriftResult) string {
	var b strings.Builder

	if r.OverallDriftDetected {
		b.WriteString("DRIFT DETECTED")
	} else {
		b.WriteString("no drift")
	}
	fmt.Fprintf(&b, " (samples: %d)\n", r.SampleSize)

	if r.Anomalies.HasAnomalies {
		fmt.Fprintf(&b, "  anomalies: %d point(s) with |z| > %.1f, max z-score %.2f\n",
			r.Anomalies.Count, r.Anomalies.Threshold, r.Anomalies.MaxZScore)
	}
	if r.DistributionDrift.HasDrift {
		fmt.Fprintf(&b, "  distribution: shift detected (p=%.4f, mean change %+.1f%%)\n",
			r.DistributionDrift.PValue, r.DistributionDrift.MeanChangePct)
	}
	if !r.TrendDrift.Degraded {
		fmt.Fprintf(&b, "  trend: %s (%+.1f%%)", r.TrendDrift.Direction, r.TrendDrift.ChangePct)
		if r.TrendDrift.HasTrendDrift {
			b.WriteString(" [significant]")
		}
		b.WriteString("\n")
	}
	if r.Anomalies.Baseline == types.BaselineSelf {
		b.WriteString("  baseline: self-referential (degraded mode)\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
