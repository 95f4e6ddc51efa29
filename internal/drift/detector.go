// Package drift implements statistical drift detection over prediction
// series: point anomalies by z-score, distribution shift by a two-sample
// Kolmogorov-Smirnov test, and trend degradation by split-window comparison.
//
// A Detector is a pure function of its inputs plus an optional explicitly
// set baseline. Each monitored series gets its own Detector value; baselines
// are never shared across unrelated streams.
package drift

import (
	"math"
	"time"

	"github.com/driftwatch-systems/driftwatch/internal/store"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// Default thresholds, overridable via DetectorConfig.
const (
	DefaultZScoreThreshold   = 2.0
	DefaultKSPValueThreshold = 0.05
	DefaultTrendChangePct    = 10.0
	DefaultMinSamples        = 10

	// stableBandPct is the |change| below which a trend is reported stable
	// regardless of sign.
	stableBandPct = 5.0
)

// Detector runs the three drift checks against configured thresholds.
type Detector struct {
	zThreshold     float64
	pThreshold     float64
	trendThreshold float64
	minSamples     int

	baseline     []float64
	baselineMean float64
	baselineStd  float64
}

// New creates a Detector from config. Nil config or zero fields fall back to
// the defaults; non-positive explicit thresholds are rejected.
func New(cfg *types.DetectorConfig) (*Detector, error) {
	d := &Detector{
		zThreshold:     DefaultZScoreThreshold,
		pThreshold:     DefaultKSPValueThreshold,
		trendThreshold: DefaultTrendChangePct,
		minSamples:     DefaultMinSamples,
	}
	if cfg == nil {
		return d, nil
	}
	if cfg.ZScoreThreshold != 0 {
		if cfg.ZScoreThreshold < 0 {
			return nil, &store.ValidationError{Field: "zScoreThreshold", Reason: "must be positive"}
		}
		d.zThreshold = cfg.ZScoreThreshold
	}
	if cfg.KSPValueThreshold != 0 {
		if cfg.KSPValueThreshold < 0 || cfg.KSPValueThreshold >= 1 {
			return nil, &store.ValidationError{Field: "ksPValueThreshold", Reason: "must be in (0, 1)"}
		}
		d.pThreshold = cfg.KSPValueThreshold
	}
	if cfg.TrendChangePct != 0 {
		if cfg.TrendChangePct < 0 {
			return nil, &store.ValidationError{Field: "trendChangePct", Reason: "must be positive"}
		}
		d.trendThreshold = cfg.TrendChangePct
	}
	if cfg.MinSamples != 0 {
		if cfg.MinSamples < 2 {
			return nil, &store.ValidationError{Field: "minSamples", Reason: "must be at least 2"}
		}
		d.minSamples = cfg.MinSamples
	}
	return d, nil
}

// SetBaseline captures a reference sequence and its summary statistics for
// later comparison. Sequences shorter than minSamples are rejected so a
// stray sliver of history cannot masquerade as a baseline.
func (d *Detector) SetBaseline(values []float64) error {
	if len(values) < d.minSamples {
		return &store.ValidationError{
			Field:  "baseline",
			Reason: "insufficient samples for baseline",
		}
	}
	d.baseline = append([]float64(nil), values...)
	d.baselineMean = mean(values)
	d.baselineStd = stdDev(values)
	return nil
}

// Mode reports which reference the detector will compare against: a stored
// baseline, or the input sample itself (degraded self-referential mode).
func (d *Detector) Mode() types.BaselineMode {
	if d.baseline != nil {
		return types.BaselineStored
	}
	return types.BaselineSelf
}

// DetectAnomaliesZScore flags values whose |z| exceeds the threshold.
// With fewer than 2 values it returns a safe no-anomaly result. A zero
// standard deviation yields all-zero z-scores rather than dividing by zero.
func (d *Detector) DetectAnomaliesZScore(values []float64) types.AnomalyResult {
	result := types.AnomalyResult{
		Threshold: d.zThreshold,
		Baseline:  d.Mode(),
	}
	if len(values) < 2 {
		result.Degraded = true
		return result
	}

	m, sd := mean(values), stdDev(values)
	if d.baseline != nil {
		m, sd = d.baselineMean, d.baselineStd
	}
	result.Mean = m
	result.StdDev = sd

	if sd == 0 {
		// All z-scores are defined as 0: a flat reference cannot rank
		// deviations, so nothing is anomalous.
		return result
	}

	for i, v := range values {
		z := math.Abs(v-m) / sd
		if z > result.MaxZScore {
			result.MaxZScore = z
		}
		if z > d.zThreshold {
			result.Indices = append(result.Indices, i)
		}
	}
	result.Count = len(result.Indices)
	result.HasAnomalies = result.Count > 0
	return result
}

// DetectDistributionDrift runs a two-sample KS test between current and the
// baseline. Without a baseline it compares the first half of current against
// the second half. Degenerate inputs return a defined no-drift result.
func (d *Detector) DetectDistributionDrift(current []float64) types.DistributionResult {
	result := types.DistributionResult{
		PValue:    1.0,
		Threshold: d.pThreshold,
		Baseline:  d.Mode(),
	}

	reference := d.baseline
	sample := current
	if reference == nil {
		half := len(current) / 2
		reference = current[:half]
		sample = current[half:]
	}

	if len(sample) < 2 || len(reference) < 2 {
		result.Degraded = true
		if len(sample) > 0 {
			result.CurrentMean = mean(sample)
		}
		if len(reference) > 0 {
			result.BaselineMean = mean(reference)
		}
		return result
	}

	result.CurrentMean = mean(sample)
	result.BaselineMean = mean(reference)
	if result.BaselineMean != 0 {
		result.MeanChangePct = (result.CurrentMean - result.BaselineMean) / result.BaselineMean * 100
	}

	result.Statistic = ksStatistic(sample, reference)
	result.PValue = ksPValue(result.Statistic, len(sample), len(reference))
	result.HasDrift = result.PValue < d.pThreshold
	return result
}

// DetectTrendDrift compares the mean of the older half against the recent
// half and fits a least-squares slope over the full sequence. A constant
// sequence yields direction stable with zero slope and no drift.
func (d *Detector) DetectTrendDrift(values []float64) types.TrendResult {
	result := types.TrendResult{
		Direction: types.TrendStable,
		Threshold: d.trendThreshold,
	}
	if len(values) < 4 {
		result.Degraded = true
		return result
	}

	half := len(values) / 2
	result.OlderMean = mean(values[:half])
	result.RecentMean = mean(values[half:])
	if result.OlderMean != 0 {
		result.ChangePct = (result.RecentMean - result.OlderMean) / result.OlderMean * 100
	}
	result.Slope = slope(values)

	// The stable band never exceeds the drift threshold, so a tuned-down
	// threshold cannot be masked by the direction band.
	band := stableBandPct
	if d.trendThreshold < band {
		band = d.trendThreshold
	}
	abs := math.Abs(result.ChangePct)
	if abs >= band {
		if result.ChangePct > 0 {
			result.Direction = types.TrendUp
		} else {
			result.Direction = types.TrendDown
		}
		result.HasTrendDrift = abs > d.trendThreshold
	}
	return result
}

// CheckAllDrifts runs the three detectors and aggregates the overall flag.
func (d *Detector) CheckAllDrifts(values []float64) types.DriftResult {
	result := types.DriftResult{
		Anomalies:         d.DetectAnomaliesZScore(values),
		DistributionDrift: d.DetectDistributionDrift(values),
		TrendDrift:        d.DetectTrendDrift(values),
		SampleSize:        len(values),
		CheckedAt:         time.Now().UTC(),
	}
	result.OverallDriftDetected = result.Anomalies.HasAnomalies ||
		result.DistributionDrift.HasDrift ||
		result.TrendDrift.HasTrendDrift
	return result
}
