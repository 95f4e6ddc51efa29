package drift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwatch-systems/driftwatch/internal/store"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

func newDefaultDetector(t *testing.T) *Detector {
	t.Helper()
	d, err := New(nil)
	require.NoError(t, err)
	return d
}

// baseline250 returns n values alternating 245/255: mean 250, stddev 5.
func baseline250(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = 245
		} else {
			out[i] = 255
		}
	}
	return out
}

func TestNew_Defaults(t *testing.T) {
	d := newDefaultDetector(t)

	assert.Equal(t, DefaultZScoreThreshold, d.zThreshold)
	assert.Equal(t, DefaultKSPValueThreshold, d.pThreshold)
	assert.Equal(t, DefaultTrendChangePct, d.trendThreshold)
	assert.Equal(t, DefaultMinSamples, d.minSamples)
}

func TestNew_RejectsNegativeThresholds(t *testing.T) {
	cases := []struct {
		name string
		cfg  types.DetectorConfig
	}{
		{"negative z-score", types.DetectorConfig{ZScoreThreshold: -1}},
		{"negative p-value", types.DetectorConfig{KSPValueThreshold: -0.05}},
		{"p-value at one", types.DetectorConfig{KSPValueThreshold: 1.0}},
		{"negative trend", types.DetectorConfig{TrendChangePct: -10}},
		{"minSamples below two", types.DetectorConfig{MinSamples: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(&tc.cfg)
			require.Error(t, err)
			assert.True(t, store.IsValidation(err))
		})
	}
}

func TestSetBaseline_RejectsShortSequence(t *testing.T) {
	d := newDefaultDetector(t)

	err := d.SetBaseline([]float64{250, 251, 252})
	require.Error(t, err)
	assert.True(t, store.IsValidation(err))
	assert.Equal(t, types.BaselineSelf, d.Mode())
}

func TestSetBaseline_CopiesInput(t *testing.T) {
	d := newDefaultDetector(t)

	values := baseline250(10)
	require.NoError(t, d.SetBaseline(values))
	values[0] = 9999

	out := d.DetectAnomaliesZScore([]float64{250, 250, 250})
	assert.InDelta(t, 250.0, out.Mean, 1e-9)
	assert.InDelta(t, 5.0, out.StdDev, 1e-9)
}

func TestDetectAnomaliesZScore_TooFewValues(t *testing.T) {
	d := newDefaultDetector(t)

	for _, values := range [][]float64{nil, {}, {42.0}} {
		out := d.DetectAnomaliesZScore(values)
		assert.True(t, out.Degraded)
		assert.False(t, out.HasAnomalies)
		assert.Equal(t, 0, out.Count)
	}
}

func TestDetectAnomaliesZScore_ConstantSeriesHasNoAnomalies(t *testing.T) {
	d := newDefaultDetector(t)

	out := d.DetectAnomaliesZScore([]float64{100, 100, 100, 100})
	assert.False(t, out.HasAnomalies)
	assert.Zero(t, out.MaxZScore)
	assert.Zero(t, out.StdDev)
}

func TestDetectAnomaliesZScore_AgainstStoredBaseline(t *testing.T) {
	d := newDefaultDetector(t)
	require.NoError(t, d.SetBaseline(baseline250(10)))

	out := d.DetectAnomaliesZScore([]float64{248, 252, 249, 251, 250, 300})

	assert.True(t, out.HasAnomalies)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, []int{5}, out.Indices)
	assert.InDelta(t, 10.0, out.MaxZScore, 1e-9)
	assert.Equal(t, types.BaselineStored, out.Baseline)
}

func TestDetectAnomaliesZScore_SelfReferentialMode(t *testing.T) {
	d := newDefaultDetector(t)

	out := d.DetectAnomaliesZScore([]float64{10, 12, 11, 9, 10, 11})
	assert.Equal(t, types.BaselineSelf, out.Baseline)
	assert.False(t, out.Degraded)
}

func TestDetectDistributionDrift_IdenticalToBaseline(t *testing.T) {
	d := newDefaultDetector(t)
	base := baseline250(20)
	require.NoError(t, d.SetBaseline(base))

	out := d.DetectDistributionDrift(append([]float64(nil), base...))

	assert.False(t, out.HasDrift)
	assert.Zero(t, out.Statistic)
	assert.InDelta(t, 1.0, out.PValue, 1e-9)
	assert.Zero(t, out.MeanChangePct)
}

func TestDetectDistributionDrift_ShiftedSample(t *testing.T) {
	d := newDefaultDetector(t)
	require.NoError(t, d.SetBaseline(baseline250(20)))

	current := make([]float64, 20)
	for i := range current {
		current[i] = 400 + float64(i%3)
	}
	out := d.DetectDistributionDrift(current)

	assert.True(t, out.HasDrift)
	assert.InDelta(t, 1.0, out.Statistic, 1e-9)
	assert.Less(t, out.PValue, 0.01)
	assert.InDelta(t, 60.4, out.MeanChangePct, 0.5)
}

func TestDetectDistributionDrift_TooFewValuesIsDegraded(t *testing.T) {
	d := newDefaultDetector(t)

	out := d.DetectDistributionDrift([]float64{100, 101, 102})
	assert.True(t, out.Degraded)
	assert.False(t, out.HasDrift)
	assert.InDelta(t, 1.0, out.PValue, 1e-9)
}

func TestDetectDistributionDrift_HalfSplitWithoutBaseline(t *testing.T) {
	d := newDefaultDetector(t)

	values := make([]float64, 40)
	for i := range values {
		if i < 20 {
			values[i] = 100 + float64(i%4)
		} else {
			values[i] = 500 + float64(i%4)
		}
	}
	out := d.DetectDistributionDrift(values)

	assert.True(t, out.HasDrift)
	assert.Equal(t, types.BaselineSelf, out.Baseline)
	assert.Greater(t, out.MeanChangePct, 100.0)
}

func TestDetectTrendDrift_ConstantSeriesIsStable(t *testing.T) {
	d := newDefaultDetector(t)

	out := d.DetectTrendDrift([]float64{250, 250, 250, 250, 250, 250})
	assert.False(t, out.HasTrendDrift)
	assert.Equal(t, types.TrendStable, out.Direction)
	assert.Zero(t, out.Slope)
	assert.Zero(t, out.ChangePct)
}

func TestDetectTrendDrift_TooFewValuesIsDegraded(t *testing.T) {
	d := newDefaultDetector(t)

	out := d.DetectTrendDrift([]float64{1, 2, 3})
	assert.True(t, out.Degraded)
	assert.False(t, out.HasTrendDrift)
	assert.Equal(t, types.TrendStable, out.Direction)
}

func TestDetectTrendDrift_SteadyClimb(t *testing.T) {
	// A 2 GB/day climb off a 250 GB base shifts the older/recent half means
	// by only ~4.4%, so the default 10% threshold can never fire on this
	// shape. The threshold is lowered to exercise the drift path against a
	// realistic gradual climb.
	d, err := New(&types.DetectorConfig{TrendChangePct: 4.0})
	require.NoError(t, err)

	// Ten flat days at 250 followed by ten days climbing 2 GB/day.
	values := make([]float64, 0, 20)
	for i := 0; i < 10; i++ {
		values = append(values, 250)
	}
	for i := 1; i <= 10; i++ {
		values = append(values, 250+float64(2*i))
	}

	out := d.DetectTrendDrift(values)

	assert.True(t, out.HasTrendDrift)
	assert.Equal(t, types.TrendUp, out.Direction)
	assert.Greater(t, out.Slope, 0.0)
	assert.InDelta(t, 4.4, out.ChangePct, 0.1)
}

func TestDetectTrendDrift_DeclineBelowThresholdStaysUndrifted(t *testing.T) {
	d := newDefaultDetector(t)

	// 6% drop: past the stable band, short of the 10% drift threshold.
	values := []float64{100, 100, 100, 100, 94, 94, 94, 94}
	out := d.DetectTrendDrift(values)

	assert.False(t, out.HasTrendDrift)
	assert.Equal(t, types.TrendDown, out.Direction)
	assert.InDelta(t, -6.0, out.ChangePct, 1e-9)
}

func TestDetectTrendDrift_LargeDrop(t *testing.T) {
	d := newDefaultDetector(t)

	values := []float64{200, 200, 200, 200, 140, 140, 140, 140}
	out := d.DetectTrendDrift(values)

	assert.True(t, out.HasTrendDrift)
	assert.Equal(t, types.TrendDown, out.Direction)
	assert.InDelta(t, -30.0, out.ChangePct, 1e-9)
	assert.Less(t, out.Slope, 0.0)
}

func TestCheckAllDrifts_CleanSeries(t *testing.T) {
	d := newDefaultDetector(t)
	require.NoError(t, d.SetBaseline(baseline250(20)))

	out := d.CheckAllDrifts(append([]float64(nil), baseline250(20)...))

	assert.False(t, out.OverallDriftDetected)
	assert.False(t, out.Anomalies.HasAnomalies)
	assert.False(t, out.DistributionDrift.HasDrift)
	assert.False(t, out.TrendDrift.HasTrendDrift)
	assert.Equal(t, 20, out.SampleSize)
	assert.False(t, out.CheckedAt.IsZero())
}

func TestCheckAllDrifts_AnomalyAloneTripsOverallFlag(t *testing.T) {
	d := newDefaultDetector(t)
	require.NoError(t, d.SetBaseline(baseline250(20)))

	current := append([]float64(nil), baseline250(19)...)
	current = append(current, 300)
	out := d.CheckAllDrifts(current)

	assert.True(t, out.OverallDriftDetected)
	assert.True(t, out.Anomalies.HasAnomalies)
}

func TestSummary_MentionsDetectedSignals(t *testing.T) {
	d := newDefaultDetector(t)
	require.NoError(t, d.SetBaseline(baseline250(20)))

	current := append([]float64(nil), baseline250(19)...)
	current = append(current, 300)
	text := Summary(d.CheckAllDrifts(current))

	assert.Contains(t, text, "DRIFT DETECTED")
	assert.Contains(t, text, "anomalies")
}
