package drift

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKSStatistic_IdenticalSamples(t *testing.T) {
	s := []float64{1, 2, 3, 4, 5}
	assert.Zero(t, ksStatistic(s, s))
}

func TestKSStatistic_DisjointSamples(t *testing.T) {
	s1 := []float64{1, 2, 3, 4, 5}
	s2 := []float64{10, 11, 12, 13, 14}
	assert.InDelta(t, 1.0, ksStatistic(s1, s2), 1e-12)
}

func TestKSStatistic_SymmetricInArguments(t *testing.T) {
	s1 := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	s2 := []float64{2, 7, 1, 8, 2, 8}
	assert.InDelta(t, ksStatistic(s1, s2), ksStatistic(s2, s1), 1e-12)
}

func TestKSStatistic_UnsortedInputUnchanged(t *testing.T) {
	s1 := []float64{5, 1, 3, 2, 4}
	s2 := []float64{9, 7, 8, 6, 10}
	_ = ksStatistic(s1, s2)
	assert.Equal(t, []float64{5, 1, 3, 2, 4}, s1)
	assert.Equal(t, []float64{9, 7, 8, 6, 10}, s2)
}

func TestKSStatistic_HalfOverlap(t *testing.T) {
	// ECD functions diverge by at most 0.5 when half the mass is shared.
	s1 := []float64{1, 2, 3, 4}
	s2 := []float64{3, 4, 5, 6}
	assert.InDelta(t, 0.5, ksStatistic(s1, s2), 1e-12)
}

func TestKSPValue_ZeroStatisticIsOne(t *testing.T) {
	assert.InDelta(t, 1.0, ksPValue(0, 10, 10), 1e-12)
}

func TestKSPValue_FullSeparationIsTiny(t *testing.T) {
	p := ksPValue(1.0, 20, 20)
	assert.Less(t, p, 0.001)
	assert.GreaterOrEqual(t, p, 0.0)
}

func TestKSPValue_DecreasesWithStatistic(t *testing.T) {
	pLow := ksPValue(0.2, 30, 30)
	pHigh := ksPValue(0.8, 30, 30)
	assert.Greater(t, pLow, pHigh)
}

func TestKSPValue_DecreasesWithSampleSize(t *testing.T) {
	pSmall := ksPValue(0.5, 8, 8)
	pLarge := ksPValue(0.5, 80, 80)
	assert.Greater(t, pSmall, pLarge)
}

func TestKSPValue_WithinUnitInterval(t *testing.T) {
	for _, d := range []float64{0.01, 0.1, 0.3, 0.5, 0.7, 0.99, 1.0} {
		p := ksPValue(d, 15, 25)
		assert.GreaterOrEqual(t, p, 0.0, "d=%v", d)
		assert.LessOrEqual(t, p, 1.0, "d=%v", d)
	}
}

func TestStdDev_PopulationFormula(t *testing.T) {
	assert.InDelta(t, 5.0, stdDev([]float64{245, 255, 245, 255}), 1e-12)
	assert.Zero(t, stdDev([]float64{7}))
}

func TestSlope_LinearSeries(t *testing.T) {
	assert.InDelta(t, 2.0, slope([]float64{0, 2, 4, 6, 8}), 1e-12)
	assert.InDelta(t, -1.5, slope([]float64{9, 7.5, 6, 4.5}), 1e-12)
	assert.Zero(t, slope([]float64{5, 5, 5, 5}))
}
