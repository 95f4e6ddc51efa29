package drift

import (
	"math"
	"sort"
)

// ksStatistic computes the two-sample Kolmogorov-Smirnov statistic
// D = max |F1(x) - F2(x)| over the empirical CDFs of the two samples.
func ksStatistic(sample1, sample2 []float64) float64 {
	s1 := append([]float64(nil), sample1...)
	s2 := append([]float64(nil), sample2...)
	sort.Float64s(s1)
	sort.Float64s(s2)

	n1, n2 := float64(len(s1)), float64(len(s2))

	var maxD float64
	i, j := 0, 0
	for i < len(s1) && j < len(s2) {
		v1, v2 := s1[i], s2[j]
		// Advance past ties so the CDFs are evaluated after the step.
		if v1 <= v2 {
			for i < len(s1) && s1[i] == v1 {
				i++
			}
		}
		if v2 <= v1 {
			for j < len(s2) && s2[j] == v2 {
				j++
			}
		}
		d := math.Abs(float64(i)/n1 - float64(j)/n2)
		if d > maxD {
			maxD = d
		}
	}
	return maxD
}

// ksPValue approximates P(D > observed) for the two-sample KS test using the
// asymptotic Kolmogorov distribution: lambda = sqrt(ne)*D with effective
// sample size ne = n1*n2/(n1+n2), and
// p ~= 2 * sum_{k>=1} (-1)^{k-1} exp(-2 k^2 lambda^2).
func ksPValue(statistic float64, n1, n2 int) float64 {
	if statistic <= 0 || n1 < 1 || n2 < 1 {
		return 1.0
	}

	ne := float64(n1) * float64(n2) / float64(n1+n2)
	lambda := math.Sqrt(ne) * statistic
	if lambda <= 0 {
		return 1.0
	}

	var sum float64
	for k := 1; k <= 10; k++ {
		term := math.Exp(-2 * float64(k*k) * lambda * lambda)
		if k%2 == 0 {
			sum -= term
		} else {
			sum += term
		}
	}

	p := 2 * sum
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
