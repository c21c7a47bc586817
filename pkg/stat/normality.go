package stat

import (
	"math"
	"sort"
)

// momentCutoff is the largest population for which the moment-based estimate
// is used.  Beyond it the empirical-CDF statistic is cheaper to justify than
// higher moments on a huge sample.
const momentCutoff = 5000

// pFloor clamps the pseudo p-value away from zero so callers can always take
// a log or display it.
const pFloor = 0.001

// NormalityP returns an approximate p-value for distributional normality.
// It is a heuristic proxy used to caveat capability indices, not an exact
// test: small samples (n<3) and zero-variance samples return 1, moderate
// samples map the standardized third and fourth moments through a monotonic
// decay, and very large samples fall back to a simplified Anderson-Darling
// style statistic against the standard normal CDF.  The result is clamped to
// [0.001, 1].
func NormalityP(xs []float64) float64 {
	n := len(xs)
	if n < 3 {
		return 1.0
	}

	m := Mean(xs)
	sd := StdDev(xs, 0)
	if sd == 0 {
		// a constant sample carries no evidence either way
		return 1.0
	}

	if n <= momentCutoff {
		return momentEstimate(xs, m, sd)
	}
	return empiricalEstimate(xs, m, sd)
}

// momentEstimate combines skewness and excess kurtosis into a single
// magnitude and decays it to a pseudo p-value.
func momentEstimate(xs []float64, mean, sd float64) float64 {
	n := float64(len(xs))
	var m3, m4 float64
	for _, x := range xs {
		z := (x - mean) / sd
		m3 += z * z * z
		m4 += z * z * z * z
	}
	skew := m3 / n
	kurt := m4/n - 3.0

	k := n * (skew*skew/6.0 + kurt*kurt/24.0)
	return clampP(math.Exp(-k / 2.0))
}

// empiricalEstimate computes a simplified Anderson-Darling statistic on the
// standardized, sorted sample and decays it to a pseudo p-value.
func empiricalEstimate(xs []float64, mean, sd float64) float64 {
	n := len(xs)
	z := make([]float64, n)
	for i, x := range xs {
		z[i] = (x - mean) / sd
	}
	sort.Float64s(z)

	a2 := -float64(n)
	for i := 0; i < n; i++ {
		lo := stdNormalCDF(z[i])
		hi := stdNormalCDF(z[n-1-i])
		// guard the logs against CDF saturation in the tails
		lo = math.Max(lo, 1e-12)
		hi = math.Min(hi, 1-1e-12)
		a2 -= float64(2*i+1) / float64(n) * (math.Log(lo) + math.Log(1-hi))
	}
	return clampP(math.Exp(-a2))
}

// stdNormalCDF is the standard normal cumulative distribution function.
func stdNormalCDF(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}

func clampP(p float64) float64 {
	switch {
	case p < pFloor:
		return pFloor
	case p > 1.0:
		return 1.0
	default:
		return p
	}
}
