// Package stat implements the statistical primitives shared by the limit
// calculator, the capability engine and the rule scanner.  All functions are
// pure and tolerate empty input by returning 0 rather than failing, which
// keeps downstream composition simple.
package stat

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, or 0 for an empty sequence.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0.0
	}
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

// StdDev returns the standard deviation with ddof delta degrees of freedom:
// ddof=1 for the sample statistic (Cp/Cpk), ddof=0 for the population
// statistic (Pp/Ppk).  It returns 0 when len(xs) <= ddof, including the
// empty sequence.
func StdDev(xs []float64, ddof int) float64 {
	n := len(xs)
	if n <= ddof {
		return 0.0
	}
	m := Mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-ddof))
}

// Range returns max-min, or 0 for an empty sequence.
func Range(xs []float64) float64 {
	if len(xs) == 0 {
		return 0.0
	}
	min, max := xs[0], xs[0]
	for _, x := range xs {
		min = math.Min(min, x)
		max = math.Max(max, x)
	}
	return max - min
}

// Median returns the sorted midpoint, averaging the two middle values for an
// even count.  Returns 0 for an empty sequence.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0.0
	}
	cp := make([]float64, len(xs))
	copy(cp, xs)
	sort.Float64s(cp)
	n := len(cp)
	if n%2 == 1 {
		return cp[n/2]
	}
	return (cp[n/2-1] + cp[n/2]) / 2
}
