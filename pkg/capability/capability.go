// Package capability computes process capability and performance indices
// over the flattened measurement population.
package capability

import (
	"math"

	"github.com/dkinsey/spc/pkg/stat"
)

// Metrics holds capability results for one population against one pair of
// specification limits.  Cp/Cpk use the sample standard deviation (n-1
// denominator); Pp/Ppk use the population standard deviation.  Indices are
// +Inf when the relevant standard deviation is exactly zero: a perfectly
// constant process is infinitely capable in the formula's limit, so this is
// a valid state and never an error.
type Metrics struct {
	N          int     `json:"n"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Cp         float64 `json:"cp"`
	Cpk        float64 `json:"cpk"`
	Pp         float64 `json:"pp"`
	Ppk        float64 `json:"ppk"`
	PassRate   float64 `json:"pass_rate"`
	NormalityP float64 `json:"normality_p,omitempty"`
}

// Compute returns capability metrics for the population against usl/lsl.
// The reported StdDev is the sample statistic.
func Compute(pop []float64, usl, lsl float64) Metrics {
	n := len(pop)
	if n == 0 {
		return Metrics{}
	}

	mean := stat.Mean(pop)
	sample := stat.StdDev(pop, 1)
	population := stat.StdDev(pop, 0)

	m := Metrics{
		N:      n,
		Mean:   mean,
		StdDev: sample,
	}
	m.Cp = widthIndex(usl, lsl, sample)
	m.Cpk = centeredIndex(usl, lsl, mean, sample)
	m.Pp = widthIndex(usl, lsl, population)
	m.Ppk = centeredIndex(usl, lsl, mean, population)

	pass := 0
	for _, x := range pop {
		if x >= lsl && x <= usl {
			pass++
		}
	}
	m.PassRate = 100.0 * float64(pass) / float64(n)
	return m
}

// widthIndex is (USL-LSL)/6σ, the specification width relative to the
// process spread.
func widthIndex(usl, lsl, sigma float64) float64 {
	if sigma == 0 {
		return math.Inf(1)
	}
	return (usl - lsl) / (6.0 * sigma)
}

// centeredIndex is min((USL-mean)/3σ, (mean-LSL)/3σ), penalizing an
// off-center process.
func centeredIndex(usl, lsl, mean, sigma float64) float64 {
	if sigma == 0 {
		return math.Inf(1)
	}
	upper := (usl - mean) / (3.0 * sigma)
	lower := (mean - lsl) / (3.0 * sigma)
	return math.Min(upper, lower)
}
