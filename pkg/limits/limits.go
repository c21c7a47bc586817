// Package limits computes control-limit sets for the two supported chart
// pairs.  A Set is an explicit tagged value: consumers switch on Type rather
// than probing for a distinguishing field.
package limits

import (
	"github.com/dkinsey/spc/constants"
	"github.com/dkinsey/spc/pkg/series"
	"github.com/dkinsey/spc/pkg/stat"
)

// ChartType tags a Set as X-bar/R or I-MR.
type ChartType string

const (
	XbarR ChartType = "xbar-r"
	IMR   ChartType = "i-mr"
)

// Chart is one center line with its upper and lower control limits.
// Invariant: UCL >= Center >= LCL.
type Chart struct {
	Center float64 `json:"center"`
	UCL    float64 `json:"ucl"`
	LCL    float64 `json:"lcl"`
}

// Set pairs the primary (center) chart with its variability chart.
type Set struct {
	Type        ChartType `json:"type"`
	Primary     Chart     `json:"primary"`
	Variability Chart     `json:"variability"`
}

// Sigma returns the one-sigma zone width derived from the primary chart,
// (UCL-Center)/3.  Zone A is (2σ,3σ], zone B (1σ,2σ], zone C [0,1σ].
func (s Set) Sigma() float64 {
	return (s.Primary.UCL - s.Primary.Center) / 3.0
}

// FromSubgroups computes X-bar and R chart limits from the derived subgroup
// series: center lines are the grand mean and average range, with limits
// scaled by the tabulated A2, D3 and D4 constants for subgroup size n.
func FromSubgroups(d series.Derived, n int) (Set, error) {
	c, err := constants.LookupAll(n)
	if err != nil {
		return Set{}, err
	}

	grand := stat.Mean(d.Primary)
	rbar := stat.Mean(d.Variability)

	lcl := c.D3 * rbar
	if lcl < 0 {
		lcl = 0
	}
	return Set{
		Type: XbarR,
		Primary: Chart{
			Center: grand,
			UCL:    grand + c.A2*rbar,
			LCL:    grand - c.A2*rbar,
		},
		Variability: Chart{
			Center: rbar,
			UCL:    c.D4 * rbar,
			LCL:    lcl,
		},
	}, nil
}

// FromIndividuals computes I-MR chart limits from the derived individual
// series using the n=2 constants: the 3/d2 multiplier (~2.66) scales the
// average moving range around the mean, and D4/D3 bound the moving-range
// chart.  Requires at least two individual values.
func FromIndividuals(d series.Derived) (Set, error) {
	if len(d.Primary) < 2 {
		return Set{}, series.InsufficientDataError{Need: 2, Have: len(d.Primary), Kind: "individual values"}
	}
	c, err := constants.LookupAll(2)
	if err != nil {
		return Set{}, err
	}

	mean := stat.Mean(d.Primary)
	mrbar := stat.Mean(d.Variability)
	spread := (3.0 / c.D2) * mrbar

	lcl := c.D3 * mrbar
	if lcl < 0 {
		lcl = 0
	}
	return Set{
		Type: IMR,
		Primary: Chart{
			Center: mean,
			UCL:    mean + spread,
			LCL:    mean - spread,
		},
		Variability: Chart{
			Center: mrbar,
			UCL:    c.D4 * mrbar,
			LCL:    lcl,
		},
	}, nil
}
