package limits

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkinsey/spc/pkg/series"
)

func TestFromSubgroups(t *testing.T) {
	d := series.Derived{
		Primary:     []float64{10.24, 10.18, 10.26},
		Variability: []float64{0.3, 0.2, 0.3},
	}
	s, err := FromSubgroups(d, 5)
	assert.Nil(t, err)
	assert.Equal(t, XbarR, s.Type)

	grand := (10.24 + 10.18 + 10.26) / 3.0
	rbar := (0.3 + 0.2 + 0.3) / 3.0
	assert.InDelta(t, grand, s.Primary.Center, 1e-9)
	assert.InDelta(t, grand+0.577*rbar, s.Primary.UCL, 1e-9)
	assert.InDelta(t, grand-0.577*rbar, s.Primary.LCL, 1e-9)
	assert.InDelta(t, rbar, s.Variability.Center, 1e-9)
	assert.InDelta(t, 2.115*rbar, s.Variability.UCL, 1e-9)
	assert.Equal(t, 0.0, s.Variability.LCL)
}

func TestFromSubgroupsBadSize(t *testing.T) {
	d := series.Derived{Primary: []float64{1, 2}, Variability: []float64{0, 0}}
	_, err := FromSubgroups(d, 26)
	assert.NotNil(t, err)
}

func TestFromIndividuals(t *testing.T) {
	d, err := series.Individuals([][]float64{{10.0}, {10.5}, {9.8}, {10.2}})
	assert.Nil(t, err)
	s, err := FromIndividuals(d)
	assert.Nil(t, err)
	assert.Equal(t, IMR, s.Type)

	mean := (10.0 + 10.5 + 9.8 + 10.2) / 4.0
	mrbar := (0.5 + 0.7 + 0.4) / 3.0
	spread := (3.0 / 1.128) * mrbar
	assert.InDelta(t, mean, s.Primary.Center, 1e-9)
	assert.InDelta(t, mean+spread, s.Primary.UCL, 1e-9)
	assert.InDelta(t, mean-spread, s.Primary.LCL, 1e-9)
	assert.InDelta(t, mrbar, s.Variability.Center, 1e-9)
	assert.InDelta(t, 3.267*mrbar, s.Variability.UCL, 1e-9)
	assert.Equal(t, 0.0, s.Variability.LCL)
}

func TestFromIndividualsConstantSeries(t *testing.T) {
	d, err := series.Individuals([][]float64{{10}, {10}, {10}, {10}, {10}})
	assert.Nil(t, err)
	s, err := FromIndividuals(d)
	assert.Nil(t, err)
	assert.Equal(t, 10.0, s.Primary.Center)
	assert.Equal(t, 10.0, s.Primary.UCL)
	assert.Equal(t, 10.0, s.Primary.LCL)
	assert.Equal(t, 0.0, s.Variability.Center)
	assert.Equal(t, 0.0, s.Variability.UCL)
	assert.Equal(t, 0.0, s.Variability.LCL)
}

func TestFromIndividualsTooFew(t *testing.T) {
	_, err := FromIndividuals(series.Derived{Primary: []float64{10.0}})
	var ide series.InsufficientDataError
	assert.True(t, errors.As(err, &ide))
}

func TestSigma(t *testing.T) {
	s := Set{Primary: Chart{Center: 10, UCL: 13, LCL: 7}}
	assert.Equal(t, 1.0, s.Sigma())
}
