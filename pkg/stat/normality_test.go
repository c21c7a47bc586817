package stat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalityPSmallSamples(t *testing.T) {
	assert.Equal(t, 1.0, NormalityP(nil))
	assert.Equal(t, 1.0, NormalityP([]float64{1}))
	assert.Equal(t, 1.0, NormalityP([]float64{1, 2}))
}

func TestNormalityPConstantSample(t *testing.T) {
	assert.Equal(t, 1.0, NormalityP([]float64{5, 5, 5, 5, 5, 5}))
}

func TestNormalityPBounds(t *testing.T) {
	tt := [][]float64{
		{1, 2, 2, 3, 3, 3, 4, 4, 5},
		{1, 1, 1, 1, 1, 1, 1, 1, 10, 100},
		{-3, -1, 0, 0, 1, 3},
	}
	for _, xs := range tt {
		p := NormalityP(xs)
		assert.GreaterOrEqual(t, p, 0.001)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestNormalityPPenalizesSkew(t *testing.T) {
	symmetric := NormalityP([]float64{1, 2, 2, 3, 3, 3, 4, 4, 5})
	skewed := NormalityP([]float64{1, 1, 1, 1, 1, 1, 1, 1, 10, 100})
	assert.Greater(t, symmetric, skewed)
}

func TestNormalityPLargeSample(t *testing.T) {
	// deterministic triangular-ish sample large enough to hit the
	// empirical-CDF path
	var xs []float64
	for i := 0; i < 6000; i++ {
		xs = append(xs, float64(i%100)+float64((i*7)%13))
	}
	p := NormalityP(xs)
	assert.GreaterOrEqual(t, p, 0.001)
	assert.LessOrEqual(t, p, 1.0)
}
