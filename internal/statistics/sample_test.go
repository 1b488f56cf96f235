package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleEmpty(t *testing.T) {
	t.Parallel()

	var s Sample
	assert.Zero(t, s.Mean())
	assert.Zero(t, s.Variance())
	assert.Zero(t, s.StdDev())
	assert.Zero(t, s.StdError())
	assert.Zero(t, s.Median())
	assert.Zero(t, s.Percentile(0.9))
}

func TestSampleSingleValue(t *testing.T) {
	t.Parallel()

	var s Sample
	s.Add(2.5)
	assert.Equal(t, 2.5, s.Mean())
	assert.Zero(t, s.Variance(), "variance needs two observations")
	assert.Equal(t, 2.5, s.Median())

	lo, hi := s.ConfidenceInterval95()
	assert.Equal(t, 2.5, lo)
	assert.Equal(t, 2.5, hi)
}

func TestSampleMoments(t *testing.T) {
	t.Parallel()

	var s Sample
	for _, v := range []float64{9, 2, 4, 4, 5, 4, 7, 5} {
		s.Add(v)
	}

	assert.Equal(t, 8, s.N)
	assert.Equal(t, 5.0, s.Mean())
	assert.InDelta(t, 32.0/7.0, s.Variance(), 1e-9)
	assert.InDelta(t, math.Sqrt(32.0/7.0), s.StdDev(), 1e-9)
	assert.InDelta(t, math.Sqrt(32.0/7.0)/math.Sqrt(8), s.StdError(), 1e-9)

	assert.Equal(t, 4.5, s.Median())
	assert.Equal(t, 2.0, s.Percentile(0))
	assert.Equal(t, 9.0, s.Percentile(1))
	assert.InDelta(t, 4.0, s.Percentile(0.25), 1e-9)
	assert.InDelta(t, 7.6, s.Percentile(0.9), 1e-9)

	assert.Equal(t, []float64{9, 2, 4, 4, 5, 4, 7, 5}, s.Values, "percentiles do not reorder the sample")
}
