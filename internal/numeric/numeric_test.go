package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalCDFSymmetry(t *testing.T) {
	require.InDelta(t, 0.5, NormalCDF(0, 0, 1), 1e-9)
	assert.InDelta(t, StandardNormalCDF(-1), 1-StandardNormalCDF(1), 1e-9)
}

func TestNormalCDFZeroStddev(t *testing.T) {
	assert.Equal(t, 1.0, NormalCDF(5, 3, 0))
	assert.Equal(t, 0.0, NormalCDF(1, 3, 0))
}

func TestInverseNormalCDFRoundTrip(t *testing.T) {
	for _, p := range []float64{0.01, 0.1, 0.5, 0.9, 0.99} {
		z := InverseNormalCDF(p)
		got := StandardNormalCDF(z)
		assert.InDelta(t, p, got, 1e-6)
	}
}

func TestMedianOddEven(t *testing.T) {
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, Median([]float64{1, 2, 3, 4}))
}

func TestSampleStddevSinglePoll(t *testing.T) {
	assert.Equal(t, 0.0, SampleStddev([]float64{4.2}))
}

func TestPopulationVsSampleStddev(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	pop := PopulationStddev(xs)
	sample := SampleStddev(xs)
	assert.Less(t, pop, sample)
}

func TestWeightedMeanAndStddev(t *testing.T) {
	// spike at index 2
	weights := []float64{0, 0, 1, 0, 0}
	assert.Equal(t, 2.0, WeightedMean(weights))
	assert.Equal(t, 0.0, WeightedStddev(weights, 2))
}

func TestConvolveSpikes(t *testing.T) {
	// race A certain dem win (spike at 0 with weight 1), race B certain
	// dem win worth 2 (spike at 0 of length 3 with weight at index 0).
	a := []float64{1, 0}
	b := []float64{1, 0, 0}
	out := Convolve(a, b)
	require.Len(t, out, 4)
	assert.InDelta(t, 1.0, out[0], 1e-12)
	for _, v := range out[1:] {
		assert.InDelta(t, 0.0, v, 1e-12)
	}
}

func TestConvolveSumsToOne(t *testing.T) {
	a := []float64{0.3, 0.7}
	b := []float64{0.5, 0.5}
	out := Convolve(a, b)
	sum := 0.0
	for _, v := range out {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestCumulativeSum(t *testing.T) {
	cs := CumulativeSum([]float64{0.1, 0.2, 0.3, 0.4})
	assert.InDelta(t, 0.1, cs[0], 1e-12)
	assert.InDelta(t, 1.0, cs[3], 1e-9)
}

func TestRoundTiesToEven(t *testing.T) {
	assert.Equal(t, 2, Round(2.5))
	assert.Equal(t, 4, Round(3.5))
}

func TestTDistPDFPeak(t *testing.T) {
	p0 := TDistPDF(0, 3)
	p1 := TDistPDF(1, 3)
	assert.Greater(t, p0, p1)
	assert.False(t, math.IsNaN(p0))
}
