package convolve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/electionforecast/internal/cache"
)

func TestBuildSingleRaceCertain(t *testing.T) {
	c := Build([]RaceInput{{Seats: 10, WinProb: 1.0}})
	assert.Equal(t, 11, c.Len())
	assert.Equal(t, 10, c.Mean())
	assert.Equal(t, 10, c.Mode())
	assert.InDelta(t, 1.0, c.DemWinProb(1), 1e-9)
}

func TestBuildSingleRaceImpossible(t *testing.T) {
	c := Build([]RaceInput{{Seats: 10, WinProb: 0.0}})
	assert.Equal(t, 0, c.Mean())
	assert.InDelta(t, 0.0, c.DemWinProb(1), 1e-9)
}

func TestBuildHistogramSumsToOne(t *testing.T) {
	races := []RaceInput{
		{Seats: 3, WinProb: 0.7},
		{Seats: 5, WinProb: 0.4},
		{Seats: 2, WinProb: 0.9},
	}
	c := Build(races)
	var total float64
	for _, p := range c.Histogram {
		total += p
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Equal(t, 3+5+2+1, c.Len())
}

func TestMedianMatchesCumulativeThreshold(t *testing.T) {
	c := Build([]RaceInput{{Seats: 4, WinProb: 0.5}})
	m := c.Median()
	assert.GreaterOrEqual(t, m, 0)
	assert.LessOrEqual(t, m, 4)
}

func TestDemWinProbZeroThresholdIsCertain(t *testing.T) {
	c := Build([]RaceInput{{Seats: 4, WinProb: 0.3}})
	assert.Equal(t, 1.0, c.DemWinProb(0))
}

func TestDemWinProbOutOfRangeThresholdIsZero(t *testing.T) {
	c := Build([]RaceInput{{Seats: 4, WinProb: 0.3}})
	assert.Equal(t, 0.0, c.DemWinProb(100))
}

func TestConfidenceBandBracketsMean(t *testing.T) {
	c := Build([]RaceInput{
		{Seats: 10, WinProb: 0.6},
		{Seats: 10, WinProb: 0.5},
		{Seats: 10, WinProb: 0.4},
	})
	band := c.Confidence(0)
	mean := c.Mean()
	assert.LessOrEqual(t, band.Low, mean)
	assert.GreaterOrEqual(t, band.High, mean)
}

func TestBuildCachedReusesEntryAcrossCalls(t *testing.T) {
	hc := cache.NewHistogramCache(time.Minute)
	races := []RaceInput{{Seats: 3, WinProb: 0.55}, {Seats: 2, WinProb: 0.2}}

	first := BuildCached(races, hc)
	hits, misses, _ := hc.Stats()
	assert.Equal(t, uint64(0), hits)
	assert.Equal(t, uint64(1), misses)

	second := BuildCached(races, hc)
	hits, misses, _ = hc.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)

	require.Equal(t, first.Histogram, second.Histogram)
}

func TestBuildCachedNilCacheFallsBackToBuild(t *testing.T) {
	races := []RaceInput{{Seats: 2, WinProb: 0.5}}
	c := BuildCached(races, nil)
	assert.Equal(t, 3, c.Len())
}
