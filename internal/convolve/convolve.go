// Package convolve implements the Convolver (spec §4.2, component C2):
// the discrete probability distribution over an aggregate "points" total
// (seats or electoral votes), built by iterated discrete convolution of
// each race's independent win-probability spike.
package convolve

import (
	"time"

	"github.com/yourusername/electionforecast/internal/cache"
	"github.com/yourusername/electionforecast/internal/metrics"
	"github.com/yourusername/electionforecast/internal/numeric"
)

// RaceInput is one race's contribution to the convolution: it is worth
// Seats points if Dem wins with probability WinProb.
type RaceInput struct {
	Seats   int
	WinProb float64
}

// Convolver holds the full histogram over [0, total seats], where index s
// is P(dem total == s).
type Convolver struct {
	Histogram []float64
}

// Build constructs a Convolver from an ordered list of races, without a
// cache. Each race contributes a length-(seats+1) slice with probability
// WinProb at index 0 and 1-WinProb at index `seats` (dem at the high end
// once reversed — see below), convolved in sequence; the final histogram
// is reversed so index s means "dem total == s" (spec §4.2: the source
// places dem at index 0 of each per-race slice, so after N convolutions
// low indices correspond to dem sweeping; reversing makes the indexing
// natural).
func Build(races []RaceInput) *Convolver {
	start := time.Now()
	defer func() { metrics.RecordConvolutionDuration(time.Since(start).Seconds()) }()

	hist := []float64{1}
	for _, r := range races {
		seats := r.Seats
		if seats < 0 {
			seats = 0
		}
		slice := make([]float64, seats+1)
		slice[0] = r.WinProb
		slice[seats] += 1 - r.WinProb
		hist = numeric.Convolve(hist, slice)
	}
	reverse(hist)
	return &Convolver{Histogram: hist}
}

// BuildCached behaves like Build but consults/populates hc keyed by the
// race set's (seats, winProb) sequence, avoiding recomputation across
// adjacent days whose race sets are unchanged or nearly so.
func BuildCached(races []RaceInput, hc *cache.HistogramCache) *Convolver {
	if hc == nil {
		return Build(races)
	}
	seats := make([]int, len(races))
	probs := make([]float64, len(races))
	for i, r := range races {
		seats[i] = r.Seats
		probs[i] = r.WinProb
	}
	key := cache.NewHistogramKey(seats, probs)
	if hist, ok := hc.Get(key); ok {
		cp := append([]float64(nil), hist...)
		return &Convolver{Histogram: cp}
	}
	c := Build(races)
	hc.Set(key, append([]float64(nil), c.Histogram...))
	return c
}

func reverse(xs []float64) {
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
}

// Len returns the histogram length, Σ seats + 1.
func (c *Convolver) Len() int { return len(c.Histogram) }

// Mean returns round(weighted average of the histogram) (spec §4.2).
func (c *Convolver) Mean() int {
	if len(c.Histogram) == 0 {
		return 0
	}
	return numeric.Round(numeric.WeightedMean(c.Histogram))
}

// MeanFloat returns the unrounded weighted average. ChamberAnalyzer
// reports it as ChamberSummary.Mean; the metamargin and Bayesian bias
// functions use the rounded Mean instead.
func (c *Convolver) MeanFloat() float64 {
	return numeric.WeightedMean(c.Histogram)
}

// Mode returns the argmax of the histogram (spec §4.2).
func (c *Convolver) Mode() int {
	best := 0
	bestP := -1.0
	for i, p := range c.Histogram {
		if p > bestP {
			bestP = p
			best = i
		}
	}
	return best
}

// Median returns the smallest s with cumsum[s] >= 0.5 (spec §4.2).
func (c *Convolver) Median() int {
	cs := numeric.CumulativeSum(c.Histogram)
	for i, v := range cs {
		if v >= 0.5 {
			return i
		}
	}
	if len(cs) == 0 {
		return 0
	}
	return len(cs) - 1
}

// DemWinProb returns 1 - cumsum[threshold-1]; 1.0 when threshold == 0
// (spec §4.2). Out-of-range thresholds clamp.
func (c *Convolver) DemWinProb(threshold int) float64 {
	if threshold <= 0 {
		return 1.0
	}
	cs := numeric.CumulativeSum(c.Histogram)
	idx := threshold - 1
	if idx >= len(cs) {
		return 0.0
	}
	return 1 - cs[idx]
}

// Confidence returns the ±2σ band (spec §4.2): low = mean - round(2σ) +
// base, high = clamp(mean + round(2σ), 0, len(histogram)) + base - 1.
func (c *Convolver) Confidence(base int) ConfidenceBand {
	mean := c.Mean()
	sigma := numeric.WeightedStddev(c.Histogram, mean)
	twoSigma := numeric.Round(2 * sigma)
	low := mean - twoSigma + base
	high := numeric.ClampInt(mean+twoSigma, 0, len(c.Histogram)) + base - 1
	return ConfidenceBand{Low: low, High: high}
}

// ConfidenceBand is an integer low/high pair over the convolved seat/EV
// domain.
type ConfidenceBand struct {
	Low  int
	High int
}

// Sigma returns the weighted standard deviation of the histogram around
// its mean, used directly by callers that need σ rather than the ±2σ
// band (e.g. diagnostics).
func (c *Convolver) Sigma() float64 {
	return numeric.WeightedStddev(c.Histogram, c.Mean())
}
