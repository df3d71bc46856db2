// Package metamargin implements MetamarginSolver (spec §4.6, component
// C6): finds the uniform bias applied to every race's margin that brings
// the convolved mean score to the chamber's win threshold.
package metamargin

import (
	"math"

	"github.com/yourusername/electionforecast/internal/forecasterr"
	"github.com/yourusername/electionforecast/internal/numeric"
)

// BiasFn maps a uniform bias applied to every race's margin to the
// resulting convolved mean score (spec §4.6). Implementations wrap the
// chamber's race list, recompute per-race win probabilities, convolve,
// and return Convolver.Mean().
type BiasFn func(bias float64) int

// TiebreakerMajority returns n/2 + 1 (spec §4.6).
func TiebreakerMajority(n int) int {
	return n/2 + 1
}

const (
	step      = 0.02
	abortBias = 101.0
)

// Solve runs the metamargin search (spec §4.6): given bias_fn, the
// midpoint (score just below the win threshold), the starting score at
// bias=0, and the maximum possible score, finds the signed bias at which
// the chamber's outcome crosses the midpoint.
//
// Sign convention: positive metamargin favors Democrats (the amount by
// which the GOP must shift to tie); negative favors the GOP.
func Solve(biasFn BiasFn, midpoint, startScore, maxScore int) (float64, error) {
	if startScore != midpoint {
		return searchToward(biasFn, midpoint, startScore)
	}
	if startScore == 0 {
		raw, err := searchPositive(biasFn, midpoint)
		if err != nil {
			return 0, err
		}
		return round1(-raw), nil
	}
	if startScore == maxScore {
		raw, err := searchNegative(biasFn, midpoint)
		if err != nil {
			return 0, err
		}
		return round1(-raw), nil
	}
	pos, err := searchPositive(biasFn, midpoint)
	if err != nil {
		return 0, err
	}
	neg, err := searchNegative(biasFn, midpoint)
	if err != nil {
		return 0, err
	}
	if math.Abs(neg) <= math.Abs(pos) {
		return round1(-neg), nil
	}
	return round1(-pos), nil
}

// searchToward steps bias in the direction that brings score toward
// midpoint, from bias 0.
func searchToward(biasFn BiasFn, midpoint, startScore int) (float64, error) {
	if startScore < midpoint {
		raw, err := searchPositive(biasFn, midpoint)
		if err != nil {
			return 0, err
		}
		return round1(-raw), nil
	}
	raw, err := searchNegative(biasFn, midpoint)
	if err != nil {
		return 0, err
	}
	return round1(-raw), nil
}

// searchPositive scans bias = 0.02, 0.04, ... until score >= midpoint,
// returning the bias at which that happens (spec §4.6: "starting ...
// at 0.02 in the positive direction. Stop when ... going positive, score
// >= midpoint").
func searchPositive(biasFn BiasFn, midpoint int) (float64, error) {
	bias := step
	for {
		if bias > abortBias {
			return 0, forecasterr.New(forecasterr.NumericOutOfRange, "metamargin", "bias",
				"positive search exceeded +101.0 without reaching midpoint")
		}
		if biasFn(bias) >= midpoint {
			return bias, nil
		}
		bias += step
	}
}

// searchNegative scans bias = 0, -0.02, ... until score <= midpoint,
// returning the bias at which that happens (spec §4.6: "starting at 0 in
// the negative direction ... stop when ... going negative, score <=
// midpoint").
func searchNegative(biasFn BiasFn, midpoint int) (float64, error) {
	bias := 0.0
	for {
		if bias < -abortBias {
			return 0, forecasterr.New(forecasterr.NumericOutOfRange, "metamargin", "bias",
				"negative search exceeded -101.0 without reaching midpoint")
		}
		if biasFn(bias) <= midpoint {
			return bias, nil
		}
		bias -= step
	}
}

// Round1 rounds to one decimal place via the convention that a raw
// magnitude under 0.05 rounds to exactly 0.0, with no signed zero (spec
// §4.6, §8). Exported for BayesPredictor, which applies the same
// rounding convention to its predicted metamargin (spec §4.8 step 7).
func Round1(margin float64) float64 {
	r := numeric.RoundTo(margin, 1)
	if r == 0 {
		return 0.0
	}
	return r
}

func round1(margin float64) float64 { return Round1(margin) }
