// Package numeric provides the leaf numeric primitives shared by the
// rest of the analysis pipeline (spec §4.1, component C1): normal
// CDF/inverse-CDF, t-distribution PDF, weighted mean/stddev, median,
// convolution, cumulative sum, and rounding. None of these functions
// raise errors — callers are expected to precondition-check their
// inputs (spec §7).
package numeric

import (
	"math"
	"sort"
)

// invSqrt2 is 1/sqrt(2), used by NormalCDF.
const invSqrt2 = 0.70710678118654752440

// NormalCDF returns the standard normal CDF evaluated at x, scaled by
// mean/stddev: P(X <= x) for X ~ N(mean, stddev^2). stddev == 0 is
// treated as a point mass at mean.
func NormalCDF(x, mean, stddev float64) float64 {
	if stddev == 0 {
		if x >= mean {
			return 1
		}
		return 0
	}
	z := (x - mean) / stddev
	return 0.5 * math.Erfc(-z*invSqrt2)
}

// StandardNormalCDF returns Φ(z) for the standard normal distribution.
func StandardNormalCDF(z float64) float64 {
	return NormalCDF(z, 0, 1)
}

// InverseNormalCDF returns the value z such that Φ(z) = p, using the
// erfinv-based identity z = sqrt(2) * erfinv(2p - 1). p must be in
// (0, 1); p <= 0 returns -Inf and p >= 1 returns +Inf.
func InverseNormalCDF(p float64) float64 {
	if p <= 0 {
		return math.Inf(-1)
	}
	if p >= 1 {
		return math.Inf(1)
	}
	return math.Sqrt2 * math.Erfinv(2*p-1)
}

// TDistPDF returns the Student's t-distribution PDF at x with integer
// degrees of freedom df (spec §4.1, used by BayesPredictor with df=1 and
// df=3).
func TDistPDF(x float64, df int) float64 {
	if df <= 0 {
		df = 1
	}
	nu := float64(df)
	num := math.Gamma((nu + 1) / 2)
	den := math.Sqrt(nu*math.Pi) * math.Gamma(nu/2)
	base := 1 + (x*x)/nu
	return (num / den) * math.Pow(base, -(nu+1)/2)
}

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Median returns the median of xs: the middle element for odd length, or
// the mean of the two middle elements for even length. xs is not
// mutated.
func Median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// PopulationStddev returns the population standard deviation of xs
// (denominator n).
func PopulationStddev(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	m := Mean(xs)
	sumSq := 0.0
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n))
}

// SampleStddev returns the sample standard deviation of xs (denominator
// n-1), returning 0 when n <= 1 (spec §4.1).
func SampleStddev(xs []float64) float64 {
	n := len(xs)
	if n <= 1 {
		return 0
	}
	m := Mean(xs)
	sumSq := 0.0
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// WeightedMean returns Σ i·w_i / Σ w_i over an integer index domain
// weights[0..len-1] (spec §4.1). Used by Convolver.mean(). Returns 0 when
// all weights are zero.
func WeightedMean(weights []float64) float64 {
	sumW := 0.0
	sumIW := 0.0
	for i, w := range weights {
		sumW += w
		sumIW += float64(i) * w
	}
	if sumW == 0 {
		return 0
	}
	return sumIW / sumW
}

// WeightedStddev returns the weighted standard deviation of an integer
// index domain around a given integer mean, using denominator
// ((k-1)·Σw)/k where k is the count of non-zero-weight indices (spec
// §4.1). Returns 0 when fewer than 2 indices carry weight.
func WeightedStddev(weights []float64, mean int) float64 {
	sumW := 0.0
	sumWSq := 0.0
	k := 0
	for i, w := range weights {
		if w == 0 {
			continue
		}
		k++
		d := float64(i - mean)
		sumW += w
		sumWSq += w * d * d
	}
	if k < 2 {
		return 0
	}
	denom := (float64(k-1) * sumW) / float64(k)
	if denom <= 0 {
		return 0
	}
	return math.Sqrt(sumWSq / denom)
}

// Convolve computes the discrete convolution of two finite non-negative
// sequences a and b: the result has length len(a)+len(b)-1, where
// result[k] = Σ a[i]·b[k-i].
func Convolve(a, b []float64) []float64 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

// CumulativeSum returns the running total of xs: result[i] = Σ xs[0..i].
func CumulativeSum(xs []float64) []float64 {
	out := make([]float64, len(xs))
	running := 0.0
	for i, x := range xs {
		running += x
		out[i] = running
	}
	return out
}

// Round rounds x to the nearest integer, ties-to-even (spec §4.1 allows
// either tie convention; math.RoundToEven matches Go's float formatting
// conventions elsewhere in the stack).
func Round(x float64) int {
	return int(math.RoundToEven(x))
}

// RoundTo rounds x to n decimal places.
func RoundTo(x float64, n int) float64 {
	scale := math.Pow(10, float64(n))
	return math.RoundToEven(x*scale) / scale
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ClampInt restricts x to [lo, hi].
func ClampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
