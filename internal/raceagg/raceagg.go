// Package raceagg implements RaceAggregator (spec §4.4, component C4):
// turns a weighted poll set for one race into a margin, stddev,
// undecideds estimate, and win probability, or falls back to ratings/
// assumed margins when no polls exist.
package raceagg

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/yourusername/electionforecast/internal/forecast"
	"github.com/yourusername/electionforecast/internal/forecasterr"
	"github.com/yourusername/electionforecast/internal/numeric"
)

// UndecidedFactor returns 0.30 * u, the upper bound on how much a margin
// could move from an asymmetric break of the undecided pool (spec §4.4,
// GLOSSARY). Derived as u*0.65 - u*0.35 (a 65/35 worst-case split).
func UndecidedFactor(u float64) float64 {
	return u*0.65 - u*0.35
}

// Input bundles everything RaceAggregator needs beyond the selected
// polls: the race's kind (for the stddev/minimum-error rule), a bias to
// apply uniformly to every poll's margin (used by the metamargin solver
// and BayesPredictor, spec §4.4), and the undecided-source waterfall
// fallbacks.
type Input struct {
	RaceID string
	Kind   forecast.Kind
	Bias   float64

	// NationalUndecidedsPct and GenericBallotUndecidedsPct feed the
	// undecided-source waterfall when a race has no polls with a
	// usable residual (spec §4.4: per-poll residual -> national ->
	// generic ballot -> campaign default). Use (0, false) when not
	// applicable.
	NationalUndecidedsPct      float64
	HasNationalUndecideds      bool
	GenericBallotUndecidedsPct float64
	HasGenericBallotUndecideds bool
	CampaignDefaultUndecideds  float64

	// Fallback inputs used only when SelectedPolls is empty and no
	// assumed margin produced a synthetic poll (spec §4.4 "fallback
	// when no polls and no assumed margins exist").
	ChamberRating  string // tossup|leans|likely|safe, "" if none
	PresumedWinner *forecast.Party
	IncumbentParty *forecast.Party
}

// Aggregate runs RaceAggregator for one race given its selected,
// weighted poll set.
func Aggregate(in Input, polls []forecast.WeightedPoll) (forecast.RaceModel, error) {
	if len(polls) == 0 {
		return fallback(in)
	}

	margins := make([]float64, len(polls))
	weightedSum := decimal.Zero
	for i, wp := range polls {
		m := wp.Poll.Margin()
		margins[i], _ = m.Float64()
		weightedSum = weightedSum.Add(m.Mul(wp.Weight))
	}
	weightedMean := weightedSum.Round(3)

	undecidedsPct := undecidedFromWaterfall(in, polls)
	stddev := computeStddev(in.Kind, margins, undecidedsPct)

	biasedMean, _ := weightedMean.Float64()
	biasedMean += in.Bias
	winProb := 1 - numeric.NormalCDF(0, biasedMean, stddev)

	rm := forecast.RaceModel{
		RaceID:        in.RaceID,
		Kind:          in.Kind,
		SelectedPolls: polls,
		Mean:          weightedMean,
		Median:        decimal.NewFromFloat(numeric.Median(margins)).Round(3),
		Stddev:        stddev,
		UndecidedsPct: undecidedsPct,
		WinProb:       winProb,
		Margin:        weightedMean,
	}
	return rm, nil
}

// computeStddev applies spec §4.4's stddev rule: population stddev for
// the National race, else max(expected error, sample stddev), where
// sample stddev is 0 for a single-poll race so expected error dominates.
func computeStddev(kind forecast.Kind, margins []float64, undecidedsPct float64) float64 {
	if kind == forecast.KindNational {
		return numeric.PopulationStddev(margins)
	}
	return maxF(ExpectedError(kind, undecidedsPct), numeric.SampleStddev(margins))
}

// undecidedFromWaterfall applies the undecided-source waterfall (spec
// §4.4): per-poll residual (averaged when positive) -> national race
// undecideds (presidential years) -> generic-ballot undecideds ->
// campaign default.
func undecidedFromWaterfall(in Input, polls []forecast.WeightedPoll) float64 {
	sum := 0.0
	n := 0
	for _, wp := range polls {
		u := wp.Poll.Undecided()
		uf, _ := u.Float64()
		if uf > 0 {
			sum += uf
			n++
		}
	}
	if n > 0 {
		return sum / float64(n)
	}
	if in.HasNationalUndecideds {
		return in.NationalUndecidedsPct
	}
	if in.HasGenericBallotUndecideds {
		return in.GenericBallotUndecidedsPct
	}
	return in.CampaignDefaultUndecideds
}

// fallback implements spec §4.4's "fallback when no polls and no
// assumed margins exist" rules.
func fallback(in Input) (forecast.RaceModel, error) {
	if in.ChamberRating != "" {
		p := ratingToProb(in.ChamberRating)
		if in.PresumedWinner != nil && *in.PresumedWinner == forecast.Gop {
			p = 1 - p
		}
		return ratingRaceModel(in, biasedFallbackProb(p, in.Kind, in.Bias), in.ChamberRating), nil
	}

	if in.Kind == forecast.KindSenate || in.Kind == forecast.KindGovernor {
		if in.PresumedWinner != nil {
			switch *in.PresumedWinner {
			case forecast.Dem:
				return ratingRaceModel(in, biasedFallbackProb(1.0, in.Kind, in.Bias), ""), nil
			case forecast.Gop:
				return ratingRaceModel(in, biasedFallbackProb(0.0, in.Kind, in.Bias), ""), nil
			}
		}
		return toStddevModel(in, biasedFallbackProb(0.5, in.Kind, in.Bias), in.Kind.MinimumError()), nil
	}

	if in.Kind == forecast.KindHouse {
		if in.PresumedWinner != nil {
			switch *in.PresumedWinner {
			case forecast.Dem:
				return ratingRaceModel(in, biasedFallbackProb(1.0, in.Kind, in.Bias), ""), nil
			case forecast.Gop:
				return ratingRaceModel(in, biasedFallbackProb(0.0, in.Kind, in.Bias), ""), nil
			}
		}
		if in.IncumbentParty != nil {
			return toStddevModel(in, biasedFallbackProb(0.5, in.Kind, in.Bias), in.Kind.MinimumError()), nil
		}
		return forecast.RaceModel{}, forecasterr.MissingDataFor(in.RaceID, false, false, false, false, false)
	}

	return toStddevModel(in, biasedFallbackProb(0.5, in.Kind, in.Bias), in.Kind.MinimumError()), nil
}

// biasedFallbackProb applies a uniform bias to a rating-derived win
// probability that has no polls behind it: it backs p out to a margin
// via inverse-CDF at the chamber's minimum error, shifts the margin by
// bias, and reconverts to a probability. This mirrors the polled path's
// margin+bias treatment (Aggregate above) so a no-poll race moves under
// the metamargin solver's bias search instead of sitting fixed at p.
func biasedFallbackProb(p float64, kind forecast.Kind, bias float64) float64 {
	p = numeric.Clamp(p, 0, 1)
	if bias == 0 {
		return p
	}
	stddev := kind.MinimumError()
	margin := -stddev * numeric.InverseNormalCDF(1-p)
	if math.IsInf(margin, 1) {
		margin = 24
	} else if math.IsInf(margin, -1) {
		margin = -24
	}
	return numeric.Clamp(1-numeric.NormalCDF(0, margin+bias, stddev), 0, 1)
}

// ratingToProb maps a chamber rating string to a win probability (spec
// §4.4): tossup->0.5, leans->0.7, likely->0.85, safe->1.0.
func ratingToProb(rating string) float64 {
	switch rating {
	case "tossup":
		return 0.5
	case "leans":
		return 0.7
	case "likely":
		return 0.85
	case "safe":
		return 1.0
	default:
		return 0.5
	}
}

func ratingRaceModel(in Input, p float64, ratingLabel string) forecast.RaceModel {
	return forecast.RaceModel{
		RaceID:  in.RaceID,
		Kind:    in.Kind,
		WinProb: numeric.Clamp(p, 0, 1),
		Rating:  ratingLabel,
		Stddev:  in.Kind.MinimumError(),
	}
}

func toStddevModel(in Input, p, stddev float64) forecast.RaceModel {
	return forecast.RaceModel{
		RaceID:  in.RaceID,
		Kind:    in.Kind,
		WinProb: p,
		Stddev:  stddev,
	}
}

// ExpectedError returns max(chamber minimum error, undecided_factor(u))
// (spec §4.4).
func ExpectedError(kind forecast.Kind, undecidedsPct float64) float64 {
	return maxF(kind.MinimumError(), UndecidedFactor(undecidedsPct))
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
