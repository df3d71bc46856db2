package bayes

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/electionforecast/internal/chamber"
	"github.com/yourusername/electionforecast/internal/forecast"
)

// linearBiasFn simulates a chamber whose convolved score moves linearly
// with bias, crossing `cross` at bias 0 -- enough to exercise the win
// probability and score-band arithmetic without a real convolution.
func linearBiasFn(cross int, slope float64) func(float64) int {
	return func(bias float64) int {
		return cross + int(bias*slope)
	}
}

// TestBayesConvergesToStablePrior mirrors the Bayesian-convergence
// scenario: a day's own metamargin sits at +2.0 and every prior day also
// sits near +2.0 with low dispersion, so the posterior should land close
// to +2.0 with a win probability comfortably above 0.5.
func TestBayesConvergesToStablePrior(t *testing.T) {
	pred := runBayes(bayesInput{
		todayMM:         2.0,
		todayUndecideds: 6.0,
		priorMM:         2.0,
		priorUndecideds: 6.0,
		swingTable:      kMaxBallotSwingMidterm,
		daysLeft:        30,
		biasFn:          linearBiasFn(218, 20),
		scoreToWin:      218,
		scoreOffset:     0,
		mmAdjust:        0,
	})

	assert.InDelta(t, 2.0, pred.PredictedMetamargin, 0.5)
	assert.Greater(t, pred.DemWinP, 0.5)
	assert.LessOrEqual(t, pred.Metamargin2Sigma.Low, pred.Metamargin1Sigma.Low)
	assert.LessOrEqual(t, pred.Metamargin1Sigma.Low, pred.PredictedMetamargin)
	assert.LessOrEqual(t, pred.PredictedMetamargin, pred.Metamargin1Sigma.High)
	assert.LessOrEqual(t, pred.Metamargin1Sigma.High, pred.Metamargin2Sigma.High)
}

// TestBayesBandNarrowsWithMorePriorDays checks spec scenario 6's
// "narrowing band" property at the prior-swing floor: prior undecideds of
// 0.5 and 6.0 give undecided factors of 0.15 and 1.8, which both floor to
// a 6.0 prior swing, so the band from the low-undecided prior must be no
// wider than the one anchored on today's own undecideds.
func TestBayesBandNarrowsWithMorePriorDays(t *testing.T) {
	noHistory := runBayes(bayesInput{
		todayMM:         2.0,
		todayUndecideds: 6.0,
		priorMM:         2.0,
		priorUndecideds: 6.0,
		swingTable:      kMaxBallotSwingMidterm,
		daysLeft:        1,
		biasFn:          linearBiasFn(218, 20),
		scoreToWin:      218,
	})
	withHistory := runBayes(bayesInput{
		todayMM:         2.0,
		todayUndecideds: 6.0,
		priorMM:         2.0,
		priorUndecideds: 0.5,
		swingTable:      kMaxBallotSwingMidterm,
		daysLeft:        1,
		biasFn:          linearBiasFn(218, 20),
		scoreToWin:      218,
	})

	noWidth := noHistory.Metamargin1Sigma.High - noHistory.Metamargin1Sigma.Low
	historyWidth := withHistory.Metamargin1Sigma.High - withHistory.Metamargin1Sigma.Low
	assert.LessOrEqual(t, historyWidth, noWidth)
}

func TestWinProbabilityClampedToUnitInterval(t *testing.T) {
	landslide := runBayes(bayesInput{
		todayMM:         30.0,
		todayUndecideds: 2.0,
		priorMM:         30.0,
		priorUndecideds: 2.0,
		swingTable:      kMaxNationalSwing,
		daysLeft:        1,
		biasFn:          linearBiasFn(270, 1), // reaches 270 once mm passes about 29
		scoreToWin:      270,
	})
	assert.LessOrEqual(t, landslide.DemWinP, 0.99)

	blowout := runBayes(bayesInput{
		todayMM:         -30.0,
		todayUndecideds: 2.0,
		priorMM:         -30.0,
		priorUndecideds: 2.0,
		swingTable:      kMaxNationalSwing,
		daysLeft:        1,
		biasFn:          linearBiasFn(-1000, 1), // never reaches 270: every mm in range is negative
		scoreToWin:      270,
	})
	assert.GreaterOrEqual(t, blowout.DemWinP, 0.0)
}

func TestHouseMMAdjustShiftsOnlyBands(t *testing.T) {
	pred := runBayes(bayesInput{
		todayMM:         3.0,
		todayUndecideds: 6.0,
		priorMM:         3.0,
		priorUndecideds: 6.0,
		swingTable:      kMaxBallotSwingMidterm,
		daysLeft:        10,
		biasFn:          linearBiasFn(218, 20),
		scoreToWin:      218,
		mmAdjust:        1.5,
	})
	unshifted := runBayes(bayesInput{
		todayMM:         3.0,
		todayUndecideds: 6.0,
		priorMM:         3.0,
		priorUndecideds: 6.0,
		swingTable:      kMaxBallotSwingMidterm,
		daysLeft:        10,
		biasFn:          linearBiasFn(218, 20),
		scoreToWin:      218,
		mmAdjust:        0,
	})

	assert.Equal(t, unshifted.PredictedMetamargin, pred.PredictedMetamargin)
	assert.Equal(t, unshifted.AverageScore, pred.AverageScore)
	assert.InDelta(t, unshifted.Metamargin1Sigma.Low+1.5, pred.Metamargin1Sigma.Low, 1e-9)
	assert.InDelta(t, unshifted.Metamargin1Sigma.High+1.5, pred.Metamargin1Sigma.High, 1e-9)
}

// ecCampaign builds a minimal single-state presidential campaign whose
// one race is polled on every history day, so BiasContext's
// per-day recomputation always has fresh polls to select from.
func ecCampaign(days []forecast.Date, dem, gop float64) (forecast.Campaign, forecast.Feed) {
	campaign := forecast.Campaign{
		StartDate:          days[0].AddDays(-10),
		EndDate:            days[len(days)-1],
		IsPresidentialYear: true,
		StateList: []forecast.Race{
			{RaceID: "A", Kind: forecast.KindElectoralCollege, Region: "A", ElectoralWeight: 538},
		},
	}
	feed := forecast.NewFeed()
	var polls []forecast.Poll
	for _, d := range days {
		dd := decimal.NewFromFloat(dem)
		gd := decimal.NewFromFloat(gop)
		polls = append(polls, forecast.Poll{
			Pollster:   "P",
			StartDate:  d.AddDays(-2),
			EndDate:    d,
			DemPct:     dd,
			GopPct:     gd,
			SampleType: forecast.SampleLikely,
			SampleSize: 800,
			ID:         forecast.NewPollID("P", d.AddDays(-2), d, dd, gd),
		})
	}
	feed.StatePolls["A"] = polls
	return campaign, feed
}

// TestPredictAllEndToEnd exercises the full history walk against real
// ChamberAnalyzer plumbing (not a synthetic BiasFn), checking that every
// day in a short presidential-year history comes out with a populated,
// well-formed Electoral College prediction.
func TestPredictAllEndToEnd(t *testing.T) {
	base := forecast.NewDate(2024, 10, 1)
	days := []forecast.Date{base, base.AddDays(1), base.AddDays(2)}
	campaign, feed := ecCampaign(days, 52, 45)

	history := make([]forecast.ModelData, len(days))
	for i, d := range days {
		history[i] = forecast.ModelData{
			Date: d,
			ElectoralCollege: forecast.ChamberSummary{
				MetamarginOK: true,
				Metamargin:   2.0,
			},
		}
	}

	p := &Predictor{Chamber: &chamber.Analyzer{}}
	err := p.PredictAll(campaign, feed, history)
	require.NoError(t, err)

	for _, day := range history {
		require.NotNil(t, day.ElectoralCollege.Prediction)
		pred := day.ElectoralCollege.Prediction
		assert.GreaterOrEqual(t, pred.DemWinP, 0.05)
		assert.LessOrEqual(t, pred.DemWinP, 0.95)
		assert.LessOrEqual(t, pred.Metamargin1Sigma.Low, pred.Metamargin1Sigma.High)
		assert.LessOrEqual(t, pred.Metamargin2Sigma.Low, pred.Metamargin1Sigma.Low)
		assert.LessOrEqual(t, pred.Metamargin1Sigma.High, pred.Metamargin2Sigma.High)
	}
}
