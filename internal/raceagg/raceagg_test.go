package raceagg

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/electionforecast/internal/forecast"
)

func wp(pollster string, dem, gop float64, weight float64) forecast.WeightedPoll {
	return forecast.WeightedPoll{
		Poll: forecast.Poll{
			Pollster: pollster,
			DemPct:   decimal.NewFromFloat(dem),
			GopPct:   decimal.NewFromFloat(gop),
		},
		Weight: decimal.NewFromFloat(weight),
	}
}

func TestNationalStddevIsPopulation(t *testing.T) {
	polls := []forecast.WeightedPoll{
		wp("A", 50, 45, 0.5),
		wp("B", 52, 44, 0.5),
	}
	rm, err := Aggregate(Input{Kind: forecast.KindNational}, polls)
	require.NoError(t, err)
	assert.Greater(t, rm.Stddev, 0.0)
}

func TestStateStddevFloorsAtMinimumError(t *testing.T) {
	polls := []forecast.WeightedPoll{wp("A", 50, 48, 1.0)}
	rm, err := Aggregate(Input{Kind: forecast.KindElectoralCollege}, polls)
	require.NoError(t, err)
	assert.Equal(t, 3.0, rm.Stddev)
}

func TestZeroMarginZeroUndecidedsIsCoinFlip(t *testing.T) {
	polls := []forecast.WeightedPoll{wp("A", 0, 0, 1.0)}
	rm, err := Aggregate(Input{Kind: forecast.KindElectoralCollege}, polls)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, rm.WinProb, 1e-9)
}

func TestHouseRaceWithNoDataIsFatal(t *testing.T) {
	_, err := Aggregate(Input{Kind: forecast.KindHouse, RaceID: "NC-09"}, nil)
	require.Error(t, err)
}

func TestHouseRatingFallbackAppliesPresumedWinnerFlip(t *testing.T) {
	gop := forecast.Gop
	rm, err := Aggregate(Input{
		Kind:           forecast.KindHouse,
		ChamberRating:  "leans",
		PresumedWinner: &gop,
	}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, rm.WinProb, 1e-9)
}

func TestUndecidedFactorExact(t *testing.T) {
	assert.InDelta(t, 3.0, UndecidedFactor(10), 1e-9)
}

func TestRatingFallbackMovesUnderBias(t *testing.T) {
	base, err := Aggregate(Input{Kind: forecast.KindHouse, ChamberRating: "likely"}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.85, base.WinProb, 1e-9)

	biased, err := Aggregate(Input{Kind: forecast.KindHouse, ChamberRating: "likely", Bias: -20}, nil)
	require.NoError(t, err)
	assert.Less(t, biased.WinProb, base.WinProb)
}

func TestRatingFallbackZeroBiasIsUnchanged(t *testing.T) {
	rm, err := Aggregate(Input{Kind: forecast.KindHouse, ChamberRating: "safe"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rm.WinProb)
}
