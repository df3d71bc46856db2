package daily

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/electionforecast/internal/forecast"
)

func TestRunProducesNationalAndChambers(t *testing.T) {
	campaign := forecast.Campaign{
		StartDate: forecast.NewDate(2024, 1, 1),
		EndDate:   forecast.NewDate(2024, 11, 5),
	}
	day := campaign.EndDate
	campaign.StateList = []forecast.Race{
		{RaceID: "A", Kind: forecast.KindElectoralCollege, Region: "A", ElectoralWeight: 538},
	}

	feed := forecast.NewFeed()
	feed.NationalPolls = []forecast.Poll{{
		Pollster: "N", StartDate: day.AddDays(-3), EndDate: day,
		DemPct: decimal.NewFromInt(50), GopPct: decimal.NewFromInt(46),
	}}
	feed.StatePolls["A"] = []forecast.Poll{{
		Pollster: "A1", StartDate: day.AddDays(-3), EndDate: day,
		DemPct: decimal.NewFromInt(52), GopPct: decimal.NewFromInt(45),
	}}

	a := New(time.Minute)
	md, err := a.Run(campaign, feed, day, Bias{}, false)
	require.NoError(t, err)
	require.NotNil(t, md.National)
	assert.Equal(t, 538, md.DemEVMode)
	// State A holds all 538 EV at win probability Φ(7/3) ≈ 0.9902, so the
	// GOP's mean is 538·(1−0.9902) ≈ 5.28.
	assert.InDelta(t, 5.28, md.EVMeanGop, 0.01)
	assert.Nil(t, md.GenericBallot)
}
