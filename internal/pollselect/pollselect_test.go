package pollselect

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/electionforecast/internal/forecast"
)

func basicCampaign() forecast.Campaign {
	return forecast.Campaign{
		StartDate: forecast.NewDate(2024, 1, 1),
		EndDate:   forecast.NewDate(2024, 11, 5),
	}
}

func mkPoll(pollster string, start, end forecast.Date, dem, gop float64) forecast.Poll {
	return forecast.Poll{
		Pollster:  pollster,
		StartDate: start,
		EndDate:   end,
		DemPct:    decimal.NewFromFloat(dem),
		GopPct:    decimal.NewFromFloat(gop),
		SampleType: forecast.SampleLikely,
		SampleSize: 500,
		ID:        forecast.NewPollID(pollster, start, end, decimal.NewFromFloat(dem), decimal.NewFromFloat(gop)),
	}
}

func TestGetPollWindowEndpoints(t *testing.T) {
	election := forecast.NewDate(2024, 11, 5)
	assert.Equal(t, 7, GetPollWindow(election, election.AddDays(-7)))
	assert.Equal(t, 14, GetPollWindow(election, election.AddDays(-29)))
}

func TestPollsterDeduplicationWeights(t *testing.T) {
	campaign := basicCampaign()
	end := forecast.NewDate(2024, 10, 20)
	polls := []forecast.Poll{
		mkPoll("A", end.AddDays(-2), end, 50, 45),
		mkPoll("A", end.AddDays(-3), end.AddDays(-1), 49, 46),
		mkPoll("A", end.AddDays(-4), end.AddDays(-2), 48, 47),
		mkPoll("B", end.AddDays(-5), end.AddDays(-3), 51, 44),
		mkPoll("B", end.AddDays(-6), end.AddDays(-4), 52, 43),
	}
	res := Select(campaign, "", polls, end)
	require.NotEmpty(t, res.Polls)

	total := decimal.Zero
	for _, wp := range res.Polls {
		total = total.Add(wp.Weight)
	}
	assert.True(t, total.Sub(decimal.NewFromInt(1)).Abs().LessThan(decimal.NewFromFloat(1e-9)))
}

func TestTrackingPollKeepsLatest(t *testing.T) {
	campaign := basicCampaign()
	e1 := forecast.NewDate(2024, 10, 18)
	e2 := forecast.NewDate(2024, 10, 20)
	p1 := mkPoll("T", e1.AddDays(-3), e1, 50, 45)
	p1.IsTracking = true
	p2 := mkPoll("T", e1.AddDays(-3), e2, 51, 44)
	p2.IsTracking = true

	res := Select(campaign, "", []forecast.Poll{p1, p2}, e2)
	require.Len(t, res.Polls, 1)
	assert.True(t, res.Polls[0].Poll.EndDate.Equal(e2))
}

func TestNoSurvivingPollFallsBackToAssumedMargin(t *testing.T) {
	campaign := basicCampaign()
	campaign.AssumedMargins = map[string]forecast.AssumedMargin{
		"NC": {DemPct: decimal.NewFromFloat(48), GopPct: decimal.NewFromFloat(50)},
	}
	res := Select(campaign, "NC", nil, campaign.EndDate)
	require.Len(t, res.Polls, 1)
	assert.Equal(t, "assumed-margin", res.Polls[0].Poll.Pollster)
}
