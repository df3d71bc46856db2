// Package daily implements DailyAnalyzer (spec §4.7, component C7): runs
// National, GenericBallot, and every chamber for a single reference day,
// assembling one ModelData snapshot.
package daily

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/electionforecast/internal/cache"
	"github.com/yourusername/electionforecast/internal/chamber"
	"github.com/yourusername/electionforecast/internal/forecast"
	"github.com/yourusername/electionforecast/internal/raceagg"
)

// Analyzer runs one day's worth of analysis across every module.
type Analyzer struct {
	Chamber *chamber.Analyzer
}

// New returns an Analyzer with its own histogram cache, reused across
// every day and chamber it analyzes.
func New(histogramTTL time.Duration) *Analyzer {
	return &Analyzer{Chamber: &chamber.Analyzer{Histograms: cache.NewHistogramCache(histogramTTL)}}
}

// Bias carries a per-chamber uniform bias added to every race margin
// before aggregation; the zero value analyzes unbiased.
type Bias struct {
	National         float64
	GenericBallot    float64
	ElectoralCollege float64
	Senate           float64
	Governor         float64
	House            float64
}

// Run executes DailyAnalyzer for one day. backdateHouse controls whether
// the House chamber consults campaign.house_rating_history for day
// instead of the feed's current ratings (spec §4.4); the Driver passes
// its Config.BackdateHouse setting.
func (a *Analyzer) Run(campaign forecast.Campaign, feed forecast.Feed, day forecast.Date, bias Bias, backdateHouse bool) (forecast.ModelData, error) {
	national, err := analyzeNational(forecast.KindNational, feed.NationalPolls, day, bias.National)
	if err != nil {
		return forecast.ModelData{}, err
	}
	genericBallot, err := analyzeNational(forecast.KindGenericBallot, feed.GenericBallotPolls, day, bias.GenericBallot)
	if err != nil {
		return forecast.ModelData{}, err
	}

	uc := chamber.UndecidedContext{}
	if national != nil {
		uc.NationalUndecidedsPct = national.UndecidedsPct
		uc.HasNationalUndecideds = true
	}
	if genericBallot != nil {
		uc.GenericBallotUndecidedsPct = genericBallot.UndecidedsPct
		uc.HasGenericBallotUndecideds = true
	}

	ec, err := a.Chamber.AnalyzeElectoralCollege(campaign, feed, day, uc, bias.ElectoralCollege)
	if err != nil {
		return forecast.ModelData{}, err
	}
	senate, err := a.Chamber.AnalyzeSenate(campaign, feed, day, uc, bias.Senate, backdateHouse)
	if err != nil {
		return forecast.ModelData{}, err
	}
	governor, err := a.Chamber.AnalyzeGovernor(campaign, feed, day, uc, bias.Governor, backdateHouse)
	if err != nil {
		return forecast.ModelData{}, err
	}
	house, err := a.Chamber.AnalyzeHouse(campaign, feed, day, uc, bias.House, backdateHouse)
	if err != nil {
		return forecast.ModelData{}, err
	}

	md := forecast.ModelData{
		Date:             day,
		GeneratedAt:      time.Now().UTC().Unix(),
		National:         national,
		GenericBallot:    genericBallot,
		ElectoralCollege: ec,
		Senate:           senate,
		Governor:         governor,
		House:            house,
		DemEVMode:        ec.Mode,
		DemEVConfidence:  ec.Confidence,
		EVMeanDem:        ec.Mean,
		EVMeanGop:        float64(campaign.TotalElectoralVotes()) - ec.Mean,
	}
	return md, nil
}

// analyzeNational runs RaceAggregator directly for the National and
// GenericBallot pseudo-races, which have no chamber/convolution step
// (spec §4.1, §4.7 step 1). Returns nil when there are no polls (the
// race is simply absent that day).
func analyzeNational(kind forecast.Kind, polls []forecast.Poll, day forecast.Date, bias float64) (*forecast.RaceModel, error) {
	if len(polls) == 0 {
		return nil, nil
	}
	weighted := equalWeight(polls)
	in := raceagg.Input{RaceID: string(kind), Kind: kind, Bias: bias}
	rm, err := raceagg.Aggregate(in, weighted)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

// equalWeight assigns every national/generic-ballot poll equal weight;
// neither pseudo-race goes through PollSelector's pollster-balancing
// window (spec §4.1: national and generic-ballot feeds are pre-curated
// upstream, already deduplicated and recency-filtered).
func equalWeight(polls []forecast.Poll) []forecast.WeightedPoll {
	w := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(len(polls))))
	out := make([]forecast.WeightedPoll, len(polls))
	for i, p := range polls {
		out[i] = forecast.WeightedPoll{Poll: p, Weight: w}
	}
	return out
}
