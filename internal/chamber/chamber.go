// Package chamber implements ChamberAnalyzer (spec §4.5, component C5):
// orchestrates PollSelector and RaceAggregator across every race in a
// chamber (presidential states, Senate, Governor, House), then produces
// a seat/EV distribution via Convolver and reports safe-seat accounting.
package chamber

import (
	"github.com/yourusername/electionforecast/internal/cache"
	"github.com/yourusername/electionforecast/internal/convolve"
	"github.com/yourusername/electionforecast/internal/forecast"
	"github.com/yourusername/electionforecast/internal/metamargin"
	"github.com/yourusername/electionforecast/internal/metrics"
	"github.com/yourusername/electionforecast/internal/pollselect"
	"github.com/yourusername/electionforecast/internal/raceagg"
)

// UndecidedContext carries the day's national/generic-ballot undecideds,
// used by RaceAggregator's undecided-source waterfall (spec §4.4).
type UndecidedContext struct {
	NationalUndecidedsPct      float64
	HasNationalUndecideds      bool
	GenericBallotUndecidedsPct float64
	HasGenericBallotUndecideds bool
}

// Analyzer runs ChamberAnalyzer for a single day, reusing a histogram
// cache across chambers and days.
type Analyzer struct {
	Histograms *cache.HistogramCache
}

// raceDecision is the per-race intermediate result before it is either
// folded into safe-seat accounting or handed to the Convolver.
type raceDecision struct {
	race     forecast.Race
	model    forecast.RaceModel
	rating   string
	hasPolls bool
}

func resolveRating(campaign forecast.Campaign, feed forecast.Feed, race forecast.Race, day forecast.Date, backdate bool) string {
	if backdate {
		if entry := campaign.HouseRatingsAsOf(day); entry != nil {
			if r, ok := entry.Ratings[race.RaceID]; ok {
				return r
			}
		}
	}
	if r, ok := feed.HouseRatings[race.RaceID]; ok {
		return r.Value
	}
	if race.Rating != nil {
		return *race.Rating
	}
	return ""
}

func selectAndAggregate(campaign forecast.Campaign, race forecast.Race, polls []forecast.Poll, day forecast.Date, rating string, uc UndecidedContext, bias float64, record bool) (forecast.RaceModel, bool, error) {
	region := race.Region
	selected := pollselect.Select(campaign, region, polls, day)
	if record {
		metrics.RecordPollsSelected(string(race.Kind), len(selected.Polls))
	}
	hasPolls := len(polls) > 0

	in := raceagg.Input{
		RaceID:                     race.RaceID,
		Kind:                       race.Kind,
		Bias:                       bias,
		NationalUndecidedsPct:      uc.NationalUndecidedsPct,
		HasNationalUndecideds:      uc.HasNationalUndecideds,
		GenericBallotUndecidedsPct: uc.GenericBallotUndecidedsPct,
		HasGenericBallotUndecideds: uc.HasGenericBallotUndecideds,
		CampaignDefaultUndecideds:  toFloat(campaign.UndecidedDefault),
		ChamberRating:              rating,
		PresumedWinner:             race.PresumedWinner,
		IncumbentParty:             race.IncumbentParty,
	}
	rm, err := raceagg.Aggregate(in, selected.Polls)
	if err != nil {
		return forecast.RaceModel{}, hasPolls, err
	}
	rm.Rating = rating
	return rm, hasPolls, nil
}

func toFloat(d interface{ Float64() (float64, bool) }) float64 {
	f, _ := d.Float64()
	return f
}

// AnalyzeElectoralCollege runs the presidential state roster: every
// state is enumerated (no safe-seat carve-out), convolved by electoral
// weight, with a metamargin against tiebreaker_majority(total_ev)-1
// (spec §4.7 step 3).
func (a *Analyzer) AnalyzeElectoralCollege(campaign forecast.Campaign, feed forecast.Feed, day forecast.Date, uc UndecidedContext, bias float64) (forecast.ChamberSummary, error) {
	var models []forecast.RaceModel
	var inputs []convolve.RaceInput
	for _, race := range campaign.StateList {
		polls := feed.StatePolls[race.Region]
		rm, _, err := selectAndAggregate(campaign, race, polls, day, "", uc, bias, true)
		if err != nil {
			return forecast.ChamberSummary{}, err
		}
		models = append(models, rm)
		inputs = append(inputs, convolve.RaceInput{Seats: race.Seats(), WinProb: rm.WinProb})
	}

	conv := convolve.BuildCached(inputs, a.Histograms)
	total := campaign.TotalElectoralVotes()
	midpoint := metamargin.TiebreakerMajority(total) - 1

	summary := forecast.ChamberSummary{
		RaceModels:   models,
		Median:       conv.Median(),
		Mode:         conv.Mode(),
		Mean:         conv.MeanFloat(),
		Confidence:   toForecastBand(conv.Confidence(0)),
		CanFlip:      true,
		MetamarginOK: true,
	}

	biasFn := electoralCollegeBiasFn(campaign, feed, day, uc, bias)
	mm, err := metamargin.Solve(biasFn, midpoint, conv.Mean(), total)
	if err != nil {
		return forecast.ChamberSummary{}, err
	}
	summary.Metamargin = mm
	return summary, nil
}

func electoralCollegeBiasFn(campaign forecast.Campaign, feed forecast.Feed, day forecast.Date, uc UndecidedContext, baseBias float64) metamargin.BiasFn {
	return func(searchBias float64) int {
		var in []convolve.RaceInput
		for _, race := range campaign.StateList {
			rm, _, err := selectAndAggregate(campaign, race, feed.StatePolls[race.Region], day, "", uc, baseBias+searchBias, false)
			if err != nil {
				// A race that is fatal-missing-data should already have
				// failed on the bias=0 pass above; treat as a certain GOP
				// loss to keep the solver's scan monotone.
				in = append(in, convolve.RaceInput{Seats: race.Seats(), WinProb: 0})
				continue
			}
			in = append(in, convolve.RaceInput{Seats: race.Seats(), WinProb: rm.WinProb})
		}
		return convolve.Build(in).Mean()
	}
}

func pollsForRace(feed forecast.Feed, race forecast.Race) []forecast.Poll {
	switch race.Kind {
	case forecast.KindElectoralCollege:
		return feed.StatePolls[race.Region]
	case forecast.KindSenate:
		return feed.SenatePolls[race.RaceID]
	case forecast.KindGovernor:
		return feed.GovernorPolls[race.RaceID]
	case forecast.KindHouse:
		return feed.HousePolls[race.RaceID]
	default:
		return nil
	}
}

func toForecastBand(b convolve.ConfidenceBand) forecast.ConfidenceBand {
	return forecast.ConfidenceBand{Low: float64(b.Low), High: float64(b.High)}
}

// AnalyzeSenate runs the Senate roster with safe-seat accounting and the
// can-flip gate (spec §4.5 Senate-specific rules).
func (a *Analyzer) AnalyzeSenate(campaign forecast.Campaign, feed forecast.Feed, day forecast.Date, uc UndecidedContext, bias float64, backdateHouse bool) (forecast.ChamberSummary, error) {
	return a.analyzeGenericChamber(campaign, feed, day, uc, bias, campaign.Senate, forecast.KindSenate, backdateHouse)
}

// AnalyzeGovernor runs the Governor roster. No metamargin is computed —
// there is no single "control" threshold in the data model (spec §4.5).
func (a *Analyzer) AnalyzeGovernor(campaign forecast.Campaign, feed forecast.Feed, day forecast.Date, uc UndecidedContext, bias float64, backdateHouse bool) (forecast.ChamberSummary, error) {
	summary, err := a.analyzeGenericChamber(campaign, feed, day, uc, bias, campaign.Governor, forecast.KindGovernor, backdateHouse)
	if err != nil {
		return forecast.ChamberSummary{}, err
	}
	summary.MetamarginOK = false
	summary.Metamargin = 0
	return summary, nil
}

// AnalyzeHouse runs the House roster with the backdated-rating lookup
// and implicit safe-seat accounting (spec §4.4, §4.5).
func (a *Analyzer) AnalyzeHouse(campaign forecast.Campaign, feed forecast.Feed, day forecast.Date, uc UndecidedContext, bias float64, backdateHouse bool) (forecast.ChamberSummary, error) {
	return a.analyzeGenericChamber(campaign, feed, day, uc, bias, campaign.House, forecast.KindHouse, backdateHouse)
}

func (a *Analyzer) analyzeGenericChamber(campaign forecast.Campaign, feed forecast.Feed, day forecast.Date, uc UndecidedContext, bias float64, def forecast.ChamberDefinition, kind forecast.Kind, backdateHouse bool) (forecast.ChamberSummary, error) {
	decisions, err := chamberDecisions(campaign, feed, day, uc, bias, def, kind, backdateHouse)
	if err != nil {
		return forecast.ChamberSummary{}, err
	}

	safeDem, safeGop, convolvable, softFolded := classifySafeSeats(decisions, def, kind)

	var models []forecast.RaceModel
	var inputs []convolve.RaceInput
	for _, d := range convolvable {
		models = append(models, d.model)
		inputs = append(inputs, convolve.RaceInput{Seats: 1, WinProb: d.model.WinProb})
	}
	for _, d := range decisions {
		if !isConvolved(d, convolvable) {
			models = append(models, d.model)
		}
	}

	conv := convolve.BuildCached(inputs, a.Histograms)

	summary := forecast.ChamberSummary{
		RaceModels:   models,
		Median:       conv.Median() + safeDem,
		Mode:         conv.Mode() + safeDem,
		Mean:         conv.MeanFloat() + float64(safeDem),
		Confidence:   toForecastBand(conv.Confidence(safeDem)),
		SafeDemSeats: safeDem,
		SafeGopSeats: safeGop,
		CanFlip:      true,
		MetamarginOK: true,
	}

	if kind == forecast.KindSenate {
		canFlip := safeDem < def.DemSeatsForControl && safeGop < (def.TotalSeats-def.DemSeatsForControl+1)
		summary.CanFlip = canFlip
		summary.ControlAltSeats = def.DemSeatsForControl ^ 1
		if !canFlip {
			summary.MetamarginOK = false
			return summary, nil
		}
	}

	midpoint := seatsForControl(def, kind) - 1 - safeDem
	startScore := conv.Mean()
	maxScore := len(inputs)

	biasFn := convolvableBiasFn(campaign, feed, day, uc, bias, convolvable, softFolded)
	mm, err := metamargin.Solve(biasFn, midpoint, startScore, maxScore)
	if err != nil {
		return forecast.ChamberSummary{}, err
	}
	summary.Metamargin = mm
	return summary, nil
}

// convolvableBiasFn builds the bias search's BiasFn (spec §4.6): at each
// candidate bias it re-runs PollSelector/RaceAggregator for every
// convolvable race, plus every softFolded race (a no-poll "likely" seat
// that classifySafeSeats counted toward the safe total but did not rate
// as certain). Rating-derived fallback win-probs move under bias the
// same way a polled race's margin does (analysis.cpp's
// HouseAnalysis::GetBiasFn backs a no-poll race's win_prob out to a
// margin via inverse-CDF before shifting it), so a string of lean/likely
// no-poll seats can still flip under a large enough uniform swing
// instead of sitting locked into the safe count.
func convolvableBiasFn(campaign forecast.Campaign, feed forecast.Feed, day forecast.Date, uc UndecidedContext, baseBias float64, convolvable, softFolded []raceDecision) metamargin.BiasFn {
	return func(searchBias float64) int {
		var in []convolve.RaceInput
		for _, d := range convolvable {
			rm, _, err := selectAndAggregate(campaign, d.race, pollsForRace(feed, d.race), day, d.rating, uc, baseBias+searchBias, false)
			if err != nil {
				in = append(in, convolve.RaceInput{Seats: 1, WinProb: 0})
				continue
			}
			in = append(in, convolve.RaceInput{Seats: 1, WinProb: rm.WinProb})
		}
		for _, d := range softFolded {
			rm, _, err := selectAndAggregate(campaign, d.race, pollsForRace(feed, d.race), day, d.rating, uc, baseBias+searchBias, false)
			if err != nil {
				in = append(in, convolve.RaceInput{Seats: 1, WinProb: 0})
				continue
			}
			in = append(in, convolve.RaceInput{Seats: 1, WinProb: rm.WinProb})
		}
		return convolve.Build(in).Mean()
	}
}

// chamberDecisions runs every race in def through PollSelector and
// RaceAggregator without convolving, for callers (BayesPredictor) that
// need the safe-seat split and a reusable BiasFn but not a full
// ChamberSummary.
func chamberDecisions(campaign forecast.Campaign, feed forecast.Feed, day forecast.Date, uc UndecidedContext, bias float64, def forecast.ChamberDefinition, kind forecast.Kind, backdateHouse bool) ([]raceDecision, error) {
	var decisions []raceDecision
	for _, race := range def.Races {
		polls := pollsForRace(feed, race)
		rating := resolveRating(campaign, feed, race, day, kind == forecast.KindHouse && backdateHouse)
		rm, hasPolls, err := selectAndAggregate(campaign, race, polls, day, rating, uc, bias, true)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, raceDecision{race: race, model: rm, rating: rating, hasPolls: hasPolls})
	}
	return decisions, nil
}

// BiasContext returns the pieces BayesPredictor needs to re-run a
// chamber's win-probability convolution at an arbitrary additional bias
// (spec §4.8's bias_fn), without repeating ChamberAnalyzer's safe-seat
// classification: the BiasFn itself, score_offset (seats already locked
// in, i.e. SafeDemSeats), and score_to_win (the convolved-scale threshold
// for control).
func (a *Analyzer) BiasContext(kind forecast.Kind, campaign forecast.Campaign, feed forecast.Feed, day forecast.Date, uc UndecidedContext, bias float64, backdateHouse bool) (biasFn metamargin.BiasFn, scoreOffset, scoreToWin int, err error) {
	if kind == forecast.KindElectoralCollege {
		total := campaign.TotalElectoralVotes()
		return electoralCollegeBiasFn(campaign, feed, day, uc, bias), 0, metamargin.TiebreakerMajority(total), nil
	}

	var def forecast.ChamberDefinition
	switch kind {
	case forecast.KindSenate:
		def = campaign.Senate
	case forecast.KindGovernor:
		def = campaign.Governor
	case forecast.KindHouse:
		def = campaign.House
	}

	decisions, err := chamberDecisions(campaign, feed, day, uc, bias, def, kind, backdateHouse)
	if err != nil {
		return nil, 0, 0, err
	}
	safeDem, _, convolvable, softFolded := classifySafeSeats(decisions, def, kind)
	return convolvableBiasFn(campaign, feed, day, uc, bias, convolvable, softFolded), safeDem, seatsForControl(def, kind) - safeDem, nil
}

// seatsForControl returns the number of Dem seats needed for control of
// def: the Senate's VP-tiebreaker-aware DemSeatsForControl (the original
// `senate_map().dem_seats_for_control()`, which can be 50, not the
// chamber-wide majority threshold), or the plain n/2+1 majority for
// every other chamber (House, Governor).
func seatsForControl(def forecast.ChamberDefinition, kind forecast.Kind) int {
	if kind == forecast.KindSenate {
		return def.DemSeatsForControl
	}
	return metamargin.TiebreakerMajority(def.TotalSeats)
}

func isConvolved(d raceDecision, convolvable []raceDecision) bool {
	for _, c := range convolvable {
		if c.race.RaceID == d.race.RaceID {
			return true
		}
	}
	return false
}

// classifySafeSeats implements spec §4.5: "safe" races with no polls go
// straight to safe seats and are never revisited; for the House,
// "likely" races with no polls are omitted from the main convolution but
// counted toward the running total, and returned separately as
// softFolded so the bias search can still re-derive their win-prob under
// a uniform swing instead of treating them as permanently locked in.
// Returns the seats to add to each party's safe count, the decisions
// that remain to be convolved, and the softFolded decisions.
func classifySafeSeats(decisions []raceDecision, def forecast.ChamberDefinition, kind forecast.Kind) (safeDem, safeGop int, convolvable, softFolded []raceDecision) {
	notUpDem := def.DemSeatsHeld - def.SeatsUpDem
	notUpGop := def.GopSeatsHeld - def.SeatsUpGop
	if notUpDem < 0 {
		notUpDem = 0
	}
	if notUpGop < 0 {
		notUpGop = 0
	}
	safeDem, safeGop = notUpDem, notUpGop

	flipsToDem, flipsToGop := 0, 0

	for _, d := range decisions {
		winsD := d.model.WinProb >= 0.5
		isSafeNoPolls := d.rating == "safe" && !d.hasPolls
		isLikelyNoPolls := kind == forecast.KindHouse && d.rating == "likely" && !d.hasPolls

		if isSafeNoPolls || isLikelyNoPolls {
			if winsD {
				safeDem++
			} else {
				safeGop++
			}
			if d.race.IncumbentParty != nil {
				if *d.race.IncumbentParty == forecast.Gop && winsD {
					flipsToDem++
				}
				if *d.race.IncumbentParty == forecast.Dem && !winsD {
					flipsToGop++
				}
			}
			if isLikelyNoPolls {
				softFolded = append(softFolded, d)
			}
			continue
		}
		convolvable = append(convolvable, d)
	}

	if kind == forecast.KindHouse && !def.CensusYear {
		safeDem = (def.DemSeatsHeld - def.UnsafeDemHeld) + flipsToDem
		safeGop = (def.GopSeatsHeld - def.UnsafeGopHeld) + flipsToGop
	}

	return safeDem, safeGop, convolvable, softFolded
}
