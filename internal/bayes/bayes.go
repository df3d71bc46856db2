// Package bayes implements BayesPredictor (spec §4.8, component C8): a
// backward walk over a campaign's full day-by-day history that combines
// each day's own metamargin with a prior built from every day already
// processed (later, more recent days — this walk runs newest to oldest)
// to produce a calibrated win probability and confidence bands.
package bayes

import (
	"github.com/yourusername/electionforecast/internal/chamber"
	"github.com/yourusername/electionforecast/internal/forecast"
	"github.com/yourusername/electionforecast/internal/logger"
	"github.com/yourusername/electionforecast/internal/metamargin"
	"github.com/yourusername/electionforecast/internal/numeric"
	"github.com/yourusername/electionforecast/internal/raceagg"
)

// Predictor runs BayesPredictor over a campaign's history.
type Predictor struct {
	Chamber *chamber.Analyzer
	Logger  *logger.PredictorLogger
}

// logPrediction calls fn only when a PredictorLogger was configured,
// keeping every predictDay call site a single line regardless.
func (p *Predictor) logPrediction(fn func(*logger.PredictorLogger)) {
	if p.Logger != nil {
		fn(p.Logger)
	}
}

// PredictAll walks history from the most recent day to the earliest,
// setting each chamber's Prediction in place. It never mutates
// Date/GeneratedAt/RaceModels — only ChamberSummary.Prediction fields.
// backdateHouse is always true here: BayesPredictor always re-runs
// against past days, so the House chamber must consult
// campaign.house_rating_history rather than the feed's current ratings
// (spec §4.4, §4.8).
func (p *Predictor) PredictAll(campaign forecast.Campaign, feed forecast.Feed, history []forecast.ModelData) error {
	var priors []*forecast.ModelData
	for i := len(history) - 1; i >= 0; i-- {
		day := &history[i]
		if err := p.predictDay(campaign, feed, day, priors); err != nil {
			return err
		}
		priors = append(priors, day)
	}
	return nil
}

func (p *Predictor) predictDay(campaign forecast.Campaign, feed forecast.Feed, day *forecast.ModelData, priors []*forecast.ModelData) error {
	daysLeft := day.Date.DaysUntil(campaign.EndDate)
	todayUndecideds := dayUndecideds(day)
	uc := chamber.UndecidedContext{
		NationalUndecidedsPct: todayUndecideds,
		HasNationalUndecideds: day.National != nil,
	}
	if day.GenericBallot != nil {
		uc.GenericBallotUndecidedsPct = day.GenericBallot.UndecidedsPct
		uc.HasGenericBallotUndecideds = true
	}

	if campaign.IsPresidentialYear && day.ElectoralCollege.MetamarginOK {
		p.logPrediction(func(l *logger.PredictorLogger) { l.LogPredictionRequest("electoral_college", day.Date.String(), daysLeft) })
		biasFn, scoreOffset, scoreToWin, err := p.Chamber.BiasContext(forecast.KindElectoralCollege, campaign, feed, day.Date, uc, 0, true)
		if err != nil {
			p.logPrediction(func(l *logger.PredictorLogger) { l.LogPredictionError("electoral_college", day.Date.String(), err.Error()) })
			return err
		}
		priorMM, priorUndecideds := collectPriors(priors, func(d *forecast.ModelData) (float64, bool) {
			if !d.ElectoralCollege.MetamarginOK {
				return 0, false
			}
			return d.ElectoralCollege.Metamargin, true
		})
		p.logPrediction(func(l *logger.PredictorLogger) { l.LogPriorsCollected("electoral_college", day.Date.String(), len(priorMM)) })
		pred := runBayes(bayesInput{
			todayMM:         day.ElectoralCollege.Metamargin,
			todayUndecideds: todayUndecideds,
			priorMM:         avgOrSelf(priorMM, day.ElectoralCollege.Metamargin),
			priorUndecideds: avgOrSelf(priorUndecideds, todayUndecideds),
			swingTable:      kMaxNationalSwing,
			daysLeft:        daysLeft,
			biasFn:          biasFn,
			scoreToWin:      scoreToWin,
			scoreOffset:     scoreOffset,
			mmAdjust:        0,
		})
		pred.DemWinP = numeric.Clamp(pred.DemWinP, 0.01, 0.99)
		// Redesigned per the source's own flagged ambiguity: clamp the
		// presidential electoral college win probability symmetrically
		// rather than the source's unconditional [0.5, 0.95].
		pred.DemWinP = numeric.Clamp(pred.DemWinP, 0.05, 0.95)
		day.ElectoralCollege.Prediction = &pred
		p.logPrediction(func(l *logger.PredictorLogger) {
			l.LogPredictionComplete("electoral_college", day.Date.String(), pred.PredictedMetamargin, pred.DemWinP)
		})
	}

	ballotTable := kMaxBallotSwingMidterm
	if campaign.IsPresidentialYear {
		ballotTable = kMaxBallotSwingPresYear
	}

	if len(campaign.Senate.Races) > 0 && day.Senate.MetamarginOK {
		p.logPrediction(func(l *logger.PredictorLogger) { l.LogPredictionRequest("senate", day.Date.String(), daysLeft) })
		biasFn, scoreOffset, scoreToWin, err := p.Chamber.BiasContext(forecast.KindSenate, campaign, feed, day.Date, uc, 0, true)
		if err != nil {
			p.logPrediction(func(l *logger.PredictorLogger) { l.LogPredictionError("senate", day.Date.String(), err.Error()) })
			return err
		}
		priorMM, priorUndecideds := collectPriors(priors, func(d *forecast.ModelData) (float64, bool) {
			if !d.Senate.MetamarginOK {
				return 0, false
			}
			return d.Senate.Metamargin, true
		})
		p.logPrediction(func(l *logger.PredictorLogger) { l.LogPriorsCollected("senate", day.Date.String(), len(priorMM)) })
		in := bayesInput{
			todayMM:         day.Senate.Metamargin,
			todayUndecideds: todayUndecideds,
			priorMM:         avgOrSelf(priorMM, day.Senate.Metamargin),
			priorUndecideds: avgOrSelf(priorUndecideds, todayUndecideds),
			swingTable:      ballotTable,
			daysLeft:        daysLeft,
			biasFn:          biasFn,
			scoreToWin:      scoreToWin,
			scoreOffset:     scoreOffset,
			mmAdjust:        0,
		}
		pred, dist := runBayesWithDistribution(in)
		pred.DemWinP = numeric.Clamp(pred.DemWinP, 0.01, 0.99)

		if campaign.IsPresidentialYear {
			altDelta := campaign.Senate.DemSeatsForControl - day.Senate.ControlAltSeats
			pred.AltDemWinP = numeric.Clamp(winProbability(dist, day.Senate.Metamargin, biasFn, scoreToWin-altDelta), 0.01, 0.99)
			pred.HasAltWinP = true
		}
		day.Senate.Prediction = &pred
		p.logPrediction(func(l *logger.PredictorLogger) {
			l.LogPredictionComplete("senate", day.Date.String(), pred.PredictedMetamargin, pred.DemWinP)
		})
	}

	if day.House.MetamarginOK && day.House.CanFlip && day.GenericBallot != nil {
		p.logPrediction(func(l *logger.PredictorLogger) { l.LogPredictionRequest("house", day.Date.String(), daysLeft) })
		biasFn, scoreOffset, scoreToWin, err := p.Chamber.BiasContext(forecast.KindHouse, campaign, feed, day.Date, uc, 0, true)
		if err != nil {
			p.logPrediction(func(l *logger.PredictorLogger) { l.LogPredictionError("house", day.Date.String(), err.Error()) })
			return err
		}
		priorMM, priorUndecideds := collectPriors(priors, func(d *forecast.ModelData) (float64, bool) {
			if d.GenericBallot == nil {
				return 0, false
			}
			return genericBallotMargin(d), true
		})
		p.logPrediction(func(l *logger.PredictorLogger) { l.LogPriorsCollected("house", day.Date.String(), len(priorMM)) })
		anchorMM := genericBallotMargin(day)
		pred := runBayes(bayesInput{
			todayMM:         anchorMM,
			todayUndecideds: todayUndecideds,
			priorMM:         avgOrSelf(priorMM, anchorMM),
			priorUndecideds: avgOrSelf(priorUndecideds, todayUndecideds),
			swingTable:      ballotTable,
			daysLeft:        daysLeft,
			biasFn:          biasFn,
			scoreToWin:      scoreToWin,
			scoreOffset:     scoreOffset,
			mmAdjust:        day.House.Metamargin - anchorMM,
		})
		pred.DemWinP = numeric.Clamp(pred.DemWinP, 0.01, 0.99)
		day.House.Prediction = &pred
		p.logPrediction(func(l *logger.PredictorLogger) {
			l.LogPredictionComplete("house", day.Date.String(), pred.PredictedMetamargin, pred.DemWinP)
		})
	}

	return nil
}

// dayUndecideds picks the day's single representative undecideds figure
// (spec §4.7 steps 1-2): National's when the day has a National race,
// else the generic ballot's, else 0.
func dayUndecideds(day *forecast.ModelData) float64 {
	if day.National != nil {
		return day.National.UndecidedsPct
	}
	if day.GenericBallot != nil {
		return day.GenericBallot.UndecidedsPct
	}
	return 0
}

// genericBallotMargin returns the generic ballot RaceModel's signed
// margin as a float64, the House chamber's Bayesian anchor (spec §4.8,
// "House prior anchor quirk").
func genericBallotMargin(day *forecast.ModelData) float64 {
	if day.GenericBallot == nil {
		return 0
	}
	f, _ := day.GenericBallot.Margin.Float64()
	return f
}

func collectPriors(priors []*forecast.ModelData, extract func(*forecast.ModelData) (float64, bool)) (mms, undecideds []float64) {
	for _, d := range priors {
		if v, ok := extract(d); ok {
			mms = append(mms, v)
			undecideds = append(undecideds, dayUndecideds(d))
		}
	}
	return mms, undecideds
}

func avgOrSelf(vals []float64, self float64) float64 {
	if len(vals) == 0 {
		return self
	}
	return numeric.Mean(vals)
}

type bayesInput struct {
	todayMM         float64
	todayUndecideds float64
	priorMM         float64
	priorUndecideds float64
	swingTable      []float64
	daysLeft        int
	biasFn          metamargin.BiasFn
	scoreToWin      int
	scoreOffset     int
	mmAdjust        float64
}

type distribution struct {
	mmRange []float64
	cs      []float64
}

func runBayes(in bayesInput) forecast.Prediction {
	pred, _ := runBayesWithDistribution(in)
	return pred
}

// runBayesWithDistribution implements predict.cpp's Bayes(): builds the
// posterior metamargin distribution over a ±4σ domain, reports the
// weighted-average prediction, σ bands, and (if scoreToWin > 0) a
// win probability. The returned distribution lets callers (the
// presidential-year Senate alt-win-probability step) reuse the same
// posterior at a different score threshold without recomputing it.
func runBayesWithDistribution(in bayesInput) (forecast.Prediction, distribution) {
	swing := maxF(raceagg.UndecidedFactor(in.todayUndecideds), maxSwingByDay(in.swingTable, in.daysLeft))
	priorSwing := maxF(6.0, raceagg.UndecidedFactor(in.priorUndecideds))

	var mmRange []float64
	for mm := in.todayMM - 4*swing; mm <= in.todayMM+4*swing; mm += 0.02 {
		mmRange = append(mmRange, mm)
	}
	if len(mmRange) == 0 {
		mmRange = []float64{in.todayMM}
	}

	now := make([]float64, len(mmRange))
	nowSum := 0.0
	for i, mm := range mmRange {
		now[i] = numeric.TDistPDF((mm-in.todayMM)/swing, 3)
		nowSum += now[i]
	}
	prior := make([]float64, len(mmRange))
	priorSum := 0.0
	for i, mm := range mmRange {
		prior[i] = numeric.TDistPDF((mm-in.priorMM)/priorSwing, 1)
		priorSum += prior[i]
	}

	post := make([]float64, len(mmRange))
	postSum := 0.0
	for i := range mmRange {
		post[i] = (now[i] / nowSum) * (prior[i] / priorSum)
		postSum += post[i]
	}
	for i := range post {
		post[i] /= postSum
	}

	predictedMM := metamargin.Round1(weightedAverage(mmRange, post))
	cs := numeric.CumulativeSum(post)
	dist := distribution{mmRange: mmRange, cs: cs}

	pred := forecast.Prediction{PredictedMetamargin: predictedMM}

	if in.scoreToWin > 0 {
		pred.DemWinP = winProbability(dist, in.todayMM, in.biasFn, in.scoreToWin)
	}

	sigmaTargets := []float64{
		numeric.StandardNormalCDF(-2),
		numeric.StandardNormalCDF(-1),
		numeric.StandardNormalCDF(1),
		numeric.StandardNormalCDF(2),
	}
	points := make([]float64, 4)
	for i, target := range sigmaTargets {
		points[i] = mmAtCumulative(mmRange, cs, target)
	}

	pred.Metamargin2Sigma = forecast.ConfidenceBand{Low: metamargin.Round1(points[0]) + in.mmAdjust, High: metamargin.Round1(points[3]) + in.mmAdjust}
	pred.Metamargin1Sigma = forecast.ConfidenceBand{Low: metamargin.Round1(points[1]) + in.mmAdjust, High: metamargin.Round1(points[2]) + in.mmAdjust}

	if in.scoreToWin > 0 {
		scores := make([]int, 4)
		for i, mm := range points {
			scores[i] = in.biasFn(mm-in.todayMM) + in.scoreOffset
		}
		pred.Score2Sigma = forecast.ConfidenceBand{Low: float64(scores[0]), High: float64(scores[3])}
		pred.Score1Sigma = forecast.ConfidenceBand{Low: float64(scores[1]), High: float64(scores[2])}
		pred.AverageScore = float64(in.biasFn(predictedMM-in.todayMM) + in.scoreOffset)
	}

	return pred, dist
}

// winProbability walks mm_range (ignoring negative entries, per the
// source: the win threshold is always crossed at mm >= 0) looking for the
// first point whose bias_fn score clears scoreToWin, returning
// 1 - cs[index-1] (or 1.0 at index 0, or 0.0 if never reached).
func winProbability(dist distribution, todayMM float64, biasFn metamargin.BiasFn, scoreToWin int) float64 {
	for i, mm := range dist.mmRange {
		if mm < 0 {
			continue
		}
		if biasFn(mm-todayMM) >= scoreToWin {
			if i == 0 {
				return 1.0
			}
			return 1 - dist.cs[i-1]
		}
	}
	return 0.0
}

// mmAtCumulative returns the mm_range value at the first index whose
// cumulative sum reaches target, or the domain's last value if none do.
func mmAtCumulative(mmRange, cs []float64, target float64) float64 {
	for i, c := range cs {
		if c >= target {
			return mmRange[i]
		}
	}
	return mmRange[len(mmRange)-1]
}

func weightedAverage(xs, ws []float64) float64 {
	sum := 0.0
	for i, x := range xs {
		sum += x * ws[i]
	}
	return sum
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
