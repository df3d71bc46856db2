// Package driver implements Driver (spec §4.9, component C9): iterates
// every calendar day of a campaign, dispatches DailyAnalyzer across a
// fixed-size worker pool, then runs BayesPredictor serially over the
// completed history.
package driver

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/electionforecast/internal/bayes"
	"github.com/yourusername/electionforecast/internal/daily"
	"github.com/yourusername/electionforecast/internal/forecast"
	"github.com/yourusername/electionforecast/internal/logger"
	"github.com/yourusername/electionforecast/internal/metrics"
)

// DefaultWorkers is the worker pool size used when Config.NumWorkers is
// left at zero (spec §5: "fixed-size worker pool (default 8)").
const DefaultWorkers = 8

// Config carries the Driver's run-level settings.
type Config struct {
	NumWorkers    int
	HistogramTTL  time.Duration // zero disables histogram memoization
	BackdateHouse bool          // true re-runs every day against campaign.HouseRatingHistory
	AsOf          forecast.Date // zero value means run through campaign.EndDate unclamped
}

// ProgressFunc is invoked after each day's DailyAnalyzer run completes,
// from whichever worker goroutine finished it; implementations must be
// safe for concurrent calls.
type ProgressFunc func(done, total int)

// Driver owns the worker pool and Bayesian post-pass for one campaign
// run.
type Driver struct {
	Config Config
	Logger *logrus.Logger

	daily       *daily.Analyzer
	bayes       *bayes.Predictor
	analysisLog *logger.AnalysisLogger
}

// New builds a Driver, constructing its own DailyAnalyzer (with a shared
// histogram cache) and BayesPredictor (sharing the same ChamberAnalyzer,
// so the Bayesian re-run benefits from the same histogram memoization the
// live pass built).
func New(cfg Config, baseLogger *logrus.Logger) *Driver {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = DefaultWorkers
	}
	return newDriver(cfg, baseLogger)
}

// NewFromEnv builds a Driver the same way New does, but takes its worker
// count and as-of clamp from an explicit Env (spec §9 REDESIGN FLAGS:
// timezone/today acquisition pushed into an Env value instead of read from
// process globals) rather than requiring the caller to pre-populate Config.
func NewFromEnv(cfg Config, env forecast.Env, baseLogger *logrus.Logger) *Driver {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = env.NumThreads
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = DefaultWorkers
	}
	if cfg.AsOf.IsZero() {
		cfg.AsOf = env.Today
	}
	return newDriver(cfg, baseLogger)
}

func newDriver(cfg Config, baseLogger *logrus.Logger) *Driver {
	d := daily.New(cfg.HistogramTTL)
	drv := &Driver{
		Config: cfg,
		Logger: baseLogger,
		daily:  d,
		bayes:  &bayes.Predictor{Chamber: d.Chamber},
	}
	if baseLogger != nil {
		drv.analysisLog = logger.NewAnalysisLogger(baseLogger)
		drv.bayes.Logger = logger.NewPredictorLogger(baseLogger)
	}
	return drv
}

// Run executes a full campaign analysis: one ModelData per day from
// campaign.StartDate through campaign.EndDate (or through Config.AsOf
// when that is set and earlier), dispatched across the worker
// pool, followed by a single serial BayesPredictor pass over the
// completed history (spec §4.9, §5's ordering guarantees -- BayesPredictor
// never starts until every DailyAnalyzer task has returned).
func (d *Driver) Run(campaign forecast.Campaign, feed forecast.Feed, onProgress ProgressFunc) ([]forecast.ModelData, error) {
	start := time.Now()
	defer func() { metrics.RecordDriverRunDuration(time.Since(start).Seconds()) }()

	end := campaign.EndDate
	if !d.Config.AsOf.IsZero() {
		end = forecast.MinDate(end, d.Config.AsOf)
	}
	days := enumerateDays(campaign.StartDate, end)
	history := make([]forecast.ModelData, len(days))

	if d.analysisLog != nil {
		d.analysisLog.LogRunStarted(len(days), d.Config.NumWorkers, len(campaign.StateList), len(campaign.Senate.Races), len(campaign.House.Races))
	}

	// A failed day is logged and its slot left zero-valued; it does not
	// abort the other workers (spec §5: "a day's analysis never throws
	// across the worker pool boundary; partial results are still
	// written"). The first error is still surfaced to the caller, which
	// decides whether a failed day is fatal for the whole run.
	dailyErr := d.runDailyPool(campaign, feed, days, history, onProgress)

	if d.Logger != nil {
		d.Logger.WithField("days", len(days)).Info("daily analysis complete, starting Bayesian history walk")
	}
	if err := d.bayes.PredictAll(campaign, feed, history); err != nil {
		return history, err
	}

	recordLatestWinProbabilities(history)

	if d.analysisLog != nil {
		d.logChamberDrift(history)
	}

	return history, dailyErr
}

// logChamberDrift logs how far each chamber's metamargin moved between
// the first and last analyzed day with a usable metamargin, and whether
// the Senate's projected control is still contestable as of the most
// recent day.
func (d *Driver) logChamberDrift(history []forecast.ModelData) {
	chambers := []struct {
		name string
		get  func(forecast.ModelData) forecast.ChamberSummary
	}{
		{"electoral_college", func(md forecast.ModelData) forecast.ChamberSummary { return md.ElectoralCollege }},
		{"senate", func(md forecast.ModelData) forecast.ChamberSummary { return md.Senate }},
		{"house", func(md forecast.ModelData) forecast.ChamberSummary { return md.House }},
	}
	for _, c := range chambers {
		var first, last float64
		haveFirst, haveLast := false, false
		for _, md := range history {
			cs := c.get(md)
			if !cs.MetamarginOK {
				continue
			}
			if !haveFirst {
				first = cs.Metamargin
				haveFirst = true
			}
			last = cs.Metamargin
			haveLast = true
		}
		if !haveFirst || !haveLast {
			continue
		}
		d.analysisLog.LogMetamarginDrift(c.name, first, last)
		if (first < 0) != (last < 0) {
			d.analysisLog.LogMetamarginReversal(c.name, first, last)
		}
	}
	if len(history) > 0 {
		last := history[len(history)-1].Senate
		if last.MetamarginOK || !last.CanFlip {
			d.analysisLog.LogChamberCanFlip("senate", last.CanFlip, last.Metamargin)
		}
	}
}

// recordLatestWinProbabilities updates the Democratic win-probability
// gauges from the most recently analyzed day with a Bayesian prediction,
// walking backward so a failed final day doesn't zero the gauges out.
func recordLatestWinProbabilities(history []forecast.ModelData) {
	for i := len(history) - 1; i >= 0; i-- {
		ec, senate, house := history[i].ElectoralCollege.Prediction, history[i].Senate.Prediction, history[i].House.Prediction
		if ec == nil && senate == nil && house == nil {
			continue
		}
		var ecP, senP, houseP float64
		if ec != nil {
			ecP = ec.DemWinP
		}
		if senate != nil {
			senP = senate.DemWinP
		}
		if house != nil {
			houseP = house.DemWinP
		}
		metrics.UpdateWinProbabilities(ecP, senP, houseP)
		return
	}
}

// runDailyPool dispatches one DailyAnalyzer task per day across a
// fixed-size pool. Each worker writes only into its own pre-allocated
// history slot (spec §5: "each worker writes only into its own
// pre-allocated slot, the main thread walks the slots after barrier" --
// the rewrite's replacement for the source's completion-queue pool), so
// there is no shared mutable state to guard beyond the error/progress
// bookkeeping below.
func (d *Driver) runDailyPool(campaign forecast.Campaign, feed forecast.Feed, days []forecast.Date, history []forecast.ModelData, onProgress ProgressFunc) error {
	sem := make(chan struct{}, d.Config.NumWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	var completed int
	var inFlight int64

	for i, day := range days {
		i, day := i, day
		wg.Add(1)
		sem <- struct{}{}
		metrics.SetWorkerPoolQueueDepth(int(atomic.AddInt64(&inFlight, 1)))
		go func() {
			defer wg.Done()
			defer func() {
				<-sem
				metrics.SetWorkerPoolQueueDepth(int(atomic.AddInt64(&inFlight, -1)))
			}()

			dayStart := time.Now()
			md, err := d.daily.Run(campaign, feed, day, daily.Bias{}, d.Config.BackdateHouse)
			dayDuration := time.Since(dayStart)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				metrics.RecordDayFailed()
				if firstErr == nil {
					firstErr = err
				}
				if d.Logger != nil {
					d.Logger.WithError(err).WithField("date", day.String()).Error("daily analysis failed")
				}
				return
			}
			metrics.RecordDayAnalyzed()
			history[i] = md
			completed++
			if d.analysisLog != nil {
				d.analysisLog.LogDayCompleted(day.String(), completed, len(days), float64(dayDuration.Milliseconds()))
			}
			if onProgress != nil {
				onProgress(completed, len(days))
			}
		}()
	}
	wg.Wait()

	return firstErr
}

func enumerateDays(start, end forecast.Date) []forecast.Date {
	var days []forecast.Date
	for d := start; !d.After(end); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}
