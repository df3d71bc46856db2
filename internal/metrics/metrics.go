// Package metrics provides a centralized Prometheus metrics registry for
// the election forecasting engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	DaysAnalyzedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "electionforecast",
		Name:      "days_analyzed_total",
		Help:      "Total number of campaign days run through the daily analyzer",
	})
	DaysFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "electionforecast",
		Name:      "days_failed_total",
		Help:      "Total number of campaign days whose daily analysis returned an error",
	})
	PollsSelectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "electionforecast",
		Name:      "polls_selected_total",
		Help:      "Total number of polls selected by the poll selection window, by race kind",
	}, []string{"kind"})
	FeedFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "electionforecast",
		Name:      "feed_fetches_total",
		Help:      "Total number of feed fetch attempts, by source and outcome",
	}, []string{"source", "outcome"})
	CircuitBreakerTripsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "electionforecast",
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of feed client circuit breaker trips, by source",
	}, []string{"source"})
)

// Gauge metrics
var (
	WorkerPoolQueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "electionforecast",
		Name:      "worker_pool_queue_depth",
		Help:      "Number of daily-analysis jobs currently queued or in flight in the driver's worker pool",
	})
	ElectoralCollegeDemWinP = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "electionforecast",
		Name:      "electoral_college_dem_win_probability",
		Help:      "Most recent Bayesian Electoral College Democratic win probability",
	})
	SenateDemWinP = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "electionforecast",
		Name:      "senate_dem_win_probability",
		Help:      "Most recent Bayesian Senate Democratic win probability",
	})
	HouseDemWinP = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "electionforecast",
		Name:      "house_dem_win_probability",
		Help:      "Most recent Bayesian House Democratic win probability",
	})
)

// Histogram metrics
var (
	ConvolutionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "electionforecast",
		Name:      "convolution_duration_seconds",
		Help:      "Duration of race-seat-distribution convolution passes in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	DriverRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "electionforecast",
		Name:      "driver_run_duration_seconds",
		Help:      "Duration of a full Driver.Run pass (worker pool plus Bayesian walk) in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(DaysAnalyzedTotal)
		registry.MustRegister(DaysFailedTotal)
		registry.MustRegister(PollsSelectedTotal)
		registry.MustRegister(FeedFetchesTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		registry.MustRegister(WorkerPoolQueueDepth)
		registry.MustRegister(ElectoralCollegeDemWinP)
		registry.MustRegister(SenateDemWinP)
		registry.MustRegister(HouseDemWinP)

		registry.MustRegister(ConvolutionDuration)
		registry.MustRegister(DriverRunDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordDayAnalyzed records a successfully analyzed campaign day.
func RecordDayAnalyzed() {
	DaysAnalyzedTotal.Inc()
}

// RecordDayFailed records a campaign day whose daily analysis failed.
func RecordDayFailed() {
	DaysFailedTotal.Inc()
}

// RecordPollsSelected records how many polls a selection window picked for a race kind.
func RecordPollsSelected(kind string, count int) {
	PollsSelectedTotal.WithLabelValues(kind).Add(float64(count))
}

// RecordFeedFetch records a feed fetch attempt and its outcome ("ok" or "error").
func RecordFeedFetch(source, outcome string) {
	FeedFetchesTotal.WithLabelValues(source, outcome).Inc()
}

// RecordCircuitBreakerTrip records a feed client circuit breaker trip.
func RecordCircuitBreakerTrip(source string) {
	CircuitBreakerTripsTotal.WithLabelValues(source).Inc()
}

// SetWorkerPoolQueueDepth updates the worker pool queue depth gauge.
func SetWorkerPoolQueueDepth(depth int) {
	WorkerPoolQueueDepth.Set(float64(depth))
}

// RecordConvolutionDuration records a convolution pass duration.
func RecordConvolutionDuration(durationSeconds float64) {
	ConvolutionDuration.Observe(durationSeconds)
}

// RecordDriverRunDuration records a full Driver.Run duration.
func RecordDriverRunDuration(durationSeconds float64) {
	DriverRunDuration.Observe(durationSeconds)
}

// UpdateWinProbabilities updates the latest-value gauges for each chamber's
// win probability. A NaN or zero value for a chamber that had no prediction
// that day is left untouched by callers.
func UpdateWinProbabilities(electoralCollege, senate, house float64) {
	ElectoralCollegeDemWinP.Set(electoralCollege)
	SenateDemWinP.Set(senate)
	HouseDemWinP.Set(house)
}
