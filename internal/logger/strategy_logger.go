// Package logger provides campaign-analysis logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AnalysisLogger provides dedicated logging for one campaign's full
// day-by-day Driver run.
type AnalysisLogger struct {
	*logrus.Entry
}

// NewAnalysisLogger creates a new analysis logger.
func NewAnalysisLogger(baseLogger *logrus.Logger) *AnalysisLogger {
	return &AnalysisLogger{
		Entry: baseLogger.WithField("component", "analysis"),
	}
}

// LogRunStarted logs the start of a campaign's full day-by-day run.
func (al *AnalysisLogger) LogRunStarted(totalDays, numWorkers, stateRaces, senateRaces, houseRaces int) {
	al.WithFields(logrus.Fields{
		"total_days":   totalDays,
		"num_workers":  numWorkers,
		"state_races":  stateRaces,
		"senate_races": senateRaces,
		"house_races":  houseRaces,
	}).Info("campaign analysis run started")
}

// LogDayCompleted logs one day's DailyAnalyzer task finishing successfully.
func (al *AnalysisLogger) LogDayCompleted(date string, daysCompleted, daysTotal int, durationMs float64) {
	al.WithFields(logrus.Fields{
		"date":           date,
		"days_completed": daysCompleted,
		"days_total":     daysTotal,
		"duration_ms":    durationMs,
	}).Info("daily analysis completed")
}

// LogChamberCanFlip logs whether the Senate's control is contestable as of
// the most recently analyzed day.
func (al *AnalysisLogger) LogChamberCanFlip(chamberName string, canFlip bool, metamargin float64) {
	fields := logrus.Fields{
		"chamber":    chamberName,
		"can_flip":   canFlip,
		"metamargin": metamargin,
	}
	if canFlip {
		al.WithFields(fields).Info("chamber control is contestable")
	} else {
		al.WithFields(fields).Info("chamber control is not contestable")
	}
}

// LogMetamarginDrift logs how far a chamber's metamargin moved between the
// first and last analyzed day of a run.
func (al *AnalysisLogger) LogMetamarginDrift(chamberName string, firstMetamargin, lastMetamargin float64) {
	al.WithFields(logrus.Fields{
		"chamber":           chamberName,
		"first_metamargin":  firstMetamargin,
		"last_metamargin":   lastMetamargin,
		"metamargin_drift":  lastMetamargin - firstMetamargin,
	}).Info("chamber metamargin drift over run")
}

// LogMetamarginReversal logs a chamber whose projected control flipped
// sign between the first and last analyzed day of a run.
func (al *AnalysisLogger) LogMetamarginReversal(chamberName string, firstMetamargin, lastMetamargin float64) {
	al.WithFields(logrus.Fields{
		"chamber":          chamberName,
		"first_metamargin": firstMetamargin,
		"last_metamargin":  lastMetamargin,
	}).Warn("chamber metamargin reversed sign over run")
}
