// Package logger provides BayesPredictor logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PredictorLogger provides dedicated logging for BayesPredictor's backward
// walk over a campaign's history.
type PredictorLogger struct {
	*logrus.Entry
}

// NewPredictorLogger creates a new predictor logger.
func NewPredictorLogger(baseLogger *logrus.Logger) *PredictorLogger {
	return &PredictorLogger{
		Entry: baseLogger.WithField("component", "predictor"),
	}
}

// LogPredictionRequest logs BayesPredictor starting work on one chamber for
// one day.
func (pl *PredictorLogger) LogPredictionRequest(chamberName, date string, daysLeft int) {
	pl.WithFields(logrus.Fields{
		"chamber":   chamberName,
		"date":      date,
		"days_left": daysLeft,
	}).Debug("bayesian prediction requested")
}

// LogPriorsCollected logs how many prior days fed a chamber's posterior on
// a given day.
func (pl *PredictorLogger) LogPriorsCollected(chamberName, date string, priorCount int) {
	pl.WithFields(logrus.Fields{
		"chamber":     chamberName,
		"date":        date,
		"prior_count": priorCount,
	}).Debug("bayesian priors collected")
}

// LogPredictionComplete logs a completed posterior for one chamber/day.
func (pl *PredictorLogger) LogPredictionComplete(chamberName, date string, predictedMetamargin, demWinP float64) {
	pl.WithFields(logrus.Fields{
		"chamber":              chamberName,
		"date":                 date,
		"predicted_metamargin": predictedMetamargin,
		"dem_win_probability":  demWinP,
	}).Info("bayesian prediction completed")
}

// LogPredictionError logs a chamber/day for which BiasContext failed,
// leaving that day's Prediction unset.
func (pl *PredictorLogger) LogPredictionError(chamberName, date string, errorReason string) {
	pl.WithFields(logrus.Fields{
		"chamber":      chamberName,
		"date":         date,
		"error_reason": errorReason,
	}).Error("bayesian prediction failed")
}
