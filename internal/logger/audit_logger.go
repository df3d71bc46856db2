// Package logger provides audit logging for persistence and run-control
// events.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for history
// persistence and operator-triggered run changes.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogSnapshotSaved logs one day's ModelData being written to history.
func (al *AuditLogger) LogSnapshotSaved(campaignName, date string, payloadBytes int) {
	al.WithFields(logrus.Fields{
		"campaign_name": campaignName,
		"date":          date,
		"payload_bytes": payloadBytes,
	}).Info("forecast snapshot saved")
}

// LogSnapshotBatchSaved logs a full-history SaveAll call completing, with
// the count of days that failed to persist.
func (al *AuditLogger) LogSnapshotBatchSaved(campaignName string, daysSaved, daysFailed int) {
	al.WithFields(logrus.Fields{
		"campaign_name": campaignName,
		"days_saved":    daysSaved,
		"days_failed":   daysFailed,
	}).Info("forecast history batch saved")
}

// LogConfigOverride logs a config value being overridden by a CLI flag or
// environment variable at startup.
func (al *AuditLogger) LogConfigOverride(parameterName string, oldValue, newValue interface{}) {
	al.WithFields(logrus.Fields{
		"parameter_name": parameterName,
		"old_value":      oldValue,
		"new_value":      newValue,
	}).Info("configuration value overridden")
}

// LogHistoryReset logs a campaign's persisted history being deleted, e.g.
// by the --reset-history flag.
func (al *AuditLogger) LogHistoryReset(campaignName string, rowsDeleted int64) {
	al.WithFields(logrus.Fields{
		"campaign_name": campaignName,
		"rows_deleted":  rowsDeleted,
	}).Warn("forecast history reset")
}

// LogFatalRunAbort logs a run that cannot continue and is about to exit,
// e.g. every configured day failing analysis. It terminates the process
// after logging, matching the severity of the event it reports.
func (al *AuditLogger) LogFatalRunAbort(reason string, daysCompleted, daysTotal int) {
	al.WithFields(logrus.Fields{
		"reason":         reason,
		"days_completed": daysCompleted,
		"days_total":     daysTotal,
	}).Fatal("campaign analysis run aborted")
}
