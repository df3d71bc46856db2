package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestAnalysisLoggerRunStarted(t *testing.T) {
	log, buf := setupTestLogger()
	analysisLog := NewAnalysisLogger(log)

	analysisLog.LogRunStarted(312, 8, 51, 34, 435)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "analysis", logEntry["component"])
	assert.Equal(t, float64(312), logEntry["total_days"])
	assert.Equal(t, float64(435), logEntry["house_races"])
}

func TestAnalysisLoggerDayCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	analysisLog := NewAnalysisLogger(log)

	analysisLog.LogDayCompleted("2024-11-04", 311, 312, 42.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "2024-11-04", logEntry["date"])
	assert.Equal(t, float64(311), logEntry["days_completed"])
}

func TestAnalysisLoggerChamberCanFlip(t *testing.T) {
	log, buf := setupTestLogger()
	analysisLog := NewAnalysisLogger(log)

	analysisLog.LogChamberCanFlip("senate", false, 0)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "senate", logEntry["chamber"])
	assert.Equal(t, false, logEntry["can_flip"])
	assert.Equal(t, "chamber control is not contestable", logEntry["msg"])
}

func TestAnalysisLoggerMetamarginDrift(t *testing.T) {
	log, buf := setupTestLogger()
	analysisLog := NewAnalysisLogger(log)

	analysisLog.LogMetamarginDrift("house", 3.2, -1.1)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	// -1.1 - 3.2 is -4.300000000000001 in float64, not the literal -4.3.
	assert.InDelta(t, -4.3, logEntry["metamargin_drift"], 1e-9)
}

func TestAnalysisLoggerMetamarginReversal(t *testing.T) {
	log, buf := setupTestLogger()
	analysisLog := NewAnalysisLogger(log)

	analysisLog.LogMetamarginReversal("house", 3.2, -1.1)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, logrus.WarnLevel.String(), logEntry["level"])
}

func TestPredictorLoggerPredictionRequest(t *testing.T) {
	log, buf := setupTestLogger()
	predictorLog := NewPredictorLogger(log)

	predictorLog.LogPredictionRequest("senate", "2024-09-01", 65)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "predictor", logEntry["component"])
	assert.Equal(t, float64(65), logEntry["days_left"])
}

func TestPredictorLoggerPriorsCollected(t *testing.T) {
	log, buf := setupTestLogger()
	predictorLog := NewPredictorLogger(log)

	predictorLog.LogPriorsCollected("house", "2024-09-01", 17)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(17), logEntry["prior_count"])
}

func TestPredictorLoggerPredictionComplete(t *testing.T) {
	log, buf := setupTestLogger()
	predictorLog := NewPredictorLogger(log)

	predictorLog.LogPredictionComplete("electoral_college", "2024-11-04", 2.7, 0.62)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, 2.7, logEntry["predicted_metamargin"])
	assert.Equal(t, 0.62, logEntry["dem_win_probability"])
}

func TestPredictorLoggerPredictionError(t *testing.T) {
	log, buf := setupTestLogger()
	predictorLog := NewPredictorLogger(log)

	predictorLog.LogPredictionError("house", "2024-09-01", "missing data for NC-09")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, logrus.ErrorLevel.String(), logEntry["level"])
	assert.Equal(t, "missing data for NC-09", logEntry["error_reason"])
}

func TestAuditLoggerSnapshotSaved(t *testing.T) {
	log, buf := setupTestLogger()
	auditLog := NewAuditLogger(log)

	auditLog.LogSnapshotSaved("2024-general", "2024-11-04", 8192)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, float64(8192), logEntry["payload_bytes"])
}

func TestAuditLoggerSnapshotBatchSaved(t *testing.T) {
	log, buf := setupTestLogger()
	auditLog := NewAuditLogger(log)

	auditLog.LogSnapshotBatchSaved("2024-general", 310, 2)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(310), logEntry["days_saved"])
	assert.Equal(t, float64(2), logEntry["days_failed"])
}

func TestAuditLoggerConfigOverride(t *testing.T) {
	log, buf := setupTestLogger()
	auditLog := NewAuditLogger(log)

	auditLog.LogConfigOverride("driver.num_workers", 8, 16)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "driver.num_workers", logEntry["parameter_name"])
	assert.Equal(t, float64(16), logEntry["new_value"])
}

func TestAuditLoggerHistoryReset(t *testing.T) {
	log, buf := setupTestLogger()
	auditLog := NewAuditLogger(log)

	auditLog.LogHistoryReset("2024-general", 312)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, logrus.WarnLevel.String(), logEntry["level"])
	assert.Equal(t, float64(312), logEntry["rows_deleted"])
}

func BenchmarkAnalysisLoggerDayCompleted(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	analysisLog := NewAnalysisLogger(log)

	for i := 0; i < b.N; i++ {
		analysisLog.LogDayCompleted("2024-11-04", 311, 312, 42.5)
	}
}
