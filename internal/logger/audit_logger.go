// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides a dedicated audit trail for the pick lifecycle.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPickAdded logs a committed pick.
func (al *AuditLogger) LogPickAdded(pickID, player, propCategory string, line float64, pick string, odds int, stake float64, safetyScore int, placedAt time.Time) {
	al.WithFields(logrus.Fields{
		"pick_id":       pickID,
		"player":        player,
		"prop_category": propCategory,
		"line":          line,
		"pick":          pick,
		"odds":          odds,
		"stake":         stake,
		"safety_score":  safetyScore,
		"placed_at":     placedAt.Unix(),
	}).Info("Pick recorded")
}

// LogPickSettled logs a settlement event.
func (al *AuditLogger) LogPickSettled(pickID string, observedValue, line float64, result string, profit float64) {
	al.WithFields(logrus.Fields{
		"pick_id":        pickID,
		"observed_value": observedValue,
		"line":           line,
		"result":         result,
		"profit":         profit,
	}).Info("Pick settled")
}

// LogHistoryCleared logs the irreversible bulk-clear operation.
func (al *AuditLogger) LogHistoryCleared(recordsRemoved int, clearedBy string) {
	al.WithFields(logrus.Fields{
		"records_removed": recordsRemoved,
		"cleared_by":      clearedBy,
	}).Warn("Pick history cleared")
}

// LogParlayEvaluated logs a parlay assessment with its headline figures.
func (al *AuditLogger) LogParlayEvaluated(legCount, warningCount, independenceScore, riskScore int, naiveProb, adjustedProb float64) {
	al.WithFields(logrus.Fields{
		"leg_count":            legCount,
		"warning_count":        warningCount,
		"independence_score":   independenceScore,
		"risk_score":           riskScore,
		"naive_probability":    naiveProb,
		"adjusted_probability": adjustedProb,
	}).Info("Parlay evaluated")
}
