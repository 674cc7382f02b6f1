// Package notifier dispatches escalation notices to guardians. The
// delivery mechanics (push, SMS, email) live behind this interface;
// the pipeline only decides who gets notified and with what.
package notifier

import (
	"context"

	"backend/internal/models"

	"go.uber.org/zap"
)

// Notifier delivers an escalation notice to guardian links. Best
// effort: implementations log failures, callers do not branch on them.
type Notifier interface {
	AlertEscalated(ctx context.Context, links []models.GuardianLink, alert *models.SafetyAlert)
}

// LogNotifier is the no-delivery fallback used when no transport is
// configured. It keeps the escalation observable in logs.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) AlertEscalated(_ context.Context, links []models.GuardianLink, alert *models.SafetyAlert) {
	for _, link := range links {
		n.logger.Info("Guardian would be notified (notifier disabled)",
			zap.String("guardian_id", link.GuardianID),
			zap.String("alert_id", alert.ID),
			zap.String("severity", string(alert.Severity)))
	}
}
