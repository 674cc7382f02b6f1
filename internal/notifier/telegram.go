package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"backend/internal/metrics"
	"backend/internal/models"
)

// TelegramNotifier pushes escalation notices to guardians over
// Telegram. Guardians opt in by registering a chat ID on their link
// row; links without one are skipped.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

// NewTelegramNotifier creates a notifier from a bot token.
func NewTelegramNotifier(token string, logger *zap.Logger) (*TelegramNotifier, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}

	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram notifier authorized", zap.String("username", botAPI.Self.UserName))

	return &TelegramNotifier{api: botAPI, logger: logger}, nil
}

// AlertEscalated sends one message per reachable guardian. Delivery
// failures are logged and counted; they never propagate.
func (n *TelegramNotifier) AlertEscalated(_ context.Context, links []models.GuardianLink, alert *models.SafetyAlert) {
	text := fmt.Sprintf("⚠️ %s\n\n%s\n\nSeverity: %s\nAlert ID: %s",
		alert.Title, alert.Description, alert.Severity, alert.ID)

	for _, link := range links {
		if link.NotifyChatID == nil {
			n.logger.Debug("Guardian has no notification channel",
				zap.String("guardian_id", link.GuardianID),
				zap.String("alert_id", alert.ID))
			continue
		}

		msg := tgbotapi.NewMessage(*link.NotifyChatID, text)
		if _, err := n.api.Send(msg); err != nil {
			n.logger.Error("Failed to notify guardian",
				zap.String("guardian_id", link.GuardianID),
				zap.String("alert_id", alert.ID),
				zap.Error(err))
			metrics.GuardianNotifications.WithLabelValues("error").Inc()
			continue
		}

		metrics.GuardianNotifications.WithLabelValues("ok").Inc()
	}
}
