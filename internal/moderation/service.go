package moderation

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"backend/internal/alerts"
	"backend/internal/crypto"
	"backend/internal/escalation"
	"backend/internal/llm"
	"backend/internal/metrics"
	"backend/internal/models"
	"backend/internal/notifier"
	"backend/internal/repository"
)

// Service is the moderation pipeline: classify text, translate the
// verdict into a persisted alert when action is required, resolve
// escalation targets, and fan the alert out.
type Service struct {
	completer llm.Completer
	alertRepo repository.AlertRepository
	resolver  *escalation.Resolver
	notifier  notifier.Notifier
	hub       *alerts.Hub
	cipher    *crypto.ContentCipher
	logger    *zap.Logger
}

func NewService(
	completer llm.Completer,
	alertRepo repository.AlertRepository,
	resolver *escalation.Resolver,
	notif notifier.Notifier,
	hub *alerts.Hub,
	cipher *crypto.ContentCipher,
	logger *zap.Logger,
) *Service {
	return &Service{
		completer: completer,
		alertRepo: alertRepo,
		resolver:  resolver,
		notifier:  notif,
		hub:       hub,
		cipher:    cipher,
		logger:    logger,
	}
}

// Classify runs the full moderation pipeline for one piece of text and
// always returns a usable verdict. No classifier error escapes: when
// the classification capability is unreachable the absence of a
// verdict degrades toward caution, never toward "safe".
func (s *Service) Classify(ctx context.Context, req models.ModerationRequest) models.ModerationVerdict {
	raw, err := s.completer.Complete(ctx, llm.CompletionRequest{
		System:      SystemInstruction,
		Prompt:      BuildAnalysisPrompt(req.Text, req.Context),
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		switch {
		case llm.IsRateLimited(err):
			metrics.ClassifierRequests.WithLabelValues(metrics.OutcomeRateLimited).Inc()
		case llm.IsQuotaExceeded(err):
			metrics.ClassifierRequests.WithLabelValues(metrics.OutcomeQuotaExceeded).Inc()
		default:
			metrics.ClassifierRequests.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		}
		s.logger.Error("Content classification unavailable",
			zap.String("subject_user_id", req.SubjectUserID),
			zap.Error(err))

		// There is no trustworthy classification to persist; the
		// fail-safe verdict goes straight back to the caller.
		return models.ModerationVerdict{
			IsSafe:         false,
			Severity:       models.SeverityMedium,
			Categories:     []string{"analysis_unavailable"},
			Explanation:    "Content moderation service temporarily unavailable",
			ActionRequired: models.ActionAlert,
		}
	}

	verdict := ParseVerdict(raw)
	if len(verdict.Categories) == 1 && verdict.Categories[0] == "parse_error" {
		metrics.ClassifierRequests.WithLabelValues(metrics.OutcomeParseError).Inc()
	} else {
		metrics.ClassifierRequests.WithLabelValues(metrics.OutcomeOK).Inc()
	}

	s.writeAlertIfNeeded(ctx, verdict, req)

	return verdict
}

// writeAlertIfNeeded persists a safety alert when the verdict demands
// action, then runs escalation and live delivery. Every stage after
// the classification is best-effort and independent: an alert can be
// written even if escalation lookup fails, and a failed write never
// blocks the moderation response.
func (s *Service) writeAlertIfNeeded(ctx context.Context, verdict models.ModerationVerdict, req models.ModerationRequest) *models.SafetyAlert {
	if verdict.ActionRequired == models.ActionNone {
		return nil
	}

	metadata, err := json.Marshal(models.AlertMetadata{
		Context:        req.Context,
		Categories:     verdict.Categories,
		ActionRequired: verdict.ActionRequired,
		Timestamp:      time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("Failed to marshal alert metadata", zap.Error(err))
		metadata = []byte(`{}`)
	}

	alert := &models.SafetyAlert{
		ID:          uuid.NewString(),
		UserID:      req.SubjectUserID,
		AlertType:   strings.Join(verdict.Categories, ", "),
		Title:       strings.ToUpper(string(verdict.Severity)) + " Safety Alert",
		Description: verdict.Explanation,
		Severity:    verdict.Severity,
		Status:      models.AlertStatusActive,
		Metadata:    types.JSONText(metadata),
	}

	if encrypted, err := s.cipher.EncryptContent(req.Text); err != nil {
		s.logger.Error("Failed to encrypt detected content, storing alert without it",
			zap.String("alert_id", alert.ID),
			zap.Error(err))
	} else {
		alert.DetectedContent = &encrypted
	}

	links := s.resolver.Targets(req.SubjectUserID)
	if len(links) > 0 {
		alert.EscalatedTo = pq.StringArray(escalation.GuardianIDs(links))
		alert.Status = models.AlertStatusEscalated
	}

	if err := s.alertRepo.CreateAlert(alert); err != nil {
		// The verdict still reaches the caller; the durability gap is
		// visible in logs and metrics only.
		s.logger.Error("Failed to create safety alert",
			zap.String("user_id", req.SubjectUserID),
			zap.String("severity", string(verdict.Severity)),
			zap.Error(err))
		metrics.AlertWrites.WithLabelValues("error").Inc()
		return nil
	}
	metrics.AlertWrites.WithLabelValues("ok").Inc()

	s.logger.Info("Safety alert created",
		zap.String("alert_id", alert.ID),
		zap.String("user_id", alert.UserID),
		zap.String("severity", string(alert.Severity)),
		zap.String("alert_type", alert.AlertType),
		zap.Int("escalated_to", len(alert.EscalatedTo)))

	s.publish(alert, req.Text)

	if len(links) > 0 {
		s.notifier.AlertEscalated(ctx, links, alert)
	}

	return alert
}

// publish pushes the alert to the owner's live feed with the detected
// content in the clear; the feed goes to the owner's authenticated
// session only.
func (s *Service) publish(alert *models.SafetyAlert, plaintext string) {
	published := *alert
	published.DetectedContent = &plaintext
	s.hub.Publish(&published)
}
