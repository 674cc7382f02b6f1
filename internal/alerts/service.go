package alerts

import (
	"errors"
	"time"

	"backend/internal/crypto"
	"backend/internal/models"
	"backend/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrAlertNotFound = errors.New("alert not found")
	ErrAlertResolved = errors.New("alert already resolved")
	ErrNotAuthorized = errors.New("not authorized for this alert")
)

// DefaultListLimit bounds the live list fetch.
const DefaultListLimit = 50

// Service manages the alert lifecycle: listing, acknowledge/resolve
// transitions, and the derived safety score. Creation happens in the
// moderation pipeline; this side owns everything after the insert.
type Service struct {
	repo      repository.AlertRepository
	guardians repository.GuardianRepository
	cipher    *crypto.ContentCipher
	logger    *zap.Logger
}

func NewService(repo repository.AlertRepository, guardians repository.GuardianRepository, cipher *crypto.ContentCipher, logger *zap.Logger) *Service {
	return &Service{repo: repo, guardians: guardians, cipher: cipher, logger: logger}
}

// List returns the viewer's own alerts, newest first, detected content
// decrypted for display.
func (s *Service) List(userID string, filter models.AlertFilter) ([]*models.SafetyAlert, error) {
	switch filter {
	case models.FilterAll, models.FilterActive, models.FilterResolved:
	case "":
		filter = models.FilterAll
	default:
		filter = models.FilterAll
	}

	alerts, err := s.repo.ListAlertsByUser(userID, filter, DefaultListLimit)
	if err != nil {
		return nil, err
	}

	for _, alert := range alerts {
		s.decryptContent(alert)
	}
	return alerts, nil
}

// Get returns one alert for its owner or an approved guardian of the
// owner. Guardians hold a read capability through the link, not
// ownership.
func (s *Service) Get(alertID, viewerID string) (*models.SafetyAlert, error) {
	alert, err := s.repo.GetAlertByID(alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, ErrAlertNotFound
	}

	if alert.UserID != viewerID {
		approved, err := s.guardians.IsApprovedGuardian(viewerID, alert.UserID)
		if err != nil {
			s.logger.Error("Guardian check failed", zap.String("alert_id", alertID), zap.Error(err))
			return nil, ErrNotAuthorized
		}
		if !approved {
			return nil, ErrNotAuthorized
		}
	}

	s.decryptContent(alert)
	return alert, nil
}

// Acknowledge marks an open alert acknowledged. Re-acknowledging is a
// safe no-op (the write repeats, the state doesn't change meaning);
// acknowledging a resolved alert fails, resolved is terminal.
func (s *Service) Acknowledge(alertID, viewerID string) error {
	alert, err := s.authorizeMutation(alertID, viewerID)
	if err != nil {
		return err
	}
	if alert.Status == models.AlertStatusResolved {
		return ErrAlertResolved
	}

	updated, err := s.repo.AcknowledgeAlert(alertID, time.Now().UTC())
	if err != nil {
		return err
	}
	if !updated {
		// Raced with a resolve between read and write.
		return ErrAlertResolved
	}
	return nil
}

// Resolve moves an alert to its terminal state. Resolving an already
// resolved alert is a no-op, not an error.
func (s *Service) Resolve(alertID, viewerID string) error {
	alert, err := s.authorizeMutation(alertID, viewerID)
	if err != nil {
		return err
	}
	if alert.Status == models.AlertStatusResolved {
		return nil
	}

	_, err = s.repo.ResolveAlert(alertID, time.Now().UTC())
	return err
}

// SafetyScore derives the user's current score from the trailing
// 7-day alert window. Recomputed on every call.
func (s *Service) SafetyScore(userID string) (int, error) {
	since := time.Now().UTC().Add(-scoreWindow)
	alerts, err := s.repo.ListAlertsSince(userID, since)
	if err != nil {
		return 0, err
	}
	return computeSafetyScore(alerts), nil
}

func (s *Service) authorizeMutation(alertID, viewerID string) (*models.SafetyAlert, error) {
	alert, err := s.repo.GetAlertByID(alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, ErrAlertNotFound
	}

	if alert.UserID != viewerID {
		approved, err := s.guardians.IsApprovedGuardian(viewerID, alert.UserID)
		if err != nil || !approved {
			return nil, ErrNotAuthorized
		}
	}
	return alert, nil
}

func (s *Service) decryptContent(alert *models.SafetyAlert) {
	if alert.DetectedContent == nil || *alert.DetectedContent == "" || s.cipher == nil {
		return
	}
	plaintext, err := s.cipher.DecryptContent(*alert.DetectedContent)
	if err != nil {
		s.logger.Warn("Failed to decrypt detected content, omitting",
			zap.String("alert_id", alert.ID),
			zap.Error(err))
		alert.DetectedContent = nil
		return
	}
	alert.DetectedContent = &plaintext
}
