package repository

import (
	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type GuardianRepository interface {
	GetApprovedLinks(childID string) ([]models.GuardianLink, error)
	IsApprovedGuardian(guardianID, childID string) (bool, error)
}

type guardianRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewGuardianRepository(db *sqlx.DB, logger *zap.Logger) GuardianRepository {
	return &guardianRepository{db: db, logger: logger}
}

func (r *guardianRepository) GetApprovedLinks(childID string) ([]models.GuardianLink, error) {
	var links []models.GuardianLink
	query := `SELECT id, guardian_id, child_id, status, permissions, notify_chat_id, created_at, approved_at
	          FROM guardian_child_links WHERE child_id = $1 AND status = 'approved'`
	err := r.db.Select(&links, query, childID)
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *guardianRepository) IsApprovedGuardian(guardianID, childID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM guardian_child_links WHERE guardian_id = $1 AND child_id = $2 AND status = 'approved'`
	err := r.db.Get(&count, query, guardianID, childID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
