package repository

import (
	"database/sql"
	"time"

	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type AlertRepository interface {
	CreateAlert(alert *models.SafetyAlert) error
	GetAlertByID(id string) (*models.SafetyAlert, error)
	ListAlertsByUser(userID string, filter models.AlertFilter, limit int) ([]*models.SafetyAlert, error)
	ListAlertsSince(userID string, since time.Time) ([]*models.SafetyAlert, error)
	AcknowledgeAlert(id string, at time.Time) (bool, error)
	ResolveAlert(id string, at time.Time) (bool, error)
}

type alertRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAlertRepository(db *sqlx.DB, logger *zap.Logger) AlertRepository {
	return &alertRepository{db: db, logger: logger}
}

func (r *alertRepository) CreateAlert(alert *models.SafetyAlert) error {
	query := `INSERT INTO safety_alerts (id, user_id, alert_type, title, description, severity, status, detected_content, escalated_to, metadata)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING created_at`
	return r.db.QueryRowx(query,
		alert.ID, alert.UserID, alert.AlertType, alert.Title, alert.Description,
		alert.Severity, alert.Status, alert.DetectedContent,
		pq.Array([]string(alert.EscalatedTo)), alert.Metadata,
	).Scan(&alert.CreatedAt)
}

func (r *alertRepository) GetAlertByID(id string) (*models.SafetyAlert, error) {
	var alert models.SafetyAlert
	query := `SELECT id, user_id, alert_type, title, description, severity, status, detected_content, escalated_to, metadata, created_at, acknowledged_at, resolved_at
	          FROM safety_alerts WHERE id = $1`
	err := r.db.Get(&alert, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

// statusClause maps a list filter to its status predicate. "active"
// means open from the user's perspective: an acknowledged or escalated
// alert is still open.
func statusClause(filter models.AlertFilter) string {
	switch filter {
	case models.FilterActive:
		return ` AND status IN ('active', 'acknowledged', 'escalated')`
	case models.FilterResolved:
		return ` AND status = 'resolved'`
	}
	return ""
}

func (r *alertRepository) ListAlertsByUser(userID string, filter models.AlertFilter, limit int) ([]*models.SafetyAlert, error) {
	var alerts []*models.SafetyAlert

	query := `SELECT id, user_id, alert_type, title, description, severity, status, detected_content, escalated_to, metadata, created_at, acknowledged_at, resolved_at
	          FROM safety_alerts WHERE user_id = $1`

	query += statusClause(filter)
	query += ` ORDER BY created_at DESC LIMIT $2`

	err := r.db.Select(&alerts, query, userID, limit)
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepository) ListAlertsSince(userID string, since time.Time) ([]*models.SafetyAlert, error) {
	var alerts []*models.SafetyAlert
	query := `SELECT id, user_id, alert_type, title, description, severity, status, detected_content, escalated_to, metadata, created_at, acknowledged_at, resolved_at
	          FROM safety_alerts WHERE user_id = $1 AND created_at >= $2 ORDER BY created_at DESC`
	err := r.db.Select(&alerts, query, userID, since)
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

// AcknowledgeAlert marks an alert acknowledged unless it is already
// resolved. Returns whether a row was updated.
func (r *alertRepository) AcknowledgeAlert(id string, at time.Time) (bool, error) {
	query := `UPDATE safety_alerts SET status = 'acknowledged', acknowledged_at = $2 WHERE id = $1 AND status != 'resolved'`
	result, err := r.db.Exec(query, id, at)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// ResolveAlert marks an alert resolved. Resolved is terminal: a second
// resolve matches no row and reports false.
func (r *alertRepository) ResolveAlert(id string, at time.Time) (bool, error) {
	query := `UPDATE safety_alerts SET status = 'resolved', resolved_at = $2 WHERE id = $1 AND status != 'resolved'`
	result, err := r.db.Exec(query, id, at)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
