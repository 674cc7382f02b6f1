package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// AlertStatus is the lifecycle state of a safety alert.
// active -> acknowledged -> resolved, with resolved terminal.
// escalated is an open state: it behaves like active but records that
// guardians were notified at creation time.
type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "active"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusResolved     AlertStatus = "resolved"
	AlertStatusEscalated    AlertStatus = "escalated"
)

// AlertMetadata is the structured payload captured at alert creation.
type AlertMetadata struct {
	Context        ModerationContext `json:"context"`
	Categories     []string          `json:"categories"`
	ActionRequired ActionRequired    `json:"actionRequired"`
	Timestamp      time.Time         `json:"timestamp"`
}

// SafetyAlert is a persisted alert in the 'safety_alerts' table.
// Owned by the subject user; guardians hold a read/acknowledge
// capability through an approved link, not ownership.
type SafetyAlert struct {
	ID              string         `db:"id" json:"id"`
	UserID          string         `db:"user_id" json:"user_id"`
	AlertType       string         `db:"alert_type" json:"alert_type"`
	Title           string         `db:"title" json:"title"`
	Description     string         `db:"description" json:"description"`
	Severity        Severity       `db:"severity" json:"severity"`
	Status          AlertStatus    `db:"status" json:"status"`
	DetectedContent *string        `db:"detected_content" json:"detected_content,omitempty"` // AES-GCM ciphertext at rest
	EscalatedTo     pq.StringArray `db:"escalated_to" json:"escalated_to,omitempty"`
	Metadata        types.JSONText `db:"metadata" json:"metadata,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	AcknowledgedAt  *time.Time     `db:"acknowledged_at" json:"acknowledged_at,omitempty"`
	ResolvedAt      *time.Time     `db:"resolved_at" json:"resolved_at,omitempty"`
}

// Open reports whether the alert is still open from the user's
// perspective (anything not resolved).
func (a *SafetyAlert) Open() bool {
	return a.Status != AlertStatusResolved
}

// AlertFilter selects which alerts a list call returns.
type AlertFilter string

const (
	FilterAll      AlertFilter = "all"
	FilterActive   AlertFilter = "active" // active + acknowledged + escalated
	FilterResolved AlertFilter = "resolved"
)
