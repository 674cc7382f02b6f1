package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// LinkStatus is the approval state of a guardian/child link.
type LinkStatus string

const (
	LinkStatusPending  LinkStatus = "pending"
	LinkStatusApproved LinkStatus = "approved"
	LinkStatusRevoked  LinkStatus = "revoked"
)

// GuardianLink connects a guardian to a child account. The moderation
// pipeline only reads approved links to resolve escalation targets;
// link management belongs to the profile service.
type GuardianLink struct {
	ID           string         `db:"id" json:"id"`
	GuardianID   string         `db:"guardian_id" json:"guardian_id"`
	ChildID      string         `db:"child_id" json:"child_id"`
	Status       LinkStatus     `db:"status" json:"status"`
	Permissions  types.JSONText `db:"permissions" json:"permissions,omitempty"`
	NotifyChatID *int64         `db:"notify_chat_id" json:"-"` // Telegram chat for escalation notices
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	ApprovedAt   *time.Time     `db:"approved_at" json:"approved_at,omitempty"`
}
