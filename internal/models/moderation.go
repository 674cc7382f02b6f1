package models

// Severity is the ordinal risk level of a verdict or alert: low < medium < high < critical.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ValidSeverity reports whether s is one of the four known levels.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// ActionRequired is what the pipeline must do with a classified text.
type ActionRequired string

const (
	ActionNone     ActionRequired = "none"
	ActionAlert    ActionRequired = "alert"
	ActionBlock    ActionRequired = "block"
	ActionEscalate ActionRequired = "escalate"
)

// ValidAction reports whether a is a known action.
func ValidAction(a ActionRequired) bool {
	switch a {
	case ActionNone, ActionAlert, ActionBlock, ActionEscalate:
		return true
	}
	return false
}

// ModerationContext tells the classifier where the text came from.
type ModerationContext string

const (
	ContextLegal       ModerationContext = "legal"
	ContextCounseling  ModerationContext = "counseling"
	ContextEducational ModerationContext = "educational"
	ContextEmergency   ModerationContext = "emergency"
	ContextGeneral     ModerationContext = "general"
)

// ModerationRequest is a single moderation call. Not persisted.
type ModerationRequest struct {
	Text          string            `json:"text" binding:"required"`
	SubjectUserID string            `json:"-"`
	Context       ModerationContext `json:"context"`
}

// ModerationVerdict is the structured safety classification for a piece of text.
// It is never stored directly; it drives alert creation.
type ModerationVerdict struct {
	IsSafe         bool           `json:"isSafe"`
	Severity       Severity       `json:"severity"`
	Categories     []string       `json:"categories"`
	Explanation    string         `json:"explanation"`
	ActionRequired ActionRequired `json:"actionRequired"`
}
