package models

// StrategyIcon names the client-side icon for a coping strategy.
type StrategyIcon string

const (
	IconHeart     StrategyIcon = "heart"
	IconBrain     StrategyIcon = "brain"
	IconLightbulb StrategyIcon = "lightbulb"
	IconActivity  StrategyIcon = "activity"
	IconMusic     StrategyIcon = "music"
)

// ValidIcon reports whether i is one of the known icons.
func ValidIcon(i StrategyIcon) bool {
	switch i {
	case IconHeart, IconBrain, IconLightbulb, IconActivity, IconMusic:
		return true
	}
	return false
}

// CopingStrategy is an advisory suggestion. Ephemeral, regenerated per request.
type CopingStrategy struct {
	Title        string       `json:"title"`
	Icon         StrategyIcon `json:"icon"`
	Description  string       `json:"description"`
	Instructions string       `json:"instructions"`
}

// CopingRequest asks for personalized strategies.
type CopingRequest struct {
	EmotionalState string   `json:"emotional_state" binding:"required"`
	UserType       string   `json:"user_type"` // "child" or "adult"
	RecentTopics   []string `json:"recent_topics"`
}
