package moderation

import (
	"fmt"

	"backend/internal/models"
)

// SystemInstruction frames the model as a safety analyst. Kept strict
// about the false-negative/false-positive tradeoff: missing real harm
// is worse than over-flagging, but over-flagging erodes trust.
const SystemInstruction = `You are a safety analysis AI specialized in detecting harmful content, especially content targeting children and vulnerable individuals. Be thorough but minimize false positives.`

// BuildAnalysisPrompt embeds the text under analysis and its context
// into the fixed six-category instruction.
func BuildAnalysisPrompt(text string, context models.ModerationContext) string {
	if context == "" {
		context = models.ContextGeneral
	}

	return fmt.Sprintf(`Analyze this text for safety concerns. Detect:
1. Harassment, bullying, or threats
2. Grooming or inappropriate contact attempts
3. Self-harm or suicidal ideation
4. Hate speech or discrimination
5. Sexual content or predatory behavior
6. Sharing of personal information (addresses, phone numbers)

Text: "%s"

Context: %s

Respond with JSON: {
  "isSafe": boolean,
  "severity": "low" | "medium" | "high" | "critical",
  "categories": ["category1", "category2"],
  "explanation": "brief explanation",
  "actionRequired": "none" | "alert" | "block" | "escalate"
}`, text, context)
}
