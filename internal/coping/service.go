package coping

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"backend/internal/llm"
	"backend/internal/metrics"
	"backend/internal/models"
)

const systemInstruction = `You are a mental health expert specializing in evidence-based coping strategies. Provide practical, safe, and effective techniques.`

// Service generates personalized coping strategies. Advisory only:
// availability beats personalization, so every failure path returns
// usable suggestions and the caller never sees an error.
type Service struct {
	completer llm.Completer
	logger    *zap.Logger
}

func NewService(completer llm.Completer, logger *zap.Logger) *Service {
	return &Service{completer: completer, logger: logger}
}

// Generate returns 3-5 strategies adjusted to the user's age register.
// Service failure yields the fixed fallback list; malformed output
// yields a single generic strategy. Never an empty list.
func (s *Service) Generate(ctx context.Context, req models.CopingRequest) []models.CopingStrategy {
	raw, err := s.completer.Complete(ctx, llm.CompletionRequest{
		System:      systemInstruction,
		Prompt:      buildPrompt(req),
		Temperature: 0.7,
		MaxTokens:   800,
	})
	if err != nil {
		s.logger.Warn("Coping strategy generation unavailable, using fallback",
			zap.Error(err))
		metrics.CopingRequests.WithLabelValues("fallback").Inc()
		return fallbackStrategies()
	}

	strategies := parseStrategies(raw)
	if len(strategies) == 0 {
		s.logger.Warn("Coping strategy response unusable, using generic strategy")
		metrics.CopingRequests.WithLabelValues("generic").Inc()
		return []models.CopingStrategy{genericStrategy()}
	}

	metrics.CopingRequests.WithLabelValues("ok").Inc()
	if len(strategies) > 5 {
		strategies = strategies[:5]
	}
	return strategies
}

func buildPrompt(req models.CopingRequest) string {
	ageAppropriate := "suitable for adults"
	if req.UserType == "child" {
		ageAppropriate = "age-appropriate for children (8-17 years old)"
	}

	topics := "general stress"
	if len(req.RecentTopics) > 0 {
		topics = strings.Join(req.RecentTopics, ", ")
	}

	return fmt.Sprintf(`Generate 3-5 personalized coping strategies for someone experiencing %s.

User type: %s
Recent topics discussed: %s

Requirements:
- Make strategies %s
- Include practical, actionable techniques
- Provide brief, clear instructions (2-3 sentences each)
- Focus on evidence-based methods
- Include variety: breathing, mindfulness, physical activity, creative expression

Respond with JSON array: [
  {
    "title": "Strategy name",
    "icon": "heart" | "brain" | "lightbulb" | "activity" | "music",
    "description": "Brief description",
    "instructions": "Step-by-step instructions"
  }
]`, req.EmotionalState, req.UserType, topics, ageAppropriate)
}

// parseStrategies pulls the first balanced [...] span out of the raw
// model output and decodes it. Anything unusable becomes nil.
func parseStrategies(raw string) []models.CopingStrategy {
	arr, found := extractJSONArray(raw)
	if !found {
		return nil
	}

	var strategies []models.CopingStrategy
	if err := json.Unmarshal([]byte(arr), &strategies); err != nil {
		return nil
	}

	usable := strategies[:0]
	for _, strategy := range strategies {
		if strategy.Title == "" {
			continue
		}
		if !models.ValidIcon(strategy.Icon) {
			strategy.Icon = models.IconHeart
		}
		usable = append(usable, strategy)
	}
	return usable
}

func extractJSONArray(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if start >= 0 && inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}

		switch c {
		case '[':
			if start < 0 {
				start = i
			}
			depth++
		case ']':
			if start >= 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}

	return "", false
}

// fallbackStrategies is the fixed list served when the generation
// capability is down or rate limited.
func fallbackStrategies() []models.CopingStrategy {
	return []models.CopingStrategy{
		{
			Title:        "Deep Breathing",
			Icon:         models.IconHeart,
			Description:  "Calm your mind and body",
			Instructions: "Breathe in for 4 counts, hold for 7, exhale for 8. Repeat 4 times.",
		},
		{
			Title:        "Grounding Exercise",
			Icon:         models.IconBrain,
			Description:  "Connect with the present moment",
			Instructions: "Name 5 things you see, 4 you hear, 3 you can touch, 2 you smell, 1 you taste.",
		},
		{
			Title:        "Positive Affirmation",
			Icon:         models.IconLightbulb,
			Description:  "Build self-confidence",
			Instructions: "Say to yourself: 'I am capable, I am strong, I can handle this situation.'",
		},
	}
}

// genericStrategy is the single-item floor when the model responded
// but with nothing decodable.
func genericStrategy() models.CopingStrategy {
	return models.CopingStrategy{
		Title:        "Mindful Breathing",
		Icon:         models.IconHeart,
		Description:  "Center yourself with breath",
		Instructions: "Find a quiet spot. Close your eyes. Take slow, deep breaths focusing on the sensation of air moving in and out.",
	}
}
