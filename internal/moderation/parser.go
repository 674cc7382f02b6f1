package moderation

import (
	"encoding/json"

	"backend/internal/models"
)

// rawVerdict separates "field absent" from "field zero". A decoded
// object without isSafe is a parse-quality failure, not a safe result.
type rawVerdict struct {
	IsSafe         *bool    `json:"isSafe"`
	Severity       string   `json:"severity"`
	Categories     []string `json:"categories"`
	Explanation    string   `json:"explanation"`
	ActionRequired string   `json:"actionRequired"`
}

// ParseVerdict extracts a structured verdict from free-form model
// output. Three outcomes:
//   - no JSON object anywhere: the model saw nothing to flag, safe default
//   - object found and well-formed: the decoded verdict
//   - object found but malformed or missing isSafe: fail-safe parse_error verdict
//
// Pure function, no I/O.
func ParseVerdict(raw string) models.ModerationVerdict {
	obj, found := extractJSONObject(raw)
	if !found {
		return models.ModerationVerdict{
			IsSafe:         true,
			Severity:       models.SeverityLow,
			Categories:     []string{},
			Explanation:    "No issues detected",
			ActionRequired: models.ActionNone,
		}
	}

	var rv rawVerdict
	if err := json.Unmarshal([]byte(obj), &rv); err != nil || rv.IsSafe == nil {
		return parseFailureVerdict()
	}

	verdict := models.ModerationVerdict{
		IsSafe:         *rv.IsSafe,
		Severity:       models.Severity(rv.Severity),
		Categories:     rv.Categories,
		Explanation:    rv.Explanation,
		ActionRequired: models.ActionRequired(rv.ActionRequired),
	}

	if verdict.Categories == nil {
		verdict.Categories = []string{}
	}

	// Unknown enum values degrade toward caution, not toward safe.
	if !models.ValidSeverity(verdict.Severity) {
		if verdict.IsSafe {
			verdict.Severity = models.SeverityLow
		} else {
			verdict.Severity = models.SeverityMedium
		}
	}
	if !models.ValidAction(verdict.ActionRequired) {
		if verdict.IsSafe {
			verdict.ActionRequired = models.ActionNone
		} else {
			verdict.ActionRequired = models.ActionAlert
		}
	}

	// isSafe implies no action; the inverse is not enforced.
	if verdict.IsSafe {
		verdict.ActionRequired = models.ActionNone
	}

	return verdict
}

func parseFailureVerdict() models.ModerationVerdict {
	return models.ModerationVerdict{
		IsSafe:         false,
		Severity:       models.SeverityMedium,
		Categories:     []string{"parse_error"},
		Explanation:    "Unable to complete analysis",
		ActionRequired: models.ActionAlert,
	}
}

// extractJSONObject returns the first balanced {...} span in s,
// honoring string literals and escapes so braces inside values do not
// end the scan early. An opening brace that never balances (output
// truncated mid-object, typically by the token cap) still counts as
// found: the caller gets the partial span, decoding fails, and the
// verdict fails closed instead of defaulting to safe.
func extractJSONObject(s string) (string, bool) {
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
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
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

	if start >= 0 {
		return s[start:], true
	}
	return "", false
}
