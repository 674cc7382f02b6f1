package alerts

import (
	"time"

	"backend/internal/models"
)

// Safety score parameters. The score is derived on every read from the
// trailing window and never persisted, so it can't go stale.
const (
	scoreCeiling = 95
	scoreFloor   = 20
	scoreWindow  = 7 * 24 * time.Hour
)

var severityDeductions = map[models.Severity]int{
	models.SeverityCritical: 25,
	models.SeverityHigh:     15,
	models.SeverityMedium:   8,
	models.SeverityLow:      0,
}

// computeSafetyScore applies weighted deductions per alert in the
// window, starting from the ceiling and never dropping below the floor.
func computeSafetyScore(alerts []*models.SafetyAlert) int {
	score := scoreCeiling
	for _, alert := range alerts {
		score -= severityDeductions[alert.Severity]
	}
	if score < scoreFloor {
		score = scoreFloor
	}
	return score
}
