package escalation

import (
	"backend/internal/metrics"
	"backend/internal/models"
	"backend/internal/repository"

	"go.uber.org/zap"
)

// Resolver looks up the guardians linked to a subject user. It is a
// pure lookup: writing escalation state onto an alert is the caller's
// concern.
type Resolver struct {
	guardians repository.GuardianRepository
	logger    *zap.Logger
}

func NewResolver(guardians repository.GuardianRepository, logger *zap.Logger) *Resolver {
	return &Resolver{guardians: guardians, logger: logger}
}

// Targets returns the approved guardian links for subjectUserID.
// An empty result is a normal outcome. A failed query is logged and
// treated the same way: escalation is best-effort and must never turn
// a moderation call into an error.
func (r *Resolver) Targets(subjectUserID string) []models.GuardianLink {
	links, err := r.guardians.GetApprovedLinks(subjectUserID)
	if err != nil {
		r.logger.Error("Failed to resolve escalation targets",
			zap.String("subject_user_id", subjectUserID),
			zap.Error(err))
		metrics.EscalationLookups.WithLabelValues("error").Inc()
		return nil
	}

	metrics.EscalationLookups.WithLabelValues("ok").Inc()
	return links
}

// GuardianIDs extracts the guardian IDs from a set of links.
func GuardianIDs(links []models.GuardianLink) []string {
	ids := make([]string, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.GuardianID)
	}
	return ids
}
