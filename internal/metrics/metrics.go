package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Classifier outcomes. "rate_limited" and "quota_exceeded" are broken
// out so operational triage can tell a billing problem from an outage.
var ClassifierRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_classifier_requests_total",
	Help: "Moderation classifier calls by outcome.",
}, []string{"outcome"}) // ok, parse_error, rate_limited, quota_exceeded, unavailable

const (
	OutcomeOK            = "ok"
	OutcomeParseError    = "parse_error"
	OutcomeRateLimited   = "rate_limited"
	OutcomeQuotaExceeded = "quota_exceeded"
	OutcomeUnavailable   = "unavailable"
)

// Alert writes. A write failure is swallowed by the pipeline, so this
// counter is the only durable signal of the durability gap.
var AlertWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "safety_alert_writes_total",
	Help: "Safety alert insert attempts by result.",
}, []string{"result"}) // ok, error

// Escalation lookups, same best-effort contract as alert writes.
var EscalationLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "escalation_lookups_total",
	Help: "Guardian link lookups by result.",
}, []string{"result"}) // ok, error

var CopingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "coping_strategy_requests_total",
	Help: "Coping strategy generations by outcome.",
}, []string{"outcome"}) // ok, fallback, generic

var GuardianNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "guardian_notifications_total",
	Help: "Guardian escalation notifications by result.",
}, []string{"result"}) // ok, error
