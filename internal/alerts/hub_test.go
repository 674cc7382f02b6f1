package alerts

import (
	"testing"

	"backend/internal/models"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOwnerSubscribers(t *testing.T) {
	hub := NewHub()
	ch1 := hub.Subscribe("user-1")
	ch2 := hub.Subscribe("user-1")
	other := hub.Subscribe("user-2")

	hub.Publish(&models.SafetyAlert{ID: "a1", UserID: "user-1", Severity: models.SeverityMedium})

	for _, ch := range []chan Event{ch1, ch2} {
		select {
		case event := <-ch:
			assert.Equal(t, "a1", event.Alert.ID)
			assert.False(t, event.Prominent)
		default:
			t.Fatal("expected event for user-1 subscriber")
		}
	}

	select {
	case <-other:
		t.Fatal("user-2 must not receive user-1 alerts")
	default:
	}
}

func TestHub_PublishReachesEscalatedGuardians(t *testing.T) {
	hub := NewHub()
	guardian := hub.Subscribe("parent-1")

	hub.Publish(&models.SafetyAlert{
		ID:          "a1",
		UserID:      "child-1",
		Severity:    models.SeverityCritical,
		Status:      models.AlertStatusEscalated,
		EscalatedTo: pq.StringArray{"parent-1"},
	})

	select {
	case event := <-guardian:
		assert.Equal(t, "a1", event.Alert.ID)
		assert.True(t, event.Prominent)
	default:
		t.Fatal("expected event for escalated guardian")
	}
}

func TestHub_ProminentForHighAndCritical(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe("user-1")

	for severity, prominent := range map[models.Severity]bool{
		models.SeverityLow:      false,
		models.SeverityMedium:   false,
		models.SeverityHigh:     true,
		models.SeverityCritical: true,
	} {
		hub.Publish(&models.SafetyAlert{ID: "a", UserID: "user-1", Severity: severity})
		event := <-ch
		assert.Equal(t, prominent, event.Prominent, "severity %s", severity)
	}
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe("user-1")

	// Overfill the buffer; Publish must never block.
	for i := 0; i < cap(ch)+5; i++ {
		hub.Publish(&models.SafetyAlert{ID: "a", UserID: "user-1", Severity: models.SeverityLow})
	}

	assert.Len(t, ch, cap(ch))
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe("user-1")
	hub.Unsubscribe("user-1", ch)

	_, open := <-ch
	require.False(t, open)

	// Publishing after the last unsubscribe is a no-op.
	hub.Publish(&models.SafetyAlert{ID: "a", UserID: "user-1", Severity: models.SeverityLow})
}
