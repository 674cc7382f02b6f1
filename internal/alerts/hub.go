package alerts

import (
	"sync"

	"backend/internal/models"
)

// Event is one live-feed item. Prominent marks high/critical alerts so
// the client can raise a longer-lived notification instead of a plain
// list update.
type Event struct {
	Alert     *models.SafetyAlert `json:"alert"`
	Prominent bool                `json:"prominent"`
}

// Hub fans new alerts out to the owner's open sessions. One channel
// per subscription; slow subscribers have events dropped rather than
// blocking the publisher. Safety alerts are low-volume, so a small
// buffer absorbs normal bursts.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers a live feed for userID. The caller must
// Unsubscribe when the viewing session ends.
func (h *Hub) Subscribe(userID string) chan Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 8)
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan Event]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes a subscription.
func (h *Hub) Unsubscribe(userID string, ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.subs[userID]; ok {
		if _, ok := set[ch]; ok {
			delete(set, ch)
			close(ch)
		}
		if len(set) == 0 {
			delete(h.subs, userID)
		}
	}
}

// Publish delivers a new alert to every open session of its owner and,
// when escalated, of each linked guardian.
func (h *Hub) Publish(alert *models.SafetyAlert) {
	event := Event{
		Alert:     alert,
		Prominent: alert.Severity == models.SeverityHigh || alert.Severity == models.SeverityCritical,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	h.deliver(alert.UserID, event)
	for _, guardianID := range alert.EscalatedTo {
		if guardianID != alert.UserID {
			h.deliver(guardianID, event)
		}
	}
}

func (h *Hub) deliver(userID string, event Event) {
	for ch := range h.subs[userID] {
		select {
		case ch <- event:
		default:
			// Drop for slow consumers; the list endpoint is the source of truth.
		}
	}
}
