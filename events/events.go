// Package events fans dashboard change notifications out to SSE subscribers,
// one subscription set per user.
package events

import (
	"sync"

	"finance-dashboard/api/logger"

	"go.uber.org/zap"
)

const TypeDashboardUpdated = "dashboard.updated"

type Event struct {
	Type    string `json:"type"`
	List    string `json:"list,omitempty"`
	EntryID string `json:"entry_id,omitempty"`
}

type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers a stream for the user's events. The returned cancel
// func must be called when the client disconnects.
func (b *Broker) Subscribe(userID string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[chan Event]struct{})
	}
	b.subs[userID][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if set, ok := b.subs[userID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(b.subs, userID)
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every live subscriber of the user. Slow
// subscribers get dropped events rather than blocking the mutation path.
func (b *Broker) Publish(userID string, ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[userID] {
		select {
		case ch <- ev:
		default:
			logger.Get().Warn("dropping event for slow subscriber",
				zap.String("user_id", userID),
				zap.String("type", ev.Type))
		}
	}
}
