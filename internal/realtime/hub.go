// Package realtime implements the change-notification boundary: an
// observer registration hub that presentation clients subscribe to. The
// ledger never depends on it; handlers publish an event after a commit
// and the event carries identifiers only, never balances or scores.
package realtime

import "sync"

// Event names published by the API layer.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
	EventVoted   = "voted"
)

type Event struct {
	Topic string `json:"topic"`
	Name  string `json:"event"`
	ID    int    `json:"id"`
}

// subscriberBuffer bounds each subscriber channel. Slow consumers drop
// events rather than block publishers.
const subscriberBuffer = 16

type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers an observer for one topic. The returned cancel
// function unregisters it and closes the channel; it is safe to call more
// than once.
func (h *Hub) Subscribe(topic string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[chan Event]struct{})
	}
	h.subs[topic][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[topic], ch)
			if len(h.subs[topic]) == 0 {
				delete(h.subs, topic)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish pushes the event to every current subscriber of its topic.
// Never blocks: a full subscriber buffer drops the event for that
// subscriber only.
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[e.Topic] {
		select {
		case ch <- e:
		default:
		}
	}
}
