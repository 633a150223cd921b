// Package spinner provides the live spin-broadcast channel: a pub/sub
// fan-out keyed by scheme ID, used to mirror the admin's winner-selection
// wheel on every watching client. Delivery is best-effort and at most once
// per subscriber per event; subscribers that disconnect miss events
// published during the gap. The lifecycle engine does not depend on it.
package spinner

import "sync"

// Event is one spin broadcast. The animation parameters come straight from
// the publishing admin; subscribers replay them verbatim.
type Event struct {
	Easing    string  `json:"easing"`
	Speed     float64 `json:"speed"`
	Rotates   float64 `json:"rotates"`
	Winner    string  `json:"winner"`
	AdminID   string  `json:"adminId"`
	Timestamp int64   `json:"timestamp"`
}

// Hub fans events out to subscribers grouped by scheme ID.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers a listener for the given scheme and returns its event
// channel plus a cancel function. The channel is buffered; events that
// arrive while the buffer is full are dropped for that subscriber.
func (h *Hub) Subscribe(schemeID string) (<-chan Event, func()) {
	ch := make(chan Event, 8)

	h.mu.Lock()
	if h.subs[schemeID] == nil {
		h.subs[schemeID] = make(map[chan Event]struct{})
	}
	h.subs[schemeID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[schemeID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, schemeID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish broadcasts an event to every subscriber of the scheme.
// Slow subscribers are skipped, never blocked on.
func (h *Hub) Publish(schemeID string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[schemeID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
