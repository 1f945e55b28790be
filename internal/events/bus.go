package events

import (
	"sync"
	"time"

	"github.com/openfra/fra-atlas/internal/model"
)

// Type tags an event for subscribers and SSE consumers
type Type string

const (
	TypeLocationSelected Type = "location_selected" // Marker or boundary polygon picked on the map
	TypeRunCompleted     Type = "run_completed"     // Aggregation run committed
)

// Event is one bus message. Payload is one of the typed payload structs.
type Event struct {
	Type    Type      `json:"type"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload"`
}

// LocationPayload carries the location hierarchy of a selection. The
// dashboard feeds it back into its filter criteria; the loop is explicit and
// one-directional, never a shared-state mutation.
type LocationPayload struct {
	State    string `json:"state"`
	District string `json:"district,omitempty"`
}

// LocationSelected builds a selection event
func LocationSelected(state, district string) Event {
	return Event{
		Type:    TypeLocationSelected,
		At:      time.Now(),
		Payload: LocationPayload{State: state, District: district},
	}
}

// RunCompleted builds a run-completion event from a committed snapshot
func RunCompleted(snapshot model.RunSnapshot) Event {
	return Event{Type: TypeRunCompleted, At: time.Now(), Payload: snapshot}
}

// Bus fans events out to subscribers in-process. Sends never block: a
// subscriber that stops draining its channel misses events instead of
// stalling the publisher.
type Bus struct {
	mu     sync.Mutex
	subs   map[chan Event]bool
	buffer int
}

// NewBus creates a bus; buffer sets each subscriber's channel capacity
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 16
	}
	return &Bus{
		subs:   make(map[chan Event]bool),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber channel. The caller must either drain
// it or call Unsubscribe when done.
func (b *Bus) Subscribe() chan Event {
	ch := make(chan Event, b.buffer)
	b.mu.Lock()
	b.subs[ch] = true
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscriber channel
func (b *Bus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[ch] {
		delete(b.subs, ch)
		close(ch)
	}
}

// Publish delivers an event to every subscriber with room in its buffer
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers returns the current subscriber count
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
