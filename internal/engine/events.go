package engine

import (
	"sync"
	"time"
)

// Event phases. Status events mark lifecycle transitions driven by the
// engine; progress events carry runner output from within a phase.
const (
	PhaseStatus   = "status"
	PhaseProgress = "progress"
)

// Event is one item in a job's execution stream.
type Event struct {
	Phase   string    `json:"phase"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls this far behind starts losing events; execution never blocks on a
// slow consumer.
const subscriberBuffer = 32

// EventBroker fans out per-job execution events to any number of
// subscribers. Safe for concurrent use.
//
// A finished job leaves a closed marker behind so that late subscribers get
// a closed channel instead of waiting on a stream that will never produce.
type EventBroker struct {
	mu      sync.Mutex
	streams map[string]*eventStream
}

type eventStream struct {
	subs   map[chan Event]struct{}
	closed bool
}

// NewEventBroker creates an empty broker.
func NewEventBroker() *EventBroker {
	return &EventBroker{
		streams: make(map[string]*eventStream),
	}
}

// Subscribe registers interest in a job's events and returns the receiving
// channel plus an unsubscribe function. Subscribing to a finished job yields
// an already-closed channel.
func (b *EventBroker) Subscribe(jobID string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.streams[jobID]
	if !ok {
		st = &eventStream{subs: make(map[chan Event]struct{})}
		b.streams[jobID] = st
	}

	ch := make(chan Event, subscriberBuffer)
	if st.closed {
		close(ch)
		return ch, func() {}
	}
	st.subs[ch] = struct{}{}

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(st.subs, ch)
	}
}

// Publish delivers an event to every current subscriber of the job. Full
// subscriber buffers drop the event rather than stall the publisher.
func (b *EventBroker) Publish(jobID string, ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.streams[jobID]
	if !ok || st.closed {
		return
	}

	for ch := range st.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close ends the job's stream: all subscriber channels are closed, and the
// stream is marked finished so future subscribers see a closed channel too.
func (b *EventBroker) Close(jobID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.streams[jobID]
	if !ok {
		b.streams[jobID] = &eventStream{subs: make(map[chan Event]struct{}), closed: true}
		return
	}

	st.closed = true
	for ch := range st.subs {
		close(ch)
		delete(st.subs, ch)
	}
}
