package session

import "sync"

// Event is delivered to subscribers after every state change.
type Event interface {
	sessionEvent()
}

// SnapshotEvent carries the state after a mutation.
type SnapshotEvent struct {
	Snapshot Snapshot
}

func (SnapshotEvent) sessionEvent() {}

// ResultEvent is sent once when a level is won or lost.
type ResultEvent struct {
	Result Result
}

func (ResultEvent) sessionEvent() {}

// Subscription receives session events over a buffered channel.
// Slow readers lose the oldest events rather than blocking the session.
type Subscription struct {
	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
}

func newSubscription(size int) *Subscription {
	if size < 1 {
		size = 16
	}
	return &Subscription{
		events: make(chan Event, size),
		done:   make(chan struct{}),
	}
}

// Events returns the channel to receive events from.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Done returns a channel that closes when the subscription ends.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close ends the subscription. Safe to call multiple times.
func (s *Subscription) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

func (s *Subscription) send(evt Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
	default:
		// Buffer full, drop oldest and retry
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- evt:
		default:
		}
	}
}
