package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// Bus fans committed changes out to every in-process subscriber.
//
// Each subscriber channel holds at most one pending event. When a subscriber
// falls behind, the pending event is replaced by the newer one, so a reader
// always wakes up for the latest change without ever blocking the publisher.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	nextID uint64
	closed bool

	sequence atomic.Int64
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]chan Event)}
}

// Publish stamps event with the next sequence number and delivers it.
// It never blocks. The stamped event is returned.
func (b *Bus) Publish(event Event) Event {
	event.SequenceID = b.sequence.Add(1)
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return event
	}

	for _, ch := range b.subs {
		deliverLatest(ch, event)
	}
	return event
}

// deliverLatest puts event on ch, evicting a stale pending event if needed
func deliverLatest(ch chan Event, event Event) {
	for {
		select {
		case ch <- event:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Subscribe registers a new subscriber.
// The returned cancel func unsubscribes and closes the channel; it is safe to call twice.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 1)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(ch)
			}
		})
	}
}

// Subscribers returns the number of live subscribers
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// LastSequence returns the sequence number of the most recent event
func (b *Bus) LastSequence() int64 {
	return b.sequence.Load()
}

// Close closes every subscriber channel. Later publishes are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
