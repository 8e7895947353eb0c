package store

import (
	"context"

	"github.com/google/uuid"
)

// Snapshot is one result of a live query.
// Seq is the sequence number of the change the query ran after (the last
// known one for the first snapshot). When the re-query failed, Err is set
// and Value is the zero value; later changes retry the query.
type Snapshot[T any] struct {
	Value T
	Seq   int64
	Err   error
}

// Subscription delivers snapshots of a live query.
//
// The first snapshot holds the state at subscription time. After that, a new
// snapshot follows every committed change. A slow reader only ever sees the
// newest pending snapshot. The channel is closed after Close, after the
// context given to the subscribe call ends, or after the store closes.
type Subscription[T any] struct {
	id     string
	out    chan Snapshot[T]
	cancel context.CancelFunc
	done   chan struct{}
}

// ID identifies the subscription in logs
func (s *Subscription[T]) ID() string {
	return s.id
}

// Updates returns the snapshot channel
func (s *Subscription[T]) Updates() <-chan Snapshot[T] {
	return s.out
}

// Close stops delivery and waits for the query goroutine to exit.
func (s *Subscription[T]) Close() {
	s.cancel()
	<-s.done
}

// watch runs load once now and again after every change on the store's bus.
// An error from the first load is returned instead of a subscription.
func watch[T any](ctx context.Context, st *Store, name string, load func(context.Context) (T, error)) (*Subscription[T], error) {
	if st.closed() {
		return nil, closedError(name)
	}

	// subscribe before the first load so no change can slip in between
	changes, unsubscribe := st.bus.Subscribe()
	seq := st.bus.LastSequence()

	initial, err := load(ctx)
	if err != nil {
		unsubscribe()
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription[T]{
		id:     uuid.NewString(),
		out:    make(chan Snapshot[T], 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	sub.out <- Snapshot[T]{Value: initial, Seq: seq}

	st.logger.Debug("live query started", "query", name, "subscription", sub.id)

	go func() {
		defer close(sub.done)
		defer close(sub.out)
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-changes:
				if !ok || st.closed() {
					return
				}
				value, err := load(ctx)
				if ctx.Err() != nil {
					return
				}
				if err != nil {
					st.logger.Warn("live query failed", "query", name, "subscription", sub.id, "error", err)
				}
				sub.offer(Snapshot[T]{Value: value, Seq: event.SequenceID, Err: err})
			}
		}
	}()

	return sub, nil
}

// offer replaces any unread snapshot with snap. Only the query goroutine sends.
func (s *Subscription[T]) offer(snap Snapshot[T]) {
	select {
	case s.out <- snap:
		return
	default:
	}
	select {
	case <-s.out:
	default:
	}
	s.out <- snap
}
