package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bbct/bbct/internal/logging"
)

// flakyPublisher fails the first `failures` sends
type flakyPublisher struct {
	sends    int
	failures int
	failWith error
	last     Event
}

func (p *flakyPublisher) SendEvent(event Event) error {
	p.last = event
	p.sends++
	if p.sends <= p.failures {
		if p.failWith != nil {
			return p.failWith
		}
		return errors.New("simulated send failure")
	}
	return nil
}

func (p *flakyPublisher) Connect(ctx context.Context) error                { return nil }
func (p *flakyPublisher) Listen(ctx context.Context) (<-chan Event, error) { return nil, nil }
func (p *flakyPublisher) Subscribe(database string) error                  { return nil }
func (p *flakyPublisher) Close() error                                     { return nil }

func forward(p EventPublisher, event Event) error {
	return Forward(context.Background(), p, event, 3, logging.Discard())
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, time.Duration(0), backoff(0))
	assert.Equal(t, 50*time.Millisecond, backoff(1))
	assert.Equal(t, 100*time.Millisecond, backoff(2))
	assert.Equal(t, 200*time.Millisecond, backoff(3))
}

func TestForward(t *testing.T) {
	tests := []struct {
		name      string
		pub       *flakyPublisher
		wantErr   error
		wantSends int
	}{
		{"first try", &flakyPublisher{}, nil, 1},
		{"after retries", &flakyPublisher{failures: 2}, nil, 3},
		{"closed client stops early", &flakyPublisher{failures: 10, failWith: ErrClientClosed}, ErrClientClosed, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := forward(tt.pub, Event{Type: EventCardsChanged, Op: OpInsert, Database: "bbct"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantSends, tt.pub.sends)
			assert.Equal(t, "bbct", tt.pub.last.Database)
		})
	}
}

func TestForward_GivesUp(t *testing.T) {
	p := &flakyPublisher{failures: 10}
	assert.Error(t, forward(p, Event{Type: EventCardsChanged}))
	assert.Equal(t, 3, p.sends)
}

func TestForward_StopsWhenContextEnds(t *testing.T) {
	p := &flakyPublisher{failures: 10}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Forward(ctx, p, Event{Type: EventCardsChanged}, 3, logging.Discard())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, p.sends)
}

func TestForward_NilClient(t *testing.T) {
	assert.NoError(t, forward(nil, Event{Type: EventCardsChanged}))
}
