// Package modelops holds tea commands shared by the TUI screens.
package modelops

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bbct/bbct/internal/store"
)

// WaitForSnapshot returns a command that waits for the next snapshot of a
// live query and wraps it into a message.
// Returns nil if sub is nil. The command yields nil once the subscription
// is closed or ctx ends, which stops the listen loop.
func WaitForSnapshot[T any](ctx context.Context, sub *store.Subscription[T], wrap func(store.Snapshot[T]) tea.Msg) tea.Cmd {
	if sub == nil {
		return nil
	}

	return func() tea.Msg {
		select {
		case snap, ok := <-sub.Updates():
			if !ok {
				// Subscription closed
				return nil
			}
			return wrap(snap)
		case <-ctx.Done():
			return nil
		}
	}
}
