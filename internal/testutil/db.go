package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/bbct/bbct/internal/database"
	"github.com/bbct/bbct/internal/logging"
	"github.com/bbct/bbct/internal/models"
	"github.com/bbct/bbct/internal/store"
)

// NewTestStore opens a private in-memory card store named database.TestName.
// The store is closed by test cleanup.
func NewTestStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()

	base := []store.Option{
		store.WithName(database.TestName),
		store.WithLogger(logging.Discard()),
	}
	st, err := store.Open(context.Background(), database.MemoryPath, append(base, opts...)...)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Logf("Warning: store close error during cleanup: %v", err)
		}
	})
	return st
}

// SampleCards returns a small collection spanning several brands, years and teams
func SampleCards() []models.BaseballCard {
	return []models.BaseballCard{
		{Condition: "Near Mint", Brand: "Topps", Year: 1991, Number: "1", Value: 1000, Quantity: 1, PlayerName: "Nolan Ryan", Team: "Rangers", Position: "Pitcher"},
		{Condition: "Mint", Brand: "Topps", Year: 1991, Number: "2", Value: 250, Quantity: 2, PlayerName: "Barry Bonds", Team: "Pirates", Position: "Left Field"},
		{Autographed: true, Condition: "Excellent", Brand: "Donruss", Year: 1989, Number: "33", Value: 5000, Quantity: 1, PlayerName: "Ken Griffey Jr.", Team: "Mariners", Position: "Center Field"},
		{Condition: "Good", Brand: "Upper Deck", Year: 1993, Number: "455", Value: 75, Quantity: 3, PlayerName: "Derek Jeter", Team: "Yankees", Position: "Shortstop"},
	}
}

// SeedCards inserts cards and returns them with their assigned identifiers
func SeedCards(t *testing.T, st *store.Store, cards ...models.BaseballCard) []models.BaseballCard {
	t.Helper()

	if len(cards) == 0 {
		cards = SampleCards()
	}
	seeded := make([]models.BaseballCard, len(cards))
	for i, c := range cards {
		id, err := st.Insert(context.Background(), c)
		if err != nil {
			t.Fatalf("Failed to insert card %d: %v", i, err)
		}
		c.ID = id
		seeded[i] = c
	}
	return seeded
}

// NextSnapshot waits for the next snapshot on sub
func NextSnapshot[T any](t *testing.T, sub *store.Subscription[T], timeout time.Duration) store.Snapshot[T] {
	t.Helper()

	select {
	case snap, ok := <-sub.Updates():
		if !ok {
			t.Fatal("Subscription closed unexpectedly")
		}
		return snap
	case <-time.After(timeout):
		t.Fatalf("Timeout waiting for snapshot after %v", timeout)
		return store.Snapshot[T]{}
	}
}
