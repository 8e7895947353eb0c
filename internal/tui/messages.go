package tui

import (
	"github.com/bbct/bbct/internal/models"
	"github.com/bbct/bbct/internal/store"
)

// CardsMsg carries a snapshot of the card list query.
// Snapshots from a replaced query are ignored by SubscriptionID.
type CardsMsg struct {
	SubscriptionID string
	Snapshot       store.Snapshot[[]models.BaseballCard]
}

type valueKind int

const (
	brandValues valueKind = iota
	playerValues
	teamValues
)

// ValuesMsg carries a snapshot of one distinct-value query
type ValuesMsg struct {
	Kind     valueKind
	Snapshot store.Snapshot[[]string]
}

// CardSavedMsg reports the result of saving Draft
type CardSavedMsg struct {
	Draft models.CardDraft
	Card  models.BaseballCard
	Err   error
}

// CardsDeletedMsg reports the result of deleting IDs
type CardsDeletedMsg struct {
	IDs   []int64
	Count int
	Err   error
}
