package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/bbct/bbct/internal/app"
	"github.com/bbct/bbct/internal/config"
	"github.com/bbct/bbct/internal/models"
	cardservice "github.com/bbct/bbct/internal/services/card"
	"github.com/bbct/bbct/internal/store"
	"github.com/bbct/bbct/internal/tui/components"
	"github.com/bbct/bbct/internal/tui/huhforms"
	"github.com/bbct/bbct/internal/tui/modelops"
	"github.com/bbct/bbct/internal/tui/state"
	"github.com/bbct/bbct/internal/tui/theme"
)

// opTimeout bounds a single store call made from a key handler
const opTimeout = 5 * time.Second

// Model represents the application state for the TUI
type Model struct {
	Ctx       context.Context
	Cards     cardservice.Service
	Config    *config.Config
	StoreName string
	Logger    *slog.Logger

	UIState           *state.UIState
	ListState         *state.CardListState
	ValuesState       *state.ValuesState
	FormState         *state.FormState
	NotificationState *state.NotificationState

	// PendingDelete holds the IDs awaiting confirmation in DeleteConfirmMode
	PendingDelete []int64

	subs     *subscriptions
	huhTheme *huh.Theme
}

// subscriptions are the live queries feeding the model.
// Shared by every copy of the Model.
type subscriptions struct {
	cards   *store.Subscription[[]models.BaseballCard]
	brands  *store.Subscription[[]string]
	players *store.Subscription[[]string]
	teams   *store.Subscription[[]string]
}

// InitialModel creates the TUI model and starts its live queries.
// The card list follows every committed change until ctx ends or Close is called.
func InitialModel(ctx context.Context, a *app.App, logger *slog.Logger) (Model, error) {
	if logger == nil {
		logger = slog.Default()
	}

	theme.Init(a.Config.Theme)
	components.InitStyles()

	m := Model{
		Ctx:               ctx,
		Cards:             a.CardService,
		Config:            a.Config,
		StoreName:         a.Store.Name(),
		Logger:            logger,
		UIState:           state.NewUIState(),
		ListState:         state.NewCardListState(),
		ValuesState:       state.NewValuesState(),
		FormState:         state.NewFormState(),
		NotificationState: state.NewNotificationState(),
		subs:              &subscriptions{},
		huhTheme:          huhforms.CreateTheme(a.Config.Theme),
	}

	var err error
	if m.subs.cards, err = m.Cards.WatchCards(ctx, models.CardFilter{}); err != nil {
		return Model{}, fmt.Errorf("watch cards: %w", err)
	}
	if m.subs.brands, err = m.Cards.WatchBrands(ctx); err != nil {
		m.Close()
		return Model{}, fmt.Errorf("watch brands: %w", err)
	}
	if m.subs.players, err = m.Cards.WatchPlayerNames(ctx); err != nil {
		m.Close()
		return Model{}, fmt.Errorf("watch players: %w", err)
	}
	if m.subs.teams, err = m.Cards.WatchTeams(ctx); err != nil {
		m.Close()
		return Model{}, fmt.Errorf("watch teams: %w", err)
	}

	return m, nil
}

// Init starts listening on every live query
// Required by tea.Model interface
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForCards(),
		m.waitForValues(brandValues, m.subs.brands),
		m.waitForValues(playerValues, m.subs.players),
		m.waitForValues(teamValues, m.subs.teams),
	)
}

// Close ends every live query
func (m Model) Close() {
	if m.subs == nil {
		return
	}
	if m.subs.cards != nil {
		m.subs.cards.Close()
	}
	for _, sub := range []*store.Subscription[[]string]{m.subs.brands, m.subs.players, m.subs.teams} {
		if sub != nil {
			sub.Close()
		}
	}
}

// watchFilter replaces the card query with one for filter
func (m Model) watchFilter(filter models.CardFilter) tea.Cmd {
	sub, err := m.Cards.WatchCards(m.Ctx, filter)
	if err != nil {
		m.Logger.Error("failed to watch cards", "error", err)
		m.NotificationState.Add(state.LevelError, "Could not apply filter: "+err.Error())
		return nil
	}

	old := m.subs.cards
	m.subs.cards = sub
	if old != nil {
		old.Close()
	}
	m.ListState.SetFilter(filter)
	return m.waitForCards()
}

func (m Model) waitForCards() tea.Cmd {
	sub := m.subs.cards
	if sub == nil {
		return nil
	}
	id := sub.ID()
	return modelops.WaitForSnapshot(m.Ctx, sub, func(snap store.Snapshot[[]models.BaseballCard]) tea.Msg {
		return CardsMsg{SubscriptionID: id, Snapshot: snap}
	})
}

func (m Model) waitForValues(kind valueKind, sub *store.Subscription[[]string]) tea.Cmd {
	return modelops.WaitForSnapshot(m.Ctx, sub, func(snap store.Snapshot[[]string]) tea.Msg {
		return ValuesMsg{Kind: kind, Snapshot: snap}
	})
}

// formOptions collects choices and suggestions for the forms
func (m Model) formOptions() huhforms.CardFormOptions {
	return huhforms.CardFormOptions{
		Conditions: m.Cards.Conditions(),
		Positions:  m.Cards.Positions(),
		Brands:     m.ValuesState.Brands,
		Players:    m.ValuesState.Players,
		Teams:      m.ValuesState.Teams,
	}
}

// opContext bounds a store call issued from a command
func (m Model) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(m.Ctx, opTimeout)
}
