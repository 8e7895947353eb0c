package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bbct/bbct/internal/tui/state"
)

// Update handles all messages and updates the model accordingly
// This implements the "Update" part of the Model-View-Update pattern
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.UIState.SetWindowSize(msg.Width, msg.Height)
		m.resizeForms()
	case CardsMsg:
		return m.handleCards(msg)
	case ValuesMsg:
		return m.handleValues(msg)
	case CardSavedMsg:
		return m.handleCardSaved(msg)
	case CardsDeletedMsg:
		return m.handleCardsDeleted(msg)
	}

	// Forms receive every other message, not only keys
	switch m.UIState.Mode() {
	case state.CardFormMode:
		return m.updateCardForm(msg)
	case state.FilterFormMode:
		return m.updateFilterForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.UIState.Mode() {
	case state.NormalMode:
		return m.handleNormalMode(keyMsg)
	case state.DeleteConfirmMode:
		return m.handleDeleteConfirm(keyMsg)
	case state.DiscardConfirmMode:
		return m.handleDiscardConfirm(keyMsg)
	case state.HelpMode:
		m.UIState.SetMode(state.NormalMode)
		return m, nil
	}

	return m, nil
}

// handleCards shows a new card snapshot and waits for the next one
func (m Model) handleCards(msg CardsMsg) (tea.Model, tea.Cmd) {
	if m.subs.cards == nil || msg.SubscriptionID != m.subs.cards.ID() {
		// snapshot of a query replaced by a filter change
		return m, nil
	}

	if msg.Snapshot.Err != nil {
		m.Logger.Warn("card list refresh failed", "error", msg.Snapshot.Err)
		m.NotificationState.Add(state.LevelError, "Could not refresh cards")
	} else {
		m.ListState.SetCards(msg.Snapshot.Value, msg.Snapshot.Seq)
	}

	return m, m.waitForCards()
}

// handleValues stores a distinct-value snapshot and waits for the next one
func (m Model) handleValues(msg ValuesMsg) (tea.Model, tea.Cmd) {
	if msg.Snapshot.Err != nil {
		m.Logger.Warn("value list refresh failed", "kind", msg.Kind, "error", msg.Snapshot.Err)
	}

	switch msg.Kind {
	case brandValues:
		if msg.Snapshot.Err == nil {
			m.ValuesState.Brands = msg.Snapshot.Value
		}
		return m, m.waitForValues(brandValues, m.subs.brands)
	case playerValues:
		if msg.Snapshot.Err == nil {
			m.ValuesState.Players = msg.Snapshot.Value
		}
		return m, m.waitForValues(playerValues, m.subs.players)
	case teamValues:
		if msg.Snapshot.Err == nil {
			m.ValuesState.Teams = msg.Snapshot.Value
		}
		return m, m.waitForValues(teamValues, m.subs.teams)
	}
	return m, nil
}

func (m Model) resizeForms() {
	width := min(max(m.UIState.Width()-8, 20), 72)
	if m.FormState.CardForm != nil {
		m.FormState.CardForm.WithWidth(width)
	}
	if m.FormState.FilterForm != nil {
		m.FormState.FilterForm.WithWidth(width)
	}
}
