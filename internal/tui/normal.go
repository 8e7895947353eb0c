package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bbct/bbct/internal/models"
	"github.com/bbct/bbct/internal/tui/state"
)

// ============================================================================
// NORMAL MODE HANDLERS
// ============================================================================

// handleNormalMode dispatches key events in NormalMode to specific handlers.
func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.NotificationState.Clear()

	key := msg.String()
	km := m.Config.KeyMappings

	switch key {
	case km.Quit, "ctrl+c":
		return m, tea.Quit
	case km.ShowHelp:
		m.UIState.SetMode(state.HelpMode)
		return m, nil
	case km.AddCard:
		return m.handleAddCard()
	case km.EditCard:
		return m.handleEditCard()
	case km.DeleteCard:
		return m.handleDeleteCards()
	case km.ToggleMark:
		m.ListState.ToggleMark()
		m.ListState.MoveDown()
		return m, nil
	case km.ClearMarks:
		m.ListState.ClearMarks()
		return m, nil
	case km.Filter:
		return m.handleOpenFilter()
	case km.ClearFilter:
		return m.handleClearFilter()
	case km.PrevCard, "up":
		m.ListState.MoveUp()
		return m, nil
	case km.NextCard, "down":
		m.ListState.MoveDown()
		return m, nil
	case "g", "home":
		m.ListState.GotoTop()
		return m, nil
	case "G", "end":
		m.ListState.GotoBottom()
		return m, nil
	}

	return m, nil
}

// handleAddCard opens the details form on an empty draft
func (m Model) handleAddCard() (tea.Model, tea.Cmd) {
	draft := models.NewDraft().WithQuantity("1")
	return m.openCardForm(draft)
}

// handleEditCard opens the details form on the selected card
func (m Model) handleEditCard() (tea.Model, tea.Cmd) {
	card, ok := m.ListState.Selected()
	if !ok {
		m.NotificationState.Add(state.LevelInfo, "No card selected")
		return m, nil
	}
	return m.openCardForm(models.DraftFromCard(card))
}

// handleDeleteCards asks to delete the marked cards, or the selected one
func (m Model) handleDeleteCards() (tea.Model, tea.Cmd) {
	ids := m.ListState.DeleteTargets()
	if len(ids) == 0 {
		m.NotificationState.Add(state.LevelInfo, "No card selected")
		return m, nil
	}
	m.PendingDelete = ids
	m.UIState.SetMode(state.DeleteConfirmMode)
	return m, nil
}

// handleClearFilter goes back to listing every card
func (m Model) handleClearFilter() (tea.Model, tea.Cmd) {
	if m.ListState.Filter().IsEmpty() {
		return m, nil
	}
	cmd := m.watchFilter(models.CardFilter{})
	m.NotificationState.Add(state.LevelInfo, "Filter cleared")
	return m, cmd
}

// ============================================================================
// CONFIRMATIONS
// ============================================================================

// handleDeleteConfirm deletes PendingDelete on y and cancels on n or esc
func (m Model) handleDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		ids := m.PendingDelete
		m.PendingDelete = nil
		m.UIState.SetMode(state.NormalMode)

		cards := m.Cards
		ctx, cancel := m.opContext()
		return m, func() tea.Msg {
			defer cancel()
			n, err := cards.DeleteCards(ctx, ids)
			return CardsDeletedMsg{IDs: ids, Count: n, Err: err}
		}
	case "n", "N", "esc":
		m.PendingDelete = nil
		m.UIState.SetMode(state.NormalMode)
	}
	return m, nil
}

// handleCardsDeleted reports a finished delete and clears the marks it covered
func (m Model) handleCardsDeleted(msg CardsDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Logger.Error("failed to delete cards", "ids", msg.IDs, "error", msg.Err)
		m.NotificationState.Add(state.LevelError, "Error deleting cards: "+msg.Err.Error())
		return m, nil
	}
	m.NotificationState.Add(state.LevelSuccess, fmt.Sprintf("Deleted %d card(s)", msg.Count))
	m.ListState.ClearMarks()
	return m, nil
}

// handleDiscardConfirm drops the edited draft on y and returns to the form otherwise
func (m Model) handleDiscardConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.FormState.ClearCard()
		m.UIState.SetMode(state.NormalMode)
	case "n", "N", "esc":
		m.UIState.SetMode(state.CardFormMode)
	}
	return m, nil
}
