package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/bbct/bbct/internal/models"
	cardservice "github.com/bbct/bbct/internal/services/card"
	"github.com/bbct/bbct/internal/tui/huhforms"
	"github.com/bbct/bbct/internal/tui/state"
)

// ============================================================================
// CARD DETAILS FORM
// ============================================================================

// openCardForm binds a new details form to draft and switches to CardFormMode
func (m Model) openCardForm(draft models.CardDraft) (tea.Model, tea.Cmd) {
	fields := huhforms.NewCardFields(draft)
	form := m.styleForm(huhforms.CreateCardForm(fields, m.formOptions(), draft.IsNew()))

	m.FormState.OpenCard(form, fields, draft)
	m.UIState.SetMode(state.CardFormMode)
	return m, form.Init()
}

// updateCardForm handles all messages when in CardFormMode
func (m Model) updateCardForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.FormState.Saving {
			return m, nil
		}
		switch keyMsg.String() {
		case "esc":
			if m.FormState.HasCardChanges() {
				m.UIState.SetMode(state.DiscardConfirmMode)
				return m, nil
			}
			m.FormState.ClearCard()
			m.UIState.SetMode(state.NormalMode)
			return m, nil
		case m.Config.KeyMappings.SaveForm:
			return m.saveCardForm()
		}
	}

	model, cmd := m.FormState.CardForm.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		m.FormState.CardForm = form
	}

	switch m.FormState.CardForm.State {
	case huh.StateCompleted:
		if m.FormState.Saving {
			return m, cmd
		}
		return m.saveCardForm()
	case huh.StateAborted:
		m.FormState.ClearCard()
		m.UIState.SetMode(state.NormalMode)
		return m, nil
	}
	return m, cmd
}

// saveCardForm starts saving the draft. The form stays open until the
// result arrives as a CardSavedMsg.
func (m Model) saveCardForm() (tea.Model, tea.Cmd) {
	draft := m.FormState.Draft()
	m.FormState.Saving = true

	cards := m.Cards
	ctx, cancel := m.opContext()
	return m, func() tea.Msg {
		defer cancel()
		card, err := cards.SaveDraft(ctx, draft)
		return CardSavedMsg{Draft: draft, Card: card, Err: err}
	}
}

// handleCardSaved closes the form on success. On failure the form stays
// open with the user's input so it can be corrected.
func (m Model) handleCardSaved(msg CardSavedMsg) (tea.Model, tea.Cmd) {
	if m.FormState.CardFields == nil || !m.FormState.Saving {
		return m, nil
	}
	m.FormState.Saving = false

	if msg.Err != nil {
		m.Logger.Warn("failed to save card", "id", msg.Draft.ID, "error", msg.Err)
		m.NotificationState.Clear()
		m.NotificationState.Add(state.LevelError, saveErrorText(msg.Err))

		if m.FormState.CardForm.State != huh.StateNormal {
			// the form finished; rebuild it over the same fields
			form := m.styleForm(huhforms.CreateCardForm(m.FormState.CardFields, m.formOptions(), msg.Draft.IsNew()))
			m.FormState.CardForm = form
			return m, form.Init()
		}
		return m, nil
	}

	verb := "Updated"
	if msg.Draft.IsNew() {
		verb = "Added"
	}
	m.NotificationState.Clear()
	m.NotificationState.Add(state.LevelSuccess, fmt.Sprintf("%s card %d", verb, msg.Card.ID))
	m.FormState.ClearCard()
	m.UIState.SetMode(state.NormalMode)
	return m, nil
}

func saveErrorText(err error) string {
	switch {
	case cardservice.IsValidationError(err):
		return "Invalid card: " + err.Error()
	case errors.Is(err, models.ErrNotFound):
		return "Card no longer exists"
	default:
		return "Error saving card: " + err.Error()
	}
}

// ============================================================================
// FILTER FORM
// ============================================================================

// handleOpenFilter opens the filter form on the current filter
func (m Model) handleOpenFilter() (tea.Model, tea.Cmd) {
	fields := huhforms.NewFilterFields(m.ListState.Filter())
	form := m.styleForm(huhforms.CreateFilterForm(fields, m.formOptions()))

	m.FormState.OpenFilter(form, fields)
	m.UIState.SetMode(state.FilterFormMode)
	return m, form.Init()
}

// updateFilterForm handles all messages when in FilterFormMode
func (m Model) updateFilterForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.FormState.ClearFilter()
			m.UIState.SetMode(state.NormalMode)
			return m, nil
		case m.Config.KeyMappings.SaveForm:
			return m.applyFilterForm()
		}
	}

	model, cmd := m.FormState.FilterForm.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		m.FormState.FilterForm = form
	}

	switch m.FormState.FilterForm.State {
	case huh.StateCompleted:
		return m.applyFilterForm()
	case huh.StateAborted:
		m.FormState.ClearFilter()
		m.UIState.SetMode(state.NormalMode)
		return m, nil
	}
	return m, cmd
}

// applyFilterForm swaps the live card query for the edited filter
func (m Model) applyFilterForm() (tea.Model, tea.Cmd) {
	filter, err := m.FormState.FilterFields.Filter()
	if err != nil {
		m.NotificationState.Clear()
		m.NotificationState.Add(state.LevelError, err.Error())
		return m, nil
	}

	m.FormState.ClearFilter()
	m.UIState.SetMode(state.NormalMode)
	return m, m.watchFilter(filter)
}

func (m Model) styleForm(form *huh.Form) *huh.Form {
	form = form.WithTheme(m.huhTheme)
	if w := m.UIState.Width(); w > 0 {
		form = form.WithWidth(min(max(w-8, 20), 72))
	}
	return form
}
