package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bbct/bbct/internal/models"
	"github.com/bbct/bbct/internal/tui/components"
	"github.com/bbct/bbct/internal/tui/notifications"
	"github.com/bbct/bbct/internal/tui/state"
)

// chromeLines are the header, notification and status bar lines
const chromeLines = 3

// View renders the current state of the application
// This implements the "View" part of the Model-View-Update pattern
func (m Model) View() string {
	if m.UIState.Width() == 0 {
		return "Loading..."
	}

	bodyHeight := max(m.UIState.Height()-chromeLines, 1)

	var body string
	switch m.UIState.Mode() {
	case state.CardFormMode:
		body = m.centered(m.viewForm(m.FormState.CardForm.View()), bodyHeight)
	case state.FilterFormMode:
		body = m.centered(m.viewForm(m.FormState.FilterForm.View()), bodyHeight)
	case state.DeleteConfirmMode:
		body = m.centered(m.viewDeleteConfirm(), bodyHeight)
	case state.DiscardConfirmMode:
		body = m.centered(m.viewDiscardConfirm(), bodyHeight)
	case state.HelpMode:
		body = m.centered(m.viewHelp(), bodyHeight)
	default:
		body = m.viewList(bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body),
		m.viewNotifications(),
		components.RenderStatusBar(components.StatusBarProps{
			Width: m.UIState.Width(),
			Mode:  m.UIState.Mode().String(),
			Store: m.StoreName,
			Info:  m.statusInfo(),
		}),
	)
}

func (m Model) viewHeader() string {
	title := components.TitleStyle.Render("Baseball Cards")
	filter := components.SubtleStyle.Render("  " + describeFilter(m.ListState.Filter()))
	return title + filter
}

// viewList renders the card table with the selected card's details beside it
func (m Model) viewList(height int) string {
	if m.ListState.Len() == 0 {
		hint := fmt.Sprintf("No cards. Press %s to add one.", keyLabel(m.Config.KeyMappings.AddCard))
		if !m.ListState.Filter().IsEmpty() {
			hint = fmt.Sprintf("No cards match. Press %s to clear the filter.", keyLabel(m.Config.KeyMappings.ClearFilter))
		}
		return components.SubtleStyle.Render(hint)
	}

	tableWidth := m.UIState.Width()
	showDetail := tableWidth-components.DetailWidth >= components.MinTableWidth
	if showDetail {
		tableWidth -= components.DetailWidth
	}

	start, visible := m.ListState.Window(components.TableRows(height))
	table := components.RenderCardTable(components.CardTableProps{
		Cards:  visible,
		Start:  start,
		Cursor: m.ListState.Cursor(),
		Marked: m.ListState.IsMarked,
		Width:  tableWidth,
	})
	if !showDetail {
		return table
	}

	selected, _ := m.ListState.Selected()
	detail := components.DetailBoxStyle.
		Width(components.DetailWidth - 2).
		Render(components.RenderCardDetail(components.CardDetailProps{
			Card:  selected,
			Width: components.DetailWidth - 4,
		}))
	return lipgloss.JoinHorizontal(lipgloss.Top, table, detail)
}

func (m Model) viewForm(form string) string {
	footer := components.SubtleStyle.Render(
		strings.Replace(components.FormFooter, "ctrl+s", keyLabel(m.Config.KeyMappings.SaveForm), 1))
	return components.FormBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, form, "", footer))
}

func (m Model) viewDeleteConfirm() string {
	n := len(m.PendingDelete)
	question := "Delete this card?"
	if n == 1 {
		if c, ok := m.ListState.Selected(); ok && c.ID == m.PendingDelete[0] {
			question = fmt.Sprintf("Delete %s?", describeCard(c))
		}
	} else {
		question = fmt.Sprintf("Delete %d cards?", n)
	}
	return components.DeleteConfirmBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		question, "", components.SubtleStyle.Render(components.ConfirmFooter)))
}

func (m Model) viewDiscardConfirm() string {
	return components.DeleteConfirmBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		"Discard changes to this card?", "", components.SubtleStyle.Render(components.ConfirmFooter)))
}

func (m Model) viewHelp() string {
	km := m.Config.KeyMappings
	rows := [][2]string{
		{keyLabel(km.NextCard) + " / " + keyLabel(km.PrevCard), "move down / up"},
		{"g / G", "first / last card"},
		{keyLabel(km.AddCard), "add a card"},
		{keyLabel(km.EditCard), "edit the selected card"},
		{keyLabel(km.ToggleMark), "mark card"},
		{keyLabel(km.ClearMarks), "clear marks"},
		{keyLabel(km.DeleteCard), "delete marked or selected cards"},
		{keyLabel(km.Filter), "filter cards"},
		{keyLabel(km.ClearFilter), "clear filter"},
		{keyLabel(km.SaveForm), "save form"},
		{keyLabel(km.Quit), "quit"},
	}

	keyStyle := components.HeaderStyle.Width(16)
	lines := []string{components.TitleStyle.Render("Keys"), ""}
	for _, r := range rows {
		lines = append(lines, keyStyle.Render(r[0])+r[1])
	}
	lines = append(lines, "", components.SubtleStyle.Render("press any key to close"))
	return components.HelpBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) viewNotifications() string {
	var parts []string
	for _, n := range m.NotificationState.All() {
		parts = append(parts, notifications.RenderInlineFromState(n))
	}
	return strings.Join(parts, "  ")
}

func (m Model) statusInfo() string {
	info := fmt.Sprintf("%d card(s)", m.ListState.Len())
	if n := m.ListState.MarkedCount(); n > 0 {
		info += fmt.Sprintf(", %d marked", n)
	}
	return info
}

func (m Model) centered(content string, height int) string {
	return lipgloss.Place(m.UIState.Width(), height, lipgloss.Center, lipgloss.Center, content)
}

// describeFilter summarizes the active filter for the header
func describeFilter(f models.CardFilter) string {
	if f.IsEmpty() {
		return "all cards"
	}
	var parts []string
	add := func(name string, v *string) {
		if v != nil {
			parts = append(parts, name+"="+*v)
		}
	}
	add("brand", f.Brand)
	if f.Year != nil {
		parts = append(parts, "year="+strconv.Itoa(*f.Year))
	}
	add("number", f.Number)
	add("player", f.PlayerName)
	add("team", f.Team)
	return strings.Join(parts, " ")
}

// describeCard renders "Player Year Brand #Number", skipping empty parts
func describeCard(c models.BaseballCard) string {
	var parts []string
	if c.PlayerName != "" {
		parts = append(parts, c.PlayerName)
	}
	if c.Year != 0 {
		parts = append(parts, strconv.Itoa(c.Year))
	}
	if c.Brand != "" {
		parts = append(parts, c.Brand)
	}
	if c.Number != "" {
		parts = append(parts, "#"+c.Number)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("card %d", c.ID)
	}
	return strings.Join(parts, " ")
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
