// Package components provides reusable UI components and styles.
// Call InitStyles() after theme.Init to pick up configured colors.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bbct/bbct/internal/tui/theme"
)

// These are cached to avoid recomputing on every redraw.
var (
	// TitleStyle renders the header above the card list
	TitleStyle lipgloss.Style

	// HeaderStyle renders the table column headers
	HeaderStyle lipgloss.Style

	// CellStyle renders an ordinary table cell
	CellStyle lipgloss.Style

	// SelectedCellStyle renders the row under the cursor
	SelectedCellStyle lipgloss.Style

	// MarkedCellStyle renders rows marked for deletion
	MarkedCellStyle lipgloss.Style

	// SubtleStyle renders hints and empty states
	SubtleStyle lipgloss.Style

	// FormBoxStyle frames the details and filter forms
	FormBoxStyle lipgloss.Style

	// DetailBoxStyle frames the selected card's details
	DetailBoxStyle lipgloss.Style

	// DeleteConfirmBoxStyle frames deletion confirmations (red border)
	DeleteConfirmBoxStyle lipgloss.Style

	// HelpBoxStyle frames the help screen
	HelpBoxStyle lipgloss.Style
)

func init() {
	InitStyles()
}

// InitStyles initializes all style variables from the theme colors
func InitStyles() {
	TitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Title)).
		Bold(true)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Accent)).
		Bold(true).
		Padding(0, 1)

	CellStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Normal)).
		Padding(0, 1)

	SelectedCellStyle = CellStyle.
		Background(lipgloss.Color(theme.SelectedBg)).
		Bold(true)

	MarkedCellStyle = CellStyle.
		Foreground(lipgloss.Color(theme.Marked))

	SubtleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Subtle))

	FormBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2)

	DetailBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Border)).
		Padding(0, 1)

	DeleteConfirmBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Delete)).
		Padding(1, 2)

	HelpBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Edit)).
		Padding(1, 2)
}
