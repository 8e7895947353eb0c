package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bbct/bbct/internal/tui/theme"
)

type StatusBarProps struct {
	Width int
	Mode  string
	Store string
	Info  string
}

// RenderStatusBar renders a status bar with left and right aligned text.
// Left side: mode, store name and info. Right side: "press ? for help".
func RenderStatusBar(props StatusBarProps) string {
	modeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(theme.Accent)).
		Bold(true).
		Padding(0, 1)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Subtle))

	left := modeStyle.Render(props.Mode) + style.Render(" "+props.Store)
	if props.Info != "" {
		left += style.Render(" · " + props.Info)
	}
	rightRendered := style.Render("press ? for help")

	// Calculate space between left and right text
	gapWidth := props.Width - lipgloss.Width(left) - lipgloss.Width(rightRendered)
	if gapWidth < 1 {
		gapWidth = 1
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", gapWidth), rightRendered)
}
