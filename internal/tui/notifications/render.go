package notifications

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bbct/bbct/internal/tui/state"
)

// RenderInline renders a compact one-line notification for the status area
func RenderInline(severity Severity, message string) string {
	style := severity.style()

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(style.foreground)).
		Bold(severity == Error).
		Render(style.icon + " " + message)
}

// RenderInlineFromState renders a compact inline notification from state
func RenderInlineFromState(n state.Notification) string {
	switch n.Level {
	case state.LevelSuccess:
		return RenderInline(Success, n.Message)
	case state.LevelError:
		return RenderInline(Error, n.Message)
	default:
		return RenderInline(Info, n.Message)
	}
}
