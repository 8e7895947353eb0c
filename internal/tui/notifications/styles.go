package notifications

import "github.com/bbct/bbct/internal/tui/theme"

type style struct {
	icon       string
	foreground string
}

func (s Severity) style() style {
	switch s {
	case Success:
		return style{icon: "✓", foreground: theme.Create}
	case Error:
		return style{icon: "✕", foreground: theme.ErrorFg}
	default:
		return style{icon: "•", foreground: theme.InfoFg}
	}
}
