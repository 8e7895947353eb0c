package huhforms

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
)

// CreateKeyMap returns the default huh keymap with right arrow also
// accepting an input suggestion. Quit is left to the caller, which
// intercepts esc and the save key before the form sees them.
func CreateKeyMap() *huh.KeyMap {
	keymap := huh.NewDefaultKeyMap()

	keymap.Input.AcceptSuggestion = key.NewBinding(
		key.WithKeys("ctrl+e", "right"),
		key.WithHelp("→ / ctrl+e", "complete"),
	)
	keymap.Quit = key.NewBinding(key.WithKeys("ctrl+c"))

	return keymap
}
