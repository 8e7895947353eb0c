package state

// Mode represents the current interaction mode of the TUI.
// Each mode determines which keyboard shortcuts are active and what UI is displayed.
type Mode int

const (
	NormalMode         Mode = iota // Navigating the card list
	CardFormMode                   // Details form bound to a draft
	FilterFormMode                 // Editing the list filter
	DeleteConfirmMode              // Confirming deletion of marked cards
	DiscardConfirmMode             // Confirming discard of an edited draft
	HelpMode                       // Displaying help screen
)

// String returns a short label for the status bar
func (m Mode) String() string {
	switch m {
	case CardFormMode:
		return "EDIT"
	case FilterFormMode:
		return "FILTER"
	case DeleteConfirmMode:
		return "DELETE"
	case DiscardConfirmMode:
		return "DISCARD"
	case HelpMode:
		return "HELP"
	default:
		return "NORMAL"
	}
}

// UIState manages the terminal dimensions and the current interaction mode.
type UIState struct {
	width  int
	height int
	mode   Mode
}

// NewUIState creates a UIState in NormalMode.
func NewUIState() *UIState {
	return &UIState{mode: NormalMode}
}

func (s *UIState) Mode() Mode {
	return s.mode
}

func (s *UIState) SetMode(mode Mode) {
	s.mode = mode
}

func (s *UIState) Width() int {
	return s.width
}

func (s *UIState) Height() int {
	return s.height
}

// SetWindowSize records the terminal size. Negative values are stored as zero.
func (s *UIState) SetWindowSize(width, height int) {
	s.width = max(width, 0)
	s.height = max(height, 0)
}
