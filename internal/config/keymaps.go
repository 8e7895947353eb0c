package config

// KeyMappings defines all configurable key bindings
type KeyMappings struct {
	// Cards
	AddCard    string `yaml:"add_card"`
	EditCard   string `yaml:"edit_card"`
	DeleteCard string `yaml:"delete_card"`
	ToggleMark string `yaml:"toggle_mark"`
	ClearMarks string `yaml:"clear_marks"`

	// Filtering
	Filter      string `yaml:"filter"`
	ClearFilter string `yaml:"clear_filter"`

	// Forms
	SaveForm string `yaml:"save_form"`

	// Navigation
	PrevCard string `yaml:"prev_card"`
	NextCard string `yaml:"next_card"`

	// Other
	ShowHelp string `yaml:"show_help"`
	Quit     string `yaml:"quit"`
}

// DefaultKeyMappings returns the default key mappings
func DefaultKeyMappings() KeyMappings {
	return KeyMappings{
		AddCard:    "a",
		EditCard:   "enter",
		DeleteCard: "d",
		ToggleMark: " ",
		ClearMarks: "esc",

		Filter:      "/",
		ClearFilter: "c",

		SaveForm: "ctrl+s",

		PrevCard: "k",
		NextCard: "j",

		ShowHelp: "?",
		Quit:     "q",
	}
}

// applyDefaults fills in missing key mappings with defaults
func (k *KeyMappings) applyDefaults() {
	defaults := DefaultKeyMappings()

	fill := func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	}

	fill(&k.AddCard, defaults.AddCard)
	fill(&k.EditCard, defaults.EditCard)
	fill(&k.DeleteCard, defaults.DeleteCard)
	fill(&k.ToggleMark, defaults.ToggleMark)
	fill(&k.ClearMarks, defaults.ClearMarks)
	fill(&k.Filter, defaults.Filter)
	fill(&k.ClearFilter, defaults.ClearFilter)
	fill(&k.SaveForm, defaults.SaveForm)
	fill(&k.PrevCard, defaults.PrevCard)
	fill(&k.NextCard, defaults.NextCard)
	fill(&k.ShowHelp, defaults.ShowHelp)
	fill(&k.Quit, defaults.Quit)
}
