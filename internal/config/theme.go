package config

// Theme defines all configurable color values
type Theme struct {
	// Preset name ("default", "monochrome")
	Preset string `yaml:"preset"`

	Accent string `yaml:"accent"`

	// Semantic colors
	Create string `yaml:"create"`
	Edit   string `yaml:"edit"`
	Delete string `yaml:"delete"`

	Border     string `yaml:"border"`
	SelectedBg string `yaml:"selected_bg"`
	Marked     string `yaml:"marked"`

	// Text colors
	Title  string `yaml:"title"`
	Subtle string `yaml:"subtle"`
	Normal string `yaml:"normal"`

	InfoFg  string `yaml:"info_fg"`
	ErrorFg string `yaml:"error_fg"`
}

// DefaultTheme is the purple theme
func DefaultTheme() Theme {
	return Theme{
		Preset:     "default",
		Accent:     "#874BFD",
		Create:     "#5FD75F",
		Edit:       "#5F87D7",
		Delete:     "#FF0000",
		Border:     "#585858",
		SelectedBg: "#3A3A3A",
		Marked:     "#FFD700",
		Title:      "#D75FD7",
		Subtle:     "#585858",
		Normal:     "#D0D0D0",
		InfoFg:     "#00AFFF",
		ErrorFg:    "#FF0000",
	}
}

// MonochromeTheme is black and white
func MonochromeTheme() Theme {
	return Theme{
		Preset:     "monochrome",
		Accent:     "#FFFFFF",
		Create:     "#FFFFFF",
		Edit:       "#FFFFFF",
		Delete:     "#FFFFFF",
		Border:     "#585858",
		SelectedBg: "#3A3A3A",
		Marked:     "#FFFFFF",
		Title:      "#FFFFFF",
		Subtle:     "#585858",
		Normal:     "#D0D0D0",
		InfoFg:     "#FFFFFF",
		ErrorFg:    "#FFFFFF",
	}
}

// PresetTheme returns a preset by name, falling back to the default
func PresetTheme(name string) Theme {
	if name == "monochrome" {
		return MonochromeTheme()
	}
	return DefaultTheme()
}

// ApplyDefaults fills missing colors from the selected preset
func (t *Theme) ApplyDefaults() {
	preset := PresetTheme(t.Preset)
	if t.Preset == "" {
		t.Preset = preset.Preset
	}
	t.each(preset, func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	})
}

// MergeFrom copies every non-empty color of other into t
func (t *Theme) MergeFrom(other Theme) {
	if other.Preset != "" {
		t.Preset = other.Preset
	}
	t.each(other, func(field *string, v string) {
		if v != "" {
			*field = v
		}
	})
}

func (t *Theme) each(other Theme, fn func(field *string, v string)) {
	fn(&t.Accent, other.Accent)
	fn(&t.Create, other.Create)
	fn(&t.Edit, other.Edit)
	fn(&t.Delete, other.Delete)
	fn(&t.Border, other.Border)
	fn(&t.SelectedBg, other.SelectedBg)
	fn(&t.Marked, other.Marked)
	fn(&t.Title, other.Title)
	fn(&t.Subtle, other.Subtle)
	fn(&t.Normal, other.Normal)
	fn(&t.InfoFg, other.InfoFg)
	fn(&t.ErrorFg, other.ErrorFg)
}
