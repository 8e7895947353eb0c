package theme

import "github.com/bbct/bbct/internal/config"

// Colors holds the current theme colors, initialized by Init
var (
	Accent     string
	Subtle     string
	Normal     string
	Title      string
	Create     string
	Edit       string
	Delete     string
	Border     string
	SelectedBg string
	Marked     string
	InfoFg     string
	ErrorFg    string
)

func init() {
	Init(config.DefaultTheme())
}

// Init initializes the theme colors from the given theme
func Init(t config.Theme) {
	Accent = t.Accent
	Subtle = t.Subtle
	Normal = t.Normal
	Title = t.Title
	Create = t.Create
	Edit = t.Edit
	Delete = t.Delete
	Border = t.Border
	SelectedBg = t.SelectedBg
	Marked = t.Marked
	InfoFg = t.InfoFg
	ErrorFg = t.ErrorFg
}
