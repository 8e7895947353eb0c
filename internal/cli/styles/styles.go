// Package styles holds the lipgloss styles used by human-readable CLI output
package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bbct/bbct/internal/cli"
	"github.com/bbct/bbct/internal/config"
	"github.com/bbct/bbct/internal/models"
)

var (
	// Card styles
	CardStyle lipgloss.Style
	CardWidth = 60

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // For field labels like "Team:", "Value:"
	ValueStyle    lipgloss.Style // For field values

	// Table styles
	HeaderStyle lipgloss.Style
	CellStyle   lipgloss.Style
	BorderStyle lipgloss.Style

	// Status styles
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	MarkedStyle  lipgloss.Style
)

func init() {
	Init(config.DefaultTheme())
}

// Init initializes all CLI styles with the given theme
func Init(theme config.Theme) {
	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(0, 1).
		Width(CardWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Subtle))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Accent))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Normal))

	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Accent)).
		Padding(0, 1)

	CellStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Normal)).
		Padding(0, 1)

	BorderStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Border))

	SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Create))

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.ErrorFg))

	MarkedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Marked))
}

// ═══════════════════════════════════════════════════════════════════
// HELPER FUNCTIONS
// ═══════════════════════════════════════════════════════════════════

// CardColumns are the table headers used when listing cards
var CardColumns = []string{"ID", "Player", "Brand", "Year", "#", "Team", "Position", "Cond.", "Value", "Qty", "Auto"}

// CardRow renders one card as table cells in CardColumns order
func CardRow(c models.BaseballCard) []string {
	auto := ""
	if c.Autographed {
		auto = "✓"
	}
	year := ""
	if c.Year != 0 {
		year = fmt.Sprintf("%d", c.Year)
	}
	return []string{
		fmt.Sprintf("%d", c.ID),
		c.PlayerName,
		c.Brand,
		year,
		c.Number,
		c.Team,
		c.Position,
		c.Condition,
		cli.FormatCents(c.Value),
		fmt.Sprintf("%d", c.Quantity),
		auto,
	}
}

// CardTable renders cards as a bordered table
func CardTable(cards []models.BaseballCard) string {
	rows := make([][]string, len(cards))
	for i, c := range cards {
		rows[i] = CardRow(c)
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(BorderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			return CellStyle
		}).
		Headers(CardColumns...).
		Rows(rows...).
		String()
}

// Field renders "Label: value" for detail views
func Field(label, value string) string {
	return LabelStyle.Render(label+":") + " " + ValueStyle.Render(value)
}

// ValueList renders distinct values one per line with a bullet
func ValueList(values []string) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteString(SubtitleStyle.Render("•") + " " + ValueStyle.Render(v) + "\n")
	}
	return b.String()
}

// RenderCard wraps content in a styled card border
func RenderCard(content string) string {
	return CardStyle.Render(content)
}
