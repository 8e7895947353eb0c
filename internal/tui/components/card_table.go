package components

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bbct/bbct/internal/cli"
	"github.com/bbct/bbct/internal/models"
	"github.com/bbct/bbct/internal/tui/theme"
)

// cardHeaders are the columns of the card list
var cardHeaders = []string{"", "Player", "Team", "Brand", "Year", "#", "Cond.", "Value", "Qty"}

type CardTableProps struct {
	// Cards are the visible rows; Start is the index of Cards[0] in the full list
	Cards  []models.BaseballCard
	Start  int
	Cursor int
	Marked func(id int64) bool
	Width  int
}

// RenderCardTable renders the visible cards, highlighting the cursor row
// and marked rows
func RenderCardTable(props CardTableProps) string {
	rows := make([][]string, 0, len(props.Cards))
	for _, c := range props.Cards {
		rows = append(rows, cardRow(c, props.Marked != nil && props.Marked(c.ID)))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Border))).
		Headers(cardHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			idx := props.Start + row
			switch {
			case idx == props.Cursor:
				return SelectedCellStyle
			case props.Marked != nil && row < len(props.Cards) && props.Marked(props.Cards[row].ID):
				return MarkedCellStyle
			default:
				return CellStyle
			}
		})
	if props.Width > 0 {
		t = t.Width(props.Width)
	}
	return t.String()
}

func cardRow(c models.BaseballCard, marked bool) []string {
	mark := " "
	if marked {
		mark = "●"
	}
	if c.Autographed {
		mark += "✎"
	}
	year := ""
	if c.Year != 0 {
		year = strconv.Itoa(c.Year)
	}
	return []string{
		mark,
		c.PlayerName,
		c.Team,
		c.Brand,
		year,
		c.Number,
		c.Condition,
		cli.FormatCents(c.Value),
		strconv.Itoa(c.Quantity),
	}
}
