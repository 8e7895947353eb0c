package components

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/bbct/bbct/internal/cli"
	"github.com/bbct/bbct/internal/models"
)

type CardDetailProps struct {
	Card  models.BaseballCard
	Width int
}

// Cache Glamour renderers by width to avoid expensive re-creation
var (
	rendererCache sync.Map // map[int]*glamour.TermRenderer
)

// getRenderer returns a cached renderer for the given width
func getRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	rendererCache.Store(width, renderer)
	return renderer, nil
}

// CardMarkdown describes a card as a markdown heading and field list
func CardMarkdown(c models.BaseballCard) string {
	var b strings.Builder

	name := c.PlayerName
	if name == "" {
		name = "Unnamed card"
	}
	fmt.Fprintf(&b, "## %s\n\n", name)
	if c.Autographed {
		b.WriteString("*Autographed*\n\n")
	}

	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "- **%s:** %s\n", label, value)
	}
	field("Team", c.Team)
	field("Position", c.Position)
	field("Brand", c.Brand)
	field("Year", yearText(c.Year))
	field("Number", c.Number)
	field("Condition", c.Condition)
	field("Value", cli.FormatCents(c.Value))
	field("Quantity", strconv.Itoa(c.Quantity))

	return b.String()
}

// RenderCardDetail renders the card with glamour, falling back to plain
// markdown when no renderer is available
func RenderCardDetail(props CardDetailProps) string {
	if props.Card.ID == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Render("No card selected")
	}

	md := CardMarkdown(props.Card)
	renderer, err := getRenderer(props.Width)
	if err == nil {
		rendered, err := renderer.Render(md)
		if err == nil {
			return strings.TrimSpace(rendered)
		}
	}
	return md
}

func yearText(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
