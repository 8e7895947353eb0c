package card

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/bbct/bbct/internal/cli"
	"github.com/bbct/bbct/internal/cli/handler"
	"github.com/bbct/bbct/internal/models"
	cardservice "github.com/bbct/bbct/internal/services/card"
)

// ShowCmd returns the card show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show card details",
		Long:  "Display every field of a card.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  handler.SimpleCommand(&showHandler{}),
	}

	cmd.Flags().Int64("id", 0, "Card ID (can also be provided as positional argument)")
	cli.AddOutputFlags(cmd)

	return cmd
}

// showHandler implements handler.Handler for card details
type showHandler struct{ cardSuggester }

// Execute implements the Handler interface
func (h *showHandler) Execute(ctx context.Context, args *handler.Arguments) (any, error) {
	id, err := args.Parser().CardID(args.Args)
	if err != nil {
		return nil, err
	}

	return withCLI(ctx, func(svc cardservice.Service) (any, error) {
		c, err := svc.GetCard(ctx, id)
		if err != nil {
			return nil, err
		}
		return cardDetail{c}, nil
	})
}

// cardDetail renders a card as markdown through glamour
type cardDetail struct {
	models.BaseballCard
}

// RenderHuman implements cli.HumanRenderer
func (d cardDetail) RenderHuman(w io.Writer) error {
	md := cardMarkdown(d.BaseballCard)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err == nil {
		if out, rerr := renderer.Render(md); rerr == nil {
			md = out
		}
	}
	_, err = io.WriteString(w, md)
	return err
}

// cardMarkdown describes every field of c as a markdown document
func cardMarkdown(c models.BaseballCard) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", describe(c))
	if c.Autographed {
		b.WriteString("*Autographed*\n\n")
	}

	b.WriteString("| Field | Value |\n|---|---|\n")
	rows := [][2]string{
		{"ID", fmt.Sprintf("%d", c.ID)},
		{"Player", c.PlayerName},
		{"Team", c.Team},
		{"Position", c.Position},
		{"Brand", c.Brand},
		{"Year", yearText(c.Year)},
		{"Number", c.Number},
		{"Condition", c.Condition},
		{"Value", cli.FormatCents(c.Value)},
		{"Quantity", fmt.Sprintf("%d", c.Quantity)},
	}
	for _, r := range rows {
		v := r[1]
		if v == "" {
			v = "-"
		}
		fmt.Fprintf(&b, "| %s | %s |\n", r[0], v)
	}
	return b.String()
}

func yearText(year int) string {
	if year == 0 {
		return ""
	}
	return fmt.Sprintf("%d", year)
}
