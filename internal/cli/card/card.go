// Package card holds all cli commands related to baseball cards
// e.g., bbct card ...
package card

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bbct/bbct/internal/cli"
	"github.com/bbct/bbct/internal/cli/handler"
	"github.com/bbct/bbct/internal/models"
	cardservice "github.com/bbct/bbct/internal/services/card"
)

// CardCmd returns the card parent command
func CardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage baseball cards",
	}

	cmd.AddCommand(AddCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(FilterCmd())

	return cmd
}

// addFieldFlags registers one flag per card field
func addFieldFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("autographed", false, "Card is autographed")
	cmd.Flags().String("condition", "", "Condition, e.g. \"Near Mint\"")
	cmd.Flags().String("brand", "", "Brand, e.g. Topps")
	cmd.Flags().Int("year", 0, "Year the card was printed")
	cmd.Flags().String("number", "", "Card number within its set")
	cmd.Flags().String("value", "", "Estimated value in dollars, e.g. 12.50")
	cmd.Flags().Int("quantity", 0, "Number of copies owned")
	cmd.Flags().String("player", "", "Player name")
	cmd.Flags().String("team", "", "Team")
	cmd.Flags().String("position", "", "Fielding position")
}

// addFilterFlags registers the predicates accepted by list and filter
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("brand", "", "Brand pattern (SQL LIKE: % and _ are wildcards)")
	cmd.Flags().Int("year", 0, "Exact year")
	cmd.Flags().String("number", "", "Card number pattern")
	cmd.Flags().String("player", "", "Player name pattern")
	cmd.Flags().String("team", "", "Team pattern")
	cmd.Flags().Bool("contains", false, "Match text fields anywhere instead of exactly")
}

// changedFields reads the field flags that were set into an update request
func changedFields(p *handler.FlagParser) (cardservice.UpdateCardRequest, error) {
	var req cardservice.UpdateCardRequest

	if v, ok, err := p.Bool("autographed"); err != nil {
		return req, err
	} else if ok {
		req.Autographed = &v
	}
	if v, ok, err := p.Int("year"); err != nil {
		return req, err
	} else if ok {
		req.Year = &v
	}
	if v, ok, err := p.Int("quantity"); err != nil {
		return req, err
	} else if ok {
		req.Quantity = &v
	}
	if v, ok, err := p.Cents("value"); err != nil {
		return req, err
	} else if ok {
		req.Value = &v
	}

	text := []struct {
		flag string
		dst  **string
	}{
		{"condition", &req.Condition},
		{"brand", &req.Brand},
		{"number", &req.Number},
		{"player", &req.PlayerName},
		{"team", &req.Team},
		{"position", &req.Position},
	}
	for _, t := range text {
		v, ok, err := p.String(t.flag)
		if err != nil {
			return req, err
		}
		if ok {
			*t.dst = &v
		}
	}

	return req, nil
}

// withCLI runs fn against the card service of a CLI instance
func withCLI(ctx context.Context, fn func(cardservice.Service) (any, error)) (any, error) {
	cliInstance, err := cli.NewCLI(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()
	return fn(cliInstance.App.CardService)
}

// cardSuggester points not-found and validation failures at the right command
type cardSuggester struct{}

func (cardSuggester) Suggest(err error) string {
	switch {
	case cli.ErrorCode(err) == "CARD_NOT_FOUND":
		return "Use 'bbct card list' to see the cards in the collection"
	case cardservice.IsValidationError(err):
		return "Use 'bbct card add --help' to see accepted values"
	}
	return ""
}

// cardResult is a single card returned by add, update and show
type cardResult struct {
	models.BaseballCard
	action string
}

// RenderHuman prints a one-line summary of the card
func (r cardResult) RenderHuman(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s card %d: %s\n", r.action, r.ID, describe(r.BaseballCard))
	return err
}

// describe renders "Player Year Brand #Number", skipping empty parts
func describe(c models.BaseballCard) string {
	s := c.PlayerName
	if s == "" {
		s = "(unnamed)"
	}
	if c.Year != 0 {
		s += fmt.Sprintf(" %d", c.Year)
	}
	if c.Brand != "" {
		s += " " + c.Brand
	}
	if c.Number != "" {
		s += " #" + c.Number
	}
	return s
}
