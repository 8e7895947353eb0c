package card

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bbct/bbct/internal/cli"
	"github.com/bbct/bbct/internal/cli/handler"
	"github.com/bbct/bbct/internal/cli/styles"
	"github.com/bbct/bbct/internal/models"
	cardservice "github.com/bbct/bbct/internal/services/card"
)

// ListCmd returns the card list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List cards",
		Long: `List every card, optionally narrowed by filter flags.

Examples:
  bbct card list
  bbct card list --brand=Topps --year=1991
  bbct card list --watch
`,
		Args: cobra.NoArgs,
		RunE: handler.SimpleCommand(&listHandler{}),
	}

	addFilterFlags(cmd)
	cmd.Flags().Bool("watch", false, "Keep running and print the list again after every change")
	cli.AddOutputFlags(cmd)

	return cmd
}

// FilterCmd returns the card filter subcommand, a list that requires a predicate
func FilterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Find cards matching field patterns",
		Long: `Find cards matching field patterns. Text patterns use SQL LIKE syntax:
% matches any run of characters and _ matches one. Matching ignores ASCII case.
Patterns are used exactly as given; surrounding spaces are not trimmed.

Examples:
  bbct card filter --player="Nolan%"
  bbct card filter --team=ank --contains
  bbct card filter --year=1991 --json
`,
		Args: cobra.NoArgs,
		RunE: handler.Command(&listHandler{}, parseFilterFlags),
	}

	addFilterFlags(cmd)
	cmd.Flags().Bool("watch", false, "Keep running and print the results again after every change")
	cli.AddOutputFlags(cmd)

	return cmd
}

func parseFilterFlags(cmd *cobra.Command) error {
	filter, err := handler.NewFlagParser(cmd).Filter()
	if err != nil {
		return err
	}
	if filter.IsEmpty() {
		return cli.UsageError("at least one of --brand, --year, --number, --player or --team is required")
	}
	return nil
}

// listHandler implements handler.Handler for list and filter
type listHandler struct{ cardSuggester }

// Execute implements the Handler interface
func (h *listHandler) Execute(ctx context.Context, args *handler.Arguments) (any, error) {
	filter, err := args.Parser().Filter()
	if err != nil {
		return nil, err
	}

	return withCLI(ctx, func(svc cardservice.Service) (any, error) {
		if args.GetBool("watch") {
			return nil, watchCards(ctx, svc, filter, cli.FormatterFor(args.GetCmd()))
		}
		cards, err := svc.FindCards(ctx, filter)
		if err != nil {
			return nil, err
		}
		return cardList(cards), nil
	})
}

// watchCards prints a fresh list for every snapshot until ctx is done
func watchCards(ctx context.Context, svc cardservice.Service, filter models.CardFilter, f *cli.OutputFormatter) error {
	sub, err := svc.WatchCards(ctx, filter)
	if err != nil {
		return err
	}
	defer sub.Close()

	enc := json.NewEncoder(f.Out)
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-sub.Updates():
			if !ok {
				return nil
			}
			if snap.Err != nil {
				return snap.Err
			}
			if f.JSON {
				if err := enc.Encode(map[string]any{"seq": snap.Seq, "cards": cardList(snap.Value)}); err != nil {
					return err
				}
				continue
			}
			if err := f.Success(cardList(snap.Value)); err != nil {
				return err
			}
		}
	}
}

// cardList is the result of list and filter
type cardList []models.BaseballCard

// IDs implements quiet output
func (l cardList) IDs() []int64 {
	return models.CardIDs(l)
}

// MarshalJSON keeps an empty list as [] rather than null
func (l cardList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]models.BaseballCard(l))
}

// RenderHuman prints the cards as a table
func (l cardList) RenderHuman(w io.Writer) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, "No cards found")
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", styles.CardTable(l), styles.SubtitleStyle.Render(fmt.Sprintf("%d card(s)", len(l))))
	return err
}
