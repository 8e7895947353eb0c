package card

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bbct/bbct/internal/cli"
	"github.com/bbct/bbct/internal/cli/handler"
	cardservice "github.com/bbct/bbct/internal/services/card"
)

// UpdateCmd returns the card update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Change fields of an existing card",
		Long: `Change fields of an existing card. Only the flags given are changed.
Surrounding spaces are trimmed from text values.

Examples:
  bbct card update 3 --value=15.00 --condition="Near Mint"
  bbct card update --id=3 --autographed=false --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: handler.Command(&updateHandler{}, parseUpdateFlags),
	}

	cmd.Flags().Int64("id", 0, "Card ID (can also be provided as positional argument)")
	addFieldFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

// updateHandler implements handler.Handler for card updates
type updateHandler struct{ cardSuggester }

// Execute implements the Handler interface
func (h *updateHandler) Execute(ctx context.Context, args *handler.Arguments) (any, error) {
	p := args.Parser()
	id, err := p.CardID(args.Args)
	if err != nil {
		return nil, err
	}
	req, err := changedFields(p)
	if err != nil {
		return nil, err
	}
	req.ID = id

	return withCLI(ctx, func(svc cardservice.Service) (any, error) {
		c, err := svc.UpdateCard(ctx, req)
		if err != nil {
			return nil, err
		}
		return cardResult{BaseballCard: c, action: "Updated"}, nil
	})
}

var fieldFlags = []string{"autographed", "condition", "brand", "year", "number", "value", "quantity", "player", "team", "position"}

func parseUpdateFlags(cmd *cobra.Command) error {
	p := handler.NewFlagParser(cmd)
	for _, name := range fieldFlags {
		if p.Changed(name) {
			return nil
		}
	}
	return cli.UsageError("nothing to update: pass at least one field flag")
}
