package card

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bbct/bbct/internal/cli"
	"github.com/bbct/bbct/internal/cli/handler"
	cardservice "github.com/bbct/bbct/internal/services/card"
)

// AddCmd returns the card add subcommand
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a card to the collection",
		Long: `Add a card to the collection. Unset fields are left empty; quantity defaults to 1.
Surrounding spaces are trimmed from text values.

Examples:
  # Human-readable output
  bbct card add --player="Nolan Ryan" --brand=Topps --year=1991 --number=1 --value=10

  # JSON output for scripts
  bbct card add --player="Nolan Ryan" --brand=Topps --year=1991 --json

  # Quiet mode for bash capture
  CARD_ID=$(bbct card add --player="Nolan Ryan" --quiet)
`,
		Args: cobra.NoArgs,
		RunE: handler.Command(&addHandler{}, parseAddFlags),
	}

	addFieldFlags(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

// addHandler implements handler.Handler for card creation
type addHandler struct{ cardSuggester }

// Execute implements the Handler interface
func (h *addHandler) Execute(ctx context.Context, args *handler.Arguments) (any, error) {
	fields, err := changedFields(args.Parser())
	if err != nil {
		return nil, err
	}

	req := cardservice.CreateCardRequest{Quantity: 1}
	if fields.Autographed != nil {
		req.Autographed = *fields.Autographed
	}
	if fields.Condition != nil {
		req.Condition = *fields.Condition
	}
	if fields.Brand != nil {
		req.Brand = *fields.Brand
	}
	if fields.Year != nil {
		req.Year = *fields.Year
	}
	if fields.Number != nil {
		req.Number = *fields.Number
	}
	if fields.Value != nil {
		req.Value = *fields.Value
	}
	if fields.Quantity != nil {
		req.Quantity = *fields.Quantity
	}
	if fields.PlayerName != nil {
		req.PlayerName = *fields.PlayerName
	}
	if fields.Team != nil {
		req.Team = *fields.Team
	}
	if fields.Position != nil {
		req.Position = *fields.Position
	}

	return withCLI(ctx, func(svc cardservice.Service) (any, error) {
		c, err := svc.CreateCard(ctx, req)
		if err != nil {
			return nil, err
		}
		return cardResult{BaseballCard: c, action: "Created"}, nil
	})
}

func parseAddFlags(cmd *cobra.Command) error {
	p := handler.NewFlagParser(cmd)
	if !p.Changed("player") && !p.Changed("brand") {
		return cli.UsageError("at least --player or --brand is required")
	}
	return nil
}
