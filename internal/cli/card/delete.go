package card

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bbct/bbct/internal/cli"
	"github.com/bbct/bbct/internal/cli/handler"
	cardservice "github.com/bbct/bbct/internal/services/card"
)

// DeleteCmd returns the card delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id...]",
		Short: "Delete cards",
		Long: `Delete one or more cards. Identifiers that do not exist are ignored.

Examples:
  bbct card delete 3
  bbct card delete 3 4 5 --json
  bbct card delete --id=3,4
`,
		RunE: handler.SimpleCommand(&deleteHandler{}),
	}

	cmd.Flags().Int64Slice("id", nil, "Card IDs (can also be provided as positional arguments)")
	cli.AddOutputFlags(cmd)

	return cmd
}

// deleteHandler implements handler.Handler for card deletion
type deleteHandler struct{ cardSuggester }

// Execute implements the Handler interface
func (h *deleteHandler) Execute(ctx context.Context, args *handler.Arguments) (any, error) {
	ids, err := args.Parser().CardIDs(args.Args)
	if err != nil {
		return nil, err
	}

	return withCLI(ctx, func(svc cardservice.Service) (any, error) {
		n, err := svc.DeleteCards(ctx, ids)
		if err != nil {
			return nil, err
		}
		return deleteResult{Deleted: n, Requested: ids}, nil
	})
}

// deleteResult reports how many of the requested cards existed
type deleteResult struct {
	Deleted   int     `json:"deleted"`
	Requested []int64 `json:"requested"`
}

// IDs implements quiet output
func (r deleteResult) IDs() []int64 {
	return r.Requested
}

// RenderHuman prints the number of removed cards
func (r deleteResult) RenderHuman(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Deleted %d of %d card(s)\n", r.Deleted, len(r.Requested))
	return err
}
