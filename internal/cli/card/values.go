package card

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/bbct/bbct/internal/cli"
	"github.com/bbct/bbct/internal/cli/handler"
	"github.com/bbct/bbct/internal/store"
	cardservice "github.com/bbct/bbct/internal/services/card"
)

// BrandsCmd returns the brands command
func BrandsCmd() *cobra.Command {
	return valuesCmd("brands", "List the distinct brands in the collection",
		cardservice.Service.Brands, cardservice.Service.WatchBrands)
}

// PlayersCmd returns the players command
func PlayersCmd() *cobra.Command {
	return valuesCmd("players", "List the distinct player names in the collection",
		cardservice.Service.PlayerNames, cardservice.Service.WatchPlayerNames)
}

// TeamsCmd returns the teams command
func TeamsCmd() *cobra.Command {
	return valuesCmd("teams", "List the distinct teams in the collection",
		cardservice.Service.Teams, cardservice.Service.WatchTeams)
}

type (
	loadValues  func(cardservice.Service, context.Context) ([]string, error)
	watchValues func(cardservice.Service, context.Context) (*store.Subscription[[]string], error)
)

func valuesCmd(use, short string, load loadValues, watch watchValues) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + ", sorted, without empty values.",
		Args:  cobra.NoArgs,
		RunE:  handler.SimpleCommand(&valuesHandler{load: load, watch: watch}),
	}

	cmd.Flags().Bool("watch", false, "Keep running and print the values again after every change")
	cli.AddOutputFlags(cmd)

	return cmd
}

// valuesHandler implements handler.Handler for the distinct value commands
type valuesHandler struct {
	load  loadValues
	watch watchValues
}

// Execute implements the Handler interface
func (h *valuesHandler) Execute(ctx context.Context, args *handler.Arguments) (any, error) {
	return withCLI(ctx, func(svc cardservice.Service) (any, error) {
		if !args.GetBool("watch") {
			values, err := h.load(svc, ctx)
			if err != nil {
				return nil, err
			}
			if values == nil {
				values = []string{}
			}
			return values, nil
		}

		sub, err := h.watch(svc, ctx)
		if err != nil {
			return nil, err
		}
		defer sub.Close()

		f := cli.FormatterFor(args.GetCmd())
		enc := json.NewEncoder(f.Out)
		for {
			select {
			case <-ctx.Done():
				return nil, nil
			case snap, ok := <-sub.Updates():
				if !ok {
					return nil, nil
				}
				if snap.Err != nil {
					return nil, snap.Err
				}
				if f.JSON {
					err = enc.Encode(map[string]any{"seq": snap.Seq, "values": snap.Value})
				} else {
					err = f.Success(snap.Value)
				}
				if err != nil {
					return nil, err
				}
			}
		}
	})
}
