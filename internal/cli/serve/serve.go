// Package serve exposes the card store over HTTP
package serve

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bbct/bbct/internal/api"
	"github.com/bbct/bbct/internal/cli"
	"github.com/bbct/bbct/internal/logging"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the card collection over HTTP",
		Long: `Serve the REST API under /v1 and a websocket feed of live card and
value lists at /v1/ws. Runs until interrupted.`,
		Example: `  bbct serve
  bbct serve --addr :9000 --origin http://localhost:5173`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default from config)")
	cmd.Flags().StringSlice("origin", nil, "Allowed CORS origin (repeatable)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cliCtx, err := cli.NewCLI(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cliCtx.Close() }()

	cfg := cliCtx.App.Config
	addr := cfg.HTTPAddr
	if a, _ := cmd.Flags().GetString("addr"); a != "" {
		addr = a
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cli.UsageError("%v", err)
	}
	opts := []api.HandlerOption{api.WithLogger(logging.New(cmd.ErrOrStderr(), level))}
	if origins, _ := cmd.Flags().GetStringSlice("origin"); len(origins) > 0 {
		opts = append(opts, api.WithAllowedOrigins(origins...))
	}

	server := api.NewServer(api.NewHandler(cliCtx.App.CardService, opts...), addr)
	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
