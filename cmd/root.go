// Package cmd assembles the bbct command tree
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bbct/bbct/internal/cli/card"
	"github.com/bbct/bbct/internal/cli/daemon"
	"github.com/bbct/bbct/internal/cli/guide"
	"github.com/bbct/bbct/internal/cli/serve"
	"github.com/bbct/bbct/internal/cli/use"
	"github.com/bbct/bbct/internal/launcher"
)

// Version is set at build time with -ldflags "-X github.com/bbct/bbct/cmd.Version=..."
var Version = "dev"

// NewRootCmd builds the bbct command tree. Without a subcommand it opens the TUI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bbct",
		Short: "bbct - a baseball card collection tracker",
		Long: `bbct keeps a baseball card collection in a local SQLite database.
Run it without arguments for the interactive TUI, or use the subcommands
from scripts.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// the flag wins over BBCT_DATABASE for this process
			if name, _ := cmd.Flags().GetString("database"); name != "" {
				return os.Setenv("BBCT_DATABASE", name)
			}
			return nil
		},
		RunE: runTUI,
	}
	root.PersistentFlags().String("database", "", "Database name (overrides BBCT_DATABASE)")

	root.AddCommand(
		card.CardCmd(),
		card.BrandsCmd(),
		card.PlayersCmd(),
		card.TeamsCmd(),
		use.UseCmd(),
		daemon.DaemonCmd(),
		serve.ServeCmd(),
		guide.GuideCmd(),
		tuiCmd(),
	)
	return root
}

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive card browser",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	return launcher.Launch(cmd.Context())
}

// Execute runs the root command until it finishes or the process is signaled
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return NewRootCmd().ExecuteContext(ctx)
}
