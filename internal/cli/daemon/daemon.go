// Package daemon holds the commands that run and inspect the change relay
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/bbct/bbct/internal/cli"
	"github.com/bbct/bbct/internal/cli/handler"
	relay "github.com/bbct/bbct/internal/daemon"
	"github.com/bbct/bbct/internal/events"
	"github.com/bbct/bbct/internal/logging"
)

// statsTimeout bounds the stats round trip
const statsTimeout = 3 * time.Second

// DaemonCmd returns the daemon parent command
func DaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run or inspect the change relay",
		Long: `The relay forwards committed card changes between bbct processes so a
running TUI or websocket feed refreshes when another process edits the
collection. Without it every process still sees its own changes.`,
	}

	cmd.AddCommand(RunCmd(), StatsCmd())
	return cmd
}

// RunCmd returns the daemon run subcommand
func RunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the relay in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd)
		},
	}
	cmd.Flags().String("socket", "", "Socket path (default from config)")
	return cmd
}

func runDaemon(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := cli.LoadConfig(ctx)
	if err != nil {
		return err
	}
	socketPath := cfg.SocketPath
	if s, _ := cmd.Flags().GetString("socket"); s != "" {
		socketPath = s
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cli.UsageError("%v", err)
	}
	logger := logging.New(cmd.ErrOrStderr(), level)

	server, err := relay.NewServer(socketPath, relay.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	logger.Info("bbct daemon starting", "socket_path", socketPath)
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("daemon error: %w", err)
	}
	logger.Info("bbct daemon shut down gracefully")
	return nil
}

// StatsCmd returns the daemon stats subcommand
func StatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show relay counters",
		Args:  cobra.NoArgs,
		RunE:  handler.Command(&statsHandler{}, func(*cobra.Command) error { return nil }),
	}
	cmd.Flags().String("socket", "", "Socket path (default from config)")
	cli.AddOutputFlags(cmd)
	return cmd
}

type statsHandler struct{}

func (h *statsHandler) Execute(ctx context.Context, args *handler.Arguments) (any, error) {
	cfg, err := cli.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	socketPath := args.GetString("socket", cfg.SocketPath)

	ctx, cancel := context.WithTimeout(ctx, statsTimeout)
	defer cancel()

	stats, err := events.FetchStats(ctx, socketPath)
	if err != nil {
		return nil, events.ClassifyDaemonError(err)
	}
	return statsResult{stats}, nil
}

func (h *statsHandler) Suggest(err error) string {
	var de *events.DaemonError
	if errors.As(err, &de) {
		return de.Hint
	}
	return ""
}

type statsResult struct {
	events.Stats
}

func (r statsResult) RenderHuman(w io.Writer) error {
	if _, err := fmt.Fprintf(w,
		"Uptime:            %s\nConnected clients: %d\nEvents received:   %d\nEvents sent:       %d\nEvents dropped:    %d\n",
		r.Uptime, r.ConnectedClients, r.EventsReceived, r.EventsSent, r.EventsDropped); err != nil {
		return err
	}

	names := slices.Sorted(maps.Keys(r.Databases))
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "  %-16s %d change(s)\n", name, r.Databases[name]); err != nil {
			return err
		}
	}
	return nil
}
