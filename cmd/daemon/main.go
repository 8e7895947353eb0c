// Command bbct-daemon runs the change relay as a standalone service,
// for use under systemd or launchd
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bbct/bbct/internal/config"
	"github.com/bbct/bbct/internal/daemon"
	"github.com/bbct/bbct/internal/logging"
)

func main() {
	// Set up signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		slog.Error("invalid log level", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, level)

	server, err := daemon.NewServer(cfg.SocketPath, daemon.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create daemon", "error", err)
		os.Exit(1)
	}

	logger.Info("bbct daemon starting", "socket_path", cfg.SocketPath, "pid", os.Getpid())

	// Start blocks until ctx is canceled
	if err := server.Start(ctx); err != nil {
		logger.Error("daemon error", "error", err)
		os.Exit(1)
	}

	logger.Info("bbct daemon shut down gracefully")
}
