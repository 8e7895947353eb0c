// Package launcher starts the interactive card browser
package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bbct/bbct/internal/app"
	"github.com/bbct/bbct/internal/config"
	"github.com/bbct/bbct/internal/logging"
	"github.com/bbct/bbct/internal/tui"
)

// Launch starts the TUI application against the configured card store.
// It returns when the user quits or ctx is cancelled.
func Launch(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logging to file before anything else; the terminal belongs to the TUI
	logger, logOut, err := logging.Init(cfg.DataDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() {
		if err := logOut.Close(); err != nil {
			slog.Error("error closing log file", "error", err)
		}
	}()

	// Connects to the relay daemon when one is running
	application, err := app.New(ctx, cfg, app.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to open card store: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error("error closing card store", "error", err)
		}
	}()

	return Run(ctx, application, logger, tea.WithAltScreen())
}

// Run drives the TUI over an open app until quit or cancellation
func Run(ctx context.Context, a *app.App, logger *slog.Logger, opts ...tea.ProgramOption) error {
	model, err := tui.InitialModel(ctx, a, logger)
	if err != nil {
		return err
	}
	defer model.Close()

	opts = append(opts, tea.WithContext(ctx))
	p := tea.NewProgram(model, opts...)

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
			logger.Info("shutdown signal received, TUI stopped")
			return nil
		}
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
