package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bbct/bbct/internal/app"
	"github.com/bbct/bbct/internal/config"
	"github.com/bbct/bbct/internal/logging"
)

// CLI represents the CLI application context
type CLI struct {
	App *app.App // Application container with services

	owned  bool
	logOut io.Closer
}

type contextKey string

const appKey contextKey = "app"

// WithApp makes NewCLI reuse a instead of opening the configured database
func WithApp(ctx context.Context, a *app.App) context.Context {
	return context.WithValue(ctx, appKey, a)
}

// NewCLI loads configuration, starts file logging and opens the card store.
// The relay daemon is used when running; otherwise changes stay in-process.
func NewCLI(ctx context.Context) (*CLI, error) {
	if a, ok := ctx.Value(appKey).(*app.App); ok && a != nil {
		return &CLI{App: a}, nil
	}

	cfg, err := LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	logger, logOut, err := logging.Init(cfg.DataDir, cfg.LogLevel)
	if err != nil {
		// logging is best effort for one-shot commands
		logger = slog.Default()
	}

	application, err := app.New(ctx, cfg, app.WithLogger(logger))
	if err != nil {
		if logOut != nil {
			_ = logOut.Close()
		}
		return nil, fmt.Errorf("failed to open card store: %w", err)
	}

	return &CLI{App: application, owned: true, logOut: logOut}, nil
}

// LoadConfig returns the configuration of an injected app, or loads it
func LoadConfig(ctx context.Context) (*config.Config, error) {
	if a, ok := ctx.Value(appKey).(*app.App); ok && a != nil && a.Config != nil {
		return a.Config, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// Close cleans up CLI resources. An injected app is left open.
func (c *CLI) Close() error {
	if !c.owned {
		return nil
	}
	err := c.App.Close()
	if c.logOut != nil {
		_ = c.logOut.Close()
	}
	return err
}
