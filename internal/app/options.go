package app

import (
	"log/slog"

	"github.com/bbct/bbct/internal/events"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	eventClient  events.EventPublisher
	logger       *slog.Logger
	useDaemon    bool
	databasePath string
}

func newAppConfig(opts []Option) *appConfig {
	ac := &appConfig{
		logger:    slog.Default(),
		useDaemon: true,
	}
	for _, opt := range opts {
		opt(ac)
	}
	return ac
}

// WithEventPublisher relays changes through ec instead of dialing the daemon.
// The caller keeps ownership of ec.
func WithEventPublisher(ec events.EventPublisher) Option {
	return func(cfg *appConfig) {
		cfg.eventClient = ec
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithoutDaemon skips dialing the relay daemon
func WithoutDaemon() Option {
	return func(cfg *appConfig) {
		cfg.useDaemon = false
	}
}

// WithDatabasePath opens path instead of the configured database file
func WithDatabasePath(path string) Option {
	return func(cfg *appConfig) {
		cfg.databasePath = path
	}
}
