package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bbct/bbct/internal/config"
	"github.com/bbct/bbct/internal/events"
	cardservice "github.com/bbct/bbct/internal/services/card"
	"github.com/bbct/bbct/internal/store"
)

// daemonDialTimeout bounds how long startup waits for the relay daemon
const daemonDialTimeout = 500 * time.Millisecond

// App holds the card store and the services built on it.
// It is created once per process and passed by reference.
type App struct {
	Config *config.Config

	// Store is the single handle on the card database
	Store *store.Store

	CardService cardservice.Service

	relay     events.EventPublisher
	ownsRelay bool
	ownsStore bool
	logger    *slog.Logger
}

// New opens the configured database and connects to the relay daemon when
// one is running. Without a daemon every live query still works in-process.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	ac := newAppConfig(opts)

	a := &App{
		Config:    cfg,
		logger:    ac.logger,
		relay:     ac.eventClient,
		ownsStore: true,
	}

	if a.relay == nil && ac.useDaemon {
		a.relay, a.ownsRelay = connectDaemon(ctx, cfg, ac.logger)
	}

	path := ac.databasePath
	if path == "" {
		path = cfg.DatabasePath()
	}

	storeOpts := []store.Option{
		store.WithName(cfg.Database),
		store.WithLogger(ac.logger),
	}
	if a.relay != nil {
		storeOpts = append(storeOpts, store.WithRelay(a.relay))
	}

	st, err := store.Open(ctx, path, storeOpts...)
	if err != nil {
		a.closeRelay()
		return nil, err
	}
	a.Store = st
	a.CardService = newCardService(st, cfg, ac.logger)

	ac.logger.Info("card store opened", "database", cfg.Database, "path", path, "relay", a.relay != nil)
	return a, nil
}

// NewWithStore wraps an already opened store. The caller keeps ownership of it.
func NewWithStore(st *store.Store, cfg *config.Config, opts ...Option) *App {
	ac := newAppConfig(opts)
	return &App{
		Config:      cfg,
		Store:       st,
		CardService: newCardService(st, cfg, ac.logger),
		relay:       ac.eventClient,
		logger:      ac.logger,
	}
}

func newCardService(st *store.Store, cfg *config.Config, logger *slog.Logger) cardservice.Service {
	return cardservice.NewService(st,
		cardservice.WithConditions(cfg.Conditions),
		cardservice.WithPositions(cfg.Positions),
		cardservice.WithLogger(logger),
	)
}

// connectDaemon dials the relay. A missing daemon is logged, not returned.
func connectDaemon(ctx context.Context, cfg *config.Config, logger *slog.Logger) (events.EventPublisher, bool) {
	client := events.NewClient(cfg.SocketPath,
		events.WithDebounce(cfg.EventDebounce),
		events.WithDatabase(cfg.Database),
	)

	dialCtx, cancel := context.WithTimeout(ctx, daemonDialTimeout)
	defer cancel()

	if err := client.Connect(dialCtx); err != nil {
		daemonErr := events.ClassifyDaemonError(err)
		logger.Debug("running without relay daemon", "reason", daemonErr.Message, "hint", daemonErr.Hint)
		_ = client.Close()
		return nil, false
	}
	return client, true
}

// Relay returns the connected daemon publisher, or nil
func (a *App) Relay() events.EventPublisher {
	return a.relay
}

// Close stops the store and then the daemon connection, flushing queued changes
func (a *App) Close() error {
	var errs []error
	if a.ownsStore && a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	errs = append(errs, a.closeRelay())
	return errors.Join(errs...)
}

func (a *App) closeRelay() error {
	if !a.ownsRelay || a.relay == nil {
		return nil
	}
	a.ownsRelay = false
	return a.relay.Close()
}
