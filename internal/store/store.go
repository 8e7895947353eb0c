// Package store is the card store: serialized writes, one-shot reads and
// live queries over the card database.
package store

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bbct/bbct/internal/database"
	"github.com/bbct/bbct/internal/events"
	"github.com/bbct/bbct/internal/models"
	"github.com/bbct/bbct/internal/user"
)

// relayRetries bounds the sends of one change to the daemon
const relayRetries = 3

// relayFlushTimeout bounds how long Close spends handing queued changes to the daemon
const relayFlushTimeout = 2 * time.Second

// Store owns one card database.
//
// Every insert, update and delete runs on a single writer goroutine in
// submission order. After a write commits, one change event is published on
// the store's bus and every live query re-runs. Reads run on the caller's
// goroutine.
type Store struct {
	name   string
	origin string
	repo   database.CardRepository
	closer io.Closer

	bus    *events.Bus
	relay  events.EventPublisher
	logger *slog.Logger

	writes     chan writeRequest
	relayQueue chan events.Event
	stop       chan struct{}
	writerDone chan struct{}
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// Option configures a Store
type Option func(*Store)

// WithName sets the database name stamped on change events
func WithName(name string) Option {
	return func(s *Store) {
		s.name = name
	}
}

// WithRelay forwards committed changes to the daemon and republishes
// changes made by other processes. The publisher must already be connected.
func WithRelay(p events.EventPublisher) Option {
	return func(s *Store) {
		s.relay = p
	}
}

// WithLogger sets the logger used by the store's goroutines
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithBus shares an existing bus instead of creating one
func WithBus(bus *events.Bus) Option {
	return func(s *Store) {
		s.bus = bus
	}
}

type writeRequest struct {
	ctx    context.Context
	apply  func(ctx context.Context) writeResult
	result chan writeResult
}

type writeResult struct {
	id    int64
	n     int
	err   error
	event *events.Event
}

// Open opens the database at path and returns a store that closes it on Close.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := database.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	s := New(database.NewCardRepo(db), opts...)
	s.closer = db
	return s, nil
}

// New starts a store over repo. The caller keeps ownership of repo's connection.
func New(repo database.CardRepository, opts ...Option) *Store {
	s := &Store{
		name:       database.DefaultName,
		origin:     user.NewOrigin(),
		repo:       repo,
		logger:     slog.Default(),
		writes:     make(chan writeRequest),
		relayQueue: make(chan events.Event, 64),
		stop:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = events.NewBus()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.writer()

	if s.relay != nil {
		s.wg.Add(2)
		go s.forwardChanges()
		go s.receiveChanges(ctx)
	}

	return s
}

// Name returns the database name of the store
func (s *Store) Name() string {
	return s.name
}

// Bus returns the bus change events are published on
func (s *Store) Bus() *events.Bus {
	return s.bus
}

// Close stops the writer, ends every live query and closes the database
// when the store opened it. Pending writes that were already accepted finish
// first, and their changes are handed to the relay before Close returns.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stop)
		s.cancel()
		s.wg.Wait()
		s.bus.Close()
		if s.closer != nil {
			err = s.closer.Close()
		}
	})
	return err
}

func (s *Store) closed() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

func closedError(op string) error {
	return &models.StoreError{Op: op, Kind: models.ErrStoreClosed}
}

// ============================================================================
// Writer
// ============================================================================

func (s *Store) writer() {
	defer s.wg.Done()
	defer close(s.writerDone)

	for {
		select {
		case <-s.stop:
			return
		case req := <-s.writes:
			var res writeResult
			if err := req.ctx.Err(); err != nil {
				res = writeResult{err: err}
			} else {
				res = req.apply(req.ctx)
			}

			if res.err == nil && res.event != nil {
				event := s.bus.Publish(*res.event)
				if s.relay != nil {
					select {
					case s.relayQueue <- event:
					default:
						s.logger.Warn("relay queue full, change not forwarded", "sequence", event.SequenceID)
					}
				}
			}

			req.result <- res
		}
	}
}

// submit hands apply to the writer and waits for its result.
// If ctx ends after the writer accepted the request the write may still commit.
func (s *Store) submit(ctx context.Context, op string, apply func(ctx context.Context) writeResult) writeResult {
	req := writeRequest{ctx: ctx, apply: apply, result: make(chan writeResult, 1)}

	select {
	case s.writes <- req:
	case <-ctx.Done():
		return writeResult{err: ctx.Err()}
	case <-s.stop:
		return writeResult{err: closedError(op)}
	}

	select {
	case res := <-req.result:
		return res
	case <-ctx.Done():
		return writeResult{err: ctx.Err()}
	}
}

func (s *Store) changeEvent(op events.ChangeOp, ids ...int64) *events.Event {
	return &events.Event{
		Type:     events.EventCardsChanged,
		Op:       op,
		CardIDs:  ids,
		Database: s.name,
		Source:   s.origin,
	}
}

// ============================================================================
// Relay
// ============================================================================

// forwardChanges sends local changes to the daemon off the writer goroutine.
// On Close it waits for the writer to stop, then flushes what is still queued.
func (s *Store) forwardChanges() {
	defer s.wg.Done()

	for {
		select {
		case event := <-s.relayQueue:
			_ = events.Forward(context.Background(), s.relay, event, relayRetries, s.logger)
		case <-s.stop:
			<-s.writerDone
			s.flushRelay()
			return
		}
	}
}

func (s *Store) flushRelay() {
	ctx, cancel := context.WithTimeout(context.Background(), relayFlushTimeout)
	defer cancel()

	for {
		select {
		case event := <-s.relayQueue:
			if err := events.Forward(ctx, s.relay, event, relayRetries, s.logger); err != nil {
				s.logger.Warn("change lost on close", "sequence", event.SequenceID, "error", err)
			}
		default:
			return
		}
	}
}

// receiveChanges republishes changes other processes made to this database
func (s *Store) receiveChanges(ctx context.Context) {
	defer s.wg.Done()

	incoming, err := s.relay.Listen(ctx)
	if err != nil {
		s.logger.Warn("not listening for relayed changes", "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-incoming:
			if !ok {
				return
			}
			if event.Source == s.origin {
				continue
			}
			if event.Database != "" && event.Database != s.name {
				continue
			}
			s.logger.Debug("relayed change", "op", event.Op, "cards", len(event.CardIDs))
			s.bus.Publish(event)
		}
	}
}

// ============================================================================
// Writes
// ============================================================================

// Insert stores card under a new identifier and returns it.
// Any identifier already set on card is ignored.
func (s *Store) Insert(ctx context.Context, card models.BaseballCard) (int64, error) {
	res := s.submit(ctx, "insert", func(ctx context.Context) writeResult {
		id, err := s.repo.InsertCard(ctx, card)
		if err != nil {
			return writeResult{err: err}
		}
		return writeResult{id: id, event: s.changeEvent(events.OpInsert, id)}
	})
	return res.id, res.err
}

// Update replaces every field of the stored card with card.ID.
// An unknown identifier yields an error of kind models.ErrNotFound.
func (s *Store) Update(ctx context.Context, card models.BaseballCard) error {
	res := s.submit(ctx, "update", func(ctx context.Context) writeResult {
		if err := s.repo.UpdateCard(ctx, card); err != nil {
			return writeResult{err: err}
		}
		return writeResult{event: s.changeEvent(events.OpUpdate, card.ID)}
	})
	return res.err
}

// Delete removes the given cards in one transaction and reports how many were removed.
// Cards that are not stored are ignored.
func (s *Store) Delete(ctx context.Context, cards []models.BaseballCard) (int, error) {
	return s.DeleteIDs(ctx, models.CardIDs(cards))
}

// DeleteIDs is Delete by identifier
func (s *Store) DeleteIDs(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.submit(ctx, "delete", func(ctx context.Context) writeResult {
		n, err := s.repo.DeleteCards(ctx, ids)
		if err != nil {
			return writeResult{err: err}
		}
		if n == 0 {
			return writeResult{}
		}
		return writeResult{n: n, event: s.changeEvent(events.OpDelete, ids...)}
	})
	return res.n, res.err
}

// ============================================================================
// One-shot reads
// ============================================================================

// Get returns the card with id. found is false when no such card is stored.
func (s *Store) Get(ctx context.Context, id int64) (models.BaseballCard, bool, error) {
	if s.closed() {
		return models.BaseballCard{}, false, closedError("get")
	}
	return s.repo.GetCard(ctx, id)
}

// Cards returns every stored card ordered by identifier
func (s *Store) Cards(ctx context.Context) ([]models.BaseballCard, error) {
	if s.closed() {
		return nil, closedError("list")
	}
	return s.repo.ListCards(ctx)
}

// FindCards returns the cards matching filter ordered by identifier
func (s *Store) FindCards(ctx context.Context, filter models.CardFilter) ([]models.BaseballCard, error) {
	if s.closed() {
		return nil, closedError("query")
	}
	return s.repo.FindCards(ctx, filter)
}

// Brands returns the distinct non-empty brands, ascending
func (s *Store) Brands(ctx context.Context) ([]string, error) {
	if s.closed() {
		return nil, closedError("distinct brand")
	}
	return s.repo.DistinctBrands(ctx)
}

// PlayerNames returns the distinct non-empty player names, ascending
func (s *Store) PlayerNames(ctx context.Context) ([]string, error) {
	if s.closed() {
		return nil, closedError("distinct player_name")
	}
	return s.repo.DistinctPlayerNames(ctx)
}

// Teams returns the distinct non-empty teams, ascending
func (s *Store) Teams(ctx context.Context) ([]string, error) {
	if s.closed() {
		return nil, closedError("distinct team")
	}
	return s.repo.DistinctTeams(ctx)
}

// ============================================================================
// Live reads
// ============================================================================

// List observes every card. The first snapshot holds the current contents.
func (s *Store) List(ctx context.Context) (*Subscription[[]models.BaseballCard], error) {
	return watch(ctx, s, "list", s.Cards)
}

// Query observes the cards matching filter
func (s *Store) Query(ctx context.Context, filter models.CardFilter) (*Subscription[[]models.BaseballCard], error) {
	return watch(ctx, s, "query", func(ctx context.Context) ([]models.BaseballCard, error) {
		return s.FindCards(ctx, filter)
	})
}

// DistinctBrands observes the distinct brands
func (s *Store) DistinctBrands(ctx context.Context) (*Subscription[[]string], error) {
	return watch(ctx, s, "brands", s.Brands)
}

// DistinctPlayerNames observes the distinct player names
func (s *Store) DistinctPlayerNames(ctx context.Context) (*Subscription[[]string], error) {
	return watch(ctx, s, "players", s.PlayerNames)
}

// DistinctTeams observes the distinct teams
func (s *Store) DistinctTeams(ctx context.Context) (*Subscription[[]string], error) {
	return watch(ctx, s, "teams", s.Teams)
}
