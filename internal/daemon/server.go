package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bbct/bbct/internal/events"
)

const (
	defaultBroadcastBuffer = 100
	defaultClientBuffer    = 10
	defaultPingInterval    = 30 * time.Second
	defaultStaleAfter      = 90 * time.Second
)

// ErrBroadcastFull is returned when the relay cannot take another event
var ErrBroadcastFull = errors.New("broadcast channel full")

// client represents a connected process
type client struct {
	conn         net.Conn
	send         chan events.Message
	subscription events.SubscribeMessage
	lastPong     time.Time
	closed       bool
	mu           sync.Mutex // Protects subscription, lastPong, closed and sends
}

// outbound is an event waiting to be relayed, with the client that sent it
type outbound struct {
	event  events.Event
	sender *client
}

// Server relays card change events between bbct processes
type Server struct {
	socketPath       string
	listener         net.Listener
	clients          map[*client]bool
	mu               sync.RWMutex
	ctx              context.Context
	cancel           context.CancelFunc
	broadcast        chan outbound
	metrics          *Metrics
	sequenceCounter  atomic.Int64
	clientBufferSize int
	pingInterval     time.Duration
	staleAfter       time.Duration
	logger           *slog.Logger
	shutdownOnce     sync.Once
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the server logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBuffers sizes the relay queue and each client's send queue
func WithBuffers(broadcast, perClient int) Option {
	return func(s *Server) {
		if broadcast > 0 {
			s.broadcast = make(chan outbound, broadcast)
		}
		if perClient > 0 {
			s.clientBufferSize = perClient
		}
	}
}

// WithHealthCheck sets how often clients are pinged and when a silent one is dropped
func WithHealthCheck(pingInterval, staleAfter time.Duration) Option {
	return func(s *Server) {
		if pingInterval > 0 {
			s.pingInterval = pingInterval
		}
		if staleAfter > 0 {
			s.staleAfter = staleAfter
		}
	}
}

// NewServer listens on socketPath, removing a stale socket file first
func NewServer(socketPath string, opts ...Option) (*Server, error) {
	if dir := filepath.Dir(socketPath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket listener: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		socketPath:       socketPath,
		listener:         listener,
		clients:          make(map[*client]bool),
		ctx:              ctx,
		cancel:           cancel,
		broadcast:        make(chan outbound, defaultBroadcastBuffer),
		metrics:          NewMetrics(),
		clientBufferSize: defaultClientBuffer,
		pingInterval:     defaultPingInterval,
		staleAfter:       defaultStaleAfter,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start runs the relay until ctx is cancelled or Shutdown is called.
// It starts three goroutines: accept, broadcast, and health monitoring.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("daemon listening", "socket_path", s.socketPath)

	combinedCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-s.ctx.Done():
			cancel()
		case <-combinedCtx.Done():
		}
	}()

	acceptErr := make(chan error, 1)
	go func() {
		acceptErr <- s.acceptLoop(combinedCtx)
	}()

	go s.broadcastLoop(combinedCtx)
	go s.monitorHealth(combinedCtx)

	select {
	case <-combinedCtx.Done():
		s.logger.Info("daemon context cancelled, shutting down")
	case err := <-acceptErr:
		if err != nil {
			s.logger.Error("accept loop failed", "error", err)
		}
	}

	return s.Shutdown()
}

// Metrics exposes the relay counters
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// acceptLoop accepts incoming client connections
func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// wake up every second to notice cancellation
		if ul, ok := s.listener.(*net.UnixListener); ok {
			if err := ul.SetDeadline(time.Now().Add(1 * time.Second)); err != nil {
				s.logger.Warn("failed to set listener deadline", "error", err)
			}
		}

		conn, err := s.listener.Accept()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept error: %w", err)
		}

		c := &client{
			conn:     conn,
			send:     make(chan events.Message, s.clientBufferSize),
			lastPong: time.Now(),
		}

		s.mu.Lock()
		s.clients[c] = true
		s.mu.Unlock()
		s.updateClientCount()

		s.logger.Debug("client connected", "clients", s.getClientCount())

		go s.handleClient(c)
		go s.clientWriter(c)
	}
}

// broadcastLoop numbers each event and fans it out to subscribed clients
func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case out := <-s.broadcast:
			event := out.event
			event.SequenceID = s.sequenceCounter.Add(1)
			s.metrics.IncRefreshesTotal()

			msg := events.Message{
				Version: events.ProtocolVersion,
				Type:    events.MsgEvent,
				Event:   &event,
			}

			s.mu.RLock()
			for c := range s.clients {
				if c == out.sender || !c.wants(event) {
					continue
				}
				if !s.sendToClient(c, msg) {
					s.metrics.IncEventsDropped()
					s.logger.Warn("client send queue full, event dropped", "sequence", event.SequenceID)
				}
			}
			s.mu.RUnlock()
		}
	}
}

// wants reports whether the client subscribed to the event's database.
// An empty name on either side matches everything.
func (c *client) wants(event events.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return event.Database == "" || c.subscription.Database == "" || c.subscription.Database == event.Database
}

// handleClient reads messages from a connected client
func (s *Server) handleClient(c *client) {
	defer func() {
		s.removeClient(c)
		s.logger.Debug("client disconnected", "clients", s.getClientCount())
	}()

	decoder := json.NewDecoder(c.conn)

	for {
		var msg events.Message
		if err := decoder.Decode(&msg); err != nil {
			return
		}

		if msg.Version != 0 && msg.Version != events.ProtocolVersion {
			s.logger.Warn("protocol version mismatch", "got", msg.Version, "want", events.ProtocolVersion)
		}

		switch msg.Type {
		case events.MsgEvent:
			if msg.Event == nil {
				continue
			}
			s.metrics.RecordChange(*msg.Event)
			select {
			case s.broadcast <- outbound{event: *msg.Event, sender: c}:
			default:
				s.metrics.IncEventsDropped()
				s.logger.Warn("broadcast channel full, event dropped")
			}

		case events.MsgSubscribe:
			if msg.Subscribe != nil {
				c.mu.Lock()
				c.subscription = *msg.Subscribe
				c.mu.Unlock()
				s.logger.Debug("client subscribed", "database", msg.Subscribe.Database)
			}

		case events.MsgPong:
			c.mu.Lock()
			c.lastPong = time.Now()
			c.mu.Unlock()

		case events.MsgStats:
			stats := s.metrics.Snapshot()
			s.sendToClient(c, events.Message{
				Version: events.ProtocolVersion,
				Type:    events.MsgStats,
				Stats:   &stats,
			})
		}
	}
}

// clientWriter sends messages to a client
func (s *Server) clientWriter(c *client) {
	encoder := json.NewEncoder(c.conn)

	for msg := range c.send {
		if err := encoder.Encode(msg); err != nil {
			return
		}
		if msg.Type == events.MsgEvent {
			s.metrics.IncEventsSent()
		}
	}
}

// monitorHealth pings clients and removes the ones that stopped answering
func (s *Server) monitorHealth(ctx context.Context) {
	pingTicker := time.NewTicker(s.pingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-pingTicker.C:
			ping := events.Message{
				Version: events.ProtocolVersion,
				Type:    events.MsgPing,
				Event:   &events.Event{Type: events.EventPing},
			}

			// two-phase: collect under the server lock, act outside it
			now := time.Now()
			var live, stale []*client
			s.mu.RLock()
			for c := range s.clients {
				c.mu.Lock()
				lastPong := c.lastPong
				c.mu.Unlock()
				if now.Sub(lastPong) > s.staleAfter {
					stale = append(stale, c)
				} else {
					live = append(live, c)
				}
			}
			s.mu.RUnlock()

			for _, c := range stale {
				s.logger.Info("removing stale client")
				s.removeClient(c)
			}
			for _, c := range live {
				if !s.sendToClient(c, ping) {
					s.logger.Warn("failed to ping client, queue full")
				}
			}
		}
	}
}

// Broadcast relays an event from the daemon itself to every subscribed client
func (s *Server) Broadcast(event events.Event) error {
	select {
	case <-s.ctx.Done():
		return fmt.Errorf("daemon shut down")
	default:
	}

	select {
	case s.broadcast <- outbound{event: event}:
		return nil
	default:
		s.metrics.IncEventsDropped()
		return ErrBroadcastFull
	}
}

// Shutdown closes the listener and every client, and removes the socket file.
// Safe to call more than once.
func (s *Server) Shutdown() error {
	s.shutdownOnce.Do(func() {
		s.logger.Info("shutting down daemon")

		s.cancel()

		if s.listener != nil {
			if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
				s.logger.Warn("error closing listener", "error", err)
			}
		}

		s.mu.Lock()
		clients := make([]*client, 0, len(s.clients))
		for c := range s.clients {
			clients = append(clients, c)
		}
		s.clients = make(map[*client]bool)
		s.mu.Unlock()

		for _, c := range clients {
			c.close()
		}
		s.updateClientCount()

		// the listener usually unlinks the socket itself
		if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove socket file", "error", err)
		}
	})

	return nil
}

func (s *Server) getClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) updateClientCount() {
	s.metrics.SetConnectedClients(int32(s.getClientCount()))
}

// removeClient safely removes a client from the server
func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()

	c.close()
	s.updateClientCount()
}

// close shuts the connection and the send queue exactly once
func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	_ = c.conn.Close()
	close(c.send)
}

// sendToClient queues a message without blocking.
// Returns false if the queue is full or the client is gone.
func (s *Server) sendToClient(c *client, msg events.Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}
