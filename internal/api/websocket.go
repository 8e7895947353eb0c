package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bbct/bbct/internal/store"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local tool, CORS policy applies to the REST routes
	},
}

// Topics a WebSocket client can watch, selected with ?topic=
const (
	TopicCards   = "cards"
	TopicBrands  = "brands"
	TopicPlayers = "players"
	TopicTeams   = "teams"
)

// WebSocketMessage is the JSON message sent for every snapshot
type WebSocketMessage struct {
	Type  string `json:"type"`
	Seq   int64  `json:"seq"`
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

// serveWS upgrades the request and streams snapshots of one live query.
// Card filters use the same query parameters as GET /v1/cards.
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		topic = TopicCards
	}

	// subscribe before upgrading so failures can still be reported as HTTP errors
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var stream func(*websocket.Conn)
	switch topic {
	case TopicCards:
		filter, err := filterFromQuery(r.URL.Query())
		if err != nil {
			BadRequest(w, err.Error())
			return
		}
		sub, err := h.cards.WatchCards(ctx, filter)
		if err != nil {
			Error(w, err)
			return
		}
		stream = func(conn *websocket.Conn) { pump(ctx, conn, topic, sub) }
	case TopicBrands, TopicPlayers, TopicTeams:
		watch := map[string]func(context.Context) (*store.Subscription[[]string], error){
			TopicBrands:  h.cards.WatchBrands,
			TopicPlayers: h.cards.WatchPlayerNames,
			TopicTeams:   h.cards.WatchTeams,
		}[topic]
		sub, err := watch(ctx)
		if err != nil {
			Error(w, err)
			return
		}
		stream = func(conn *websocket.Conn) { pump(ctx, conn, topic, sub) }
	default:
		BadRequest(w, "unknown topic "+topic)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	// reads detect disconnects; clients are not expected to send anything
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Debug("websocket read error", "error", err)
				}
				return
			}
		}
	}()

	h.logger.Debug("websocket client connected", "topic", topic)
	stream(conn)
	h.logger.Debug("websocket client disconnected", "topic", topic)
}

// pump writes every snapshot of sub to conn until ctx ends or a write fails
func pump[T any](ctx context.Context, conn *websocket.Conn, topic string, sub *store.Subscription[T]) {
	defer sub.Close()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(wsWriteWait))
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case snap, ok := <-sub.Updates():
			if !ok {
				return
			}
			msg := WebSocketMessage{Type: topic, Seq: snap.Seq, Data: snap.Value}
			if snap.Err != nil {
				msg = WebSocketMessage{Type: "error", Seq: snap.Seq, Error: snap.Err.Error()}
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}
