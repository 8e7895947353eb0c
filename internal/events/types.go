package events

import "time"

// ProtocolVersion is the wire protocol spoken between clients and the daemon
const ProtocolVersion = 1

// EventType indicates what kind of notification an event carries
type EventType string

const (
	EventCardsChanged EventType = "cards_changed"
	EventPing         EventType = "ping"
	EventPong         EventType = "pong"
)

// ChangeOp names the write that produced a change event
type ChangeOp string

const (
	OpInsert ChangeOp = "insert"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
	OpMixed  ChangeOp = "mixed" // several writes of different kinds batched together
)

// Event is a committed change to a card database
type Event struct {
	Type       EventType
	Op         ChangeOp  `json:",omitempty"`
	CardIDs    []int64   `json:",omitempty"` // cards touched by the write, when known
	Database   string    `json:",omitempty"` // which database was modified
	Source     string    `json:",omitempty"` // origin of the write, used to drop echoes
	Timestamp  time.Time // When the event occurred
	SequenceID int64     // Monotonically increasing sequence number for ordering
}

// Message types on the daemon socket
const (
	MsgEvent     = "event"
	MsgSubscribe = "subscribe"
	MsgPing      = "ping"
	MsgPong      = "pong"
	MsgStats     = "stats"
)

// SubscribeMessage is sent by clients to receive changes for one database
type SubscribeMessage struct {
	Database string // "" = every database
}

// Stats is a point-in-time snapshot of daemon counters
type Stats struct {
	EventsSent       int64            `json:"events_sent"`
	EventsReceived   int64            `json:"events_received"`
	EventsDropped    int64            `json:"events_dropped"`
	RefreshesTotal   int64            `json:"refreshes_total"`
	ConnectedClients int32            `json:"connected_clients"`
	Databases        map[string]int64 `json:"databases,omitempty"` // changes received per database
	StartTime        time.Time        `json:"start_time"`
	Uptime           string           `json:"uptime"`
}

// Message wraps events and control messages for wire protocol
type Message struct {
	Version   int               `json:",omitempty"`
	Type      string            // "event", "subscribe", "ping", "pong", "stats"
	Event     *Event            `json:",omitempty"`
	Subscribe *SubscribeMessage `json:",omitempty"`
	Stats     *Stats            `json:",omitempty"`
}

// Merge folds next into e and returns the result.
// Card identifiers are unioned in first-seen order.
func (e Event) Merge(next Event) Event {
	merged := e
	if merged.Op != next.Op {
		merged.Op = OpMixed
	}
	if merged.Database != next.Database {
		merged.Database = ""
	}

	seen := make(map[int64]bool, len(e.CardIDs)+len(next.CardIDs))
	merged.CardIDs = nil
	for _, ids := range [][]int64{e.CardIDs, next.CardIDs} {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				merged.CardIDs = append(merged.CardIDs, id)
			}
		}
	}

	if next.Timestamp.After(merged.Timestamp) {
		merged.Timestamp = next.Timestamp
	}
	return merged
}
