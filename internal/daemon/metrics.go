package daemon

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/bbct/bbct/internal/events"
)

// Metrics counts what the relay has done since it started.
// Safe for concurrent use.
type Metrics struct {
	EventsSent       atomic.Int64
	EventsReceived   atomic.Int64
	EventsDropped    atomic.Int64
	RefreshesTotal   atomic.Int64
	ConnectedClients atomic.Int32
	StartTime        time.Time

	mu        sync.Mutex
	databases map[string]int64 // changes received per database name
}

func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now(), databases: make(map[string]int64)}
}

func (m *Metrics) IncEventsSent()     { m.EventsSent.Add(1) }
func (m *Metrics) IncEventsDropped()  { m.EventsDropped.Add(1) }
func (m *Metrics) IncRefreshesTotal() { m.RefreshesTotal.Add(1) }

// RecordChange counts a change event received from a client
func (m *Metrics) RecordChange(ev events.Event) {
	m.EventsReceived.Add(1)

	m.mu.Lock()
	m.databases[ev.Database]++
	m.mu.Unlock()
}

func (m *Metrics) SetConnectedClients(count int32) {
	m.ConnectedClients.Store(count)
}

// Snapshot copies the counters into the stats reply
func (m *Metrics) Snapshot() events.Stats {
	m.mu.Lock()
	dbs := make(map[string]int64, len(m.databases))
	for name, n := range m.databases {
		dbs[name] = n
	}
	m.mu.Unlock()

	return events.Stats{
		EventsSent:       m.EventsSent.Load(),
		EventsReceived:   m.EventsReceived.Load(),
		EventsDropped:    m.EventsDropped.Load(),
		RefreshesTotal:   m.RefreshesTotal.Load(),
		ConnectedClients: m.ConnectedClients.Load(),
		Databases:        dbs,
		StartTime:        m.StartTime,
		Uptime:           time.Since(m.StartTime).Round(time.Second).String(),
	}
}
