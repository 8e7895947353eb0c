package daemon

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbct/bbct/internal/events"
	"github.com/bbct/bbct/internal/logging"
)

func getTestSocketPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test-bbct.sock")
}

func setupTestDaemon(t *testing.T, opts ...Option) (*Server, string) {
	t.Helper()
	socketPath := getTestSocketPath(t)

	opts = append([]Option{WithLogger(logging.Discard())}, opts...)
	server, err := NewServer(socketPath, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Shutdown() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = server.Start(ctx) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(socketPath)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	return server, socketPath
}

func connectRawClient(t *testing.T, socketPath string) (net.Conn, *json.Encoder, *json.Decoder) {
	t.Helper()

	conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", socketPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn, json.NewEncoder(conn), json.NewDecoder(conn)
}

func setupTestClient(t *testing.T, socketPath string, opts ...events.ClientOption) *events.Client {
	t.Helper()
	opts = append([]events.ClientOption{events.WithDebounce(10 * time.Millisecond)}, opts...)
	client := events.NewClient(socketPath, opts...)
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, client.Connect(ctx))

	return client
}

func listen(t *testing.T, client *events.Client) <-chan events.Event {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ch, err := client.Listen(ctx)
	require.NoError(t, err)
	return ch
}

func waitForClients(t *testing.T, server *Server, n int32) {
	t.Helper()
	require.Eventually(t, func() bool {
		return server.Metrics().ConnectedClients.Load() == n
	}, 2*time.Second, 10*time.Millisecond)
}

func waitForEvent(t *testing.T, ch <-chan events.Event, timeout time.Duration) events.Event {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "channel closed")
		return event
	case <-time.After(timeout):
		t.Fatalf("timeout waiting for event")
		return events.Event{}
	}
}

func waitForNoEvent(t *testing.T, ch <-chan events.Event, timeout time.Duration) {
	t.Helper()
	select {
	case event := <-ch:
		t.Fatalf("unexpected event: %+v", event)
	case <-time.After(timeout):
	}
}

func TestNewServer_CreatesNestedDirectories(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "subdirs", "bbct.sock")

	server, err := NewServer(nestedPath, WithLogger(logging.Discard()))
	require.NoError(t, err)
	defer func() { _ = server.Shutdown() }()

	assert.FileExists(t, nestedPath)
}

func TestNewServer_StaleSocketCleanup(t *testing.T) {
	socketPath := getTestSocketPath(t)
	require.NoError(t, os.WriteFile(socketPath, nil, 0o600))

	server, err := NewServer(socketPath, WithLogger(logging.Discard()))
	require.NoError(t, err)
	defer func() { _ = server.Shutdown() }()

	info, err := os.Stat(socketPath)
	require.NoError(t, err)
	assert.Equal(t, os.ModeSocket, info.Mode()&os.ModeSocket)
}

func TestClientConnectAndDisconnect(t *testing.T) {
	server, socketPath := setupTestDaemon(t)

	conn, _, _ := connectRawClient(t, socketPath)
	_, _, _ = connectRawClient(t, socketPath)
	waitForClients(t, server, 2)

	require.NoError(t, conn.Close())
	waitForClients(t, server, 1)
}

func TestBroadcast_ReachesSubscribedClients(t *testing.T) {
	server, socketPath := setupTestDaemon(t)

	var chans []<-chan events.Event
	for i := 0; i < 3; i++ {
		client := setupTestClient(t, socketPath, events.WithDatabase("bbct"))
		chans = append(chans, listen(t, client))
	}
	waitForClients(t, server, 3)
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, server.Broadcast(events.Event{
		Type:     events.EventCardsChanged,
		Op:       events.OpInsert,
		CardIDs:  []int64{1},
		Database: "bbct",
	}))

	for _, ch := range chans {
		got := waitForEvent(t, ch, 2*time.Second)
		assert.Equal(t, "bbct", got.Database)
		assert.Equal(t, []int64{1}, got.CardIDs)
		assert.NotZero(t, got.SequenceID)
	}
}

func TestBroadcast_DatabaseFiltering(t *testing.T) {
	server, socketPath := setupTestDaemon(t)

	chanA := listen(t, setupTestClient(t, socketPath, events.WithDatabase("bbct")))
	chanB := listen(t, setupTestClient(t, socketPath, events.WithDatabase("bbct_test")))
	chanAll := listen(t, setupTestClient(t, socketPath))
	waitForClients(t, server, 3)
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, server.Broadcast(events.Event{Type: events.EventCardsChanged, Database: "bbct"}))

	assert.Equal(t, "bbct", waitForEvent(t, chanA, 2*time.Second).Database)
	assert.Equal(t, "bbct", waitForEvent(t, chanAll, 2*time.Second).Database)
	waitForNoEvent(t, chanB, 300*time.Millisecond)
}

func TestBroadcast_SequenceNumbersIncrease(t *testing.T) {
	server, socketPath := setupTestDaemon(t)

	ch := listen(t, setupTestClient(t, socketPath))
	waitForClients(t, server, 1)
	time.Sleep(50 * time.Millisecond)

	const n = 5
	for i := 0; i < n; i++ {
		require.NoError(t, server.Broadcast(events.Event{Type: events.EventCardsChanged}))
	}

	var last int64
	for i := 0; i < n; i++ {
		got := waitForEvent(t, ch, 2*time.Second)
		assert.Greater(t, got.SequenceID, last)
		last = got.SequenceID
	}
}

func TestRelay_DoesNotEchoToSender(t *testing.T) {
	server, socketPath := setupTestDaemon(t)

	sender := setupTestClient(t, socketPath, events.WithDatabase("bbct"))
	senderChan := listen(t, sender)
	receiverChan := listen(t, setupTestClient(t, socketPath, events.WithDatabase("bbct")))
	waitForClients(t, server, 2)
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, sender.SendEvent(events.Event{
		Type:     events.EventCardsChanged,
		Op:       events.OpDelete,
		CardIDs:  []int64{4, 5},
		Database: "bbct",
		Source:   "cli",
	}))

	got := waitForEvent(t, receiverChan, 2*time.Second)
	assert.Equal(t, events.OpDelete, got.Op)
	assert.Equal(t, []int64{4, 5}, got.CardIDs)
	assert.Equal(t, "cli", got.Source)

	waitForNoEvent(t, senderChan, 300*time.Millisecond)

	snap := server.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.EventsReceived)
}

func TestStatsRequest(t *testing.T) {
	server, socketPath := setupTestDaemon(t)

	_ = setupTestClient(t, socketPath)
	waitForClients(t, server, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	stats, err := events.FetchStats(ctx, socketPath)
	require.NoError(t, err)

	// the stats connection itself counts while it is open
	assert.Equal(t, int32(2), stats.ConnectedClients)
	assert.NotEmpty(t, stats.Uptime)
}

func TestPingsAndStaleClientRemoval(t *testing.T) {
	server, socketPath := setupTestDaemon(t, WithHealthCheck(20*time.Millisecond, 100*time.Millisecond))

	conn, _, decoder := connectRawClient(t, socketPath)
	waitForClients(t, server, 1)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg events.Message
	require.NoError(t, decoder.Decode(&msg))
	assert.Equal(t, events.MsgPing, msg.Type)

	// never answering pongs gets the client dropped
	waitForClients(t, server, 0)
}

func TestShutdown(t *testing.T) {
	server, socketPath := setupTestDaemon(t)

	_ = setupTestClient(t, socketPath)
	waitForClients(t, server, 1)

	require.NoError(t, server.Shutdown())
	require.NoError(t, server.Shutdown(), "shutdown is idempotent")

	_, err := os.Stat(socketPath)
	assert.True(t, os.IsNotExist(err), "socket file removed")
	assert.Error(t, server.Broadcast(events.Event{Type: events.EventCardsChanged}))
	assert.Zero(t, server.Metrics().ConnectedClients.Load())
}
