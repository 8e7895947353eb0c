package serve

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbct/bbct/internal/cli"
	"github.com/bbct/bbct/internal/testutil"
	clitest "github.com/bbct/bbct/internal/testutil/cli"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestServe_ListsCardsUntilCanceled(t *testing.T) {
	a := clitest.SetupCLITest(t)
	testutil.SeedCards(t, a.Store, testutil.SampleCards()...)
	addr := freeAddr(t)

	cmd := ServeCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--addr", addr})

	ctx, cancel := context.WithCancel(cli.WithApp(context.Background(), a))
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	url := "http://" + addr + "/v1/cards/?brand=Topps"
	var resp *http.Response
	testutil.WaitForCondition(t, func() bool {
		r, err := http.Get(url)
		if err != nil {
			return false
		}
		resp = r
		return true
	}, 2*time.Second, "server listening")
	require.NotNil(t, resp)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cards []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cards))
	assert.Len(t, cards, 2)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServe_AddrInUse(t *testing.T) {
	a := clitest.SetupCLITest(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, _, err = clitest.ExecuteCommand(t, a, ServeCmd(), "--addr", ln.Addr().String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http server")
}
