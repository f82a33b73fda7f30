package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// recordingBackOff counts how often the reconnect loop consults it.
type recordingBackOff struct {
	nexts  atomic.Int32
	resets atomic.Int32
}

func (b *recordingBackOff) NextBackOff() time.Duration {
	b.nexts.Add(1)
	return time.Millisecond
}

func (b *recordingBackOff) Reset() {
	b.resets.Add(1)
}

func TestListenDeliversEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		conn.WriteMessage(websocket.TextMessage, []byte(`{"seq":1}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"seq":2}`))
	}))
	defer srv.Close()

	c := NewClient(wsURL(srv), zap.NewNop().Sugar())

	events := make(chan []byte, 2)
	c.OnEvent = func(msg []byte) { events <- msg }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Listen(ctx)
	}()

	for i := 0; i < 2; i++ {
		select {
		case msg := <-events:
			assert.Contains(t, string(msg), "seq")
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for feed event")
		}
	}

	cancel()
	c.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return after cancel")
	}
}

func TestSendJSONRequiresConnection(t *testing.T) {
	c := NewClient("ws://127.0.0.1:1", zap.NewNop().Sugar())
	require.Error(t, c.SendJSON(map[string]string{"hello": "world"}))
}

func TestListenBacksOffWhileDisconnected(t *testing.T) {
	// Nothing listens here; every dial fails.
	c := NewClient("ws://127.0.0.1:1", zap.NewNop().Sugar())

	retry := &recordingBackOff{}
	c.retry = retry

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Listen(ctx)
	}()

	require.Eventually(t, func() bool {
		return retry.nexts.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond, "each failed connect should consult the backoff")

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return after cancel")
	}
}

func TestListenResetsBackoffAfterReconnect(t *testing.T) {
	var conns atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		conns.Add(1)
		// Drop the connection straight away to force a reconnect.
		conn.Close()
	}))
	defer srv.Close()

	c := NewClient(wsURL(srv), zap.NewNop().Sugar())

	retry := &recordingBackOff{}
	c.retry = retry

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Listen(ctx)
	}()

	require.Eventually(t, func() bool {
		return conns.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond, "client should keep reconnecting after drops")
	assert.GreaterOrEqual(t, retry.resets.Load(), int32(3), "backoff resets on every successful connect")

	cancel()
	c.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return after cancel")
	}
}
