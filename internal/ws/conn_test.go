package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lxzan/gws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maxclient/pkg/core"
)

type echoHandler struct {
	gws.BuiltinEventHandler
}

func (h *echoHandler) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()
	_ = socket.WriteMessage(gws.OpcodeText, message.Bytes())
}

// newEchoServer echoes text frames. The first dropFirst connections are
// closed right after the upgrade.
func newEchoServer(t *testing.T, dropFirst int32) (string, *atomic.Int32) {
	t.Helper()

	var accepted atomic.Int32
	upgrader := gws.NewUpgrader(&echoHandler{}, &gws.ServerOption{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		socket, err := upgrader.Upgrade(w, r)
		if err != nil {
			return
		}
		if accepted.Add(1) <= dropFirst {
			go func() {
				time.Sleep(20 * time.Millisecond)
				_ = socket.NetConn().Close()
			}()
		}
		go socket.ReadLoop()
	}))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http"), &accepted
}

func TestNewConn_Defaults(t *testing.T) {
	c := NewConn(Config{URL: "wss://example.com/ws"}, nil)

	assert.False(t, c.IsConnected())
	assert.Equal(t, StateDisconnected, c.State())
	assert.Equal(t, 1*time.Second, c.config.ReconnectBaseWait)
	assert.Equal(t, 30*time.Second, c.config.ReconnectMaxWait)
	assert.Equal(t, 10*time.Second, c.config.PingInterval)
	assert.Equal(t, 20*time.Second, c.config.PongWait)
}

func TestConn_Backoff(t *testing.T) {
	c := NewConn(Config{
		URL:               "wss://example.com/ws",
		ReconnectBaseWait: 100 * time.Millisecond,
		ReconnectMaxWait:  time.Second,
	}, nil)

	for range 20 {
		wait := c.nextBackoff()
		assert.Greater(t, wait, time.Duration(0))
		assert.LessOrEqual(t, wait, time.Second)
	}
}

func TestConn_WriteText_NotConnected(t *testing.T) {
	c := NewConn(Config{URL: "wss://example.com/ws"}, nil)

	err := c.WriteText([]byte("hello"))
	assert.ErrorIs(t, err, core.ErrNotConnected)
}

func TestConn_Close_Idempotent(t *testing.T) {
	c := NewConn(Config{URL: "wss://example.com/ws"}, nil)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, StateClosed, c.State())

	err := c.Connect(context.Background())
	assert.ErrorIs(t, err, core.ErrClientClosed)
}

func TestConn_Connect_Refused(t *testing.T) {
	c := NewConn(Config{URL: "ws://127.0.0.1:1/ws"}, nil)
	defer c.Close()

	err := c.Connect(context.Background())
	assert.Error(t, err)
	assert.Equal(t, StateDisconnected, c.State())
}

func TestConn_Echo(t *testing.T) {
	url, _ := newEchoServer(t, 0)

	received := make(chan []byte, 1)
	c := NewConn(Config{URL: url}, func(data []byte) {
		received <- data
	})
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Connect(ctx))
	assert.True(t, c.IsConnected())
	require.NoError(t, c.Connect(ctx), "connect on a live connection is a no-op")

	require.NoError(t, c.WriteText([]byte(`{"action":"sub"}`)))

	select {
	case data := <-received:
		assert.Equal(t, `{"action":"sub"}`, string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("no echo received")
	}
}

func TestConn_Reconnect(t *testing.T) {
	url, accepted := newEchoServer(t, 1)

	c := NewConn(Config{
		URL:               url,
		ReconnectEnabled:  true,
		ReconnectBaseWait: 10 * time.Millisecond,
		ReconnectMaxWait:  50 * time.Millisecond,
	}, nil)
	defer c.Close()

	reconnected := make(chan struct{}, 1)
	c.OnReconnect(func() {
		reconnected <- struct{}{}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Connect(ctx))

	select {
	case <-reconnected:
	case <-time.After(3 * time.Second):
		t.Fatal("did not reconnect")
	}
	assert.True(t, c.IsConnected())
	assert.GreaterOrEqual(t, accepted.Load(), int32(2))
}
