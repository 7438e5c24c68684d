package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/lxzan/gws"
	"github.com/rs/zerolog"

	"maxclient/pkg/core"
)

// Config holds configuration options for a websocket connection.
type Config struct {
	// URL is the websocket server endpoint to connect to.
	URL string
	// ReconnectEnabled determines whether automatic reconnection is enabled.
	ReconnectEnabled bool
	// ReconnectBaseWait is the initial wait before the first reconnection attempt.
	ReconnectBaseWait time.Duration
	// ReconnectMaxWait caps the wait between reconnection attempts.
	ReconnectMaxWait time.Duration
	// PingInterval is the duration between client pings.
	PingInterval time.Duration
	// PongWait is how long past a ping the connection may stay silent.
	PongWait time.Duration
}

// MessageHandler receives every inbound text frame. The slice is owned by
// the handler.
type MessageHandler func(data []byte)

// Conn is a single text-frame websocket connection with ping keep-alive and
// optional reconnection.
type Conn struct {
	config    Config
	state     stateBox
	handler   *eventHandler
	onMessage MessageHandler
	logger    zerolog.Logger

	mu          sync.RWMutex
	conn        *gws.Conn
	connected   chan struct{}
	onReconnect func()
	backoff     *backoff.ExponentialBackOff

	stopChan chan struct{}
	wg       sync.WaitGroup
	pingOnce sync.Once
}

type eventHandler struct {
	c *Conn
}

// NewConn creates a connection. Zero-valued durations get defaults.
func NewConn(config Config, onMessage MessageHandler) *Conn {
	if config.ReconnectBaseWait == 0 {
		config.ReconnectBaseWait = 1 * time.Second
	}
	if config.ReconnectMaxWait == 0 {
		config.ReconnectMaxWait = 30 * time.Second
	}
	if config.PingInterval == 0 {
		config.PingInterval = 10 * time.Second
	}
	if config.PongWait == 0 {
		config.PongWait = 20 * time.Second
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = config.ReconnectBaseWait
	b.MaxInterval = config.ReconnectMaxWait
	b.Multiplier = 2
	b.Reset()

	c := &Conn{
		config:    config,
		onMessage: onMessage,
		logger:    zerolog.Nop(),
		connected: make(chan struct{}),
		backoff:   b,
		stopChan:  make(chan struct{}),
	}
	c.handler = &eventHandler{c: c}
	return c
}

// SetLogger configures the logger for the connection.
func (c *Conn) SetLogger(logger zerolog.Logger) {
	c.logger = logger
}

// OnReconnect registers fn to run after every successful reconnection.
func (c *Conn) OnReconnect(fn func()) {
	c.mu.Lock()
	c.onReconnect = fn
	c.mu.Unlock()
}

func (h *eventHandler) OnOpen(socket *gws.Conn) {
	h.c.state.set(StateConnected)

	h.c.mu.Lock()
	select {
	case <-h.c.connected:
	default:
		close(h.c.connected)
	}
	h.c.mu.Unlock()

	h.c.logger.Info().Str("url", h.c.config.URL).Msg("websocket connected")
	_ = socket.SetDeadline(time.Now().Add(h.c.config.PingInterval + h.c.config.PongWait))
}

func (h *eventHandler) OnClose(socket *gws.Conn, err error) {
	select {
	case <-h.c.stopChan:
		return
	default:
	}

	h.c.state.set(StateDisconnected)
	h.c.mu.Lock()
	h.c.connected = make(chan struct{})
	h.c.mu.Unlock()

	h.c.logger.Warn().Err(err).Str("url", h.c.config.URL).Msg("websocket disconnected")

	if h.c.config.ReconnectEnabled {
		h.c.wg.Go(h.c.reconnect)
	}
}

func (h *eventHandler) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(h.c.config.PingInterval + h.c.config.PongWait))
	_ = socket.WritePong(payload)
}

func (h *eventHandler) OnPong(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(h.c.config.PingInterval + h.c.config.PongWait))
}

func (h *eventHandler) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()

	_ = socket.SetDeadline(time.Now().Add(h.c.config.PingInterval + h.c.config.PongWait))
	if len(message.Bytes()) == 0 {
		return
	}

	data := append([]byte(nil), message.Bytes()...)
	h.c.logger.Debug().Int("size", len(data)).Msg("received websocket message")
	if h.c.onMessage != nil {
		h.c.onMessage(data)
	}
}

// Connect dials the configured URL and waits for the handshake to finish.
func (c *Conn) Connect(ctx context.Context) error {
	if !c.state.cas(StateDisconnected, StateConnecting) {
		current := c.state.load()
		if current == StateConnected {
			return nil
		}
		if current == StateClosed {
			return core.ErrClientClosed
		}
		return fmt.Errorf("invalid state for connect: %s", current)
	}
	if err := c.dial(ctx); err != nil {
		return err
	}

	c.pingOnce.Do(func() {
		c.wg.Go(c.pingLoop)
	})
	return nil
}

func (c *Conn) dial(ctx context.Context) error {
	c.mu.RLock()
	connected := c.connected
	c.mu.RUnlock()

	socket, _, err := gws.NewClient(c.handler, &gws.ClientOption{
		Addr: c.config.URL,
	})
	if err != nil {
		c.state.set(StateDisconnected)
		return fmt.Errorf("connect websocket: %w", err)
	}

	c.mu.Lock()
	c.conn = socket
	c.mu.Unlock()

	c.wg.Go(func() {
		socket.ReadLoop()
	})

	select {
	case <-connected:
		return nil
	case <-ctx.Done():
		_ = socket.NetConn().Close()
		c.state.set(StateDisconnected)
		return ctx.Err()
	case <-c.stopChan:
		_ = socket.NetConn().Close()
		return core.ErrClientClosed
	}
}

// Close shuts the connection down permanently.
func (c *Conn) Close() error {
	if !c.state.close() {
		return nil
	}

	close(c.stopChan)

	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.NetConn().Close()
	}
	c.mu.Unlock()

	c.wg.Wait()
	return nil
}

// State returns the current connection state.
func (c *Conn) State() ConnState {
	return c.state.load()
}

// IsConnected returns true if the websocket has an active connection.
func (c *Conn) IsConnected() bool {
	return c.state.load() == StateConnected
}

// WriteText sends one text frame.
func (c *Conn) WriteText(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.conn == nil || c.state.load() != StateConnected {
		return core.ErrNotConnected
	}
	return c.conn.WriteMessage(gws.OpcodeText, data)
}

func (c *Conn) pingLoop() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.mu.RLock()
			socket := c.conn
			c.mu.RUnlock()
			if socket != nil && c.IsConnected() {
				if err := socket.WritePing(nil); err != nil {
					c.logger.Debug().Err(err).Msg("websocket ping failed")
				}
			}
		}
	}
}

func (c *Conn) reconnect() {
	if !c.state.cas(StateDisconnected, StateReconnecting) {
		return
	}

	for attempt := 1; ; attempt++ {
		wait := c.nextBackoff()
		c.logger.Info().Dur("wait", wait).Int("attempt", attempt).Msg("attempting reconnect")

		select {
		case <-time.After(wait):
		case <-c.stopChan:
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := c.dial(ctx)
		cancel()
		if err != nil {
			c.logger.Error().Err(err).Int("attempt", attempt).Msg("reconnect failed")
			if !c.state.cas(StateDisconnected, StateReconnecting) {
				return
			}
			continue
		}

		c.mu.Lock()
		c.backoff.Reset()
		fn := c.onReconnect
		c.mu.Unlock()

		c.logger.Info().Msg("reconnected successfully")
		if fn != nil {
			fn()
		}
		return
	}
}

func (c *Conn) nextBackoff() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return min(c.backoff.NextBackOff(), c.config.ReconnectMaxWait)
}
