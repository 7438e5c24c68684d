package max

import (
	"context"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"

	"maxclient/internal/ws"
	"maxclient/pkg/core"
)

const streamBuffer = 256

// Stream is a MAX websocket session. Classified pushes arrive on Events;
// frames that fail classification arrive on Errors. After a reconnect the
// stream re-authenticates with a fresh nonce and restores its
// subscriptions.
type Stream struct {
	conn   *ws.Conn
	creds  *core.Credentials
	logger zerolog.Logger

	events chan Event
	errors chan error
	done   chan struct{}
	once   sync.Once

	mu      sync.Mutex
	subs    *SubscriptionSet
	authed  bool
	authID  string
	filters []PrivateFilter
}

// NewStream creates an unconnected stream. creds may be nil for public
// channels only.
func NewStream(config *core.Config, creds *core.Credentials) (*Stream, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Stream{
		creds:  creds,
		logger: zerolog.Nop(),
		events: make(chan Event, streamBuffer),
		errors: make(chan error, streamBuffer),
		done:   make(chan struct{}),
		subs:   NewSubscriptionSet(),
	}
	s.conn = ws.NewConn(ws.Config{
		URL:              config.WSURL,
		ReconnectEnabled: config.ReconnectEnabled,
	}, s.handle)
	s.conn.OnReconnect(s.resume)
	return s, nil
}

// SetLogger configures the logger for the stream and its connection.
func (s *Stream) SetLogger(logger zerolog.Logger) {
	s.logger = logger
	s.conn.SetLogger(logger)
}

func (s *Stream) Connect(ctx context.Context) error {
	return s.conn.Connect(ctx)
}

func (s *Stream) Events() <-chan Event {
	return s.events
}

func (s *Stream) Errors() <-chan error {
	return s.errors
}

// Subscriptions returns a copy of the channels the stream restores on
// reconnect.
func (s *Stream) Subscriptions() *SubscriptionSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs.Clone()
}

// Subscribe sends a sub request for set and returns its request id.
func (s *Stream) Subscribe(set *SubscriptionSet) (string, error) {
	req := NewSubscribe("")
	req.Subscriptions = set.Clone()
	if err := s.send(req); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.subs.Merge(set)
	s.mu.Unlock()
	return req.ID, nil
}

// Unsubscribe sends an unsub request for set and returns its request id.
func (s *Stream) Unsubscribe(set *SubscriptionSet) (string, error) {
	req := NewUnsubscribe("")
	req.Subscriptions = set.Clone()
	if err := s.send(req); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.subs.Subtract(set)
	s.mu.Unlock()
	return req.ID, nil
}

// Authenticate sends an auth frame. The server answers with an AuthAck or
// an ErrorEvent on Events.
func (s *Stream) Authenticate(id string, filters ...PrivateFilter) error {
	if s.creds == nil {
		return core.ErrNoCredentials
	}
	if err := s.send(NewAuthRequest(s.creds, id, filters...)); err != nil {
		return err
	}

	s.mu.Lock()
	s.authed = true
	s.authID = id
	s.filters = filters
	s.mu.Unlock()
	return nil
}

// Close stops the connection and closes Events and Errors.
func (s *Stream) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.conn.Close()
		close(s.events)
		close(s.errors)
	})
	return err
}

func (s *Stream) send(v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	return s.conn.WriteText(data)
}

func (s *Stream) handle(data []byte) {
	ev, err := Classify(data)
	if err != nil {
		s.logger.Warn().Err(err).Msg("dropping unclassified push")
		select {
		case s.errors <- err:
		case <-s.done:
		}
		return
	}

	select {
	case s.events <- ev:
	case <-s.done:
	}
}

func (s *Stream) resume() {
	s.mu.Lock()
	authed, id, filters := s.authed, s.authID, s.filters
	subs := s.subs.Clone()
	s.mu.Unlock()

	if authed {
		if err := s.send(NewAuthRequest(s.creds, id, filters...)); err != nil {
			s.logger.Error().Err(err).Msg("re-authentication failed")
		}
	}
	if subs.IsEmpty() {
		return
	}
	req := NewSubscribe("")
	req.Subscriptions = subs
	if err := s.send(req); err != nil {
		s.logger.Error().Err(err).Int("channels", subs.Len()).Msg("resubscribe failed")
		return
	}
	s.logger.Info().Int("channels", subs.Len()).Msg("restored subscriptions")
}
