package max

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
	"github.com/go-playground/validator/v10"

	"maxclient/pkg/core"
)

// EventKind identifies the variant of a classified push frame.
type EventKind int

const (
	KindError EventKind = iota
	KindSubscribed
	KindUnsubscribed
	KindAuthenticated
	KindPublicBook
	KindPublicTrade
	KindPublicTicker
	KindMarketStatus
	KindPrivateOrder
	KindPrivateTrade
	KindPrivateBalance
)

func (k EventKind) String() string {
	names := [...]string{
		"error", "subscribed", "unsubscribed", "authenticated",
		"book", "trade", "ticker", "market_status",
		"order", "private_trade", "account",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
	return names[k]
}

// Event is a classified server push. The set of implementations is closed;
// switch on the concrete type or on Kind.
type Event interface {
	Kind() EventKind
	normalize() error
}

// ErrorEvent is a server-side rejection of a client frame.
type ErrorEvent struct {
	Errors    []string `json:"E"`
	ID        string   `json:"i"`
	Timestamp Millis   `json:"T"`
}

func (*ErrorEvent) Kind() EventKind  { return KindError }
func (*ErrorEvent) normalize() error { return nil }

func (e *ErrorEvent) Error() string {
	return fmt.Sprintf("[max] stream error (id %q): %s", e.ID, strings.Join(e.Errors, "; "))
}

// SubscriptionAck acknowledges a sub or unsub request and echoes the
// affected channels.
type SubscriptionAck struct {
	EventType     string          `json:"e"`
	Subscriptions SubscriptionSet `json:"s"`
	ID            string          `json:"i"`
	Timestamp     Millis          `json:"T"`
	IsSubscribe   bool            `json:"-"`
}

func (a *SubscriptionAck) Kind() EventKind {
	if a.IsSubscribe {
		return KindSubscribed
	}
	return KindUnsubscribed
}

func (a *SubscriptionAck) normalize() error {
	switch a.EventType {
	case "subscribed":
		a.IsSubscribe = true
	case "unsubscribed":
		a.IsSubscribe = false
	default:
		return &core.InvalidValueError{Value: a.EventType, Expected: []string{"subscribed", "unsubscribed"}}
	}
	return nil
}

// AuthAck acknowledges a successful auth frame.
type AuthAck struct {
	ID        string `json:"i"`
	Timestamp Millis `json:"T"`
}

func (*AuthAck) Kind() EventKind  { return KindAuthenticated }
func (*AuthAck) normalize() error { return nil }

const unknownField = "N/A"

var (
	validate = validator.New()

	errNotObject = errors.New("push frame is not a JSON object")
)

type classifyRule struct {
	match    func(eventType, channel string) bool
	required []string
	decode   func(data []byte) (Event, error)
}

func onEvent(want string) func(string, string) bool {
	return func(e, _ string) bool { return e == want }
}

func onChannel(want string) func(string, string) bool {
	return func(_, c string) bool { return c == want }
}

func onUserPrefix(prefix string) func(string, string) bool {
	return func(e, c string) bool { return c == "user" && strings.HasPrefix(e, prefix) }
}

// rules are tried in order; the first match decides the variant.
var rules = []classifyRule{
	{onEvent("subscribed"), []string{"e", "s", "i", "T"}, decodeAs[SubscriptionAck]},
	{onEvent("unsubscribed"), []string{"e", "s", "i", "T"}, decodeAs[SubscriptionAck]},
	{onEvent("authenticated"), []string{"i", "T"}, decodeAs[AuthAck]},
	{onChannel("book"), []string{"e", "M", "a", "b", "T"}, decodeAs[PublicBookFeed]},
	{onChannel("trade"), []string{"e", "M", "t", "T"}, decodeAs[PublicTradeFeed]},
	{onChannel("ticker"), []string{"e", "M", "tk", "T"}, decodeAs[PublicTickerFeed]},
	{onChannel("market_status"), []string{"c", "e", "ms"}, decodeAs[MarketStatusFeed]},
	{onUserPrefix("order_"), []string{"e", "o", "T"}, decodeAs[PrivateOrderFeed]},
	{onUserPrefix("trade_"), []string{"e", "t", "T"}, decodeAs[PrivateTradeFeed]},
	{onUserPrefix("account_"), []string{"e", "B", "T"}, decodeAs[PrivateBalanceFeed]},
}

var errorRule = classifyRule{required: []string{"E", "i", "T"}, decode: decodeAs[ErrorEvent]}

func decodeAs[T any, P interface {
	*T
	Event
}](data []byte) (Event, error) {
	var v T
	p := P(&v)
	if err := decoder.Unmarshal(data, p); err != nil {
		return nil, err
	}
	if err := validate.Struct(p); err != nil {
		return nil, err
	}
	if err := p.normalize(); err != nil {
		return nil, err
	}
	return p, nil
}

// Classify turns one raw push frame into a typed Event. A frame with an
// "E" array is always an ErrorEvent. Otherwise the "e" and "c" keys select
// the variant; absent or non-string keys read as "N/A". Every failure is an
// *core.EventError carrying both keys.
func Classify(data []byte) (Event, error) {
	root, err := sonic.Get(data)
	if err != nil {
		return nil, &core.EventError{EventType: unknownField, Channel: unknownField, Err: err}
	}
	if root.TypeSafe() != ast.V_OBJECT {
		return nil, &core.EventError{EventType: unknownField, Channel: unknownField, Err: errNotObject}
	}

	eventType := stringKey(&root, "e")
	channel := stringKey(&root, "c")

	if root.Get("E").TypeSafe() == ast.V_ARRAY {
		return errorRule.apply(&root, data, eventType, channel)
	}
	for _, r := range rules {
		if r.match(eventType, channel) {
			return r.apply(&root, data, eventType, channel)
		}
	}
	return nil, &core.EventError{EventType: eventType, Channel: channel, Err: core.ErrUnknownEvent}
}

func (r classifyRule) apply(root *ast.Node, data []byte, eventType, channel string) (Event, error) {
	for _, key := range r.required {
		if !root.Get(key).Exists() {
			return nil, &core.EventError{EventType: eventType, Channel: channel, Err: fmt.Errorf("missing field %q", key)}
		}
	}
	ev, err := r.decode(data)
	if err != nil {
		return nil, &core.EventError{EventType: eventType, Channel: channel, Err: err}
	}
	return ev, nil
}

func stringKey(root *ast.Node, key string) string {
	n := root.Get(key)
	if n.TypeSafe() != ast.V_STRING {
		return unknownField
	}
	s, err := n.String()
	if err != nil {
		return unknownField
	}
	return s
}
