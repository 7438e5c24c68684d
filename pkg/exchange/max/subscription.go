package max

import (
	"cmp"
	"iter"
	"slices"
	"strings"

	"maxclient/pkg/core"
)

// ChannelKind is a public websocket channel.
type ChannelKind int

const (
	ChannelOrderbook ChannelKind = iota
	ChannelTrade
	ChannelTicker
)

// String returns the wire name of the channel.
func (k ChannelKind) String() string {
	return [...]string{"book", "trade", "ticker"}[k]
}

// ParseChannelKind accepts "book", "orderbook", "trade" and "ticker" in
// any case.
func ParseChannelKind(s string) (ChannelKind, error) {
	switch strings.ToLower(s) {
	case "book", "orderbook":
		return ChannelOrderbook, nil
	case "trade":
		return ChannelTrade, nil
	case "ticker":
		return ChannelTicker, nil
	}
	return 0, &core.InvalidValueError{Value: s, Expected: []string{"book", "orderbook", "trade", "ticker"}}
}

// Subscription is one channel of a market. Depth only applies to the
// orderbook channel.
type Subscription struct {
	Channel ChannelKind
	Market  string
	Depth   *uint32
}

type subscriptionWire struct {
	Channel string  `json:"channel"`
	Market  string  `json:"market"`
	Depth   *uint32 `json:"depth,omitempty"`
}

type subscriptionKey struct {
	channel ChannelKind
	market  string
}

// SubscriptionSet holds at most one subscription per (channel, market).
// Inserting an existing key replaces its attributes. The zero value is an
// empty set. It serializes as a JSON array of {channel, market, depth?}.
type SubscriptionSet struct {
	entries map[subscriptionKey]Subscription
}

func NewSubscriptionSet() *SubscriptionSet {
	return &SubscriptionSet{entries: make(map[subscriptionKey]Subscription)}
}

// InsertOrderbook adds the book channel of market. It reports whether the
// key was new.
func (s *SubscriptionSet) InsertOrderbook(market string, depth *uint32) bool {
	return s.insert(Subscription{Channel: ChannelOrderbook, Market: market, Depth: depth})
}

func (s *SubscriptionSet) InsertTrade(market string) bool {
	return s.insert(Subscription{Channel: ChannelTrade, Market: market})
}

func (s *SubscriptionSet) InsertTicker(market string) bool {
	return s.insert(Subscription{Channel: ChannelTicker, Market: market})
}

// RemoveOrderbook reports whether the subscription was present.
func (s *SubscriptionSet) RemoveOrderbook(market string) bool {
	return s.remove(ChannelOrderbook, market)
}

func (s *SubscriptionSet) RemoveTrade(market string) bool {
	return s.remove(ChannelTrade, market)
}

func (s *SubscriptionSet) RemoveTicker(market string) bool {
	return s.remove(ChannelTicker, market)
}

func (s *SubscriptionSet) Len() int {
	return len(s.entries)
}

func (s *SubscriptionSet) IsEmpty() bool {
	return len(s.entries) == 0
}

func (s *SubscriptionSet) Clear() {
	clear(s.entries)
}

// All yields the subscriptions in unspecified order. A nil set yields
// nothing.
func (s *SubscriptionSet) All() iter.Seq[Subscription] {
	return func(yield func(Subscription) bool) {
		if s == nil {
			return
		}
		for _, sub := range s.entries {
			if !yield(sub) {
				return
			}
		}
	}
}

// Sorted returns the subscriptions ordered by channel then market.
func (s *SubscriptionSet) Sorted() []Subscription {
	subs := slices.Collect(s.All())
	slices.SortFunc(subs, func(a, b Subscription) int {
		if c := cmp.Compare(a.Channel, b.Channel); c != 0 {
			return c
		}
		return cmp.Compare(a.Market, b.Market)
	})
	return subs
}

// Merge inserts every subscription of other into s.
func (s *SubscriptionSet) Merge(other *SubscriptionSet) {
	for sub := range other.All() {
		s.insert(sub)
	}
}

// Subtract removes every key of other from s.
func (s *SubscriptionSet) Subtract(other *SubscriptionSet) {
	for sub := range other.All() {
		s.remove(sub.Channel, sub.Market)
	}
}

// Clone returns an independent copy.
func (s *SubscriptionSet) Clone() *SubscriptionSet {
	out := NewSubscriptionSet()
	out.Merge(s)
	return out
}

func (s *SubscriptionSet) insert(sub Subscription) bool {
	if s.entries == nil {
		s.entries = make(map[subscriptionKey]Subscription)
	}
	if sub.Channel != ChannelOrderbook {
		sub.Depth = nil
	}
	key := subscriptionKey{channel: sub.Channel, market: sub.Market}
	_, exists := s.entries[key]
	s.entries[key] = sub
	return !exists
}

func (s *SubscriptionSet) remove(channel ChannelKind, market string) bool {
	key := subscriptionKey{channel: channel, market: market}
	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	return true
}

func (s SubscriptionSet) MarshalJSON() ([]byte, error) {
	wire := make([]subscriptionWire, 0, len(s.entries))
	for _, sub := range s.Sorted() {
		wire = append(wire, subscriptionWire{
			Channel: sub.Channel.String(),
			Market:  sub.Market,
			Depth:   sub.Depth,
		})
	}
	return decoder.Marshal(wire)
}

// UnmarshalJSON rebuilds the set from its array form. Later duplicates win.
func (s *SubscriptionSet) UnmarshalJSON(data []byte) error {
	var wire []subscriptionWire
	if err := decoder.Unmarshal(data, &wire); err != nil {
		return err
	}

	entries := make(map[subscriptionKey]Subscription, len(wire))
	for _, w := range wire {
		kind, err := ParseChannelKind(w.Channel)
		if err != nil {
			return err
		}
		sub := Subscription{Channel: kind, Market: w.Market, Depth: w.Depth}
		if kind != ChannelOrderbook {
			sub.Depth = nil
		}
		entries[subscriptionKey{channel: kind, market: w.Market}] = sub
	}
	s.entries = entries
	return nil
}
