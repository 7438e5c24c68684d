package max

import (
	"strings"
	"time"

	"maxclient/pkg/core"
)

// Feed is a market or account data push. Snapshots replace local state;
// updates apply on top of it.
type Feed interface {
	Event
	IsSnapshot() bool
	Time() time.Time
}

var (
	_ Feed = (*PublicBookFeed)(nil)
	_ Feed = (*PublicTradeFeed)(nil)
	_ Feed = (*PublicTickerFeed)(nil)
	_ Feed = (*MarketStatusFeed)(nil)
	_ Feed = (*PrivateOrderFeed)(nil)
	_ Feed = (*PrivateTradeFeed)(nil)
	_ Feed = (*PrivateBalanceFeed)(nil)
)

func parsePublicMarker(eventType string) (bool, error) {
	switch strings.ToLower(eventType) {
	case "snapshot":
		return true, nil
	case "update":
		return false, nil
	}
	return false, &core.InvalidValueError{Value: eventType, Expected: []string{"snapshot", "update"}}
}

func parsePrivateMarker(eventType string) (bool, error) {
	lower := strings.ToLower(eventType)
	switch {
	case strings.HasSuffix(lower, "_snapshot"):
		return true, nil
	case strings.HasSuffix(lower, "_update"):
		return false, nil
	}
	return false, &core.InvalidValueError{Value: eventType, Expected: []string{"*_snapshot", "*_update"}}
}

type feedHeader struct {
	EventType string `json:"e"`
	Timestamp Millis `json:"T"`
	snapshot  bool
}

func (h *feedHeader) IsSnapshot() bool { return h.snapshot }

func (h *feedHeader) Time() time.Time { return h.Timestamp.Time() }

func (h *feedHeader) parsePublic() (err error) {
	h.snapshot, err = parsePublicMarker(h.EventType)
	return err
}

func (h *feedHeader) parsePrivate() (err error) {
	h.snapshot, err = parsePrivateMarker(h.EventType)
	return err
}

// PublicBookFeed is a "book" channel push.
type PublicBookFeed struct {
	feedHeader
	Market string        `json:"M" validate:"required"`
	Asks   []PriceVolume `json:"a"`
	Bids   []PriceVolume `json:"b"`
}

func (*PublicBookFeed) Kind() EventKind    { return KindPublicBook }
func (f *PublicBookFeed) normalize() error { return f.parsePublic() }

// PublicTradeFeed is a "trade" channel push.
type PublicTradeFeed struct {
	feedHeader
	Market string        `json:"M" validate:"required"`
	Trades []PublicTrade `json:"t" validate:"dive"`
}

type PublicTrade struct {
	Price     core.Decimal `json:"p"`
	Volume    core.Decimal `json:"v"`
	Timestamp Millis       `json:"T" validate:"required"`
	Trend     string       `json:"tr"`
}

func (*PublicTradeFeed) Kind() EventKind    { return KindPublicTrade }
func (f *PublicTradeFeed) normalize() error { return f.parsePublic() }

// PublicTickerFeed is a "ticker" channel push.
type PublicTickerFeed struct {
	feedHeader
	Market string       `json:"M" validate:"required"`
	Ticker TickerRecord `json:"tk"`
}

type TickerRecord struct {
	Open   core.Decimal `json:"O"`
	High   core.Decimal `json:"H"`
	Low    core.Decimal `json:"L"`
	Close  core.Decimal `json:"C"`
	Volume core.Decimal `json:"v"`
}

func (*PublicTickerFeed) Kind() EventKind    { return KindPublicTicker }
func (f *PublicTickerFeed) normalize() error { return f.parsePublic() }

// MarketStatusFeed is a "market_status" channel push. It may carry no
// timestamp, in which case Time is the zero time.
type MarketStatusFeed struct {
	Channel   string         `json:"c"`
	EventType string         `json:"e"`
	Markets   []MarketStatus `json:"ms" validate:"dive"`
	Timestamp Millis         `json:"T"`
	snapshot  bool
}

type MarketStatus struct {
	Market             string       `json:"M" validate:"required"`
	Status             string       `json:"st"`
	BaseUnit           string       `json:"bu"`
	BaseUnitPrecision  int8         `json:"bup"`
	MinBaseAmount      core.Decimal `json:"mba"`
	QuoteUnit          string       `json:"qu"`
	QuoteUnitPrecision int8         `json:"qup"`
	MinQuoteAmount     core.Decimal `json:"mqa"`
	MWalletSupported   bool         `json:"mws"`
}

func (*MarketStatusFeed) Kind() EventKind    { return KindMarketStatus }
func (f *MarketStatusFeed) IsSnapshot() bool { return f.snapshot }

func (f *MarketStatusFeed) Time() time.Time {
	if f.Timestamp == 0 {
		return time.Time{}
	}
	return f.Timestamp.Time()
}

func (f *MarketStatusFeed) normalize() (err error) {
	f.snapshot, err = parsePublicMarker(f.EventType)
	return err
}

// PrivateOrderFeed is an "order_snapshot" or "order_update" push.
type PrivateOrderFeed struct {
	feedHeader
	Orders []PrivateOrder `json:"o" validate:"dive"`
}

type PrivateOrder struct {
	ID              uint64        `json:"i" validate:"required"`
	Side            OrderSide     `json:"sd"`
	OrdType         OrderType     `json:"ot"`
	Price           *core.Decimal `json:"p"`
	StopPrice       *core.Decimal `json:"sp"`
	AvgPrice        *core.Decimal `json:"ap"`
	State           OrderState    `json:"S"`
	Market          string        `json:"M" validate:"required"`
	Timestamp       Millis        `json:"T" validate:"required"`
	Volume          core.Decimal  `json:"v"`
	RemainingVolume *core.Decimal `json:"rv"`
	ExecutedVolume  *core.Decimal `json:"ev"`
	TradeCount      *uint64       `json:"tc"`
	ClientOID       *string       `json:"ci"`
	GroupID         *uint64       `json:"gi"`
}

func (*PrivateOrderFeed) Kind() EventKind    { return KindPrivateOrder }
func (f *PrivateOrderFeed) normalize() error { return f.parsePrivate() }

// PrivateTradeFeed is a "trade_snapshot" or "trade_update" push.
type PrivateTradeFeed struct {
	feedHeader
	Trades []PrivateTrade `json:"t" validate:"dive"`
}

type PrivateTrade struct {
	ID          uint64       `json:"i" validate:"required"`
	Side        OrderSide    `json:"sd"`
	Price       core.Decimal `json:"p"`
	Volume      core.Decimal `json:"v"`
	Market      string       `json:"M" validate:"required"`
	Timestamp   Millis       `json:"T" validate:"required"`
	Fee         core.Decimal `json:"f"`
	FeeCurrency string       `json:"fc"`
	IsMaker     bool         `json:"m"`
}

func (*PrivateTradeFeed) Kind() EventKind    { return KindPrivateTrade }
func (f *PrivateTradeFeed) normalize() error { return f.parsePrivate() }

// PrivateBalanceFeed is an "account_snapshot" or "account_update" push.
type PrivateBalanceFeed struct {
	feedHeader
	Balances []Balance `json:"B" validate:"dive"`
}

type Balance struct {
	Currency  string       `json:"cu" validate:"required"`
	Available core.Decimal `json:"av"`
	Locked    core.Decimal `json:"l"`
}

func (*PrivateBalanceFeed) Kind() EventKind    { return KindPrivateBalance }
func (f *PrivateBalanceFeed) normalize() error { return f.parsePrivate() }
