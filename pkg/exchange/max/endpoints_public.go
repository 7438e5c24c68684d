package max

import (
	"fmt"
	"net/http"
	"strconv"

	"maxclient/pkg/core"
)

// GetTimestamp returns the server time in epoch seconds.
type GetTimestamp struct{}

func (GetTimestamp) Route() Route { return publicGet("/api/v2/timestamp") }

type GetCurrencies struct{}

func (GetCurrencies) Route() Route { return publicGet("/api/v2/currencies") }

type GetVIPLevels struct{}

func (GetVIPLevels) Route() Route { return publicGet("/api/v2/vip_levels") }

type GetVIPByLevel struct {
	Level uint8 `json:"-" url:"-"`
}

func (p GetVIPByLevel) Route() Route {
	return publicGet("/api/v2/vip_levels/" + strconv.FormatUint(uint64(p.Level), 10))
}

type GetMarkets struct{}

func (GetMarkets) Route() Route { return publicGet("/api/v2/markets") }

// GetTickers returns tickers of every market keyed by market id.
type GetTickers struct{}

func (GetTickers) Route() Route { return publicGet("/api/v2/tickers") }

type GetTicker struct {
	Market string `json:"-" url:"-"`
}

func (p GetTicker) Route() Route { return publicGet("/api/v2/tickers/" + p.Market) }

type GetDepth struct {
	Market      string  `json:"market" url:"market"`
	Limit       *uint64 `json:"limit,omitempty" url:"limit,omitempty"`
	SortByPrice bool    `json:"sort_by_price" url:"sort_by_price"`
}

func (GetDepth) Route() Route { return publicGet("/api/v2/depth") }

// GetOHLC returns candles. Period is in minutes; Timestamp, in epoch
// seconds, returns candles after that time.
type GetOHLC struct {
	Market    string  `json:"market" url:"market"`
	Limit     *uint64 `json:"limit,omitempty" url:"limit,omitempty"`
	Period    uint16  `json:"period" url:"period"`
	Timestamp *int64  `json:"timestamp,omitempty" url:"timestamp,omitempty"`
}

func (GetOHLC) Route() Route { return publicGet("/api/v2/k") }

// GetPublicTrades lists trades before Timestamp (epoch seconds). From and To
// bound the trade id range.
type GetPublicTrades struct {
	Market      string  `json:"market" url:"market"`
	Timestamp   int64   `json:"timestamp" url:"timestamp"`
	From        *uint64 `json:"from,omitempty" url:"from,omitempty"`
	To          *uint64 `json:"to,omitempty" url:"to,omitempty"`
	OrderBy     OrderBy `json:"order_by,omitempty" url:"order_by,omitempty"`
	Pagination  *bool   `json:"pagination,omitempty" url:"pagination,omitempty"`
	*PageParams `url:",omitempty"`
	Offset      *uint64 `json:"offset,omitempty" url:"offset,omitempty"`
}

func (GetPublicTrades) Route() Route { return publicGet("/api/v2/trades") }

type GetWithdrawalConstraints struct {
	Currency string `json:"currency,omitempty" url:"currency,omitempty"`
}

func (GetWithdrawalConstraints) Route() Route { return publicGet("/api/v2/withdrawal/constraint") }

func publicGet(path string) Route {
	return Route{Method: http.MethodGet, Path: path}
}

// Timestamp is the /timestamp body: a bare number of epoch seconds.
type Timestamp Seconds

type Currency struct {
	ID             string `json:"id"`
	Precision      uint8  `json:"precision"`
	SygnaSupported bool   `json:"sygna_supported"`
}

type VIPLevel struct {
	Level                uint8        `json:"level"`
	MinimumTradingVolume core.Decimal `json:"minimum_trading_volume"`
	MinimumStakingVolume core.Decimal `json:"minimum_staking_volume"`
	MakerFee             core.Decimal `json:"maker_fee"`
	TakerFee             core.Decimal `json:"taker_fee"`
}

type Market struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	BaseUnit           string       `json:"base_unit"`
	BaseUnitPrecision  uint8        `json:"base_unit_precision"`
	MinBaseAmount      core.Decimal `json:"min_base_amount"`
	QuoteUnit          string       `json:"quote_unit"`
	QuoteUnitPrecision uint8        `json:"quote_unit_precision"`
	MinQuoteAmount     core.Decimal `json:"min_quote_amount"`
}

type Ticker struct {
	At     Seconds      `json:"at"`
	Buy    core.Decimal `json:"buy"`
	Sell   core.Decimal `json:"sell"`
	Open   core.Decimal `json:"open"`
	Low    core.Decimal `json:"low"`
	High   core.Decimal `json:"high"`
	Last   core.Decimal `json:"last"`
	Volume core.Decimal `json:"vol"`
}

type Depth struct {
	Timestamp         Seconds       `json:"timestamp"`
	LastUpdateVersion uint64        `json:"last_update_version"`
	LastUpdateID      uint64        `json:"last_update_id"`
	Asks              []PriceVolume `json:"asks"`
	Bids              []PriceVolume `json:"bids"`
}

// OHLC is a positional [time, open, high, low, close, volume] candle.
type OHLC struct {
	Time   Seconds
	Open   core.Decimal
	High   core.Decimal
	Low    core.Decimal
	Close  core.Decimal
	Volume core.Decimal
}

func (o *OHLC) UnmarshalJSON(data []byte) error {
	var raw []core.Decimal
	if err := decoder.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 6 {
		return fmt.Errorf("ohlc: expected 6 elements, got %d", len(raw))
	}
	t, err := raw[0].Int64()
	if err != nil {
		return fmt.Errorf("ohlc time: %w", err)
	}
	o.Time = Seconds(t)
	o.Open, o.High, o.Low, o.Close, o.Volume = raw[1], raw[2], raw[3], raw[4], raw[5]
	return nil
}

type TradeRecord struct {
	ID            uint64        `json:"id"`
	Price         *core.Decimal `json:"price"`
	Volume        *core.Decimal `json:"volume"`
	Funds         *core.Decimal `json:"funds"`
	Market        string        `json:"market"`
	MarketName    string        `json:"market_name"`
	CreatedAt     Seconds       `json:"created_at"`
	CreatedAtInMs Millis        `json:"created_at_in_ms"`
	Side          TradeSide     `json:"side"`
	Fee           *core.Decimal `json:"fee"`
	FeeCurrency   string        `json:"fee_currency"`
	OrderID       *uint64       `json:"order_id"`
}

type WithdrawalConstraint struct {
	Currency  string       `json:"currency"`
	Fee       core.Decimal `json:"fee"`
	Ratio     core.Decimal `json:"ratio"`
	MinAmount core.Decimal `json:"min_amount"`
}
