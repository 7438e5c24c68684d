package max

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"maxclient/pkg/core"
)

// OrderSide is the side of an order: "buy" or "sell".
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// TradeSide is the taker side of a trade record: "bid" or "ask".
type TradeSide string

const (
	TradeSideBid TradeSide = "bid"
	TradeSideAsk TradeSide = "ask"
)

type OrderType string

const (
	OrderTypeLimit      OrderType = "limit"
	OrderTypeMarket     OrderType = "market"
	OrderTypeStopLimit  OrderType = "stop_limit"
	OrderTypeStopMarket OrderType = "stop_market"
	OrderTypePostOnly   OrderType = "post_only"
	OrderTypeIOCLimit   OrderType = "ioc_limit"
)

// OrderState values. "wait" means waiting for fulfillment and "convert"
// means a stop order was triggered.
type OrderState string

const (
	OrderStateWait       OrderState = "wait"
	OrderStateDone       OrderState = "done"
	OrderStateCancel     OrderState = "cancel"
	OrderStateConvert    OrderState = "convert"
	OrderStateFinalizing OrderState = "finalizing"
	OrderStateFailed     OrderState = "failed"
)

// OrderBy sorts list results by creation time.
type OrderBy string

const (
	OrderByAsc  OrderBy = "asc"
	OrderByDesc OrderBy = "desc"
)

type DepositState string

const (
	DepositStateSubmitting     DepositState = "submitting"
	DepositStateCancelled      DepositState = "cancelled"
	DepositStateSubmitted      DepositState = "submitted"
	DepositStateSuspended      DepositState = "suspended"
	DepositStateRejected       DepositState = "rejected"
	DepositStateAccepted       DepositState = "accepted"
	DepositStateChecking       DepositState = "checking"
	DepositStateRefunded       DepositState = "refunded"
	DepositStateSuspect        DepositState = "suspect"
	DepositStateRefundCanceled DepositState = "refund_canceled"
)

type WithdrawalState string

const (
	WithdrawalStateSubmitting WithdrawalState = "submitting"
	WithdrawalStateSubmitted  WithdrawalState = "submitted"
	WithdrawalStateRejected   WithdrawalState = "rejected"
	WithdrawalStateAccepted   WithdrawalState = "accepted"
	WithdrawalStateApproved   WithdrawalState = "approved"
	WithdrawalStateProcessing WithdrawalState = "processing"
	WithdrawalStateSent       WithdrawalState = "sent"
	WithdrawalStateCanceled   WithdrawalState = "canceled"
	WithdrawalStateFailed     WithdrawalState = "failed"
	WithdrawalStatePending    WithdrawalState = "pending"
	WithdrawalStateConfirmed  WithdrawalState = "confirmed"
)

// PageParams selects a page of a paginated list. Page starts at 1 and
// Limit ranges 1 to 1000.
type PageParams struct {
	Page  uint64 `json:"page" url:"page"`
	Limit uint64 `json:"limit" url:"limit"`
}

// DefaultPage is page 1 with 50 records.
func DefaultPage() *PageParams {
	return &PageParams{Page: 1, Limit: 50}
}

// PriceVolume is a ["price", "volume"] pair as found in depth and book
// payloads.
type PriceVolume struct {
	Price  core.Decimal
	Volume core.Decimal
}

func (p *PriceVolume) UnmarshalJSON(data []byte) error {
	var raw []core.Decimal
	if err := decoder.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("price/volume entry: expected 2 elements, got %d", len(raw))
	}
	p.Price, p.Volume = raw[0], raw[1]
	return nil
}

func (p PriceVolume) MarshalJSON() ([]byte, error) {
	return sonic.Marshal([]core.Decimal{p.Price, p.Volume})
}

// Millis is an epoch timestamp in milliseconds.
type Millis int64

func (m Millis) Time() time.Time {
	return time.UnixMilli(int64(m))
}

// Seconds is an epoch timestamp in seconds.
type Seconds int64

func (s Seconds) Time() time.Time {
	return time.Unix(int64(s), 0)
}

// decoder is case-sensitive: push payloads use keys that differ only in
// case ("t" and "T", "m" and "M").
var decoder = sonic.Config{CaseSensitive: true, CopyString: true}.Froze()
