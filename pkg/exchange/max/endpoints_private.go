package max

import (
	"net/http"

	"maxclient/pkg/core"
)

type GetAccounts struct{}

func (GetAccounts) Route() Route { return privateRoute(http.MethodGet, "/api/v2/members/accounts") }

type GetAccountOfCurrency struct {
	Currency string `json:"-" url:"-"`
}

func (p GetAccountOfCurrency) Route() Route {
	return privateRoute(http.MethodGet, "/api/v2/members/accounts/"+p.Currency)
}

// GetOrder looks an order up by ID or by ClientOID.
type GetOrder struct {
	ID        *uint64 `json:"id,omitempty" url:"id,omitempty"`
	ClientOID string  `json:"client_oid,omitempty" url:"client_oid,omitempty"`
}

func (GetOrder) Route() Route { return privateRoute(http.MethodGet, "/api/v2/order") }

// GetOrders lists orders. State defaults to wait and convert on the server;
// it is sent as repeated state[] keys.
type GetOrders struct {
	Market      string       `json:"market" url:"market"`
	State       []OrderState `json:"state,omitempty" url:"state,brackets,omitempty"`
	OrderBy     OrderBy      `json:"order_by,omitempty" url:"order_by,omitempty"`
	GroupID     *uint64      `json:"group_id,omitempty" url:"group_id,omitempty"`
	Pagination  *bool        `json:"pagination,omitempty" url:"pagination,omitempty"`
	*PageParams `url:",omitempty"`
	Offset      *uint64 `json:"offset,omitempty" url:"offset,omitempty"`
}

func (GetOrders) Route() Route { return privateRoute(http.MethodGet, "/api/v2/orders") }

type CreateOrder struct {
	Market    string        `json:"market"`
	Side      OrderSide     `json:"side"`
	Volume    core.Decimal  `json:"volume"`
	Price     *core.Decimal `json:"price,omitempty"`
	ClientOID string        `json:"client_oid,omitempty"`
	StopPrice *core.Decimal `json:"stop_price,omitempty"`
	OrdType   OrderType     `json:"ord_type"`
	GroupID   *uint64       `json:"group_id,omitempty"`
}

func (CreateOrder) Route() Route { return privateRoute(http.MethodPost, "/api/v2/orders") }

type DeleteOrder struct {
	ID        *uint64 `json:"id,omitempty"`
	ClientOID string  `json:"client_oid,omitempty"`
}

func (DeleteOrder) Route() Route { return privateRoute(http.MethodPost, "/api/v2/order/delete") }

// ClearOrders cancels every order of Market on Side.
type ClearOrders struct {
	Market  string    `json:"market"`
	Side    OrderSide `json:"side"`
	GroupID *uint64   `json:"group_id,omitempty"`
}

func (ClearOrders) Route() Route { return privateRoute(http.MethodPost, "/api/v2/orders/clear") }

type GetMyTrades struct {
	Market      string  `json:"market" url:"market"`
	Timestamp   *int64  `json:"timestamp,omitempty" url:"timestamp,omitempty"`
	From        *uint64 `json:"from,omitempty" url:"from,omitempty"`
	To          *uint64 `json:"to,omitempty" url:"to,omitempty"`
	OrderBy     OrderBy `json:"order_by,omitempty" url:"order_by,omitempty"`
	Pagination  *bool   `json:"pagination,omitempty" url:"pagination,omitempty"`
	*PageParams `url:",omitempty"`
	Offset      *uint64 `json:"offset,omitempty" url:"offset,omitempty"`
}

func (GetMyTrades) Route() Route { return privateRoute(http.MethodGet, "/api/v2/trades/my") }

// GetDeposits lists deposits of Currency between From and To (epoch seconds).
type GetDeposits struct {
	Currency    string       `json:"currency" url:"currency"`
	From        *int64       `json:"from,omitempty" url:"from,omitempty"`
	To          *int64       `json:"to,omitempty" url:"to,omitempty"`
	State       DepositState `json:"state,omitempty" url:"state,omitempty"`
	Pagination  *bool        `json:"pagination,omitempty" url:"pagination,omitempty"`
	*PageParams `url:",omitempty"`
	Offset      *uint64 `json:"offset,omitempty" url:"offset,omitempty"`
}

func (GetDeposits) Route() Route { return privateRoute(http.MethodGet, "/api/v2/deposits") }

type GetWithdrawals struct {
	Currency    string          `json:"currency,omitempty" url:"currency,omitempty"`
	From        *int64          `json:"from,omitempty" url:"from,omitempty"`
	To          *int64          `json:"to,omitempty" url:"to,omitempty"`
	State       WithdrawalState `json:"state,omitempty" url:"state,omitempty"`
	Pagination  *bool           `json:"pagination,omitempty" url:"pagination,omitempty"`
	*PageParams `url:",omitempty"`
	Offset      *uint64 `json:"offset,omitempty" url:"offset,omitempty"`
}

func (GetWithdrawals) Route() Route { return privateRoute(http.MethodGet, "/api/v2/withdrawals") }

func privateRoute(method, path string) Route {
	return Route{Method: method, Path: path, Private: true}
}

type Account struct {
	Currency     string        `json:"currency"`
	Balance      core.Decimal  `json:"balance"`
	Locked       core.Decimal  `json:"locked"`
	Type         string        `json:"type"`
	FiatCurrency string        `json:"fiat_currency"`
	FiatBalance  *core.Decimal `json:"fiat_balance"`
}

type Order struct {
	ID              uint64        `json:"id"`
	ClientOID       string        `json:"client_oid"`
	Side            OrderSide     `json:"side"`
	OrdType         OrderType     `json:"ord_type"`
	Price           *core.Decimal `json:"price"`
	StopPrice       *core.Decimal `json:"stop_price"`
	AvgPrice        *core.Decimal `json:"avg_price"`
	State           OrderState    `json:"state"`
	Market          string        `json:"market"`
	CreatedAt       Seconds       `json:"created_at"`
	CreatedAtInMs   Millis        `json:"created_at_in_ms"`
	UpdatedAt       Seconds       `json:"updated_at"`
	UpdatedAtInMs   Millis        `json:"updated_at_in_ms"`
	Volume          *core.Decimal `json:"volume"`
	RemainingVolume *core.Decimal `json:"remaining_volume"`
	ExecutedVolume  *core.Decimal `json:"executed_volume"`
	TradesCount     uint64        `json:"trades_count"`
	GroupID         *uint64       `json:"group_id"`
}

type Deposit struct {
	UUID            string       `json:"uuid"`
	Currency        string       `json:"currency"`
	CurrencyVersion string       `json:"currency_version"`
	Amount          core.Decimal `json:"amount"`
	Fee             core.Decimal `json:"fee"`
	TxID            string       `json:"txid"`
	CreatedAt       Seconds      `json:"created_at"`
	Confirmations   uint64       `json:"confirmations"`
	UpdatedAt       Seconds      `json:"updated_at"`
	State           DepositState `json:"state"`
}

type Withdrawal struct {
	UUID            string          `json:"uuid"`
	Currency        string          `json:"currency"`
	CurrencyVersion string          `json:"currency_version"`
	Amount          core.Decimal    `json:"amount"`
	Fee             core.Decimal    `json:"fee"`
	FeeCurrency     string          `json:"fee_currency"`
	TxID            string          `json:"txid"`
	CreatedAt       Seconds         `json:"created_at"`
	UpdatedAt       Seconds         `json:"updated_at"`
	State           WithdrawalState `json:"state"`
}
