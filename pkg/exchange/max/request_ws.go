package max

import (
	"strconv"

	"github.com/google/uuid"

	"maxclient/pkg/core"
)

// PrivateFilter narrows the private feeds pushed after authentication.
type PrivateFilter string

const (
	FilterOrder       PrivateFilter = "order"
	FilterTrade       PrivateFilter = "trade"
	FilterAccount     PrivateFilter = "account"
	FilterTradeUpdate PrivateFilter = "trade_update"
)

// AuthRequest is the websocket authentication frame. The nonce is time
// bound, so send it as soon as it is built.
type AuthRequest struct {
	Action    string          `json:"action"`
	APIKey    string          `json:"apiKey"`
	Nonce     uint64          `json:"nonce"`
	Signature string          `json:"signature"`
	ID        string          `json:"id,omitempty"`
	Filters   []PrivateFilter `json:"filters,omitempty"`
}

// NewAuthRequest signs the next nonce of creds. id and filters are optional.
func NewAuthRequest(creds *core.Credentials, id string, filters ...PrivateFilter) *AuthRequest {
	return newAuthRequestWithNonce(creds, creds.Nonce(), id, filters)
}

func newAuthRequestWithNonce(creds *core.Credentials, nonce uint64, id string, filters []PrivateFilter) *AuthRequest {
	return &AuthRequest{
		Action:    "auth",
		APIKey:    creds.AccessKey(),
		Nonce:     nonce,
		Signature: creds.Sign([]byte(strconv.FormatUint(nonce, 10))),
		ID:        id,
		Filters:   filters,
	}
}

// SubscriptionAction is "sub" or "unsub".
type SubscriptionAction string

const (
	ActionSubscribe   SubscriptionAction = "sub"
	ActionUnsubscribe SubscriptionAction = "unsub"
)

// SubscriptionRequest subscribes to or unsubscribes from public channels.
type SubscriptionRequest struct {
	Action        SubscriptionAction `json:"action"`
	Subscriptions *SubscriptionSet   `json:"subscriptions"`
	ID            string             `json:"id"`
}

// NewSubscribe returns an empty sub request. An empty id gets a random one.
func NewSubscribe(id string) *SubscriptionRequest {
	return newSubscriptionRequest(ActionSubscribe, id)
}

// NewUnsubscribe returns an empty unsub request. An empty id gets a random one.
func NewUnsubscribe(id string) *SubscriptionRequest {
	return newSubscriptionRequest(ActionUnsubscribe, id)
}

func newSubscriptionRequest(action SubscriptionAction, id string) *SubscriptionRequest {
	if id == "" {
		id = uuid.NewString()
	}
	return &SubscriptionRequest{
		Action:        action,
		Subscriptions: NewSubscriptionSet(),
		ID:            id,
	}
}
