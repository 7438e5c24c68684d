package max

import (
	"encoding/base64"
	"errors"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maxclient/pkg/core"
)

type badEndpoint struct {
	Private bool
	Method  string
}

func (e badEndpoint) Route() Route {
	return Route{Method: e.Method, Path: "/api/v2/bad", Private: e.Private}
}

func TestBuildRequest_Public(t *testing.T) {
	limit := uint64(10)

	tests := []struct {
		name     string
		endpoint Endpoint
		path     string
		query    string
	}{
		{"no params", GetMarkets{}, "/api/v2/markets", ""},
		{"path param", GetTicker{Market: "btctwd"}, "/api/v2/tickers/btctwd", ""},
		{"query params", GetDepth{Market: "btctwd", Limit: &limit, SortByPrice: true}, "/api/v2/depth", "limit=10&market=btctwd&sort_by_price=true"},
		{"optional omitted", GetWithdrawalConstraints{}, "/api/v2/withdrawal/constraint", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := BuildRequest(nil, tt.endpoint)
			require.NoError(t, err)

			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, tt.query, req.Query)
			assert.False(t, req.RequireAuth)
			assert.Empty(t, req.Headers)
			assert.Nil(t, req.Body)
		})
	}
}

func TestBuildRequest_PrivateGet(t *testing.T) {
	creds := fixedCredentials(testNonce)

	req, err := BuildRequest(creds, GetOrders{
		Market: "btctwd",
		State:  []OrderState{OrderStateWait, OrderStateDone},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/v2/orders", req.Path)
	assert.Equal(t, "market=btctwd&nonce=1700000000000&state%5B%5D=wait&state%5B%5D=done", req.Query)
	assert.True(t, req.RequireAuth)
	assert.Nil(t, req.Body)

	assert.Equal(t, "access", req.Headers[HeaderAccessKey])
	assert.Equal(t, "application/json", req.Headers["Content-Type"])

	envelope, err := base64.StdEncoding.DecodeString(req.Headers[HeaderPayload])
	require.NoError(t, err)
	assert.Equal(t, `{"market":"btctwd","state":["wait","done"],"nonce":1700000000000,"path":"/api/v2/orders"}`, string(envelope))
	assert.Equal(t, creds.Sign([]byte(req.Headers[HeaderPayload])), req.Headers[HeaderSignature])
}

func TestBuildRequest_Paginated(t *testing.T) {
	tests := []struct {
		name     string
		endpoint Endpoint
		query    string
	}{
		{"my trades", GetMyTrades{Market: "btctwd"}, "market=btctwd&nonce=1700000000000"},
		{"my trades paged", GetMyTrades{Market: "btctwd", PageParams: DefaultPage()}, "limit=50&market=btctwd&nonce=1700000000000&page=1"},
		{"deposits", GetDeposits{Currency: "twd"}, "currency=twd&nonce=1700000000000"},
		{"deposits paged", GetDeposits{Currency: "twd", PageParams: DefaultPage()}, "currency=twd&limit=50&nonce=1700000000000&page=1"},
		{"withdrawals", GetWithdrawals{Currency: "btc"}, "currency=btc&nonce=1700000000000"},
		{"withdrawals paged", GetWithdrawals{Currency: "btc", PageParams: DefaultPage()}, "currency=btc&limit=50&nonce=1700000000000&page=1"},
		{"orders", GetOrders{Market: "btctwd"}, "market=btctwd&nonce=1700000000000"},
		{"orders paged", GetOrders{Market: "btctwd", PageParams: &PageParams{Page: 2, Limit: 10}}, "limit=10&market=btctwd&nonce=1700000000000&page=2"},
		{"public trades", GetPublicTrades{Market: "btctwd"}, "market=btctwd&timestamp=0"},
		{"public trades paged", GetPublicTrades{Market: "btctwd", PageParams: DefaultPage()}, "limit=50&market=btctwd&page=1&timestamp=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := BuildRequest(fixedCredentials(testNonce), tt.endpoint)
			require.NoError(t, err)
			assert.Equal(t, tt.query, req.Query)

			if !req.RequireAuth {
				return
			}
			assert.ElementsMatch(t, signedKeys(t, req.Headers[HeaderPayload]), queryKeys(t, req.Query))
		})
	}
}

// signedKeys returns the keys of a signed envelope without path.
func signedKeys(t *testing.T, payload string) []string {
	t.Helper()

	envelope, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, sonic.Unmarshal(envelope, &fields))
	delete(fields, "path")
	return slices.Collect(maps.Keys(fields))
}

func queryKeys(t *testing.T, raw string) []string {
	t.Helper()

	values, err := url.ParseQuery(raw)
	require.NoError(t, err)

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, strings.TrimSuffix(k, "[]"))
	}
	return keys
}

func TestBuildRequest_PrivatePost(t *testing.T) {
	price := core.MustDecimal("1000000")

	req, err := BuildRequest(fixedCredentials(testNonce), CreateOrder{
		Market:  "btctwd",
		Side:    OrderSideBuy,
		Volume:  core.MustDecimal("0.01"),
		Price:   &price,
		OrdType: OrderTypeLimit,
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Empty(t, req.Query)
	assert.Equal(t, `{"market":"btctwd","side":"buy","volume":"0.01","price":"1000000","ord_type":"limit","nonce":1700000000000}`, string(req.Body))
	assert.Equal(t, "ab8f5705b6183132a6ee8ea46b6f7792ae83b9a4072bf25359c9e91148a6c85c", req.Headers[HeaderSignature])
	assert.Equal(t, "application/json", req.Headers["Content-Type"])
}

func TestBuildRequest_ConsumesNonce(t *testing.T) {
	creds := fixedCredentials(testNonce)

	first, err := BuildRequest(creds, GetAccounts{})
	require.NoError(t, err)
	second, err := BuildRequest(creds, GetAccounts{})
	require.NoError(t, err)

	assert.Equal(t, "nonce=1700000000000", first.Query)
	assert.Equal(t, "nonce=1700000000001", second.Query)
	assert.NotEqual(t, first.Headers[HeaderSignature], second.Headers[HeaderSignature])
}

func TestBuildRequest_Errors(t *testing.T) {
	t.Run("private without credentials", func(t *testing.T) {
		_, err := BuildRequest(nil, GetAccounts{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrNoCredentials))
	})

	t.Run("unsigned post", func(t *testing.T) {
		_, err := BuildRequest(nil, badEndpoint{Method: http.MethodPost})
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrInvalidParams))
	})

	t.Run("unsupported private method", func(t *testing.T) {
		_, err := BuildRequest(fixedCredentials(testNonce), badEndpoint{Private: true, Method: http.MethodDelete})
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrInvalidParams))
	})
}
