package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequest(t *testing.T) {
	req := NewRequest("GET", "/api/v2/tickers")

	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/api/v2/tickers", req.Path)
	assert.NotNil(t, req.Headers)
	assert.Equal(t, 1, req.Weight)
	assert.False(t, req.RequireAuth)
}

func TestRequest_Setters(t *testing.T) {
	req := NewRequest("POST", "/api/v2/orders")

	assert.Equal(t, req, req.SetQuery("market=btctwd"))
	assert.Equal(t, req, req.SetBody([]byte(`{"nonce":1}`)))
	assert.Equal(t, req, req.SetHeader("X-MAX-ACCESSKEY", "key"))
	assert.Equal(t, req, req.SetRequireAuth(true))

	assert.Equal(t, "market=btctwd", req.Query)
	assert.Equal(t, `{"nonce":1}`, string(req.Body))
	assert.Equal(t, "key", req.Headers["X-MAX-ACCESSKEY"])
	assert.Equal(t, 1, req.Weight)
	assert.True(t, req.RequireAuth)
}

func TestRequest_SetHeader_NilMap(t *testing.T) {
	req := &Request{}
	req.SetHeader("Content-Type", "application/json")
	assert.Equal(t, "application/json", req.Headers["Content-Type"])
}

func TestRequest_URL(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		path  string
		query string
		want  string
	}{
		{"no_query", "https://max-api.maicoin.com", "/api/v2/markets", "", "https://max-api.maicoin.com/api/v2/markets"},
		{"trailing_slash", "https://max-api.maicoin.com/", "/api/v2/markets", "", "https://max-api.maicoin.com/api/v2/markets"},
		{"with_query", "http://127.0.0.1:8080", "/api/v2/depth", "limit=5&market=btctwd", "http://127.0.0.1:8080/api/v2/depth?limit=5&market=btctwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequest("GET", tt.path).SetQuery(tt.query)
			assert.Equal(t, tt.want, req.URL(tt.base))
		})
	}
}
