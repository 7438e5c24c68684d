package max

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"maxclient/internal/circuitbreaker"
	mhttp "maxclient/internal/http"
	"maxclient/internal/ratelimit"
	"maxclient/pkg/core"
)

const (
	bucketPublic  = "public"
	bucketPrivate = "private"
)

// Client calls the MAX REST API. Public endpoints work without
// credentials; private ones return core.ErrNoCredentials.
type Client struct {
	http    *mhttp.Client
	creds   *core.Credentials
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.Breaker
	logger  zerolog.Logger
}

// NewClient validates config and builds a client. creds may be nil.
func NewClient(config *core.Config, creds *core.Credentials) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient, err := mhttp.NewClient(&mhttp.Config{
		BaseURL:    config.RESTURL,
		Timeout:    config.Timeout,
		MaxRetries: config.MaxRetries,
	})
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.New(config.RateLimitRequests, config.RateLimitPeriod)
	if config.PublicRateLimit > 0 {
		limiter.SetBucketLimit(bucketPublic, config.PublicRateLimit, config.RateLimitPeriod)
	}
	if config.PrivateRateLimit > 0 {
		limiter.SetBucketLimit(bucketPrivate, config.PrivateRateLimit, config.RateLimitPeriod)
	}

	return &Client{
		http:    httpClient,
		creds:   creds,
		limiter: limiter,
		logger:  zerolog.Nop(),
		breaker: circuitbreaker.New(circuitbreaker.Config{
			Threshold: config.BreakerThreshold,
			Cooldown:  config.BreakerCooldown,
		}),
	}, nil
}

// SetLogger configures the logger for the client and its transport.
func (c *Client) SetLogger(logger zerolog.Logger) {
	c.logger = logger
	c.http.SetLogger(logger)
}

func (c *Client) Close() error {
	return c.http.Close()
}

// Metrics is a snapshot of the client's rate limiter and circuit breaker.
type Metrics struct {
	RateLimit ratelimit.MetricsSnapshot
	Breaker   circuitbreaker.MetricsSnapshot
}

func (c *Client) Metrics() Metrics {
	return Metrics{
		RateLimit: c.limiter.Metrics(),
		Breaker:   c.breaker.Metrics(),
	}
}

// Credentials returns the credentials used for private calls, or nil.
func (c *Client) Credentials() *core.Credentials {
	return c.creds
}

// Call builds, sends and unwraps one request. The response is decoded as T.
func Call[T any](ctx context.Context, c *Client, ep Endpoint) (T, error) {
	var zero T

	route := ep.Route()
	bucket := bucketPublic
	if route.Private {
		bucket = bucketPrivate
	}

	req, err := BuildRequest(c.creds, ep)
	if err != nil {
		return zero, err
	}
	if err := c.limiter.Wait(ctx, bucket, req.Weight); err != nil {
		return zero, fmt.Errorf("rate limit: %w", err)
	}

	if err := c.breaker.Allow(); err != nil {
		return zero, fmt.Errorf("%s %s: %w", route.Method, route.Path, err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		if ctx.Err() == nil {
			c.breaker.Record(false)
		}
		return zero, err
	}
	c.breaker.Record(resp.StatusCode < http.StatusInternalServerError)

	result, err := Unwrap[T](resp.StatusCode, resp.Body)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("method", route.Method).
			Str("path", route.Path).
			Int("status", resp.StatusCode).
			Msg("max request failed")
		return zero, err
	}
	return result, nil
}

func (c *Client) Timestamp(ctx context.Context) (Timestamp, error) {
	return Call[Timestamp](ctx, c, GetTimestamp{})
}

func (c *Client) Currencies(ctx context.Context) ([]Currency, error) {
	return Call[[]Currency](ctx, c, GetCurrencies{})
}

func (c *Client) VIPLevels(ctx context.Context) ([]VIPLevel, error) {
	return Call[[]VIPLevel](ctx, c, GetVIPLevels{})
}

func (c *Client) VIPLevel(ctx context.Context, level uint8) (VIPLevel, error) {
	return Call[VIPLevel](ctx, c, GetVIPByLevel{Level: level})
}

func (c *Client) Markets(ctx context.Context) ([]Market, error) {
	return Call[[]Market](ctx, c, GetMarkets{})
}

func (c *Client) Tickers(ctx context.Context) (map[string]Ticker, error) {
	return Call[map[string]Ticker](ctx, c, GetTickers{})
}

func (c *Client) Ticker(ctx context.Context, market string) (Ticker, error) {
	return Call[Ticker](ctx, c, GetTicker{Market: market})
}

func (c *Client) Depth(ctx context.Context, params GetDepth) (Depth, error) {
	return Call[Depth](ctx, c, params)
}

func (c *Client) OHLC(ctx context.Context, params GetOHLC) ([]OHLC, error) {
	return Call[[]OHLC](ctx, c, params)
}

func (c *Client) PublicTrades(ctx context.Context, params GetPublicTrades) ([]TradeRecord, error) {
	return Call[[]TradeRecord](ctx, c, params)
}

func (c *Client) WithdrawalConstraints(ctx context.Context, currency string) ([]WithdrawalConstraint, error) {
	return Call[[]WithdrawalConstraint](ctx, c, GetWithdrawalConstraints{Currency: currency})
}

func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	return Call[[]Account](ctx, c, GetAccounts{})
}

func (c *Client) Account(ctx context.Context, currency string) (Account, error) {
	return Call[Account](ctx, c, GetAccountOfCurrency{Currency: currency})
}

func (c *Client) Order(ctx context.Context, params GetOrder) (Order, error) {
	return Call[Order](ctx, c, params)
}

func (c *Client) Orders(ctx context.Context, params GetOrders) ([]Order, error) {
	return Call[[]Order](ctx, c, params)
}

func (c *Client) CreateOrder(ctx context.Context, params CreateOrder) (Order, error) {
	return Call[Order](ctx, c, params)
}

func (c *Client) DeleteOrder(ctx context.Context, params DeleteOrder) (Order, error) {
	return Call[Order](ctx, c, params)
}

func (c *Client) ClearOrders(ctx context.Context, params ClearOrders) ([]Order, error) {
	return Call[[]Order](ctx, c, params)
}

func (c *Client) MyTrades(ctx context.Context, params GetMyTrades) ([]TradeRecord, error) {
	return Call[[]TradeRecord](ctx, c, params)
}

func (c *Client) Deposits(ctx context.Context, params GetDeposits) ([]Deposit, error) {
	return Call[[]Deposit](ctx, c, params)
}

func (c *Client) Withdrawals(ctx context.Context, params GetWithdrawals) ([]Withdrawal, error) {
	return Call[[]Withdrawal](ctx, c, params)
}
