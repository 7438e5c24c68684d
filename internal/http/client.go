package http

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"resty.dev/v3"

	"maxclient/pkg/core"
)

// Client executes prebuilt core.Request descriptors over resty.
type Client struct {
	client  *resty.Client
	baseURL string
	logger  zerolog.Logger
	mu      sync.RWMutex
	closed  bool
}

type Config struct {
	BaseURL    string            `validate:"required,url"`
	Timeout    time.Duration     `validate:"min=1ms"`
	MaxRetries int               `validate:"min=0"`
	Headers    map[string]string `validate:"omitempty"`
}

// Response is the status and raw body of an executed request. The body is
// returned whatever the status so the caller can parse error envelopes.
type Response struct {
	StatusCode int
	Body       []byte
}

var validate = validator.New()

func NewClient(config *Config) (*Client, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := resty.New()
	client.SetTimeout(config.Timeout)
	client.SetRetryCount(config.MaxRetries)
	for k, v := range config.Headers {
		client.SetHeader(k, v)
	}

	c := &Client{
		client:  client,
		baseURL: config.BaseURL,
		logger:  zerolog.Nop(),
	}

	client.AddRequestMiddleware(func(_ *resty.Client, req *resty.Request) error {
		c.log().Debug().
			Str("method", req.Method).
			Str("url", req.URL).
			Msg("http request")
		return nil
	})

	client.AddResponseMiddleware(func(_ *resty.Client, resp *resty.Response) error {
		c.log().Debug().
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Int("size", len(resp.Bytes())).
			Msg("http response")
		return nil
	})

	return c, nil
}

// SetLogger configures the logger used by the request/response middleware.
func (c *Client) SetLogger(logger zerolog.Logger) {
	c.mu.Lock()
	c.logger = logger
	c.mu.Unlock()
}

func (c *Client) log() *zerolog.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l := c.logger
	return &l
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.client.Close()
}

// Do sends req against the base URL. Transport failures are returned as
// errors; any HTTP status is returned as a Response.
func (c *Client) Do(ctx context.Context, req *core.Request) (*Response, error) {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return nil, core.ErrClientClosed
	}

	r := c.client.R().SetContext(ctx).SetHeaders(req.Headers)
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL(c.baseURL))
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Bytes(),
	}, nil
}
