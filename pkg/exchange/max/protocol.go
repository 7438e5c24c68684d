package max

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/go-querystring/query"

	"maxclient/pkg/core"
)

const (
	HeaderAccessKey = "X-MAX-ACCESSKEY"
	HeaderPayload   = "X-MAX-PAYLOAD"
	HeaderSignature = "X-MAX-SIGNATURE"
)

// Route locates an endpoint. Private routes are signed.
type Route struct {
	Method  string
	Path    string
	Private bool
}

// Endpoint is a request parameter struct. Its json tags give the signing
// order and its url tags give the query encoding.
type Endpoint interface {
	Route() Route
}

// BuildRequest assembles the request descriptor for ep. Private endpoints
// consume one nonce from creds.
func BuildRequest(creds *core.Credentials, ep Endpoint) (*core.Request, error) {
	route := ep.Route()
	req := core.NewRequest(route.Method, route.Path)

	if !route.Private {
		if route.Method != http.MethodGet {
			return nil, fmt.Errorf("%w: unsigned %s %s", core.ErrInvalidParams, route.Method, route.Path)
		}
		qs, err := encodeQuery(ep)
		if err != nil {
			return nil, err
		}
		return req.SetQuery(qs), nil
	}

	if creds == nil {
		return nil, fmt.Errorf("%s %s: %w", route.Method, route.Path, core.ErrNoCredentials)
	}

	nonce := creds.Nonce()
	body, signed, err := signREST(creds, ep, nonce, route.Path)
	if err != nil {
		return nil, err
	}

	switch route.Method {
	case http.MethodGet:
		qs, err := encodeQuery(ep, "nonce", strconv.FormatUint(nonce, 10))
		if err != nil {
			return nil, err
		}
		req.SetQuery(qs)
	case http.MethodPost:
		req.SetBody(body)
	default:
		return nil, fmt.Errorf("%w: unsupported method %s", core.ErrInvalidParams, route.Method)
	}

	return req.
		SetRequireAuth(true).
		SetHeader(HeaderAccessKey, creds.AccessKey()).
		SetHeader(HeaderPayload, signed.Payload).
		SetHeader(HeaderSignature, signed.Signature).
		SetHeader("Content-Type", "application/json"), nil
}

// encodeQuery renders ep's url tags plus extra key/value pairs.
func encodeQuery(ep Endpoint, extra ...string) (string, error) {
	values, err := query.Values(ep)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrInvalidParams, err)
	}
	for i := 0; i+1 < len(extra); i += 2 {
		values.Set(extra[i], extra[i+1])
	}
	return values.Encode(), nil
}
