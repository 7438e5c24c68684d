package core

import "strings"

// Request is a fully built outbound call: everything the HTTP transport
// needs, already signed when RequireAuth is set.
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Query       string            `json:"query,omitempty"`
	Body        []byte            `json:"body,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Weight      int               `json:"weight"`
	RequireAuth bool              `json:"require_auth"`
}

func NewRequest(method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Headers: make(map[string]string),
		Weight:  1,
	}
}

// SetQuery sets the already encoded query string.
func (r *Request) SetQuery(query string) *Request {
	r.Query = query
	return r
}

func (r *Request) SetBody(body []byte) *Request {
	r.Body = body
	return r
}

func (r *Request) SetHeader(key, value string) *Request {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

func (r *Request) SetRequireAuth(require bool) *Request {
	r.RequireAuth = require
	return r
}

// URL joins base, path and query.
func (r *Request) URL(base string) string {
	u := strings.TrimRight(base, "/") + r.Path
	if r.Query != "" {
		u += "?" + r.Query
	}
	return u
}
