package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the category of a MAX API error.
type ErrorType int

const (
	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeAuthentication indicates a rejected key, payload, nonce or signature.
	ErrorTypeAuthentication
	// ErrorTypeBadRequest indicates invalid request parameters.
	ErrorTypeBadRequest
	// ErrorTypeNotFound indicates the requested resource does not exist.
	ErrorTypeNotFound
	// ErrorTypeRateLimit indicates the rate limit was exceeded.
	ErrorTypeRateLimit
	// ErrorTypeServerError indicates a server-side failure.
	ErrorTypeServerError
)

func (t ErrorType) String() string {
	return [...]string{
		"UNKNOWN",
		"AUTHENTICATION",
		"BAD_REQUEST",
		"NOT_FOUND",
		"RATE_LIMIT",
		"SERVER_ERROR",
	}[t]
}

// Sentinel errors for common error conditions.
var (
	// ErrClientClosed is returned when attempting to use a closed client.
	ErrClientClosed = errors.New("client is closed")
	// ErrNotConnected is returned when the websocket is not connected.
	ErrNotConnected = errors.New("websocket not connected")
	// ErrNoCredentials is returned when a private call has no credentials.
	ErrNoCredentials = errors.New("no credentials configured")
	// ErrInvalidParams is returned when request parameters cannot be serialized.
	ErrInvalidParams = errors.New("invalid request params")
	// ErrUnknownEvent is returned for an unrecognized (event, channel) pair.
	ErrUnknownEvent = errors.New("unknown event")
)

// APIError is an explicit rejection returned by the MAX API in the
// {"error": {"code": ..., "message": ...}} envelope.
type APIError struct {
	Code       uint64    `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Type       ErrorType `json:"-"`
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("[max] %s (%d/%d): %s", e.Type, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("[max] %s (%d): %s", e.Type, e.Code, e.Message)
}

// NewAPIError builds an APIError and classifies it from the MAX code range
// and the HTTP status.
func NewAPIError(statusCode int, code uint64, message string) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Type:       classifyAPIError(statusCode, code),
	}
}

func classifyAPIError(statusCode int, code uint64) ErrorType {
	switch {
	case code >= 2000 && code < 3000:
		return ErrorTypeAuthentication
	case statusCode == 401 || statusCode == 403:
		return ErrorTypeAuthentication
	case statusCode == 404:
		return ErrorTypeNotFound
	case statusCode == 429:
		return ErrorTypeRateLimit
	case statusCode >= 500:
		return ErrorTypeServerError
	case code >= 1000 && code < 4000, statusCode >= 400:
		return ErrorTypeBadRequest
	}
	return ErrorTypeUnknown
}

// ReadResponseError reports a body that parsed as neither the success
// payload nor the error envelope.
type ReadResponseError struct {
	Body []byte
	Err  error
}

func (e *ReadResponseError) Error() string {
	return fmt.Sprintf("read response: %v", e.Err)
}

func (e *ReadResponseError) Unwrap() error {
	return e.Err
}

// InvalidValueError reports a literal outside a closed enumeration.
type InvalidValueError struct {
	Value    string
	Expected []string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q, expected one of [%s]", e.Value, strings.Join(e.Expected, ", "))
}

// EventError reports a push frame that could not be classified or whose
// body did not match the selected variant.
type EventError struct {
	EventType string
	Channel   string
	Err       error
}

func (e *EventError) Error() string {
	return fmt.Sprintf("event %q on channel %q: %v", e.EventType, e.Channel, e.Err)
}

func (e *EventError) Unwrap() error {
	return e.Err
}

// IsAPIError returns true if err carries a structured API rejection.
func IsAPIError(err error) bool {
	var e *APIError
	return errors.As(err, &e)
}

// IsAuthenticationError returns true if the API rejected the credentials.
// Authentication errors are not retryable.
func IsAuthenticationError(err error) bool {
	var e *APIError
	if errors.As(err, &e) {
		return e.Type == ErrorTypeAuthentication
	}
	return false
}

// IsRateLimitError returns true if the API rejected the call for rate.
func IsRateLimitError(err error) bool {
	var e *APIError
	if errors.As(err, &e) {
		return e.Type == ErrorTypeRateLimit
	}
	return false
}

// IsReadResponseError returns true if the body could not be parsed.
func IsReadResponseError(err error) bool {
	var e *ReadResponseError
	return errors.As(err, &e)
}

// IsInvalidValueError returns true if err wraps an InvalidValueError.
func IsInvalidValueError(err error) bool {
	var e *InvalidValueError
	return errors.As(err, &e)
}
