package max

import (
	"maxclient/pkg/core"
)

type errorEnvelope struct {
	Error *struct {
		Code    uint64 `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Unwrap parses body as the error envelope first and as T otherwise.
// A body matching neither shape is a *core.ReadResponseError.
func Unwrap[T any](statusCode int, body []byte) (T, error) {
	var zero T

	var env errorEnvelope
	if err := decoder.Unmarshal(body, &env); err == nil && env.Error != nil {
		return zero, core.NewAPIError(statusCode, env.Error.Code, env.Error.Message)
	}

	var result T
	if err := decoder.Unmarshal(body, &result); err != nil {
		return zero, &core.ReadResponseError{Body: body, Err: err}
	}
	return result, nil
}
