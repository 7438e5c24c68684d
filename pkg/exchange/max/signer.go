package max

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"

	"maxclient/pkg/core"
)

// SignedPayload is the base64 canonical JSON and its hex HMAC-SHA256.
type SignedPayload struct {
	Payload   string
	Signature string
}

// canonicalJSON serializes params in field declaration order and appends
// "nonce" as the last key. A nil params value serializes as {}.
func canonicalJSON(params any, nonce uint64) ([]byte, error) {
	obj := []byte("{}")
	if params != nil {
		var err error
		obj, err = sonic.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrInvalidParams, err)
		}
	}
	return appendField(obj, "nonce", []byte(strconv.FormatUint(nonce, 10)))
}

// appendField splices "key":raw before the closing brace of a JSON object.
func appendField(obj []byte, key string, raw []byte) ([]byte, error) {
	obj = bytes.TrimSpace(obj)
	if len(obj) < 2 || obj[0] != '{' || obj[len(obj)-1] != '}' {
		return nil, fmt.Errorf("%w: params must serialize to a JSON object, got %q", core.ErrInvalidParams, obj)
	}

	out := make([]byte, 0, len(obj)+len(key)+len(raw)+4)
	out = append(out, obj[:len(obj)-1]...)
	if len(bytes.TrimSpace(obj[1:len(obj)-1])) > 0 {
		out = append(out, ',')
	}
	out = append(out, '"')
	out = append(out, key...)
	out = append(out, '"', ':')
	out = append(out, raw...)
	out = append(out, '}')
	return out, nil
}

// signREST returns the transmitted {params, nonce} JSON and the signature
// over {params, nonce, path}.
func signREST(creds *core.Credentials, params any, nonce uint64, path string) ([]byte, SignedPayload, error) {
	body, err := canonicalJSON(params, nonce)
	if err != nil {
		return nil, SignedPayload{}, err
	}

	quoted, err := sonic.Marshal(path)
	if err != nil {
		return nil, SignedPayload{}, fmt.Errorf("%w: %v", core.ErrInvalidParams, err)
	}
	envelope, err := appendField(body, "path", quoted)
	if err != nil {
		return nil, SignedPayload{}, err
	}

	return body, signPayload(creds, envelope), nil
}

func signPayload(creds *core.Credentials, envelope []byte) SignedPayload {
	payload := base64.StdEncoding.EncodeToString(envelope)
	return SignedPayload{
		Payload:   payload,
		Signature: creds.Sign([]byte(payload)),
	}
}
