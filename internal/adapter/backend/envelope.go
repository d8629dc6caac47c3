package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
)

// decodeList decodes a collection response into out (a pointer to a slice).
// The backend answers list endpoints in three shapes: a bare array,
// {"results": [...]} (paginated views) and {"data": [...]}.
func decodeList(body []byte, out any) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return fmt.Errorf("%w: empty body", domain.ErrMalformedResponse)
	}

	switch body[0] {
	case '[':
		return unmarshal(body, out)
	case '{':
		var env struct {
			Results json.RawMessage `json:"results"`
			Data    json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
		}
		for _, inner := range []json.RawMessage{env.Results, env.Data} {
			inner = bytes.TrimSpace(inner)
			if len(inner) > 0 && inner[0] == '[' {
				return unmarshal(inner, out)
			}
		}
		return fmt.Errorf("%w: object without a results or data array", domain.ErrMalformedResponse)
	default:
		return fmt.Errorf("%w: unexpected list payload", domain.ErrMalformedResponse)
	}
}

// decodeOne decodes a single-entity response: either the object itself or
// {"data": {...}}.
func decodeOne(body []byte, out any) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return fmt.Errorf("%w: expected an object", domain.ErrMalformedResponse)
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		inner := bytes.TrimSpace(env.Data)
		if len(inner) > 0 && inner[0] == '{' {
			return unmarshal(inner, out)
		}
	}
	return unmarshal(body, out)
}

func unmarshal(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return nil
}

// errorMessage extracts a human-readable message from an error body.
// It looks at "detail", "message" and "error" in that order, then at the
// first field error of a validation response ({"field": ["msg"]}).
func errorMessage(status int, body []byte) string {
	fallback := fmt.Sprintf("Request failed with status %d", status)
	if status == http.StatusNotFound {
		fallback = "Not found"
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return fallback
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return fallback
	}
	for _, key := range []string{"detail", "message", "error"} {
		if msg := firstString(fields[key]); msg != "" {
			return msg
		}
	}

	for _, key := range orderedKeys(body) {
		if msg := firstString(fields[key]); msg != "" {
			return key + ": " + msg
		}
	}
	return fallback
}

// firstString returns raw when it is a string, or the first string of an array.
func firstString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			if s := firstString(item); s != "" {
				return s
			}
		}
	}
	return ""
}

// orderedKeys returns the top-level keys of a JSON object in document order.
func orderedKeys(body []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(body))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
	}
	return keys
}
