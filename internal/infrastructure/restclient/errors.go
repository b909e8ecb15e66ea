package restclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const fallbackMessage = "request failed"

// HTTPError is returned for any non-2xx backend response.
type HTTPError struct {
	Status  int
	Message string
	Body    string
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// NewHTTPError builds an HTTPError from a raw response body. The message is
// the JSON "message" field, then "error", then the raw text, then a generic
// failure string.
func NewHTTPError(status int, body []byte) *HTTPError {
	text := strings.TrimSpace(string(body))
	return &HTTPError{
		Status:  status,
		Message: extractMessage(text),
		Body:    text,
	}
}

func extractMessage(text string) string {
	if text == "" {
		return fallbackMessage
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text), &payload); err == nil {
		if msg := stringField(payload["message"]); msg != "" {
			return msg
		}
		if msg := stringField(payload["error"]); msg != "" {
			return msg
		}
	}
	return text
}

func stringField(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		// {"error": {"code": "...", "message": "..."}}
		if msg, ok := t["message"].(string); ok {
			return msg
		}
	}
	return ""
}

// AsHTTPError unwraps err into an *HTTPError
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// IsNotFound reports a backend 404
func IsNotFound(err error) bool {
	he, ok := AsHTTPError(err)
	return ok && he.Status == http.StatusNotFound
}
