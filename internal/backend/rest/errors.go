package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrRequestFailed is the user-facing error every call surfaces once its
// retries are used up. The specific cause is wrapped alongside it.
var ErrRequestFailed = errors.New("something bad happened; please try again later")

// APIError is an HTTP error response.
type APIError struct {
	StatusCode int

	// StatusText is the reason phrase of the response.
	StatusText string

	// Message is the normalized error message. It is empty when the caller
	// asked to skip error interception.
	Message string

	// Body is the raw response body.
	Body []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.StatusText
}

// RequestError reports a call that failed on every attempt.
type RequestError struct {
	Method   string
	Path     string
	Attempts int
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s failed after %d attempt(s): %v", e.Method, e.Path, e.Attempts, e.Err)
}

// Unwrap exposes both ErrRequestFailed and the last attempt's cause.
func (e *RequestError) Unwrap() []error {
	return []error{ErrRequestFailed, e.Err}
}

// Detail returns the most specific message available for err: the
// normalized API message when there is one, else err's own text.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Err.Error()
	}
	return err.Error()
}

func statusText(res *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(res.Status, strconv.Itoa(res.StatusCode)))
	if text == "" {
		text = http.StatusText(res.StatusCode)
	}
	return text
}

// normalizeMessage unwraps an error body to its most specific message.
// A plain-text or JSON string body is used as is. For a JSON object the
// "error" member is used: an object yields its "message" (or its compact
// JSON), an array its elements joined by newlines, a string itself.
// Anything else falls back to the status text.
func normalizeMessage(status string, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return status
	}

	var decoded any
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return string(trimmed)
	}

	switch v := decoded.(type) {
	case string:
		return v
	case map[string]any:
		switch inner := v["error"].(type) {
		case map[string]any:
			if msg, ok := inner["message"].(string); ok && msg != "" {
				return msg
			}
			data, err := json.Marshal(inner)
			if err != nil {
				return status
			}
			return string(data)
		case []any:
			parts := make([]string, 0, len(inner))
			for _, item := range inner {
				if s, ok := item.(string); ok {
					parts = append(parts, s)
				} else {
					parts = append(parts, fmt.Sprint(item))
				}
			}
			return strings.Join(parts, "\n")
		case string:
			return inner
		}
	}
	return status
}
