package claude

import (
	"encoding/json"
	"fmt"
	"time"
)

// ProviderError is any failure reported by (or while talking to) the
// Claude.ai web API. StatusCode is 0 for transport-level failures.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string { return e.Message }

func transportError(err error) *ProviderError {
	return &ProviderError{Message: "API request failed: " + err.Error()}
}

// httpError maps upstream status codes to the messages users actually see.
// 429 bodies carry a nested JSON payload with the unix time the message
// limit resets at.
func httpError(status int, body []byte) *ProviderError {
	switch status {
	case 403:
		return &ProviderError{StatusCode: status, Message: "Received a 403 Forbidden error."}
	case 429:
		if msg, ok := rateLimitMessage(body); ok {
			return &ProviderError{StatusCode: status, Message: msg}
		}
		return &ProviderError{StatusCode: status, Message: "HTTP 429: Too Many Requests"}
	default:
		return &ProviderError{
			StatusCode: status,
			Message:    fmt.Sprintf("API request failed with status code %d: %s", status, body),
		}
	}
}

func rateLimitMessage(body []byte) (string, bool) {
	var outer struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &outer); err != nil {
		return "", false
	}
	// error.message is itself a JSON document
	var inner struct {
		ResetsAt int64 `json:"resetsAt"`
	}
	if err := json.Unmarshal([]byte(outer.Error.Message), &inner); err != nil || inner.ResetsAt == 0 {
		return "", false
	}
	resets := time.Unix(inner.ResetsAt, 0).Local()
	return "Message limit exceeded. Try again after " + resets.Format("Mon Jan 02 2006 15:04:05 MST-0700"), true
}
