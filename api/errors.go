package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error is the normalized form of any non-2xx backend response and the sole
// error currency surfaced to callers of this package. Message carries the
// backend's "error" field verbatim; Suggestion and Details are optional hints.
type Error struct {
	StatusCode int
	Message    string
	Suggestion string
	Details    string
}

func (e *Error) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// IsAuthFailure reports whether the response carried an authorization rejection.
func (e *Error) IsAuthFailure() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// errorEnvelope is the backend's error response body.
type errorEnvelope struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion"`
	Details    string `json:"details"`
}

// newError builds an *Error from a non-2xx response body. A malformed or empty
// body degrades to a generic "HTTP error <status>" message, never a decode failure.
func newError(statusCode int, body []byte) *Error {
	apiErr := &Error{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("HTTP error %d", statusCode),
	}
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiErr
	}
	if envelope.Error != "" {
		apiErr.Message = envelope.Error
	}
	apiErr.Suggestion = envelope.Suggestion
	apiErr.Details = envelope.Details
	return apiErr
}
