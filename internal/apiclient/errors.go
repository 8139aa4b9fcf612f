package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a request the remote service rejected.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	// Detail is the human-readable reason the service gave, if any.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("movie API %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("movie API %s %s returned %d", e.Method, e.Path, e.StatusCode)
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	return &APIError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Detail:     extractDetail(body),
	}
}

// extractDetail pulls the message out of the usual error bodies:
// {"detail": ...}, {"error": ...}, {"non_field_errors": [...]}, or a field map.
func extractDetail(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}

	for _, key := range []string{"detail", "error", "non_field_errors", "message"} {
		if raw, ok := payload[key]; ok {
			if msg := flatten(raw); msg != "" {
				return msg
			}
		}
	}

	var parts []string
	for field, raw := range payload {
		if msg := flatten(raw); msg != "" {
			parts = append(parts, field+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}

func flatten(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return strings.Join(list, " ")
	}
	return ""
}

// Detail returns the remote service's message for err, or "" when err is not
// an API rejection.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// StatusCode returns the HTTP status of an API rejection, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether the service rejected the credentials.
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsNotFound reports whether the service answered 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
