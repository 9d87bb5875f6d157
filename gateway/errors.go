package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrTokenMissing is returned when a verify response succeeds but carries no
// access_token field.
var ErrTokenMissing = errors.New("access token not found in response")

// sessionExpiredMessage is what callers show on a 401. The gateway does not
// clear the session itself; the next CheckSession pass reacts to it.
const sessionExpiredMessage = "session expired, please sign in again"

// genericFailureMessage covers transport-level failures where no response
// reached us.
const genericFailureMessage = "something went wrong"

// APIError is the single error shape every HTTP failure is normalized into.
// Detail carries the backend's structured validation message verbatim;
// Message is the human-readable fallback. Status is 0 when no response was
// received.
type APIError struct {
	Status  int
	Detail  string
	Message string

	cause error
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Status > 0 {
		return http.StatusText(e.Status)
	}
	return genericFailureMessage
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// SessionExpired reports whether the failure was an authorization rejection.
func (e *APIError) SessionExpired() bool {
	return e.Status == http.StatusUnauthorized
}

// wireError mirrors the backend's error body. detail is either a plain
// string or a list of {msg} objects (validation errors).
type wireError struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

func transportError(err error) *APIError {
	return &APIError{Message: genericFailureMessage, cause: err}
}

func responseError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var wire wireError
	if err := json.Unmarshal(body, &wire); err == nil {
		apiErr.Message = wire.Message
		apiErr.Detail = decodeDetail(wire.Detail)
	}

	if status == http.StatusUnauthorized && apiErr.Detail == "" && apiErr.Message == "" {
		apiErr.Message = sessionExpiredMessage
	}
	return apiErr
}

// decodeDetail extracts a printable message from the backend's detail field,
// which is either a string or [{"msg": "..."}, ...].
func decodeDetail(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &list); err == nil {
		out := ""
		for _, item := range list {
			if item.Msg == "" {
				continue
			}
			if out != "" {
				out += "; "
			}
			out += item.Msg
		}
		return out
	}

	return ""
}
