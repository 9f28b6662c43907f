package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response decoded from the backend error envelope.
type APIError struct {
	Status  int      `json:"-"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// errorEnvelope covers the response shapes the backend has used for errors:
// {"error": {...}}, {"message": "..."}, {"detail": "..."} and
// {"errors": ["...", ...]}.
type errorEnvelope struct {
	Error   *APIError `json:"error"`
	Message string    `json:"message"`
	Detail  string    `json:"detail"`
	Errors  []string  `json:"errors"`
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		switch {
		case env.Error != nil:
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		case env.Detail != "":
			apiErr.Message = env.Detail
		case env.Message != "":
			apiErr.Message = env.Message
		case len(env.Errors) > 0:
			apiErr.Message = env.Errors[0]
			apiErr.Details = env.Errors
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// TransportError is a request that never produced an HTTP response: connection
// refused, DNS failure, timeout.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "request failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status of an APIError, or 0 for transport errors
// and nil.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsAuthError reports an explicit unauthorized status (401).
func IsAuthError(err error) bool { return StatusOf(err) == http.StatusUnauthorized }

// IsPermissionError reports a forbidden status (403).
func IsPermissionError(err error) bool { return StatusOf(err) == http.StatusForbidden }

// IsLockedError reports a locked-account status (423).
func IsLockedError(err error) bool { return StatusOf(err) == http.StatusLocked }

// IsNotFoundError reports a 404 status.
func IsNotFoundError(err error) bool { return StatusOf(err) == http.StatusNotFound }

// IsValidationError reports a 400 or 422 status.
func IsValidationError(err error) bool {
	s := StatusOf(err)
	return s == http.StatusBadRequest || s == http.StatusUnprocessableEntity
}

// IsServerError reports any 5xx status.
func IsServerError(err error) bool { return StatusOf(err) >= 500 }

// IsTransportError reports a network-level failure with no HTTP response.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
