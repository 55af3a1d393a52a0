package postmark

import (
	"fmt"
	"net/http"
)

// TransportError is returned when the request did not produce an HTTP
// response: connection, TLS or timeout failures, or a canceled context.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("postmark: %s %s: request failed: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is returned when Postmark answered with non-2xx status.
//
// ErrorCode and Message come from the JSON error payload. If the payload
// could not be parsed, ErrorCode is 0 and Message holds the raw body.
type APIError struct {
	StatusCode int
	Status     string
	ErrorCode  int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.ErrorCode != 0 {
		return fmt.Sprintf("postmark: API returned HTTP status %s, error code %d: %s", e.status(), e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("postmark: API returned HTTP status %s: %s", e.status(), e.Message)
}

func (e *APIError) status() string {
	if e.Status != "" {
		return e.Status
	}
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// HttpCode returns HTTP status code of the response.
func (e *APIError) HttpCode() int {
	return e.StatusCode
}

// PostmarkCode returns the Postmark API error code.
func (e *APIError) PostmarkCode() int {
	return e.ErrorCode
}

// DecodeError is returned when Postmark accepted the request (2xx), but
// the response does not match the expected response type. It usually
// means the API and this client disagree about the schema.
type DecodeError struct {
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("postmark: failed to decode response with HTTP status %d: %v", e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
