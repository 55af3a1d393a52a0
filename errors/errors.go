// Package errors lists error codes of Postmark API and provides errors
// carrying them.
//
// Client side, use Code or Is to inspect errors returned by calls:
//
//	if errors.Is(err, errors.InactiveRecipient) { ... }
//
// Server side (fake servers in tests), return CodeError from handlers:
// the transport encodes it as Postmark error payload with its HTTP status.
package errors

import (
	goerrors "errors"
	"fmt"
	"net/http"
)

// Postmark API error codes.
const (
	InvalidAPIToken         = 10
	InvalidEmailRequest     = 300
	SenderSignatureNotFound = 400
	InvalidJSON             = 402
	IncompatibleJSON        = 403
	NotAllowedToSend        = 405
	InactiveRecipient       = 406
	JSONRequired            = 409
	TooManyBatchMessages    = 410
	ForbiddenAttachmentType = 411
	MessageStreamNotFound   = 1226
)

type CodeError struct {
	status int
	code   int
	err    error
}

func (e *CodeError) Error() string {
	return e.err.Error()
}

func (e *CodeError) Unwrap() error {
	return e.err
}

func (e *CodeError) HttpCode() int {
	return e.status
}

func (e *CodeError) PostmarkCode() int {
	return e.code
}

// New returns an error with HTTP status and Postmark error code.
func New(status, code int, format string, a ...interface{}) *CodeError {
	return &CodeError{
		status: status,
		code:   code,
		err:    fmt.Errorf(format, a...),
	}
}

// Unauthorized means the API token is missing or not valid.
func Unauthorized(format string, a ...interface{}) *CodeError {
	return New(http.StatusUnauthorized, InvalidAPIToken, format, a...)
}

// Unprocessable is what Postmark returns for most rejected requests:
// HTTP 422 with an error code describing the problem.
func Unprocessable(code int, format string, a ...interface{}) *CodeError {
	return New(http.StatusUnprocessableEntity, code, format, a...)
}

// NotFound is returned for unknown resources, e.g. a server ID.
func NotFound(code int, format string, a ...interface{}) *CodeError {
	return New(http.StatusNotFound, code, format, a...)
}

// Internal means the request failed on Postmark side.
func Internal(format string, a ...interface{}) *CodeError {
	return New(http.StatusInternalServerError, 0, format, a...)
}

type postmarkError interface {
	PostmarkCode() int
}

// Code returns Postmark error code found in the chain of err, 0 if none.
func Code(err error) int {
	var pmErr postmarkError
	if goerrors.As(err, &pmErr) {
		return pmErr.PostmarkCode()
	}
	return 0
}

// Is reports whether an error in the chain of err carries Postmark error
// code. Errors without a Postmark code never match, not even code 0.
func Is(err error, code int) bool {
	var pmErr postmarkError
	return goerrors.As(err, &pmErr) && pmErr.PostmarkCode() == code
}
