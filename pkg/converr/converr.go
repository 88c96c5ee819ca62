// Package converr defines the typed failure conditions shared by every
// conversion operation. All of them are recoverable by the caller; nothing
// in this module panics on bad media input.
package converr

import (
	"errors"
	"fmt"
)

// Code identifies a class of conversion failure.
type Code string

const (
	// CodeMimeRejected means the content type was refused by the allow-list.
	CodeMimeRejected Code = "MIME_REJECTED"

	// CodeSizeExceeded means the payload is over the configured ceiling,
	// detected either before work starts or mid-transfer.
	CodeSizeExceeded Code = "SIZE_EXCEEDED"

	// CodeDecodeFailed means the text input was not valid base64.
	CodeDecodeFailed Code = "DECODE_FAILED"

	// CodeHTTPStatus means the remote server answered with a non-2xx status.
	CodeHTTPStatus Code = "HTTP_STATUS"

	// CodeTransportFailed means the network failed during the request or
	// while streaming the body.
	CodeTransportFailed Code = "TRANSPORT_FAILED"

	// CodeReadFailed means the platform file read failed.
	CodeReadFailed Code = "READ_FAILED"
)

// Error is a structured conversion failure. Op names the public operation
// that failed so messages are diagnosable without a stack trace.
type Error struct {
	Code       Code
	Op         string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithOp returns a copy of the error attributed to the given operation.
// Errors bubbling up from inner packages get stamped at the facade.
func (e *Error) WithOp(op string) *Error {
	clone := *e
	clone.Op = op
	return &clone
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error carrying an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// NewHTTPStatus creates the non-2xx status failure, keeping the code for
// callers that branch on it.
func NewHTTPStatus(statusCode int) *Error {
	return &Error{
		Code:       CodeHTTPStatus,
		Message:    fmt.Sprintf("unexpected HTTP status %d", statusCode),
		StatusCode: statusCode,
	}
}

// CodeOf extracts the conversion code from err, or "" when err is not a
// conversion failure.
func CodeOf(err error) Code {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsCode reports whether err carries the given conversion code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// StatusOf extracts the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.StatusCode
	}
	return 0
}
