package httpclient

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCode classifies transport faults.
type ErrorCode int

const (
	// ErrCodeTimeout indicates a request timeout or a cancelled context.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a connection failure (refused, DNS, reset, etc).
	ErrCodeConnection
	// ErrCodeInvalidRequest indicates the request could not be built or encoded.
	ErrCodeInvalidRequest
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// Error is a transport fault: the request never produced an HTTP response.
type Error struct {
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Err: err}
}

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Err: err}
}

// NewInvalidRequestError creates an error for a request that could not be sent.
func NewInvalidRequestError(msg string, err error) *Error {
	return &Error{Code: ErrCodeInvalidRequest, Message: msg, Err: err}
}

// classifyFault converts an error returned while sending a request into a
// typed transport fault.
func classifyFault(ctx context.Context, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || isNetTimeout(err) {
		return NewTimeoutError(err)
	}
	return NewConnectionError(err)
}

// isNetTimeout reports whether err carries a Timeout() signal (net.Error, url.Error).
func isNetTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTimeout
}

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeConnection
}

// IsInvalidRequest checks if an error is a request construction error.
func IsInvalidRequest(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeInvalidRequest
}
