package rest

import (
	"fmt"
	"strings"
)

// StatusTransport is the status code of a Failure that has no HTTP status:
// transport faults and malformed success bodies.
const StatusTransport = 0

// FailureKind classifies where a Failure originated. Callers are not required
// to inspect it; StatusCode and Details are populated for every kind.
type FailureKind int

const (
	// KindHTTP is a non-2xx response with an opaque body.
	KindHTTP FailureKind = iota
	// KindValidation is a non-2xx response carrying detail[].msg entries.
	KindValidation
	// KindTransport means no HTTP response arrived.
	KindTransport
	// KindMalformed is a 2xx response whose body did not match the shape.
	KindMalformed
)

// String returns the kind name.
func (k FailureKind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k FailureKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Violation is one entry of a validation error body.
type Violation struct {
	Type  string `json:"type,omitempty"`
	Loc   []any  `json:"loc,omitempty"`
	Msg   string `json:"msg"`
	Input any    `json:"input,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Failure is the normalized description of an unsuccessful call.
type Failure struct {
	// StatusCode is the HTTP status, or StatusTransport when none is available.
	StatusCode int `json:"status_code"`
	// Details are human-readable messages in server order. Never nil.
	Details []string `json:"details"`
	// Message is optional raw context (error body text, transport error class).
	Message string `json:"message,omitempty"`
	// Kind classifies the failure.
	Kind FailureKind `json:"kind"`
	// Violations holds the structured validation entries for KindValidation.
	Violations []Violation `json:"violations,omitempty"`
}

// Error implements the error interface.
func (f *Failure) Error() string {
	var b strings.Builder
	b.WriteString("rest: ")
	if f.StatusCode != StatusTransport {
		fmt.Fprintf(&b, "HTTP %d", f.StatusCode)
	} else {
		b.WriteString(f.Kind.String())
	}
	if len(f.Details) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(f.Details, "; "))
	}
	return b.String()
}

// Result holds either a payload of type T or a *Failure, never both.
type Result[T any] struct {
	value   T
	failure *Failure
}

// Success returns a successful result.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail returns a failed result. A nil failure is replaced by a transport
// failure so that the result is never ambiguous.
func Fail[T any](f *Failure) Result[T] {
	if f == nil {
		f = &Failure{
			StatusCode: StatusTransport,
			Details:    []string{"unknown failure"},
			Kind:       KindTransport,
		}
	}
	return Result[T]{failure: f}
}

// IsSuccess reports whether the result holds a payload.
func (r Result[T]) IsSuccess() bool {
	return r.failure == nil
}

// Value returns the payload, or the zero value of T for a failure.
func (r Result[T]) Value() T {
	return r.value
}

// Failure returns the failure, or nil for a success.
func (r Result[T]) Failure() *Failure {
	return r.failure
}

// Get returns the payload and whether the call succeeded.
func (r Result[T]) Get() (T, bool) {
	return r.value, r.failure == nil
}

// Unwrap converts the result into Go's (value, error) convention. The error
// is always a *Failure when non-nil.
func (r Result[T]) Unwrap() (T, error) {
	if r.failure != nil {
		var zero T
		return zero, r.failure
	}
	return r.value, nil
}
