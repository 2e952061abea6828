package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kbukum/offclient/httpclient"
)

// MalformedBodyDetail is the single detail of a KindMalformed failure.
const MalformedBodyDetail = "Malformed response body"

var errNoResponse = errors.New("transport returned neither a response nor an error")

// Normalize converts the outcome of one transport call into a Result.
//
//   - err != nil: transport fault, StatusTransport
//   - non-2xx: Extract(body, status)
//   - 2xx: the payload located by shape, or a KindMalformed failure
func Normalize[T any](resp *httpclient.Response, err error, shape Shape) Result[T] {
	if err != nil {
		return Fail[T](transportFailure(err))
	}
	if resp == nil {
		return Fail[T](transportFailure(errNoResponse))
	}
	if !resp.IsSuccess() {
		return Fail[T](Extract(resp.Body, resp.StatusCode))
	}

	v, uerr := unwrap[T](resp.Body, shape)
	if uerr != nil {
		return Fail[T](&Failure{
			StatusCode: StatusTransport,
			Details:    []string{MalformedBodyDetail},
			Message:    fmt.Sprintf("HTTP %d: %v", resp.StatusCode, uerr),
			Kind:       KindMalformed,
		})
	}
	return Success(v)
}

func transportFailure(err error) *Failure {
	f := &Failure{
		StatusCode: StatusTransport,
		Details:    []string{err.Error()},
		Kind:       KindTransport,
	}
	var he *httpclient.Error
	if errors.As(err, &he) {
		f.Message = he.Code.String()
	}
	return f
}

// unwrap locates and decodes the payload of a 2xx body.
func unwrap[T any](body []byte, shape Shape) (T, error) {
	var zero T
	trimmed := bytes.TrimSpace(body)

	switch shape.kind {
	case ShapeWholeBody:
		if len(trimmed) == 0 {
			return zero, nil
		}
		return decode[T](trimmed)

	case ShapeField, ShapeWrapper:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return zero, fmt.Errorf("expected a JSON object: %w", err)
		}
		if obj == nil {
			return zero, errors.New("expected a JSON object, got null")
		}
		raw, ok := obj[shape.key]
		if !ok {
			if shape.kind == ShapeField {
				return zero, nil
			}
			return zero, fmt.Errorf("missing wrapper key %q", shape.key)
		}
		return decode[T](raw)

	case ShapeSentinel:
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			// Some servers answer the sentinel as bare text.
			s = string(trimmed)
		}
		if s != shape.key {
			return zero, fmt.Errorf("expected sentinel %q", shape.key)
		}
		quoted, _ := json.Marshal(s)
		return decode[T](quoted)

	default:
		return zero, fmt.Errorf("unknown shape %d", shape.kind)
	}
}

func decode[T any](raw []byte) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode payload: %w", err)
	}
	return v, nil
}
