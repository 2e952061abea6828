package logger

import (
	"time"
)

// Field keys shared by every log line the clients write.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldEndpoint  = "endpoint"

	// Request fields, written by the transports.
	FieldMethod    = "method"
	FieldURL       = "url"
	FieldRequestID = "request_id"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"

	// FieldKind is the failure kind of a normalized call.
	FieldKind = "kind"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	log.Debug("call failed", logger.Fields(logger.FieldOperation, "get_keys"))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// RequestFields describes one finished HTTP exchange. status is 0 when no
// response arrived.
func RequestFields(method, url, requestID string, status int, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldMethod:    method,
		FieldURL:       url,
		FieldRequestID: requestID,
		FieldStatus:    status,
		FieldDuration:  d.Milliseconds(),
	}
}

// CallFields describes the outcome of a client operation. kind is empty on
// success.
func CallFields(op string, status int, kind string) map[string]interface{} {
	m := map[string]interface{}{FieldOperation: op}
	if kind != "" {
		m[FieldStatus] = status
		m[FieldKind] = kind
	}
	return m
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}
