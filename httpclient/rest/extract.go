package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxMessageLen bounds the raw body text copied into Failure.Message.
const maxMessageLen = 512

// errorShape is the closed set of recognised error-body layouts. New server
// formats get their own case instead of being merged into errorShapeOpaque.
type errorShape int

const (
	// errorShapeOpaque is anything unrecognised, including absent or invalid JSON.
	errorShapeOpaque errorShape = iota
	// errorShapeValidation is {"detail": [{"msg": "...", ...}, ...]}.
	errorShapeValidation
)

// StatusMessage is the synthetic detail used when no details can be extracted.
func StatusMessage(statusCode int) string {
	return fmt.Sprintf("Status code %d", statusCode)
}

// Extract builds the Failure for a non-2xx response. It never panics:
// unparseable or unrecognised bodies degrade to the synthetic status message.
func Extract(body []byte, statusCode int) *Failure {
	shape, violations, message := classifyErrorBody(body)

	switch shape {
	case errorShapeValidation:
		details := make([]string, 0, len(violations))
		for _, v := range violations {
			details = append(details, v.Msg)
		}
		return &Failure{
			StatusCode: statusCode,
			Details:    details,
			Kind:       KindValidation,
			Violations: violations,
		}
	default:
		return &Failure{
			StatusCode: statusCode,
			Details:    []string{StatusMessage(statusCode)},
			Message:    message,
			Kind:       KindHTTP,
		}
	}
}

// classifyErrorBody matches body against the known error layouts. For opaque
// bodies it returns a best-effort message: the string of a FastAPI
// {"detail": "..."} body, a bare JSON string, or the raw text.
func classifyErrorBody(body []byte) (errorShape, []Violation, string) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return errorShapeOpaque, nil, ""
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil || obj == nil {
		return errorShapeOpaque, nil, opaqueMessage(trimmed)
	}

	raw, ok := obj["detail"]
	if !ok {
		return errorShapeOpaque, nil, opaqueMessage(trimmed)
	}
	if violations, ok := parseViolations(raw); ok {
		return errorShapeValidation, violations, ""
	}

	var detail string
	if isJSONString(raw) && json.Unmarshal(raw, &detail) == nil {
		return errorShapeOpaque, nil, truncate(detail)
	}
	return errorShapeOpaque, nil, opaqueMessage(trimmed)
}

// parseViolations accepts raw only if it is an array whose every element is
// an object with a string "msg".
func parseViolations(raw json.RawMessage) ([]Violation, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}

	violations := make([]Violation, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			return nil, false
		}
		if msg, ok := fields["msg"]; !ok || !isJSONString(msg) {
			return nil, false
		}

		var v Violation
		if err := json.Unmarshal(item, &v); err != nil {
			// Unexpected types in optional members; keep the message only.
			v = Violation{}
			_ = json.Unmarshal(fields["msg"], &v.Msg)
		}
		violations = append(violations, v)
	}
	return violations, true
}

func opaqueMessage(body []byte) string {
	if isJSONString(body) {
		var s string
		if json.Unmarshal(body, &s) == nil {
			return truncate(s)
		}
	}
	if bytes.Equal(body, []byte("null")) {
		return ""
	}
	return truncate(string(body))
}

func isJSONString(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) >= 2 && raw[0] == '"'
}

// truncate makes s valid UTF-8 and cuts it to maxMessageLen bytes on a rune
// boundary.
func truncate(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if len(s) <= maxMessageLen {
		return s
	}
	n := maxMessageLen
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
