package rest

import "fmt"

// ShapeKind enumerates the closed set of success-body layouts.
type ShapeKind int

const (
	// ShapeWholeBody decodes the entire body.
	ShapeWholeBody ShapeKind = iota
	// ShapeField decodes one top-level field; an absent field yields the zero value.
	ShapeField
	// ShapeWrapper decodes the payload under a required wrapper key.
	ShapeWrapper
	// ShapeSentinel requires the body to be one fixed JSON string.
	ShapeSentinel
)

// Shape describes where the useful payload lives in a 2xx JSON body.
// It is plain data; the normalizer resolves it with a single switch.
type Shape struct {
	kind ShapeKind
	key  string
}

// WholeBody returns the shape for endpoints whose body is the payload.
func WholeBody() Shape {
	return Shape{kind: ShapeWholeBody}
}

// Field returns the shape for a named, optional top-level field.
func Field(name string) Shape {
	return Shape{kind: ShapeField, key: name}
}

// Wrapper returns the shape for a payload nested under a fixed key,
// such as "flags", "tickets", or "__data__".
func Wrapper(key string) Shape {
	return Shape{kind: ShapeWrapper, key: key}
}

// Sentinel returns the shape for mutation endpoints that answer with a fixed
// string (for example "ok") instead of a payload.
func Sentinel(value string) Shape {
	return Shape{kind: ShapeSentinel, key: value}
}

// Kind returns the shape variant.
func (s Shape) Kind() ShapeKind {
	return s.kind
}

// Key returns the field name, wrapper key, or sentinel value.
func (s Shape) Key() string {
	return s.key
}

// String implements fmt.Stringer.
func (s Shape) String() string {
	switch s.kind {
	case ShapeWholeBody:
		return "whole-body"
	case ShapeField:
		return fmt.Sprintf("field(%s)", s.key)
	case ShapeWrapper:
		return fmt.Sprintf("wrapper(%s)", s.key)
	case ShapeSentinel:
		return fmt.Sprintf("sentinel(%q)", s.key)
	default:
		return "unknown"
	}
}
