// Package rest turns raw HTTP responses into typed results.
//
// Every call produces a Result[T]: either the payload unwrapped from a 2xx
// JSON body according to a Shape, or a *Failure carrying the status code
// and an ordered list of human-readable details. Transport faults, HTTP
// error statuses, validation errors, and malformed success bodies all
// arrive as *Failure; nothing panics across this boundary.
//
// # Shapes
//
//	rest.WholeBody()              // T is the whole body
//	rest.Field("name")            // T is body["name"], zero value if absent
//	rest.Wrapper("flags")         // T is body["flags"], Failure if absent
//	rest.Sentinel("ok")           // body must be the JSON string "ok"
//
// Neither bundled client uses Field; it is kept for callers of endpoints
// that return a single member of an object.
//
// # Usage
//
//	c := rest.NewClient(transport, rest.WithBaseURL("https://example.org/api"))
//	res := rest.Get[[]Flag](ctx, c, "/flags", rest.Wrapper("flags"))
//	flags, err := res.Unwrap()
package rest
