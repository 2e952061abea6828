// Package folksonomy is a typed client for the Open Food Facts Folksonomy
// Engine, the service that stores free-form key/value tags on products.
//
// Read endpoints return a rest.Result with the decoded payload. Mutations
// (AddTag, PutTag, RemoveTag) answer with the JSON string "ok" and are exposed
// as booleans, with a ...Result twin that keeps the failure details:
//
//	c := folksonomy.NewWithTransport(transport, folksonomy.WithToken(tok))
//	keys, err := c.GetKeys(ctx).Unwrap()
//	if !c.AddTag(ctx, folksonomy.Tag{Product: "3017620422003", Key: "color", Value: "red"}) {
//		// inspect c.AddTagResult(ctx, tag).Failure() for details
//	}
//
// Login exchanges credentials for a Token; store it and pass it back through
// WithToken for authenticated calls.
package folksonomy
