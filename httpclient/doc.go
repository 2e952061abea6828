// Package httpclient is the transport layer shared by the Folksonomy and
// NutriPatrol clients.
//
// A transport executes exactly one HTTP request per call and hands back the
// raw response for every status code. Only faults that prevent a response
// from arriving (connection refused, DNS, timeout, cancelled context) are
// reported through the error return, as a typed *Error.
//
// Two implementations share the same contract:
//
//   - Client: net/http with a cloned default transport (optionally HTTP/2)
//   - RestyTransport: go-resty
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.folksonomy.openfoodfacts.org",
//	    Timeout: 10 * time.Second,
//	    Auth:    httpclient.BearerAuth("my-token"),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/keys",
//	})
package httpclient
