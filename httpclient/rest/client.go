package rest

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kbukum/offclient/httpclient"
)

// Transport executes one HTTP request. *httpclient.Client and
// *httpclient.RestyTransport implement it; tests inject TransportFunc.
type Transport interface {
	Do(ctx context.Context, req httpclient.Request) (*httpclient.Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req httpclient.Request) (*httpclient.Response, error)

// Do calls f.
func (f TransportFunc) Do(ctx context.Context, req httpclient.Request) (*httpclient.Response, error) {
	return f(ctx, req)
}

// Call executes req on t and normalizes the outcome. A panicking transport
// is reported as a transport failure.
func Call[T any](ctx context.Context, t Transport, req httpclient.Request, shape Shape) (res Result[T]) {
	if t == nil {
		return Fail[T](transportFailure(fmt.Errorf("rest: no transport configured")))
	}
	defer func() {
		if r := recover(); r != nil {
			res = Fail[T](transportFailure(fmt.Errorf("rest: transport panic: %v", r)))
		}
	}()

	resp, err := t.Do(ctx, req)
	return Normalize[T](resp, err, shape)
}

// OK adapts a sentinel result to the boolean returned by mutation endpoints.
func OK(r Result[string]) bool {
	return r.IsSuccess()
}

// Client binds a Transport to a base URL and default auth.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	transport Transport
	baseURL   string
	auth      *httpclient.AuthConfig
	headers   map[string]string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the URL that request paths are joined to.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithDefaultAuth sets authentication applied to every request that does not
// override it.
func WithDefaultAuth(auth *httpclient.AuthConfig) ClientOption {
	return func(c *Client) { c.auth = auth }
}

// WithDefaultHeaders sets headers added to every request.
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) { c.headers = headers }
}

// NewClient creates a REST client on top of t.
func NewClient(t Transport, opts ...ClientOption) *Client {
	c := &Client{transport: t}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transport returns the underlying transport.
func (c *Client) Transport() Transport {
	return c.transport
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestOption configures a single REST request.
type RequestOption func(*httpclient.Request)

// WithQuery adds query parameters to the request.
func WithQuery(params map[string]string) RequestOption {
	return func(r *httpclient.Request) {
		if r.Query == nil {
			r.Query = make(map[string]string, len(params))
		}
		for k, v := range params {
			r.Query[k] = v
		}
	}
}

// WithQueryParam adds a single query parameter to the request.
func WithQueryParam(key, value string) RequestOption {
	return WithQuery(map[string]string{key: value})
}

// WithHeaders adds headers to the request.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *httpclient.Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			r.Headers[k] = v
		}
	}
}

// WithAuth overrides authentication for the request.
func WithAuth(auth *httpclient.AuthConfig) RequestOption {
	return func(r *httpclient.Request) {
		r.Auth = auth
	}
}

// NewRequest builds the request description for one call. The returned value
// is owned by the caller and is not retained by the client.
func (c *Client) NewRequest(method, path string, body any, opts ...RequestOption) httpclient.Request {
	req := httpclient.Request{
		Method: method,
		Path:   c.resolve(path),
		Body:   body,
		Auth:   c.auth,
	}
	if len(c.headers) > 0 {
		WithHeaders(c.headers)(&req)
	}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

func (c *Client) resolve(path string) string {
	if c.baseURL == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Get performs a GET request.
func Get[T any](ctx context.Context, c *Client, path string, shape Shape, opts ...RequestOption) Result[T] {
	return Call[T](ctx, c.transport, c.NewRequest(http.MethodGet, path, nil, opts...), shape)
}

// Post performs a POST request with the given body.
func Post[T any](ctx context.Context, c *Client, path string, body any, shape Shape, opts ...RequestOption) Result[T] {
	return Call[T](ctx, c.transport, c.NewRequest(http.MethodPost, path, body, opts...), shape)
}

// Put performs a PUT request with the given body.
func Put[T any](ctx context.Context, c *Client, path string, body any, shape Shape, opts ...RequestOption) Result[T] {
	return Call[T](ctx, c.transport, c.NewRequest(http.MethodPut, path, body, opts...), shape)
}

// Patch performs a PATCH request with the given body.
func Patch[T any](ctx context.Context, c *Client, path string, body any, shape Shape, opts ...RequestOption) Result[T] {
	return Call[T](ctx, c.transport, c.NewRequest(http.MethodPatch, path, body, opts...), shape)
}

// Delete performs a DELETE request.
func Delete[T any](ctx context.Context, c *Client, path string, shape Shape, opts ...RequestOption) Result[T] {
	return Call[T](ctx, c.transport, c.NewRequest(http.MethodDelete, path, nil, opts...), shape)
}
