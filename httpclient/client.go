package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/http2"
)

// HeaderRequestID carries the per-request correlation id.
const HeaderRequestID = "X-Request-ID"

// Client is the net/http transport.
type Client struct {
	httpClient *http.Client
	config     Config
	inst       *instruments
}

// New creates a new HTTP client with the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.ForceHTTP2 {
		if _, err := http2.ConfigureTransports(transport); err != nil {
			return nil, fmt.Errorf("httpclient: configure http2: %w", err)
		}
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		config: cfg,
		inst:   newInstruments(opts),
	}, nil
}

// Do executes a single HTTP request. A response is returned for every status
// code; the error is non-nil only for transport faults and is always *Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	p, err := prepare(&c.config, req)
	if err != nil {
		return nil, err
	}

	ctx, span, start := c.inst.start(ctx, p)
	resp, err := c.execute(ctx, p)
	c.inst.finish(ctx, span, start, p, resp, err)
	return resp, err
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (c *Client) Unwrap() *http.Client {
	return c.httpClient
}

func (c *Client) execute(ctx context.Context, p *prepared) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, p.method, p.url, p.body)
	if err != nil {
		return nil, NewInvalidRequestError(fmt.Sprintf("create request: %v", err), err)
	}
	for k, v := range p.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyFault(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyFault(ctx, fmt.Errorf("read response body: %w", err))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}, nil
}

// prepared is a transport-neutral, fully resolved request.
type prepared struct {
	method    string
	url       string
	body      io.Reader
	headers   map[string]string
	requestID string
}

// prepare resolves the URL, encodes the body, and merges headers and auth.
func prepare(cfg *Config, req Request) (*prepared, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target, err := encodeQuery(resolveURL(cfg.BaseURL, req.Path), req.Query)
	if err != nil {
		return nil, NewInvalidRequestError(fmt.Sprintf("parse url: %v", err), err)
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewInvalidRequestError(fmt.Sprintf("encode body: %v", err), err)
	}

	headers := make(map[string]string, len(cfg.Headers)+len(req.Headers)+4)
	headers["Accept"] = "application/json"
	if cfg.UserAgent != "" {
		headers["User-Agent"] = cfg.UserAgent
	}
	for k, v := range cfg.Headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}
	for k, v := range req.Headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}
	if body != nil && contentType != "" {
		if _, ok := headers["Content-Type"]; !ok {
			headers["Content-Type"] = contentType
		}
	}
	requestIDKey := http.CanonicalHeaderKey(HeaderRequestID)
	if _, ok := headers[requestIDKey]; !ok {
		headers[requestIDKey] = uuid.NewString()
	}

	// Request-level auth overrides client-level auth.
	auth := cfg.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	if v := auth.header(); v != "" {
		headers["Authorization"] = v
	}

	return &prepared{
		method:    method,
		url:       target,
		body:      body,
		headers:   headers,
		requestID: headers[requestIDKey],
	}, nil
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	case url.Values:
		return strings.NewReader(v.Encode()), "application/x-www-form-urlencoded", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
