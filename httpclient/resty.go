package httpclient

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// RestyTransport implements the transport contract on top of go-resty.
// It honours the same Config (base URL, timeout, default headers, auth) as
// Client and never retries.
type RestyTransport struct {
	client *resty.Client
	config Config
	inst   *instruments
}

// NewResty creates a resty-backed transport.
func NewResty(cfg Config, opts ...Option) (*RestyTransport, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := resty.New()
	c.SetTimeout(cfg.Timeout)
	c.SetRetryCount(0)

	return &RestyTransport{
		client: c,
		config: cfg,
		inst:   newInstruments(opts),
	}, nil
}

// Do executes a single HTTP request. Semantics match Client.Do.
func (r *RestyTransport) Do(ctx context.Context, req Request) (*Response, error) {
	p, err := prepare(&r.config, req)
	if err != nil {
		return nil, err
	}

	ctx, span, start := r.inst.start(ctx, p)
	resp, err := r.execute(ctx, p)
	r.inst.finish(ctx, span, start, p, resp, err)
	return resp, err
}

// Unwrap returns the underlying *resty.Client for advanced use cases.
func (r *RestyTransport) Unwrap() *resty.Client {
	return r.client
}

func (r *RestyTransport) execute(ctx context.Context, p *prepared) (*Response, error) {
	rr := r.client.R().SetContext(ctx).SetHeaders(p.headers)
	if p.body != nil {
		rr.SetBody(p.body)
	}

	resp, err := rr.Execute(p.method, p.url)
	if err != nil {
		return nil, classifyFault(ctx, fmt.Errorf("%s %s: %w", p.method, p.url, err))
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Headers:    flattenHeaders(resp.Header()),
		Body:       resp.Body(),
	}, nil
}
