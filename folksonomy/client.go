package folksonomy

import (
	"context"
	"net/url"
	"strconv"

	"github.com/kbukum/offclient/httpclient"
	"github.com/kbukum/offclient/httpclient/rest"
	"github.com/kbukum/offclient/logger"
)

const (
	// DefaultBaseURL is the production Folksonomy Engine.
	DefaultBaseURL = "https://api.folksonomy.openfoodfacts.org"
	// StagingBaseURL is the staging Folksonomy Engine.
	StagingBaseURL = "https://api.folksonomy.openfoodfacts.net"
)

// sentinelOK is the body of a successful mutation.
const sentinelOK = "ok"

// Config configures a client built by New.
type Config struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	Token   string `yaml:"token" mapstructure:"token"`
}

// Option configures a Client.
type Option func(*options)

type options struct {
	baseURL string
	token   string
	log     *logger.Logger
}

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithToken sets the access token sent as a bearer token.
func WithToken(token string) Option {
	return func(o *options) { o.token = token }
}

// WithLogger sets the logger for debug call traces.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// Client calls the Folksonomy Engine. It holds no mutable state and is safe
// for concurrent use.
type Client struct {
	rest *rest.Client
	log  *logger.Logger
}

// NewWithTransport creates a client that sends every request through t.
func NewWithTransport(t rest.Transport, opts ...Option) *Client {
	o := options{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Nop()
	}
	return &Client{
		rest: rest.NewClient(t,
			rest.WithBaseURL(o.baseURL),
			rest.WithDefaultAuth(httpclient.BearerAuth(o.token)),
		),
		log: o.log.WithComponent("folksonomy"),
	}
}

// New creates a client on the default net/http transport. Options are
// applied after cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	base := []Option{WithToken(cfg.Token)}
	if cfg.BaseURL != "" {
		base = append(base, WithBaseURL(cfg.BaseURL))
	}
	opts = append(base, opts...)

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	var hopts []httpclient.Option
	if o.log != nil {
		hopts = append(hopts, httpclient.WithLogger(o.log))
	}
	t, err := httpclient.New(httpclient.Config{}, hopts...)
	if err != nil {
		return nil, err
	}
	return NewWithTransport(t, opts...), nil
}

// BaseURL returns the URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.rest.BaseURL()
}

// Ping checks that the service is up.
func (c *Client) Ping(ctx context.Context) rest.Result[Ping] {
	return traced(c, "ping", rest.Get[Ping](ctx, c.rest, "/ping", rest.WholeBody()))
}

// GetKeys lists every tag key with its usage counts.
func (c *Client) GetKeys(ctx context.Context) rest.Result[[]Key] {
	return traced(c, "get_keys", rest.Get[[]Key](ctx, c.rest, "/keys", rest.WholeBody()))
}

// GetValues lists the distinct values of key.
func (c *Client) GetValues(ctx context.Context, key string) rest.Result[[]Value] {
	return traced(c, "get_values",
		rest.Get[[]Value](ctx, c.rest, "/values/"+url.PathEscape(key), rest.WholeBody()))
}

// GetProducts lists the products tagged with key, filtered by value when it
// is not empty.
func (c *Client) GetProducts(ctx context.Context, key, value string) rest.Result[[]ProductTag] {
	return traced(c, "get_products",
		rest.Get[[]ProductTag](ctx, c.rest, "/products", rest.WholeBody(), keyValueQuery(key, value)))
}

// GetProductStats lists per-product tag statistics, optionally filtered by
// key and value.
func (c *Client) GetProductStats(ctx context.Context, key, value string) rest.Result[[]ProductStats] {
	return traced(c, "get_product_stats",
		rest.Get[[]ProductStats](ctx, c.rest, "/products/stats", rest.WholeBody(), keyValueQuery(key, value)))
}

// GetProduct returns every tag of a product.
func (c *Client) GetProduct(ctx context.Context, barcode string) rest.Result[[]Tag] {
	return traced(c, "get_product",
		rest.Get[[]Tag](ctx, c.rest, productPath(barcode), rest.WholeBody()))
}

// GetProductTag returns the current version of one tag of a product.
func (c *Client) GetProductTag(ctx context.Context, barcode, key string) rest.Result[Tag] {
	return traced(c, "get_product_tag",
		rest.Get[Tag](ctx, c.rest, productPath(barcode, key), rest.WholeBody()))
}

// GetTagVersions returns the edit history of one tag of a product.
func (c *Client) GetTagVersions(ctx context.Context, barcode, key string) rest.Result[[]Tag] {
	return traced(c, "get_tag_versions",
		rest.Get[[]Tag](ctx, c.rest, productPath(barcode, key)+"/versions", rest.WholeBody()))
}

// AddTag creates a new tag and reports whether the service accepted it.
func (c *Client) AddTag(ctx context.Context, tag Tag) bool {
	return rest.OK(c.AddTagResult(ctx, tag))
}

// AddTagResult is AddTag with the failure details preserved.
func (c *Client) AddTagResult(ctx context.Context, tag Tag) rest.Result[string] {
	return traced(c, "add_tag",
		rest.Post[string](ctx, c.rest, "/product", tag, rest.Sentinel(sentinelOK)))
}

// PutTag updates an existing tag. tag.Version must be the current version
// plus one.
func (c *Client) PutTag(ctx context.Context, tag Tag) bool {
	return rest.OK(c.PutTagResult(ctx, tag))
}

// PutTagResult is PutTag with the failure details preserved.
func (c *Client) PutTagResult(ctx context.Context, tag Tag) rest.Result[string] {
	return traced(c, "put_tag",
		rest.Put[string](ctx, c.rest, "/product", tag, rest.Sentinel(sentinelOK)))
}

// RemoveTag deletes a tag. tag.Version must be the current version.
func (c *Client) RemoveTag(ctx context.Context, tag Tag) bool {
	return rest.OK(c.RemoveTagResult(ctx, tag))
}

// RemoveTagResult is RemoveTag with the failure details preserved.
func (c *Client) RemoveTagResult(ctx context.Context, tag Tag) rest.Result[string] {
	return traced(c, "remove_tag",
		rest.Delete[string](ctx, c.rest, productPath(tag.Product, tag.Key), rest.Sentinel(sentinelOK),
			rest.WithQueryParam("version", strconv.Itoa(tag.Version))))
}

// Login exchanges credentials for an access token. The configured token, if
// any, is not sent.
func (c *Client) Login(ctx context.Context, username, password string) rest.Result[Token] {
	form := url.Values{
		"username": {username},
		"password": {password},
	}
	return traced(c, "login",
		rest.Post[Token](ctx, c.rest, "/auth", form, rest.WholeBody(), rest.WithAuth(httpclient.NoAuth())))
}

func productPath(barcode string, key ...string) string {
	p := "/product/" + url.PathEscape(barcode)
	for _, k := range key {
		p += "/" + url.PathEscape(k)
	}
	return p
}

func keyValueQuery(key, value string) rest.RequestOption {
	return rest.WithQuery(map[string]string{"k": key, "v": value})
}

// traced writes a debug line for the outcome of one call.
func traced[T any](c *Client, op string, r rest.Result[T]) rest.Result[T] {
	if f := r.Failure(); f != nil {
		c.log.Debug("call failed", logger.CallFields(op, f.StatusCode, f.Kind.String()))
		return r
	}
	c.log.Debug("call succeeded", logger.CallFields(op, 0, ""))
	return r
}
