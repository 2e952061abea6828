package nutripatrol

import (
	"context"
	"strconv"

	"github.com/kbukum/offclient/httpclient"
	"github.com/kbukum/offclient/httpclient/rest"
	"github.com/kbukum/offclient/logger"
)

const (
	// DefaultBaseURL is the production NutriPatrol API.
	DefaultBaseURL = "https://nutripatrol.openfoodfacts.org/api/v1"
	// StagingBaseURL is the staging NutriPatrol API.
	StagingBaseURL = "https://nutripatrol.openfoodfacts.net/api/v1"
)

// Wrapper keys of the success bodies.
const (
	keyFlags         = "flags"
	keyData          = "__data__"
	keyTicketToFlags = "ticket_id_to_flags"
	keyTickets       = "tickets"
)

// Config configures a client built by New.
type Config struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
}

// Option configures a Client.
type Option func(*options)

type options struct {
	baseURL string
	log     *logger.Logger
}

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithLogger sets the logger for debug call traces.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// Client calls the NutriPatrol API. It holds no mutable state and is safe
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
		rest: rest.NewClient(t, rest.WithBaseURL(o.baseURL)),
		log:  o.log.WithComponent("nutripatrol"),
	}
}

// New creates a client on the default net/http transport. Options are
// applied after cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL != "" {
		opts = append([]Option{WithBaseURL(cfg.BaseURL)}, opts...)
	}

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

// GetFlags lists all flags.
func (c *Client) GetFlags(ctx context.Context) rest.Result[[]Flag] {
	return traced(c, "get_flags",
		rest.Get[[]Flag](ctx, c.rest, "/flags", rest.Wrapper(keyFlags)))
}

// GetFlagByID returns one flag.
func (c *Client) GetFlagByID(ctx context.Context, id int) rest.Result[Flag] {
	return traced(c, "get_flag",
		rest.Get[Flag](ctx, c.rest, "/flags/"+strconv.Itoa(id), rest.Wrapper(keyData)))
}

// CreateFlag raises a flag. The service attaches it to a new or existing
// ticket and answers with the stored flag.
func (c *Client) CreateFlag(ctx context.Context, flag Flag) rest.Result[Flag] {
	return traced(c, "create_flag",
		rest.Post[Flag](ctx, c.rest, "/flags", flag, rest.WholeBody()))
}

// GetFlagsByTicketBatch returns the flags of each ticket, keyed by ticket id.
func (c *Client) GetFlagsByTicketBatch(ctx context.Context, ticketIDs []int) rest.Result[map[int][]Flag] {
	if ticketIDs == nil {
		ticketIDs = []int{}
	}
	body := map[string][]int{"ticket_ids": ticketIDs}
	return traced(c, "get_flags_by_ticket_batch",
		rest.Post[map[int][]Flag](ctx, c.rest, "/flags/batch", body, rest.Wrapper(keyTicketToFlags)))
}

// GetTickets lists tickets matching q.
func (c *Client) GetTickets(ctx context.Context, q TicketQuery) rest.Result[[]Ticket] {
	return traced(c, "get_tickets",
		rest.Get[[]Ticket](ctx, c.rest, "/tickets", rest.Wrapper(keyTickets), rest.WithQuery(q.params())))
}

// GetTicketByID returns one ticket.
func (c *Client) GetTicketByID(ctx context.Context, id int) rest.Result[Ticket] {
	return traced(c, "get_ticket",
		rest.Get[Ticket](ctx, c.rest, "/tickets/"+strconv.Itoa(id), rest.WholeBody()))
}

// CreateTicket opens a ticket directly, without a flag.
func (c *Client) CreateTicket(ctx context.Context, ticket Ticket) rest.Result[Ticket] {
	return traced(c, "create_ticket",
		rest.Post[Ticket](ctx, c.rest, "/tickets", ticket, rest.WholeBody()))
}

// UpdateTicketStatus moves a ticket to status and returns the updated ticket.
func (c *Client) UpdateTicketStatus(ctx context.Context, id int, status TicketStatus) rest.Result[Ticket] {
	return traced(c, "update_ticket_status",
		rest.Put[Ticket](ctx, c.rest, "/tickets/"+strconv.Itoa(id)+"/status", nil, rest.WholeBody(),
			rest.WithQueryParam("status", string(status))))
}

// GetAPIStatus checks that the service is up.
func (c *Client) GetAPIStatus(ctx context.Context) rest.Result[APIStatus] {
	return traced(c, "get_api_status",
		rest.Get[APIStatus](ctx, c.rest, "/status", rest.WholeBody()))
}

func traced[T any](c *Client, op string, r rest.Result[T]) rest.Result[T] {
	if f := r.Failure(); f != nil {
		c.log.Debug("call failed", logger.CallFields(op, f.StatusCode, f.Kind.String()))
		return r
	}
	c.log.Debug("call succeeded", logger.CallFields(op, 0, ""))
	return r
}
