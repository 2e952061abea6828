package httpclient

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/offclient/logger"
)

const instrumentationName = "github.com/kbukum/offclient/httpclient"

// Option configures the instrumentation of a transport.
type Option func(*options)

type options struct {
	log *logger.Logger
	tp  trace.TracerProvider
	mp  metric.MeterProvider
}

// WithLogger sets the logger used for per-request debug lines.
// Transports are silent by default.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTracerProvider overrides the global OpenTelemetry tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tp = tp }
}

// WithMeterProvider overrides the global OpenTelemetry meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.mp = mp }
}

// instruments bundles the tracer, metrics, and logger of one transport.
type instruments struct {
	log      *logger.Logger
	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func newInstruments(opts []Option) *instruments {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Nop()
	}
	if o.tp == nil {
		o.tp = otel.GetTracerProvider()
	}
	if o.mp == nil {
		o.mp = otel.GetMeterProvider()
	}

	meter := o.mp.Meter(instrumentationName)
	// Creation only fails on invalid instrument names.
	requests, _ := meter.Int64Counter("offclient.http.requests",
		metric.WithDescription("Outbound HTTP requests by method and outcome"))
	duration, _ := meter.Float64Histogram("offclient.http.duration",
		metric.WithDescription("Outbound HTTP request duration"),
		metric.WithUnit("ms"))

	return &instruments{
		log:      o.log.WithComponent("httpclient"),
		tracer:   o.tp.Tracer(instrumentationName),
		requests: requests,
		duration: duration,
	}
}

func (in *instruments) start(ctx context.Context, p *prepared) (context.Context, trace.Span, time.Time) {
	ctx, span := in.tracer.Start(ctx, "HTTP "+p.method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", p.method),
			attribute.String("url.full", p.url),
			attribute.String("http.request.id", p.requestID),
		),
	)
	// W3C trace context for the remote service; a no-op until a
	// propagator is registered.
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(p.headers))
	return ctx, span, time.Now()
}

func (in *instruments) finish(ctx context.Context, span trace.Span, start time.Time, p *prepared, resp *Response, err error) {
	defer span.End()
	elapsed := time.Since(start)

	outcome := "transport_error"
	status := 0
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case resp.IsSuccess():
		outcome = "success"
		status = resp.StatusCode
	default:
		outcome = "http_error"
		status = resp.StatusCode
		span.SetStatus(codes.Error, "HTTP error status")
	}
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}

	attrs := metric.WithAttributes(
		attribute.String("http.request.method", p.method),
		attribute.String("outcome", outcome),
	)
	if in.requests != nil {
		in.requests.Add(ctx, 1, attrs)
	}
	if in.duration != nil {
		in.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
	}

	fields := logger.RequestFields(p.method, p.url, p.requestID, status, elapsed)
	if err != nil {
		in.log.Debug("request failed", logger.MergeWithError(fields, err))
		return
	}
	in.log.Debug("request completed", fields)
}
