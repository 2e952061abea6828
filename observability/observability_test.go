package observability

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/offclient/logger"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("offctl")

	if cfg.ServiceName != "offctl" {
		t.Errorf("expected ServiceName 'offctl', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
	if cfg.Enabled {
		t.Error("expected tracing to be disabled by default")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("offctl")

	if cfg.ServiceName != "offctl" {
		t.Errorf("expected ServiceName 'offctl', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tc := range tests {
		if got := sampler(tc.rate).Description(); got != tc.want {
			t.Errorf("sampler(%v) = %s, want %s", tc.rate, got, tc.want)
		}
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("offctl", "1.2.3", "staging")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := map[string]string{}
	for _, kv := range res.Attributes() {
		found[string(kv.Key)] = kv.Value.Emit()
	}
	if found["service.name"] != "offctl" || found["service.version"] != "1.2.3" || found["environment"] != "staging" {
		t.Errorf("unexpected attributes %v", found)
	}
}

func TestInitTracer(t *testing.T) {
	cfg := DefaultTracerConfig("offctl")
	cfg.SampleRate = 0.5

	var buf logBuffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, &buf, "test")

	tp, err := InitTracer(context.Background(), cfg, log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer shutdown(tp.Shutdown)

	if otel.GetTracerProvider() != tp {
		t.Error("expected tracer provider to be registered globally")
	}
	if buf.Len() == 0 {
		t.Error("expected a debug line")
	}
}

func TestInitMeter(t *testing.T) {
	cfg := DefaultMeterConfig("offctl")
	cfg.Insecure = false
	cfg.Interval = 0

	mp, err := InitMeter(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer shutdown(mp.Shutdown)

	if otel.GetMeterProvider() != mp {
		t.Error("expected meter provider to be registered globally")
	}
	if Meter("test") == nil {
		t.Error("expected a meter")
	}
}

func TestStartSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	ctx, span := StartSpan(context.Background(), "offctl folksonomy keys")
	SetSpanError(ctx, errors.New("boom"))
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "offctl folksonomy keys" {
		t.Errorf("unexpected span name %s", spans[0].Name())
	}
	if len(spans[0].Events()) != 1 {
		t.Errorf("expected one error event, got %d", len(spans[0].Events()))
	}
}

func TestSetSpanErrorNoSpan(t *testing.T) {
	SetSpanError(context.Background(), errors.New("ignored"))
}

func TestServiceHealth_AddComponent(t *testing.T) {
	sh := NewServiceHealth("offctl", "1.0.0")
	if sh.Status != HealthStatusUp {
		t.Fatalf("expected up, got %s", sh.Status)
	}

	sh.AddComponent(Health{Name: "folksonomy", Status: HealthStatusUp})
	if sh.Status != HealthStatusUp {
		t.Errorf("expected up, got %s", sh.Status)
	}
	sh.AddComponent(Health{Name: "a", Status: HealthStatusDegraded})
	if sh.Status != HealthStatusDegraded {
		t.Errorf("expected degraded, got %s", sh.Status)
	}
	sh.AddComponent(Health{Name: "b", Status: HealthStatusDown})
	sh.AddComponent(Health{Name: "c", Status: HealthStatusDegraded})
	if sh.Status != HealthStatusDown {
		t.Errorf("expected degraded not to override down, got %s", sh.Status)
	}
	if len(sh.Components) != 4 {
		t.Errorf("expected 4 components, got %d", len(sh.Components))
	}
}

func TestCheckAll(t *testing.T) {
	up := HealthCheckFunc(func(context.Context) Health {
		return Health{Name: "folksonomy", Status: HealthStatusUp}
	})
	down := HealthCheckFunc(func(context.Context) Health {
		time.Sleep(10 * time.Millisecond)
		return Health{Name: "nutripatrol", Status: HealthStatusDown, Message: "HTTP 500"}
	})

	sh := CheckAll(context.Background(), "offctl", "1.0.0", down, up)
	if sh.Status != HealthStatusDown {
		t.Errorf("expected down, got %s", sh.Status)
	}
	if len(sh.Components) != 2 || sh.Components[0].Name != "nutripatrol" || sh.Components[1].Name != "folksonomy" {
		t.Errorf("expected results in checker order, got %+v", sh.Components)
	}
}

// shutdown gives exporters a short deadline; no collector is listening.
func shutdown(fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = fn(ctx)
}

// logBuffer is a concurrency-safe bytes.Buffer for log assertions.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}
