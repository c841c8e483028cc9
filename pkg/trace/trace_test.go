package trace

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func withInMemoryProvider(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sr),
		sdktrace.WithResource(resource.Empty()),
	)
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestInitTracing_HTTP_NoopUsage(t *testing.T) {
	// HTTP exporter does not dial until spans are exported.
	cfg := &Config{
		Enabled:     true,
		ServiceName: "scentory-test",
		Protocol:    "http",
		Insecure:    true,
		SamplerRate: 2.5,
		Environment: "dev",
		Headers:     map[string]string{"x-test": "1"},
	}

	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := InitTracing(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitTracing_ResourceError(t *testing.T) {
	orig := newResource
	defer func() { newResource = orig }()
	newResource = func(ctx context.Context, options ...resource.Option) (*resource.Resource, error) {
		return nil, errors.New("resource creation failed")
	}

	shutdown, err := InitTracing(context.Background(), &Config{ServiceName: "x"}, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, shutdown)
	assert.Contains(t, err.Error(), "create resource")
}

func TestInitTracing_ExporterErrors(t *testing.T) {
	origHTTP, origGRPC := newOTLPTraceHTTP, newOTLPTraceGRPC
	defer func() {
		newOTLPTraceHTTP = origHTTP
		newOTLPTraceGRPC = origGRPC
	}()
	newOTLPTraceHTTP = func(ctx context.Context, options ...otlptracehttp.Option) (*otlptrace.Exporter, error) {
		return nil, errors.New("http exporter failed")
	}
	newOTLPTraceGRPC = func(ctx context.Context, options ...otlptracegrpc.Option) (*otlptrace.Exporter, error) {
		return nil, errors.New("grpc exporter failed")
	}

	for _, proto := range []string{"http", "grpc", ""} {
		shutdown, err := InitTracing(context.Background(), &Config{Protocol: proto}, zap.NewNop())
		assert.Error(t, err, proto)
		assert.Nil(t, shutdown)
		assert.Contains(t, err.Error(), "create exporter")
	}
}

func TestInitTracing_DefaultsToGRPC(t *testing.T) {
	origGRPC := newOTLPTraceGRPC
	defer func() { newOTLPTraceGRPC = origGRPC }()
	var dialed bool
	newOTLPTraceGRPC = func(ctx context.Context, options ...otlptracegrpc.Option) (*otlptrace.Exporter, error) {
		dialed = true
		return origGRPC(ctx, options...)
	}

	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := InitTracing(context.Background(), &Config{Insecure: true}, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, dialed)
	require.NoError(t, shutdown(context.Background()))
}

func TestUserID(t *testing.T) {
	sr := withInMemoryProvider(t)

	Tracer("trace-test").Start(context.Background(), "ledger.create").WithAttrs(UserID(42)).End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Attributes(), attribute.Int64("scentory.user_id", 42))
}

func TestClampRate(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1.5, 0}, {0, 0}, {0.7, 0.7}, {1, 1}, {1.5, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clampRate(tt.in))
	}
}

func TestBuilder_Start_WithAttrs_End(t *testing.T) {
	sr := withInMemoryProvider(t)

	scope := Tracer("trace-test").Start(context.Background(), "op")
	require.NotNil(t, scope)
	scope.WithAttrs(attribute.String("k", "v")).WithAttrs(attribute.Int("n", 1))
	scope.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "op", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("k", "v"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("n", 1))
}

func TestSpanScope_Fail(t *testing.T) {
	sr := withInMemoryProvider(t)

	scope := Tracer("trace-test").Start(context.Background(), "failing")
	assert.NoError(t, scope.Fail(nil))
	boom := errors.New("boom")
	assert.Equal(t, boom, scope.Fail(boom))
	scope.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
}

func TestSpanScope_NilSafety(t *testing.T) {
	var nilScope *SpanScope
	assert.Nil(t, nilScope.WithAttrs(attribute.String("key", "value")))
	assert.Error(t, nilScope.Fail(errors.New("x")))
	nilScope.End()

	scope := &SpanScope{Ctx: context.Background()}
	assert.Equal(t, scope, scope.WithAttrs(attribute.String("key", "value")))
	scope.End()
}
